package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Storage keeps games, users, statistics and invitations in process memory.
// Updates of one game are serialized by a per-game mutex, different games proceed in parallel.
type Storage struct {
	mu sync.RWMutex

	games      map[string]*entity.Game
	gameLocks  map[string]*sync.Mutex
	statistics map[string]*entity.Statistic
	users      map[string]*entity.User
	usernames  map[string]string

	invitations map[string]*entity.Invitation
}

func NewStorage() *Storage {
	return &Storage{
		games:      make(map[string]*entity.Game),
		gameLocks:  make(map[string]*sync.Mutex),
		statistics: make(map[string]*entity.Statistic),
		users:      make(map[string]*entity.User),
		usernames:  make(map[string]string),

		invitations: make(map[string]*entity.Invitation),
	}
}

type GameRepository struct {
	storage *Storage
}

func NewGameRepository(storage *Storage) *GameRepository {
	return &GameRepository{storage: storage}
}

func (that *GameRepository) Create(_ context.Context, game *entity.Game) error {
	that.storage.mu.Lock()
	defer that.storage.mu.Unlock()

	if _, ok := that.storage.games[game.ID]; ok {
		return fmt.Errorf("game %s already exists", game.ID)
	}

	that.storage.games[game.ID] = game.Clone()
	that.storage.gameLocks[game.ID] = &sync.Mutex{}

	return nil
}

func (that *GameRepository) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.storage.mu.RLock()
	defer that.storage.mu.RUnlock()

	game, ok := that.storage.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	return game.Clone(), nil
}

func (that *GameRepository) ListByPlayerID(_ context.Context, playerID string) ([]*entity.Game, error) {
	that.storage.mu.RLock()
	defer that.storage.mu.RUnlock()

	player := entity.Human(playerID)

	games := make([]*entity.Game, 0)
	for _, game := range that.storage.games {
		if game.HasParticipant(player) {
			games = append(games, game.Clone())
		}
	}

	sort.Slice(games, func(i, j int) bool {
		if games[i].StartedAt.Equal(games[j].StartedAt) {
			return games[i].ID > games[j].ID
		}
		return games[i].StartedAt.After(games[j].StartedAt)
	})

	return games, nil
}

// Update runs fn on a copy of the game while holding the game's lock.
// The copy and the returned results are committed together only when fn succeeds.
func (that *GameRepository) Update(
	ctx context.Context,
	id string,
	fn func(game *entity.Game) ([]entity.Result, error),
) (*entity.Game, error) {
	that.storage.mu.RLock()
	lock, ok := that.storage.gameLocks[id]
	that.storage.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	lock.Lock()
	defer lock.Unlock()

	game, err := that.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	results, err := fn(game)
	if err != nil {
		return nil, err
	}

	that.storage.mu.Lock()
	defer that.storage.mu.Unlock()

	that.storage.games[id] = game.Clone()
	for _, result := range results {
		that.storage.recordResult(result)
	}

	return game, nil
}

type StatisticRepository struct {
	storage *Storage
}

func NewStatisticRepository(storage *Storage) *StatisticRepository {
	return &StatisticRepository{storage: storage}
}

func (that *StatisticRepository) GetByPlayerID(_ context.Context, playerID string) (*entity.Statistic, error) {
	that.storage.mu.RLock()
	defer that.storage.mu.RUnlock()

	stat, ok := that.storage.statistics[playerID]
	if !ok {
		return entity.NewStatistic(playerID), nil
	}

	clone := *stat
	return &clone, nil
}

// RecordResult applies one result on its own. Finished games reach the statistics
// through GameRepository.Update, which commits them with the final move.
func (that *StatisticRepository) RecordResult(_ context.Context, result entity.Result) error {
	that.storage.mu.Lock()
	defer that.storage.mu.Unlock()

	that.storage.recordResult(result)

	return nil
}

// recordResult expects mu to be held for writing.
func (that *Storage) recordResult(result entity.Result) {
	stat, ok := that.statistics[result.PlayerID]
	if !ok {
		stat = entity.NewStatistic(result.PlayerID)
		that.statistics[result.PlayerID] = stat
	}

	stat.Apply(result.Outcome)
}

type UserRepository struct {
	storage *Storage
}

func NewUserRepository(storage *Storage) *UserRepository {
	return &UserRepository{storage: storage}
}

func (that *UserRepository) Create(_ context.Context, user *entity.User) error {
	that.storage.mu.Lock()
	defer that.storage.mu.Unlock()

	if _, ok := that.storage.usernames[user.Username]; ok {
		return fmt.Errorf("%w: %s", apperror.ErrUserAlreadyExists, user.Username)
	}

	clone := *user
	that.storage.users[user.ID] = &clone
	that.storage.usernames[user.Username] = user.ID

	return nil
}

func (that *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	that.storage.mu.RLock()
	defer that.storage.mu.RUnlock()

	return that.storage.userByID(id)
}

func (that *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	that.storage.mu.RLock()
	defer that.storage.mu.RUnlock()

	id, ok := that.storage.usernames[username]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, username)
	}

	return that.storage.userByID(id)
}

func (that *Storage) userByID(id string) (*entity.User, error) {
	user, ok := that.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, id)
	}

	clone := *user
	return &clone, nil
}

type InvitationRepository struct {
	storage *Storage
}

func NewInvitationRepository(storage *Storage) *InvitationRepository {
	return &InvitationRepository{storage: storage}
}

func (that *InvitationRepository) Create(_ context.Context, invitation *entity.Invitation) error {
	that.storage.mu.Lock()
	defer that.storage.mu.Unlock()

	if _, ok := that.storage.invitations[invitation.ID]; ok {
		return fmt.Errorf("invitation %s already exists", invitation.ID)
	}

	clone := *invitation
	that.storage.invitations[invitation.ID] = &clone

	return nil
}

func (that *InvitationRepository) GetByID(_ context.Context, id string) (*entity.Invitation, error) {
	that.storage.mu.RLock()
	defer that.storage.mu.RUnlock()

	return that.storage.invitationByID(id)
}

// ListByReceiverID returns the invitations sent to the user, newest first.
func (that *InvitationRepository) ListByReceiverID(_ context.Context, receiverID string) ([]*entity.Invitation, error) {
	that.storage.mu.RLock()
	defer that.storage.mu.RUnlock()

	invitations := make([]*entity.Invitation, 0)
	for _, invitation := range that.storage.invitations {
		if invitation.ReceiverID == receiverID {
			clone := *invitation
			invitations = append(invitations, &clone)
		}
	}

	sort.Slice(invitations, func(i, j int) bool {
		if invitations[i].CreatedAt.Equal(invitations[j].CreatedAt) {
			return invitations[i].ID > invitations[j].ID
		}
		return invitations[i].CreatedAt.After(invitations[j].CreatedAt)
	})

	return invitations, nil
}

// Update runs fn on a copy of the invitation under the storage lock and stores it when fn succeeds.
func (that *InvitationRepository) Update(
	_ context.Context,
	id string,
	fn func(invitation *entity.Invitation) error,
) (*entity.Invitation, error) {
	that.storage.mu.Lock()
	defer that.storage.mu.Unlock()

	invitation, err := that.storage.invitationByID(id)
	if err != nil {
		return nil, err
	}

	if err = fn(invitation); err != nil {
		return nil, err
	}

	clone := *invitation
	that.storage.invitations[id] = &clone

	return invitation, nil
}

func (that *Storage) invitationByID(id string) (*entity.Invitation, error) {
	invitation, ok := that.invitations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvitationNotFound, id)
	}

	clone := *invitation
	return &clone, nil
}
