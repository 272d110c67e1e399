package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	resultWin        = "win"
	resultBotWin     = "bot_win"
	resultDraw       = "draw"
	resultEndedEarly = "ended_early"
)

type userRepo interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	ListByPlayerID(ctx context.Context, playerID string) ([]*entity.Game, error)
	Update(ctx context.Context, id string, fn func(game *entity.Game) ([]entity.Result, error)) (*entity.Game, error)
}

type gameMetrics interface {
	GameCreated(gameType string)
	GameFinished(gameType, result string)
	MoveApplied(gameType, actor string)
	TurnRejected(err error)
}

// GameManager owns the lifecycle of games: creation, turns, early termination and reads.
// Statistics are written by the game store together with the move that finishes a game.
type GameManager struct {
	logger  *slog.Logger
	clock   clockwork.Clock
	metrics gameMetrics

	userRepo userRepo
	gameRepo gameRepo
}

func NewGameManager(
	logger *slog.Logger,
	clock clockwork.Clock,
	metrics gameMetrics,
	userRepo userRepo,
	gameRepo gameRepo,
) *GameManager {
	return &GameManager{
		logger:  logger,
		clock:   clock,
		metrics: metrics,

		userRepo: userRepo,
		gameRepo: gameRepo,
	}
}

// CreateGame starts a human game. player2 is the invited player and moves first.
func (that *GameManager) CreateGame(ctx context.Context, player1ID, player2ID string) (*entity.Game, error) {
	if player1ID == "" || player2ID == "" || player1ID == player2ID {
		return nil, apperror.ErrInvalidPlayers
	}

	for _, id := range []string{player1ID, player2ID} {
		if _, err := that.userRepo.GetByID(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to get player by id: %w", err)
		}
	}

	return that.createGame(ctx, entity.Human(player1ID), entity.Human(player2ID))
}

// CreateGameWithBot starts a game between the named user and the bot. The user moves first.
func (that *GameManager) CreateGameWithBot(ctx context.Context, username string) (*entity.Game, error) {
	player, err := that.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by username: %w", err)
	}

	return that.createGame(ctx, entity.Human(player.ID), entity.Bot())
}

func (that *GameManager) createGame(ctx context.Context, player1, player2 entity.Participant) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString(), player1, player2, that.clock.Now())

	if err := that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.metrics.GameCreated(game.Type())
	that.logger.Info("game created",
		"gameID", game.ID, "type", game.Type(), "player1", game.Player1, "player2", game.Player2)

	return game, nil
}

// MakeTurn applies a move of a human game.
func (that *GameManager) MakeTurn(ctx context.Context, gameID, username string, cell int) (*entity.Game, error) {
	return that.makeTurn(ctx, gameID, username, cell, false)
}

// MakeTurnWithBot applies the human move of a bot game and, when the game goes on, the bot's answer.
func (that *GameManager) MakeTurnWithBot(ctx context.Context, gameID, username string, cell int) (*entity.Game, error) {
	return that.makeTurn(ctx, gameID, username, cell, true)
}

func (that *GameManager) makeTurn(
	ctx context.Context,
	gameID, username string,
	cell int,
	withBot bool,
) (*entity.Game, error) {
	log := that.logger.With("method", "makeTurn", "gameID", gameID, "username", username, "cell", cell)

	game, err := that.applyTurn(ctx, gameID, username, cell, withBot)
	if err != nil {
		that.metrics.TurnRejected(err)
		log.Debug("turn rejected", "error", err)

		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	that.metrics.MoveApplied(game.Type(), string(entity.KindHuman))
	if last := game.Moves[len(game.Moves)-1]; last.Actor.IsBot() {
		that.metrics.MoveApplied(game.Type(), string(entity.KindBot))
		log.Debug("bot answered", "botCell", last.Position)
	}

	if game.IsFinished() {
		that.reportFinished(log, game)
	}

	return game, nil
}

func (that *GameManager) applyTurn(
	ctx context.Context,
	gameID, username string,
	cell int,
	withBot bool,
) (*entity.Game, error) {
	player, err := that.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by username: %w", err)
	}

	actor := entity.Human(player.ID)

	return that.gameRepo.Update(ctx, gameID, func(game *entity.Game) ([]entity.Result, error) {
		if game.IsFinished() {
			return nil, apperror.ErrGameFinished
		}

		if game.IsWithBot() != withBot {
			return nil, fmt.Errorf("%w: game %s is %s", apperror.ErrInvalidBotConfiguration, game.ID, game.Type())
		}

		if err := that.playHumanTurn(game, actor, cell); err != nil {
			return nil, err
		}

		if withBot && game.IsOngoing() {
			that.playBotTurn(game)
		}

		return game.Results(), nil
	})
}

func (that *GameManager) playHumanTurn(game *entity.Game, actor entity.Participant, cell int) error {
	if err := tictactoe.ValidateTurn(game, actor); err != nil {
		return err
	}

	board := tictactoe.NewBoard(game)
	if err := board.CheckCell(cell); err != nil {
		return err
	}

	game.AddMove(actor, cell, that.clock.Now())
	that.settle(game, board.Place(tictactoe.SideOf(game, actor), cell))

	return nil
}

func (that *GameManager) playBotTurn(game *entity.Game) {
	board := tictactoe.NewBoard(game)

	cell := tictactoe.BestMove(board, tictactoe.Second)
	if cell == tictactoe.NoMove {
		game.Finish(nil, that.clock.Now())
		return
	}

	game.AddMove(entity.Bot(), cell, that.clock.Now())
	that.settle(game, board.Place(tictactoe.Second, cell))
}

// settle finishes the game when board holds a line or no free cell is left.
func (that *GameManager) settle(game *entity.Game, board tictactoe.Board) {
	if side := board.Winner(); side != tictactoe.NoSide {
		winner := tictactoe.ParticipantOf(game, side)
		game.Finish(&winner, that.clock.Now())
		return
	}

	if board.IsFull() {
		game.Finish(nil, that.clock.Now())
	}
}

// EndGame terminates an ongoing game without a winner and records a draw for every human.
// Ending a finished game changes nothing.
func (that *GameManager) EndGame(ctx context.Context, gameID string) (*entity.Game, error) {
	log := that.logger.With("method", "EndGame", "gameID", gameID)

	var ended bool
	game, err := that.gameRepo.Update(ctx, gameID, func(game *entity.Game) ([]entity.Result, error) {
		ended = false
		if game.IsFinished() {
			return nil, nil
		}

		game.EndedEarly = true
		game.Finish(nil, that.clock.Now())
		ended = true

		return game.Results(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to end game: %w", err)
	}

	if ended {
		that.reportFinished(log, game)
	}

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// ListGamesByPlayer returns every game the player took part in, newest first.
func (that *GameManager) ListGamesByPlayer(ctx context.Context, playerID string) ([]*entity.Game, error) {
	games, err := that.gameRepo.ListByPlayerID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games by player: %w", err)
	}

	return games, nil
}

func (that *GameManager) reportFinished(log *slog.Logger, game *entity.Game) {
	result := finishResult(game)

	that.metrics.GameFinished(game.Type(), result)
	log.Info("game finished", "type", game.Type(), "result", result, "moves", len(game.Moves))
}

func finishResult(game *entity.Game) string {
	switch {
	case game.EndedEarly:
		return resultEndedEarly
	case game.Winner == nil:
		return resultDraw
	case game.Winner.IsBot():
		return resultBotWin
	default:
		return resultWin
	}
}
