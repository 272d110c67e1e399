package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type InvitationUseCase interface {
	Send(ctx context.Context, senderUsername, receiverUsername string) (*entity.Invitation, error)
	ListReceived(ctx context.Context, username string) ([]*entity.Invitation, error)
	Accept(ctx context.Context, invitationID, username string) (*entity.Invitation, *entity.Game, error)
	Cancel(ctx context.Context, invitationID, username string) (*entity.Invitation, error)
}

type invitationRepo interface {
	Create(ctx context.Context, invitation *entity.Invitation) error
	ListByReceiverID(ctx context.Context, receiverID string) ([]*entity.Invitation, error)
	Update(ctx context.Context, id string, fn func(invitation *entity.Invitation) error) (*entity.Invitation, error)
}

type gameCreator interface {
	CreateGame(ctx context.Context, player1ID, player2ID string) (*entity.Game, error)
}

type invitationUseCase struct {
	logger *slog.Logger
	clock  clockwork.Clock

	userRepo       userRepo
	invitationRepo invitationRepo
	games          gameCreator
}

func NewInvitationUseCase(
	logger *slog.Logger,
	clock clockwork.Clock,
	userRepo userRepo,
	invitationRepo invitationRepo,
	games gameCreator,
) InvitationUseCase {
	return &invitationUseCase{
		logger: logger,
		clock:  clock,

		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		games:          games,
	}
}

func (that *invitationUseCase) Send(ctx context.Context, senderUsername, receiverUsername string) (*entity.Invitation, error) {
	sender, err := that.findUser(ctx, senderUsername)
	if err != nil {
		return nil, err
	}

	receiver, err := that.findUser(ctx, receiverUsername)
	if err != nil {
		return nil, err
	}

	if sender.ID == receiver.ID {
		return nil, apperror.ErrSelfInvitation
	}

	invitation := entity.NewInvitation(uuid.NewString(), sender.ID, receiver.ID, that.clock.Now())
	if err = that.invitationRepo.Create(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to save invitation: %w", err)
	}

	that.logger.Info("invitation sent", "invitationID", invitation.ID, "sender", sender.ID, "receiver", receiver.ID)

	return invitation, nil
}

// ListReceived returns every invitation sent to the user, newest first.
func (that *invitationUseCase) ListReceived(ctx context.Context, username string) ([]*entity.Invitation, error) {
	user, err := that.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	invitations, err := that.invitationRepo.ListByReceiverID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	return invitations, nil
}

// Accept claims a pending invitation for its receiver and starts the game, sender as player1.
// The receiver is player2 and therefore opens. When the game cannot be created the claim is released.
func (that *invitationUseCase) Accept(
	ctx context.Context,
	invitationID, username string,
) (*entity.Invitation, *entity.Game, error) {
	log := that.logger.With("method", "Accept", "invitationID", invitationID, "username", username)

	user, err := that.findUser(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	claimed, err := that.invitationRepo.Update(ctx, invitationID, func(invitation *entity.Invitation) error {
		if !invitation.IsPending() {
			return fmt.Errorf("%w: %s", apperror.ErrInvitationNotPending, invitation.Status)
		}

		if invitation.ReceiverID != user.ID {
			return apperror.ErrNotInvitationReceiver
		}

		invitation.Status = entity.InvitationAccepted
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	game, err := that.games.CreateGame(ctx, claimed.SenderID, claimed.ReceiverID)
	if err != nil {
		if _, releaseErr := that.invitationRepo.Update(ctx, invitationID, func(invitation *entity.Invitation) error {
			invitation.Status = entity.InvitationPending
			return nil
		}); releaseErr != nil {
			log.Error("could not release invitation", "error", releaseErr)
		}

		return nil, nil, fmt.Errorf("failed to start invited game: %w", err)
	}

	accepted, err := that.invitationRepo.Update(ctx, invitationID, func(invitation *entity.Invitation) error {
		invitation.GameID = game.ID
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to attach game to invitation: %w", err)
	}

	log.Info("invitation accepted", "gameID", game.ID)

	return accepted, game, nil
}

// Cancel withdraws or declines a pending invitation. Only the sender or the receiver may do it.
func (that *invitationUseCase) Cancel(ctx context.Context, invitationID, username string) (*entity.Invitation, error) {
	user, err := that.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	invitation, err := that.invitationRepo.Update(ctx, invitationID, func(invitation *entity.Invitation) error {
		if !invitation.IsPending() {
			return fmt.Errorf("%w: %s", apperror.ErrInvitationNotPending, invitation.Status)
		}

		if !invitation.Involves(user.ID) {
			return apperror.ErrNotInvitationMember
		}

		invitation.Status = entity.InvitationCancelled
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel invitation: %w", err)
	}

	that.logger.Info("invitation cancelled", "invitationID", invitationID, "by", user.ID)

	return invitation, nil
}

func (that *invitationUseCase) findUser(ctx context.Context, username string) (*entity.User, error) {
	user, err := that.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
