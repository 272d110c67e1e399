package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/memory"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

func TestInvitationUseCase_Send(t *testing.T) {
	t.Run("Pending invitation reaches the receiver", func(t *testing.T) {
		f := newFixture(t)

		// When: alice invites bob
		invitation, err := f.invitations.Send(f.ctx, "alice", "bob")

		// Then: bob sees one pending invitation from alice
		require.NoError(t, err)
		assert.Equal(t, f.alice.ID, invitation.SenderID)
		assert.Equal(t, f.bob.ID, invitation.ReceiverID)
		assert.Equal(t, startedAt, invitation.CreatedAt)

		received, err := f.invitations.ListReceived(f.ctx, "bob")
		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, invitation.ID, received[0].ID)
		assert.True(t, received[0].IsPending())

		sent, err := f.invitations.ListReceived(f.ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, sent)
	})

	t.Run("Cannot invite yourself", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.invitations.Send(f.ctx, "alice", " alice ")

		require.ErrorIs(t, err, apperror.ErrSelfInvitation)
	})

	t.Run("Unknown users", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.invitations.Send(f.ctx, "ghost", "bob")
		require.ErrorIs(t, err, apperror.ErrPlayerNotFound)

		_, err = f.invitations.Send(f.ctx, "alice", "ghost")
		require.ErrorIs(t, err, apperror.ErrPlayerNotFound)

		_, err = f.invitations.ListReceived(f.ctx, "ghost")
		require.ErrorIs(t, err, apperror.ErrPlayerNotFound)
	})
}

func TestInvitationUseCase_Accept(t *testing.T) {
	t.Run("Receiver accepts and opens the game", func(t *testing.T) {
		f := newFixture(t)

		// Given: alice invited bob
		invitation, err := f.invitations.Send(f.ctx, "alice", "bob")
		require.NoError(t, err)

		// When: bob accepts
		accepted, game, err := f.invitations.Accept(f.ctx, invitation.ID, "bob")

		// Then: a human game with alice as player1 starts and bob moves first
		require.NoError(t, err)
		assert.Equal(t, entity.InvitationAccepted, accepted.Status)
		assert.Equal(t, game.ID, accepted.GameID)
		assert.Equal(t, entity.Human(f.alice.ID), game.Player1)
		assert.Equal(t, entity.Human(f.bob.ID), game.Player2)
		assert.Equal(t, entity.Human(f.bob.ID), tictactoe.NextTurn(game))

		_, err = f.manager.MakeTurn(f.ctx, game.ID, "bob", 4)
		require.NoError(t, err)

		received, err := f.invitations.ListReceived(f.ctx, "bob")
		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, game.ID, received[0].GameID)
	})

	t.Run("Only the receiver can accept", func(t *testing.T) {
		f := newFixture(t)

		invitation, err := f.invitations.Send(f.ctx, "alice", "bob")
		require.NoError(t, err)

		// When: the sender tries to accept her own invitation
		_, _, err = f.invitations.Accept(f.ctx, invitation.ID, "alice")

		// Then: it is refused, no game exists and bob can still accept
		require.ErrorIs(t, err, apperror.ErrNotInvitationReceiver)

		games, err := f.manager.ListGamesByPlayer(f.ctx, f.alice.ID)
		require.NoError(t, err)
		assert.Empty(t, games)

		_, _, err = f.invitations.Accept(f.ctx, invitation.ID, "bob")
		require.NoError(t, err)
	})

	t.Run("Invitation is accepted once", func(t *testing.T) {
		f := newFixture(t)

		invitation, err := f.invitations.Send(f.ctx, "alice", "bob")
		require.NoError(t, err)

		_, _, err = f.invitations.Accept(f.ctx, invitation.ID, "bob")
		require.NoError(t, err)

		_, _, err = f.invitations.Accept(f.ctx, invitation.ID, "bob")
		require.ErrorIs(t, err, apperror.ErrInvitationNotPending)

		games, err := f.manager.ListGamesByPlayer(f.ctx, f.bob.ID)
		require.NoError(t, err)
		assert.Len(t, games, 1)
	})

	t.Run("Unknown invitation", func(t *testing.T) {
		f := newFixture(t)

		_, _, err := f.invitations.Accept(f.ctx, "missing", "bob")

		require.ErrorIs(t, err, apperror.ErrInvitationNotFound)
	})

	t.Run("Failed game creation releases the invitation", func(t *testing.T) {
		ctx := context.Background()

		storage := memory.NewStorage()
		userRepo := memory.NewUserRepository(storage)
		invitationRepo := memory.NewInvitationRepository(storage)
		games := &mockGameCreator{}

		logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
		invitations := NewInvitationUseCase(logger, clockwork.NewFakeClockAt(startedAt), userRepo, invitationRepo, games)

		require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "a", Username: "alice"}))
		require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "b", Username: "bob"}))

		invitation, err := invitations.Send(ctx, "alice", "bob")
		require.NoError(t, err)

		// Given: the game store is down
		games.On("CreateGame", mock.Anything, "a", "b").Return((*entity.Game)(nil), errRedisDown)

		// When: bob accepts
		_, _, err = invitations.Accept(ctx, invitation.ID, "bob")

		// Then: the error surfaces and the invitation is pending again
		require.ErrorIs(t, err, errRedisDown)
		games.AssertExpectations(t)

		stored, err := invitationRepo.GetByID(ctx, invitation.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsPending())
		assert.Empty(t, stored.GameID)
	})
}

func TestInvitationUseCase_Cancel(t *testing.T) {
	t.Run("Sender withdraws", func(t *testing.T) {
		f := newFixture(t)

		invitation, err := f.invitations.Send(f.ctx, "alice", "bob")
		require.NoError(t, err)

		cancelled, err := f.invitations.Cancel(f.ctx, invitation.ID, "alice")

		require.NoError(t, err)
		assert.Equal(t, entity.InvitationCancelled, cancelled.Status)

		// And: a cancelled invitation cannot be accepted
		_, _, err = f.invitations.Accept(f.ctx, invitation.ID, "bob")
		require.ErrorIs(t, err, apperror.ErrInvitationNotPending)
	})

	t.Run("Receiver declines", func(t *testing.T) {
		f := newFixture(t)

		invitation, err := f.invitations.Send(f.ctx, "alice", "bob")
		require.NoError(t, err)

		_, err = f.invitations.Cancel(f.ctx, invitation.ID, "bob")
		require.NoError(t, err)

		_, err = f.invitations.Cancel(f.ctx, invitation.ID, "bob")
		require.ErrorIs(t, err, apperror.ErrInvitationNotPending)
	})

	t.Run("Outsider cannot cancel", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.users.Register(f.ctx, "carol")
		require.NoError(t, err)

		invitation, err := f.invitations.Send(f.ctx, "alice", "bob")
		require.NoError(t, err)

		_, err = f.invitations.Cancel(f.ctx, invitation.ID, "carol")
		require.ErrorIs(t, err, apperror.ErrNotInvitationMember)
	})
}
