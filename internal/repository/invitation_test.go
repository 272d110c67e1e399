package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func TestInvitationRepository(t *testing.T) {
	t.Run("Create and list by receiver", func(t *testing.T) {
		ctx, st := suite.New(t)

		invitationRepo := NewInvitationRepository(st.Storage)

		// Given: bob received two invitations and carol one
		require.NoError(t, invitationRepo.Create(ctx, entity.NewInvitation("i1", "alice", "bob", startedAt)))
		require.NoError(t, invitationRepo.Create(ctx, entity.NewInvitation("i2", "carol", "bob", startedAt.Add(time.Minute))))
		require.NoError(t, invitationRepo.Create(ctx, entity.NewInvitation("i3", "alice", "carol", startedAt)))

		// When: bob's invitations are listed
		invitations, err := invitationRepo.ListByReceiverID(ctx, "bob")

		// Then: only his are returned, newest first
		require.NoError(t, err)
		require.Len(t, invitations, 2)
		assert.Equal(t, "i2", invitations[0].ID)
		assert.Equal(t, "i1", invitations[1].ID)
		assert.Equal(t, entity.InvitationPending, invitations[1].Status)
	})

	t.Run("Update writes the new status", func(t *testing.T) {
		ctx, st := suite.New(t)

		invitationRepo := NewInvitationRepository(st.Storage)
		require.NoError(t, invitationRepo.Create(ctx, entity.NewInvitation("i1", "alice", "bob", startedAt)))

		// When: the invitation is accepted
		updated, err := invitationRepo.Update(ctx, "i1", func(invitation *entity.Invitation) error {
			invitation.Status = entity.InvitationAccepted
			invitation.GameID = "g1"
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "g1", updated.GameID)

		// Then: the stored copy carries it
		stored, err := invitationRepo.GetByID(ctx, "i1")
		require.NoError(t, err)
		assert.Equal(t, entity.InvitationAccepted, stored.Status)
		assert.Equal(t, "g1", stored.GameID)
	})

	t.Run("Failed update keeps the stored invitation", func(t *testing.T) {
		ctx, st := suite.New(t)

		invitationRepo := NewInvitationRepository(st.Storage)
		require.NoError(t, invitationRepo.Create(ctx, entity.NewInvitation("i1", "alice", "bob", startedAt)))

		_, err := invitationRepo.Update(ctx, "i1", func(invitation *entity.Invitation) error {
			invitation.Status = entity.InvitationCancelled
			return apperror.ErrNotInvitationMember
		})
		require.ErrorIs(t, err, apperror.ErrNotInvitationMember)

		stored, err := invitationRepo.GetByID(ctx, "i1")
		require.NoError(t, err)
		assert.True(t, stored.IsPending())
	})

	t.Run("Unknown invitation", func(t *testing.T) {
		ctx, st := suite.New(t)

		invitationRepo := NewInvitationRepository(st.Storage)

		_, err := invitationRepo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, apperror.ErrInvitationNotFound)

		_, err = invitationRepo.Update(ctx, "missing", func(*entity.Invitation) error { return nil })
		require.ErrorIs(t, err, apperror.ErrInvitationNotFound)

		invitations, err := invitationRepo.ListByReceiverID(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, invitations)
	})
}
