package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type InvitationRepository interface {
	Create(ctx context.Context, invitation *entity.Invitation) error
	GetByID(ctx context.Context, id string) (*entity.Invitation, error)
	ListByReceiverID(ctx context.Context, receiverID string) ([]*entity.Invitation, error)
	Update(ctx context.Context, id string, fn func(invitation *entity.Invitation) error) (*entity.Invitation, error)
}

type dbInvitation struct {
	client *redis.Client
}

func NewInvitationRepository(client *redis.Client) InvitationRepository {
	return &dbInvitation{
		client: client,
	}
}

func invitationKey(id string) string {
	return "invitation:" + id
}

func receivedInvitationsKey(receiverID string) string {
	return "invitations:receiver:" + receiverID
}

func (that *dbInvitation) Create(ctx context.Context, invitation *entity.Invitation) error {
	invitationJSON, err := json.Marshal(invitation)
	if err != nil {
		return fmt.Errorf("could not marshal invitation: %w", err)
	}

	var created *redis.BoolCmd
	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, invitationKey(invitation.ID), invitationJSON, 0)
		pipe.ZAdd(ctx, receivedInvitationsKey(invitation.ReceiverID), redis.Z{
			Score:  float64(invitation.CreatedAt.UnixNano()),
			Member: invitation.ID,
		})

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	if !created.Val() {
		return fmt.Errorf("invitation %s already exists", invitation.ID)
	}

	return nil
}

func (that *dbInvitation) GetByID(ctx context.Context, id string) (*entity.Invitation, error) {
	return getInvitation(ctx, that.client, id)
}

// ListByReceiverID returns the invitations sent to the user, newest first.
func (that *dbInvitation) ListByReceiverID(ctx context.Context, receiverID string) ([]*entity.Invitation, error) {
	ids, err := that.client.ZRevRange(ctx, receivedInvitationsKey(receiverID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list invitation ids: %w", err)
	}

	invitations := make([]*entity.Invitation, 0, len(ids))
	if len(ids) == 0 {
		return invitations, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, invitationKey(id))
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get invitations: %w", err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var invitation entity.Invitation
		if err = json.Unmarshal([]byte(raw), &invitation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal invitation: %w", err)
		}

		invitations = append(invitations, &invitation)
	}

	return invitations, nil
}

// Update runs fn against the stored invitation under WATCH and writes it back when fn succeeds.
func (that *dbInvitation) Update(
	ctx context.Context,
	id string,
	fn func(invitation *entity.Invitation) error,
) (*entity.Invitation, error) {
	key := invitationKey(id)

	var updated *entity.Invitation
	txf := func(tx *redis.Tx) error {
		invitation, err := getInvitation(ctx, tx, id)
		if err != nil {
			return err
		}

		if err = fn(invitation); err != nil {
			return err
		}

		invitationJSON, err := json.Marshal(invitation)
		if err != nil {
			return fmt.Errorf("could not marshal invitation: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, invitationJSON, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = invitation
		return nil
	}

	if err := watchWithRetry(ctx, that.client, txf, key); err != nil {
		return nil, err
	}

	return updated, nil
}

func getInvitation(ctx context.Context, client stringGetter, id string) (*entity.Invitation, error) {
	response, err := client.Get(ctx, invitationKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvitationNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get invitation by id: %w", err)
	}

	var invitation entity.Invitation
	if err = json.Unmarshal([]byte(response), &invitation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invitation: %w", err)
	}

	return &invitation, nil
}
