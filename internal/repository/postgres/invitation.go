package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const invitationColumns = `id, sender_id, receiver_id, status, COALESCE(game_id, ''), created_at`

type InvitationRepository struct {
	pool *pgxpool.Pool
}

func NewInvitationRepository(pool *pgxpool.Pool) *InvitationRepository {
	return &InvitationRepository{pool: pool}
}

func (that *InvitationRepository) Create(ctx context.Context, invitation *entity.Invitation) error {
	_, err := that.pool.Exec(ctx,
		`INSERT INTO invitations (id, sender_id, receiver_id, status, game_id, created_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
		invitation.ID, invitation.SenderID, invitation.ReceiverID,
		string(invitation.Status), invitation.GameID, invitation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("can't save invitation: %w", err)
	}

	return nil
}

func (that *InvitationRepository) GetByID(ctx context.Context, id string) (*entity.Invitation, error) {
	row := that.pool.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id)

	return scanInvitation(id, row)
}

// ListByReceiverID returns the invitations sent to the user, newest first.
func (that *InvitationRepository) ListByReceiverID(ctx context.Context, receiverID string) ([]*entity.Invitation, error) {
	rows, err := that.pool.Query(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE receiver_id = $1
		 ORDER BY created_at DESC, id DESC`,
		receiverID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer rows.Close()

	invitations := make([]*entity.Invitation, 0)
	for rows.Next() {
		invitation, err := scanInvitation("", rows)
		if err != nil {
			return nil, err
		}

		invitations = append(invitations, invitation)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitations: %w", err)
	}

	return invitations, nil
}

// Update locks the invitation row, runs fn and writes the result in one transaction.
func (that *InvitationRepository) Update(
	ctx context.Context,
	id string,
	fn func(invitation *entity.Invitation) error,
) (*entity.Invitation, error) {
	tx, err := that.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1 FOR UPDATE`, id)

	invitation, err := scanInvitation(id, row)
	if err != nil {
		return nil, err
	}

	if err = fn(invitation); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE invitations SET status = $2, game_id = NULLIF($3, '') WHERE id = $1`,
		id, string(invitation.Status), invitation.GameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invitation update: %w", err)
	}

	return invitation, nil
}

func scanInvitation(id string, row pgx.Row) (*entity.Invitation, error) {
	var invitation entity.Invitation

	err := row.Scan(
		&invitation.ID,
		&invitation.SenderID,
		&invitation.ReceiverID,
		&invitation.Status,
		&invitation.GameID,
		&invitation.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvitationNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("can't scan invitation: %w", err)
	}

	return &invitation, nil
}
