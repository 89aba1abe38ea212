package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-seat-registration/internal/model"
)

// InvitationRepo provides CRUD operations for invitation links.
type InvitationRepo struct {
	db *sql.DB
}

// NewInvitationRepo returns a new InvitationRepo bound to the given database.
func NewInvitationRepo(db *sql.DB) *InvitationRepo { return &InvitationRepo{db: db} }

const invitationColumns = `id, token, label, capacity, default_tier, created_by, is_active, created_at, updated_at`

func scanInvitation(row interface{ Scan(...any) error }) (*model.Invitation, error) {
	var (
		inv  model.Invitation
		tier string
	)
	err := row.Scan(&inv.ID, &inv.Token, &inv.Label, &inv.Capacity, &tier,
		&inv.CreatedBy, &inv.IsActive, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.DefaultTier = model.Tier(tier)
	return &inv, nil
}

// Create inserts an invitation link. On success the ID is populated.
func (r *InvitationRepo) Create(ctx context.Context, inv *model.Invitation) error {
	const q = `INSERT INTO invitations (token, label, capacity, default_tier, created_by)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, inv.Token, inv.Label, inv.Capacity,
		string(inv.DefaultTier), inv.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)
	return nil
}

// GetByID retrieves an invitation by id, active or not.
func (r *InvitationRepo) GetByID(ctx context.Context, id uint64) (*model.Invitation, error) {
	const q = `SELECT ` + invitationColumns + ` FROM invitations WHERE id = ?`
	inv, err := scanInvitation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

// GetActiveByToken retrieves an active invitation by its public token.
// Deactivated links behave exactly like missing ones so revoked URLs
// leak nothing.
func (r *InvitationRepo) GetActiveByToken(ctx context.Context, token string) (*model.Invitation, error) {
	const q = `SELECT ` + invitationColumns + ` FROM invitations WHERE token = ? AND is_active = 1`
	inv, err := scanInvitation(r.db.QueryRowContext(ctx, q, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

// List returns all invitation links newest first.
func (r *InvitationRepo) List(ctx context.Context) ([]model.Invitation, error) {
	const q = `SELECT ` + invitationColumns + ` FROM invitations ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Deactivate turns off an invitation link.  Registered guests keep
// their records and seats; only new registrations stop.
func (r *InvitationRepo) Deactivate(ctx context.Context, id uint64) error {
	const q = `UPDATE invitations SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_active = 1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvitationNotFound
	}
	return nil
}
