package repository // repository defines data access for guests

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparison
	"strings"      // strings detects duplicate-key error codes
	"time"         // time scans nullable check-in timestamps

	"github.com/iliyamo/event-seat-registration/internal/model"
	"github.com/iliyamo/event-seat-registration/internal/seating"
)

// GuestRepo provides methods to work with guests in the database.  It
// also implements seating.GuestStore, making it the production backing
// of the chair allocator.  The `guests` table carries a unique index
// on seat_number which is the last line of defense against two
// writers claiming the same chair; 1062 violations on that index are
// translated to seating.ErrSeatConflict so the allocator can retry.
type GuestRepo struct {
	db *sql.DB
}

// NewGuestRepo constructs a GuestRepo with the given DB handle.
func NewGuestRepo(db *sql.DB) *GuestRepo {
	return &GuestRepo{db: db}
}

// DB exposes the underlying handle for callers that manage their own
// transactions.
func (r *GuestRepo) DB() *sql.DB { return r.db }

const guestColumns = `id, invitation_id, first_name, last_name, phone, tier, seat_number,
	rsvp_status, rsvp_token, qr_token, attended, checked_in_at, created_at, updated_at`

// scanGuest reads one guest row from any row scanner.
func scanGuest(row interface{ Scan(...any) error }) (*model.Guest, error) {
	var (
		g         model.Guest
		seat      sql.NullInt32
		checkedIn sql.NullTime
		tier      string
		status    string
	)
	err := row.Scan(
		&g.ID, &g.InvitationID, &g.FirstName, &g.LastName, &g.Phone, &tier, &seat,
		&status, &g.RSVPToken, &g.QRToken, &g.Attended, &checkedIn, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Tier = model.Tier(tier)
	g.RSVPStatus = model.RSVPStatus(status)
	if seat.Valid {
		n := int(seat.Int32)
		g.SeatNumber = &n
	}
	if checkedIn.Valid {
		t := checkedIn.Time
		g.CheckedInAt = &t
	}
	return &g, nil
}

// Create inserts a guest record. On success the guest's ID is
// populated.  SeatNumber is always inserted as NULL; seats are set
// exclusively through the allocator afterwards.
func (r *GuestRepo) Create(ctx context.Context, g *model.Guest) error {
	const q = `INSERT INTO guests (invitation_id, first_name, last_name, phone, tier, rsvp_status, rsvp_token, qr_token)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		g.InvitationID, g.FirstName, g.LastName, g.Phone, string(g.Tier),
		string(g.RSVPStatus), g.RSVPToken, g.QRToken)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// GetByID retrieves a guest by its id.
func (r *GuestRepo) GetByID(ctx context.Context, id uint64) (*model.Guest, error) {
	const q = `SELECT ` + guestColumns + ` FROM guests WHERE id = ?`
	g, err := scanGuest(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return g, nil
}

// GetByRSVPToken retrieves a guest by its RSVP token.
func (r *GuestRepo) GetByRSVPToken(ctx context.Context, token string) (*model.Guest, error) {
	const q = `SELECT ` + guestColumns + ` FROM guests WHERE rsvp_token = ?`
	g, err := scanGuest(r.db.QueryRowContext(ctx, q, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return g, nil
}

// GetByQRToken retrieves a guest by the token encoded in their QR badge.
func (r *GuestRepo) GetByQRToken(ctx context.Context, token string) (*model.Guest, error) {
	const q = `SELECT ` + guestColumns + ` FROM guests WHERE qr_token = ?`
	g, err := scanGuest(r.db.QueryRowContext(ctx, q, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return g, nil
}

// List returns guests ordered by id with limit/offset paging.
func (r *GuestRepo) List(ctx context.Context, limit, offset int) ([]model.Guest, error) {
	const q = `SELECT ` + guestColumns + ` FROM guests ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByInvitation returns all guests registered through an invitation
// ordered by creation time.
func (r *GuestRepo) ListByInvitation(ctx context.Context, invitationID uint64) ([]model.Guest, error) {
	const q = `SELECT ` + guestColumns + ` FROM guests WHERE invitation_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, invitationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountByInvitation returns how many guests an invitation has admitted.
func (r *GuestRepo) CountByInvitation(ctx context.Context, invitationID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM guests WHERE invitation_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, invitationID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// TakenSeats returns the occupied seat numbers in [start,end] in
// ascending order.
func (r *GuestRepo) TakenSeats(ctx context.Context, start, end int) ([]int, error) {
	const q = `SELECT seat_number FROM guests
	           WHERE seat_number BETWEEN ? AND ?
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		seats = append(seats, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// SeatedPartyMates returns the invitation's guests whose seat falls in
// [start,end], ascending by seat number.  The ordering drives the
// adjacency heuristic's tie-breaking and must not change.
func (r *GuestRepo) SeatedPartyMates(ctx context.Context, invitationID uint64, start, end int) ([]model.Guest, error) {
	const q = `SELECT ` + guestColumns + ` FROM guests
	           WHERE invitation_id = ? AND seat_number BETWEEN ? AND ?
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, invitationID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mates []model.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		mates = append(mates, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mates, nil
}

// HolderOf returns the guest currently holding the seat, or nil when
// the seat is free.
func (r *GuestRepo) HolderOf(ctx context.Context, seat int) (*model.Guest, error) {
	const q = `SELECT ` + guestColumns + ` FROM guests WHERE seat_number = ?`
	g, err := scanGuest(r.db.QueryRowContext(ctx, q, seat))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

// UpdateSeat sets or clears a guest's seat number.  A duplicate-key
// violation on the unique seat index means a concurrent writer claimed
// the chair first and is reported as seating.ErrSeatConflict.
func (r *GuestRepo) UpdateSeat(ctx context.Context, guestID uint64, seat *int) error {
	const q = `UPDATE guests SET seat_number = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	var val sql.NullInt32
	if seat != nil {
		val = sql.NullInt32{Int32: int32(*seat), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q, val, guestID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") { // mysql duplicate entry
			return seating.ErrSeatConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the guest vanished or the seat value is unchanged;
		// re-check existence so deleted guests surface properly.
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM guests WHERE id = ?`, guestID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrGuestNotFound
			}
			return err
		}
	}
	return nil
}

// ExchangeSeats swaps two guests' seat numbers inside one transaction.
// The first guest is staged through NULL before the second write so the
// unique seat index never observes both guests on one chair, and no
// concurrent reader sees a half-applied swap.
func (r *GuestRepo) ExchangeSeats(ctx context.Context, guestA, guestB uint64, seatA, seatB int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const clear = `UPDATE guests SET seat_number = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND seat_number = ?`
	const set = `UPDATE guests SET seat_number = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	// Step 1: free guest A's chair (guarded by the expected value so a
	// stale caller cannot clobber a fresher assignment).
	res, err := tx.ExecContext(ctx, clear, guestA, seatA)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return seating.ErrSeatConflict
	}
	// Step 2: move guest B onto A's old chair.
	if _, err := tx.ExecContext(ctx, set, seatA, guestB); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return seating.ErrSeatConflict
		}
		return err
	}
	// Step 3: move guest A onto B's old chair.
	if _, err := tx.ExecContext(ctx, set, seatB, guestA); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return seating.ErrSeatConflict
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// SetRSVP updates a guest's RSVP status.
func (r *GuestRepo) SetRSVP(ctx context.Context, guestID uint64, status model.RSVPStatus) error {
	const q = `UPDATE guests SET rsvp_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), guestID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGuestNotFound
	}
	return nil
}

// MarkAttended records the guest's check-in.  Returns the check-in
// time it stored.
func (r *GuestRepo) MarkAttended(ctx context.Context, guestID uint64) (time.Time, error) {
	now := time.Now().UTC()
	const q = `UPDATE guests SET attended = 1, checked_in_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, now, guestID)
	if err != nil {
		return time.Time{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return time.Time{}, ErrGuestNotFound
	}
	return now, nil
}

// Delete removes a guest record.  Any held chair is implicitly freed
// since occupancy is derived from guest rows.
func (r *GuestRepo) Delete(ctx context.Context, guestID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM guests WHERE id = ?`, guestID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGuestNotFound
	}
	return nil
}
