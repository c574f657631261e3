package mysql

import (
	"context"
	"database/sql"
	"time"

	"backend-dispatch/internal/models"
	"backend-dispatch/internal/store"
)

// Store - MySQL implementation of the ticket store.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, t models.Ticket) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tickets
		(id, name, sector_code, sector_label, priority, status, arrived_at)
		VALUES (?, ?, ?, ?, ?, 'waiting', ?)
	`, t.ID, t.Name, t.SectorCode, t.SectorLabel, t.Priority, t.ArrivedAt)
	return err
}

func (s *Store) FindWaiting(ctx context.Context) ([]models.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sector_code, sector_label, priority, arrived_at
		FROM tickets
		WHERE status = 'waiting'
		ORDER BY arrived_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.Name, &t.SectorCode, &t.SectorLabel, &t.Priority, &t.ArrivedAt); err != nil {
			return nil, err
		}
		t.Status = models.StatusWaiting
		result = append(result, t)
	}
	return result, rows.Err()
}

// Claim is the compare-and-set: the UPDATE only matches while the row is
// still waiting, so of two racing dispatchers exactly one sees an affected
// row and the loser walks on to its next candidate.
func (s *Store) Claim(ctx context.Context, id, room string, servedAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tickets
		SET status = 'served', served_at = ?, served_room = ?
		WHERE id = ? AND status = 'waiting'
	`, servedAt, room, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Cancel only succeeds from waiting. Tickets already served or cancelled
// report not found instead of being overwritten.
func (s *Store) Cancel(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tickets
		SET status = 'cancelled'
		WHERE id = ? AND status = 'waiting'
	`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
