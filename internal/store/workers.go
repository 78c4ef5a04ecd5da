package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Worker is a staff record. PasswordHash is a bcrypt hash; it is never
// serialized in responses.
type Worker struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Phone        *string   `json:"phone"`
	Position     *string   `json:"position"`
	BadgeNumber  *int64    `json:"badgeNumber"`
	Active       bool      `json:"active"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

const workerColumns = `id, name, phone, position, badge_number, active, coalesce(password_hash, ''), created_at`

func rowToWorker(row pgx.Row) (Worker, error) {
	var (
		w        Worker
		phone    pgtype.Text
		position pgtype.Text
		badge    pgtype.Int8
	)
	if err := row.Scan(&w.ID, &w.Name, &phone, &position, &badge, &w.Active, &w.PasswordHash, &w.CreatedAt); err != nil {
		return Worker{}, err
	}
	w.Phone = textPtr(phone)
	w.Position = textPtr(position)
	if badge.Valid {
		w.BadgeNumber = &badge.Int64
	}
	return w, nil
}

func (s *Store) ListWorkers(ctx context.Context, includeInactive bool) ([]Worker, error) {
	query := `select ` + workerColumns + ` from workers`
	if !includeInactive {
		query += ` where active`
	}
	query += ` order by name asc`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]Worker, 0)
	for rows.Next() {
		w, err := rowToWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func (s *Store) GetWorker(ctx context.Context, id int64) (Worker, error) {
	return rowToWorker(s.pool.QueryRow(ctx, `select `+workerColumns+` from workers where id = $1`, id))
}

// WorkerName resolves a display name for reports and invoices. Lookup
// failures degrade to the placeholder rather than failing the caller.
func (s *Store) WorkerName(ctx context.Context, id *int64) string {
	if id == nil {
		return "—"
	}
	var name string
	if err := s.pool.QueryRow(ctx, `select name from workers where id = $1`, *id).Scan(&name); err != nil {
		return "—"
	}
	return name
}

// FindWorkerForLogin matches by normalized phone or badge number.
func (s *Store) FindWorkerForLogin(ctx context.Context, phone string, badge *int64) (Worker, error) {
	switch {
	case phone != "" && badge != nil:
		return rowToWorker(s.pool.QueryRow(ctx,
			`select `+workerColumns+` from workers where phone = $1 or badge_number = $2 limit 1`, phone, *badge))
	case badge != nil:
		return rowToWorker(s.pool.QueryRow(ctx,
			`select `+workerColumns+` from workers where badge_number = $1 limit 1`, *badge))
	default:
		return rowToWorker(s.pool.QueryRow(ctx,
			`select `+workerColumns+` from workers where phone = $1 limit 1`, phone))
	}
}

type NewWorker struct {
	Name         string
	Phone        *string
	Position     *string
	BadgeNumber  *int64
	PasswordHash *string
	Active       bool
}

func (s *Store) InsertWorker(ctx context.Context, payload NewWorker) (Worker, error) {
	return rowToWorker(s.pool.QueryRow(ctx, `
		insert into workers (name, phone, position, badge_number, password_hash, active, created_at)
		values ($1, $2, $3, $4, $5, $6, now())
		returning `+workerColumns,
		payload.Name, payload.Phone, payload.Position, payload.BadgeNumber, payload.PasswordHash, payload.Active,
	))
}

// WorkerPatch updates only the fields that are set.
type WorkerPatch struct {
	Name         *string
	Phone        *string
	Position     *string
	BadgeNumber  *int64
	PasswordHash *string
	Active       *bool
}

func (s *Store) UpdateWorker(ctx context.Context, id int64, patch WorkerPatch) (Worker, error) {
	return rowToWorker(s.pool.QueryRow(ctx, `
		update workers set
			name = coalesce($2, name),
			phone = coalesce($3, phone),
			position = coalesce($4, position),
			badge_number = coalesce($5, badge_number),
			password_hash = coalesce($6, password_hash),
			active = coalesce($7, active)
		where id = $1
		returning `+workerColumns,
		id, patch.Name, patch.Phone, patch.Position, patch.BadgeNumber, patch.PasswordHash, patch.Active,
	))
}

// DeleteWorker hard-deletes a record. Day to day the active flag is used
// instead; this backs the administrative remove action only.
func (s *Store) DeleteWorker(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `delete from workers where id = $1`, id)
	return err
}
