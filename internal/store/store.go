// Package store is the single data-access layer over Postgres. Each record
// type has one mapping function from row to struct; nothing outside this
// package does fallback-field lookups or raw scans.
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketChangeChannel is the pg_notify channel fired after every ticket
// write; the websocket feed listens on it.
const TicketChangeChannel = "ticket_updates"

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// NotifyTicketsChanged pings the ticket change channel. Best effort; a
// missed notification only delays a dashboard refresh.
func (s *Store) NotifyTicketsChanged(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `select pg_notify($1, '')`, TicketChangeChannel)
	return err
}
