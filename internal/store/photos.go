package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type TicketPhoto struct {
	ID          int64     `json:"id"`
	TicketID    int64     `json:"ticketId"`
	URL         string    `json:"url"`
	ObjectKey   string    `json:"-"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

const photoColumns = `id, ticket_id, url, object_key, content_type, size_bytes, created_at`

func rowToPhoto(row pgx.Row) (TicketPhoto, error) {
	var p TicketPhoto
	err := row.Scan(&p.ID, &p.TicketID, &p.URL, &p.ObjectKey, &p.ContentType, &p.SizeBytes, &p.CreatedAt)
	return p, err
}

func (s *Store) InsertTicketPhoto(ctx context.Context, ticketID int64, url, objectKey, contentType string, sizeBytes int64) (TicketPhoto, error) {
	return rowToPhoto(s.pool.QueryRow(ctx, `
		insert into ticket_photos (ticket_id, url, object_key, content_type, size_bytes, created_at)
		values ($1, $2, $3, $4, $5, now())
		returning `+photoColumns,
		ticketID, url, objectKey, contentType, sizeBytes,
	))
}

func (s *Store) ListTicketPhotos(ctx context.Context, ticketID int64) ([]TicketPhoto, error) {
	rows, err := s.pool.Query(ctx,
		`select `+photoColumns+` from ticket_photos where ticket_id = $1 order by created_at asc`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]TicketPhoto, 0)
	for rows.Next() {
		p, err := rowToPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (s *Store) DeleteTicketPhoto(ctx context.Context, ticketID, photoID int64) (string, error) {
	var objectKey string
	err := s.pool.QueryRow(ctx,
		`delete from ticket_photos where id = $1 and ticket_id = $2 returning object_key`,
		photoID, ticketID).Scan(&objectKey)
	return objectKey, err
}
