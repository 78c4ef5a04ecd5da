package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"workshop-backoffice-service/internal/dates"
	"workshop-backoffice-service/internal/reports"
	"workshop-backoffice-service/internal/taxperiod"
	"workshop-backoffice-service/internal/utils"
)

// Ticket is the normalized service work order. Price is the post-discount
// pre-tax base, Discount the audit amount already subtracted, Tax the
// computed VAT. The three are only written together through the pricing
// resolution, never edited independently.
type Ticket struct {
	ID            int64      `json:"id"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	WorkerID      *int64     `json:"workerId"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	Title         string     `json:"title"`
	WorkNotes     *string    `json:"workNotes"`
	Price         float64    `json:"price"`
	Discount      float64    `json:"discount"`
	Tax           float64    `json:"tax"`
	PaymentMethod string     `json:"paymentMethod"`
	Status        string     `json:"status"`
	CarInfo       *string    `json:"carInfo"`
	PlateNumber   *string    `json:"plateNumber"`
	PlateLetters  *string    `json:"plateLetters"`
	Country       *string    `json:"country"`
	Make          *string    `json:"make"`
	Model         *string    `json:"model"`
	Year          *string    `json:"year"`
	Color         *string    `json:"color"`
	LineItems     []LineItem `json:"lineItems,omitempty"`
}

type LineItem struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// TicketFilter narrows a listing. From/To are operator-entered date
// strings; they are normalized through the dates package here so every
// created_at filter path shares the same boundaries.
type TicketFilter struct {
	WorkerID *int64
	From     string
	To       string
	Limit    int
}

const ticketColumns = `
	t.id, t.created_at, t.updated_at, t.worker_id,
	t.customer_name, t.customer_phone, t.title, t.work_notes,
	t.price, t.discount, t.tax, t.payment_method, t.status,
	t.car_info, t.plate_number, t.plate_letters,
	t.country, t.make, t.model, t.year, t.color
`

// ticketPatchColumns is the update allow-list. Anything else in a patch
// is silently dropped, not errored.
var ticketPatchColumns = map[string]bool{
	"customer_name":  true,
	"customer_phone": true,
	"title":          true,
	"work_notes":     true,
	"price":          true,
	"discount":       true,
	"tax":            true,
	"payment_method": true,
	"status":         true,
	"car_info":       true,
	"plate_number":   true,
	"plate_letters":  true,
	"country":        true,
	"make":           true,
	"model":          true,
	"year":           true,
	"color":          true,
	"worker_id":      true,
}

func rowToTicket(row pgx.Row) (Ticket, error) {
	var (
		t             Ticket
		workerID      pgtype.Int8
		workNotes     pgtype.Text
		price         pgtype.Numeric
		discount      pgtype.Numeric
		tax           pgtype.Numeric
		paymentMethod pgtype.Text
		carInfo       pgtype.Text
		plateNumber   pgtype.Text
		plateLetters  pgtype.Text
		country       pgtype.Text
		carMake       pgtype.Text
		model         pgtype.Text
		year          pgtype.Text
		color         pgtype.Text
	)

	err := row.Scan(
		&t.ID, &t.CreatedAt, &t.UpdatedAt, &workerID,
		&t.CustomerName, &t.CustomerPhone, &t.Title, &workNotes,
		&price, &discount, &tax, &paymentMethod, &t.Status,
		&carInfo, &plateNumber, &plateLetters,
		&country, &carMake, &model, &year, &color,
	)
	if err != nil {
		return Ticket{}, err
	}

	if workerID.Valid {
		t.WorkerID = &workerID.Int64
	}
	t.WorkNotes = textPtr(workNotes)
	t.Price = utils.NumericToFloat64(price)
	t.Discount = utils.NumericToFloat64(discount)
	t.Tax = utils.NumericToFloat64(tax)
	if paymentMethod.Valid {
		t.PaymentMethod = paymentMethod.String
	}
	t.CarInfo = textPtr(carInfo)
	t.PlateNumber = textPtr(plateNumber)
	t.PlateLetters = textPtr(plateLetters)
	t.Country = textPtr(country)
	t.Make = textPtr(carMake)
	t.Model = textPtr(model)
	t.Year = textPtr(year)
	t.Color = textPtr(color)
	return t, nil
}

func (s *Store) QueryTickets(ctx context.Context, filter TicketFilter) ([]Ticket, error) {
	query := `select ` + ticketColumns + ` from tickets t where 1=1`
	args := make([]any, 0, 4)

	if filter.WorkerID != nil {
		args = append(args, *filter.WorkerID)
		query += fmt.Sprintf(" and t.worker_id = $%d", len(args))
	}
	if from := dates.NormalizeFrom(filter.From); from != "" {
		args = append(args, from)
		query += fmt.Sprintf(" and t.created_at >= $%d::timestamp", len(args))
	}
	if to := dates.NormalizeTo(filter.To); to != "" {
		args = append(args, to)
		query += fmt.Sprintf(" and t.created_at <= $%d::timestamp", len(args))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" order by t.created_at desc limit $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]Ticket, 0)
	for rows.Next() {
		t, err := rowToTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (s *Store) GetTicket(ctx context.Context, id int64) (Ticket, error) {
	row := s.pool.QueryRow(ctx, `select `+ticketColumns+` from tickets t where t.id = $1`, id)
	ticket, err := rowToTicket(row)
	if err != nil {
		return Ticket{}, err
	}

	items, err := s.listLineItems(ctx, id)
	if err != nil {
		return Ticket{}, err
	}
	ticket.LineItems = items
	return ticket, nil
}

// NewTicket carries the insert payload. Pricing fields must come out of
// the resolution engine.
type NewTicket struct {
	WorkerID      *int64
	CustomerName  string
	CustomerPhone string
	Title         string
	WorkNotes     *string
	Price         float64
	Discount      float64
	Tax           float64
	PaymentMethod string
	CarInfo       *string
	PlateNumber   *string
	PlateLetters  *string
	Country       *string
	Make          *string
	Model         *string
	Year          *string
	Color         *string
	LineItems     []LineItem
}

func (s *Store) InsertTicket(ctx context.Context, payload NewTicket) (Ticket, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Ticket{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		insert into tickets (
			worker_id, customer_name, customer_phone, title, work_notes,
			price, discount, tax, payment_method, status,
			car_info, plate_number, plate_letters, country, make, model, year, color,
			created_at, updated_at
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18, now(), now())
		returning `+strings.ReplaceAll(ticketColumns, "t.", ""),
		payload.WorkerID, payload.CustomerName, payload.CustomerPhone, payload.Title, payload.WorkNotes,
		payload.Price, payload.Discount, payload.Tax, payload.PaymentMethod, reports.StatusNew,
		payload.CarInfo, payload.PlateNumber, payload.PlateLetters, payload.Country,
		payload.Make, payload.Model, payload.Year, payload.Color,
	)
	ticket, err := rowToTicket(row)
	if err != nil {
		return Ticket{}, err
	}

	for _, item := range payload.LineItems {
		if _, err := tx.Exec(ctx, `
			insert into ticket_line_items (ticket_id, description, quantity, unit_price)
			values ($1, $2, $3, $4)
		`, ticket.ID, item.Description, item.Quantity, item.UnitPrice); err != nil {
			return Ticket{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Ticket{}, err
	}
	return ticket, nil
}

// UpdateTicket applies an allow-listed patch. Patch keys are column names;
// unknown keys are dropped without error. updated_at always advances.
func (s *Store) UpdateTicket(ctx context.Context, id int64, patch map[string]any) (Ticket, error) {
	sets := make([]string, 0, len(patch)+1)
	args := make([]any, 0, len(patch)+1)

	for column, value := range patch {
		if !ticketPatchColumns[column] {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(
		"update tickets set %s where id = $%d returning %s",
		strings.Join(sets, ", "), len(args), strings.ReplaceAll(ticketColumns, "t.", ""),
	)
	return rowToTicket(s.pool.QueryRow(ctx, query, args...))
}

func (s *Store) listLineItems(ctx context.Context, ticketID int64) ([]LineItem, error) {
	rows, err := s.pool.Query(ctx, `
		select id, description, quantity, unit_price
		from ticket_line_items
		where ticket_id = $1
		order by id
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]LineItem, 0)
	for rows.Next() {
		var item LineItem
		var quantity, unitPrice pgtype.Numeric
		if err := rows.Scan(&item.ID, &item.Description, &quantity, &unitPrice); err != nil {
			return nil, err
		}
		item.Quantity = utils.NumericToFloat64(quantity)
		item.UnitPrice = utils.NumericToFloat64(unitPrice)
		items = append(items, item)
	}
	return items, rows.Err()
}

// SummaryRows fetches the slim ticket projection the aggregations run
// over, with the worker name joined in for the per-worker rollups. Date
// bounds go through the same normalizer as every other listing.
func (s *Store) SummaryRows(ctx context.Context, filter TicketFilter) ([]reports.TicketRow, error) {
	query := `
		select t.id, t.worker_id, coalesce(w.name, ''), t.price, t.discount, t.status,
		       t.created_at, t.updated_at
		from tickets t
		left join workers w on w.id = t.worker_id
		where 1=1`
	args := make([]any, 0, 3)

	if filter.WorkerID != nil {
		args = append(args, *filter.WorkerID)
		query += fmt.Sprintf(" and t.worker_id = $%d", len(args))
	}
	if from := dates.NormalizeFrom(filter.From); from != "" {
		args = append(args, from)
		query += fmt.Sprintf(" and t.created_at >= $%d::timestamp", len(args))
	}
	if to := dates.NormalizeTo(filter.To); to != "" {
		args = append(args, to)
		query += fmt.Sprintf(" and t.created_at <= $%d::timestamp", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reports.TicketRow, 0)
	for rows.Next() {
		var (
			row       reports.TicketRow
			workerID  pgtype.Int8
			price     pgtype.Numeric
			discount  pgtype.Numeric
			createdAt time.Time
			updatedAt pgtype.Timestamp
		)
		if err := rows.Scan(&row.ID, &workerID, &row.WorkerName, &price, &discount, &row.Status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if workerID.Valid {
			row.WorkerID = &workerID.Int64
		}
		row.Price = utils.NumericToFloat64(price)
		row.Discount = utils.NumericToFloat64(discount)
		row.CreatedAt = dates.Literal(createdAt)

		updated := createdAt
		if updatedAt.Valid {
			updated = updatedAt.Time
		}
		row.UpdatedAt = dates.Literal(updated)
		hours := updated.Sub(createdAt).Hours()
		row.CycleHours = &hours

		out = append(out, row)
	}
	return out, rows.Err()
}

// TaxRowsBetween feeds the tax-period KPI: tax and creation time for
// tickets created in [from, to), compared as naive literals like every
// other created_at filter.
func (s *Store) TaxRowsBetween(ctx context.Context, from, to time.Time) ([]taxperiod.TaxRow, error) {
	rows, err := s.pool.Query(ctx, `
		select coalesce(tax, 0), created_at
		from tickets
		where created_at >= $1::timestamp and created_at < $2::timestamp
	`, dates.Literal(from), dates.Literal(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]taxperiod.TaxRow, 0)
	for rows.Next() {
		var row taxperiod.TaxRow
		var tax pgtype.Numeric
		if err := rows.Scan(&tax, &row.CreatedAt); err != nil {
			return nil, err
		}
		row.Tax = utils.NumericToFloat64(tax)
		out = append(out, row)
	}
	return out, rows.Err()
}

func textPtr(v pgtype.Text) *string {
	if v.Valid {
		return &v.String
	}
	return nil
}
