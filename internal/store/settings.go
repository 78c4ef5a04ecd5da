package store

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"workshop-backoffice-service/internal/money"
)

const taxRateSettingKey = "tax_rate"

// GetSetting returns the stored value and whether the key exists.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, `select value from app_settings where key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) UpsertSetting(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		insert into app_settings (key, value, updated_at)
		values ($1, $2, now())
		on conflict (key) do update set value = excluded.value, updated_at = now()`,
		key, value)
	return err
}

// TaxRate returns the effective VAT rate and whether it came from the
// built-in default rather than a stored setting. Unparseable or
// out-of-range stored values also fall back to the default.
func (s *Store) TaxRate(ctx context.Context, fallback float64) (float64, bool, error) {
	if fallback <= 0 || fallback >= 1 {
		fallback = money.DefaultTaxRate
	}
	value, ok, err := s.GetSetting(ctx, taxRateSettingKey)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return fallback, true, nil
	}
	rate, err := strconv.ParseFloat(value, 64)
	if err != nil || rate <= 0 || rate >= 1 {
		return fallback, true, nil
	}
	return rate, false, nil
}

func (s *Store) SetTaxRate(ctx context.Context, rate float64) error {
	return s.UpsertSetting(ctx, taxRateSettingKey, strconv.FormatFloat(rate, 'f', -1, 64))
}
