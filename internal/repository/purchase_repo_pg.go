package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

const purchasesSchema = `CREATE TABLE IF NOT EXISTS purchases (
	id          BIGSERIAL PRIMARY KEY,
	event_id    UUID        NOT NULL,
	order_id    BIGINT      NOT NULL UNIQUE,
	email       TEXT        NOT NULL DEFAULT '',
	value       BIGINT      NOT NULL,
	currency    TEXT        NOT NULL,
	items       JSONB       NOT NULL DEFAULT '[]',
	occurred_at TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PurchaseRepository interface {
	EnsureSchema(ctx context.Context) error
	Record(ctx context.Context, event domain.PurchaseEvent) (bool, error)
}

type PGPurchaseRepository struct {
	db *pgxpool.Pool
}

func NewPurchaseRepository(db *pgxpool.Pool) PurchaseRepository {
	return &PGPurchaseRepository{db: db}
}

func (r *PGPurchaseRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, purchasesSchema)
	return err
}

// Record stores the event once per order. It reports false when the order was already recorded.
func (r *PGPurchaseRepository) Record(ctx context.Context, event domain.PurchaseEvent) (bool, error) {
	items, err := encodeItems(event.Items)
	if err != nil {
		return false, err
	}

	cmd, err := r.db.Exec(ctx, `INSERT INTO purchases (event_id, order_id, email, value, currency, items, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
		ON CONFLICT (order_id) DO NOTHING`,
		event.ID, event.OrderID, event.Email, event.Value, event.Currency, items, event.OccurredAt)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func encodeItems(items []domain.LineItem) (string, error) {
	if items == nil {
		items = []domain.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	return string(data), nil
}

var _ PurchaseRepository = (*PGPurchaseRepository)(nil)
