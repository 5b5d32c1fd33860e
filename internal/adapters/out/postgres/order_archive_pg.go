// internal/adapters/out/postgres/order_archive_pg.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	orderdom "botparts/internal/domain/order"
)

// OrderArchivePG implements order.Archive against PostgreSQL.
//
// This is a reporting mirror, not the system of record (orders live in
// Firestore). One flat row per order, the line items denormalized as JSON.
//
// Expected schema:
//
//	CREATE TABLE IF NOT EXISTS order_archive (
//	    order_id       TEXT PRIMARY KEY,
//	    user_id        TEXT NOT NULL,
//	    total_items    INTEGER NOT NULL,
//	    total_price    BIGINT NOT NULL,
//	    payment_method TEXT NOT NULL,
//	    status         TEXT NOT NULL,
//	    lines          JSONB NOT NULL,
//	    created_at     TIMESTAMPTZ NOT NULL
//	);
type OrderArchivePG struct {
	DB *sql.DB
}

func NewOrderArchivePG(db *sql.DB) *OrderArchivePG {
	return &OrderArchivePG{DB: db}
}

func (a *OrderArchivePG) ArchiveOrder(ctx context.Context, o *orderdom.Order) error {
	if a == nil || a.DB == nil {
		return errors.New("order_archive_pg: db is nil")
	}
	if o == nil {
		return errors.New("order_archive_pg: order is nil")
	}

	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("order_archive_pg: marshal lines: %w", err)
	}

	const q = `
		INSERT INTO order_archive
			(order_id, user_id, total_items, total_price, payment_method, status, lines, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (order_id) DO NOTHING`

	if _, err := a.DB.ExecContext(ctx, q,
		o.ID, o.UserID, o.TotalItems, o.TotalPrice,
		o.PaymentMethod, string(o.Status), lines, o.CreatedAt,
	); err != nil {
		return fmt.Errorf("order_archive_pg: insert: %w", err)
	}
	return nil
}
