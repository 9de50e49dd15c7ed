package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
)

const deliveryColumns = `id, event_id, kind, recipient, body, status, provider_sid,
	send_at, sent_at, last_error, created_at, updated_at`

// DeliveryRepository handles the delivery log, which doubles as the outbox
// for follow-ups waiting to be dispatched.
type DeliveryRepository struct {
	db *sqlx.DB
}

func NewDeliveryRepository(db *sqlx.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) Create(ctx context.Context, d *domain.Delivery) (int64, error) {
	query := `
		INSERT INTO deliveries (event_id, kind, recipient, body, status, provider_sid, send_at, sent_at, last_error)
		VALUES (:event_id, :kind, :recipient, :body, :status, :provider_sid, :send_at, :sent_at, :last_error)
	`

	result, err := r.db.NamedExecContext(ctx, query, d)
	if err != nil {
		return 0, fmt.Errorf("failed to create delivery: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return id, nil
}

// ClaimDue locks outbox rows whose send time has passed and moves their send
// time to leaseUntil, so concurrent dispatchers skip them. Rows that are never
// marked sent or failed become due again once the lease expires.
func (r *DeliveryRepository) ClaimDue(
	ctx context.Context,
	now time.Time,
	leaseUntil time.Time,
	limit int,
) (deliveries []domain.Delivery, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		WHERE status = 'scheduled' AND send_at <= ?
		ORDER BY send_at ASC
		LIMIT ?
		FOR UPDATE SKIP LOCKED
	`

	if err = tx.SelectContext(ctx, &deliveries, query, now.UTC(), limit); err != nil {
		return nil, fmt.Errorf("failed to get due deliveries: %w", err)
	}

	if len(deliveries) > 0 {
		ids := make([]int64, len(deliveries))
		for i := range deliveries {
			ids[i] = deliveries[i].ID
		}

		var update string
		var args []any
		update, args, err = sqlx.In(
			`UPDATE deliveries SET send_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id IN (?)`,
			leaseUntil.UTC(), ids,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to build claim query: %w", err)
		}
		if _, err = tx.ExecContext(ctx, tx.Rebind(update), args...); err != nil {
			return nil, fmt.Errorf("failed to claim due deliveries: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}

	return deliveries, nil
}

func (r *DeliveryRepository) MarkAsSent(ctx context.Context, id int64, providerSID string, sentAt time.Time) error {
	query := `
		UPDATE deliveries
		SET status = 'sent', provider_sid = ?, sent_at = ?, last_error = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, providerSID, sentAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark delivery as sent: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("no delivery found with id %d", id)
	}

	return nil
}

func (r *DeliveryRepository) MarkAsFailed(ctx context.Context, id int64, reason string) error {
	query := `
		UPDATE deliveries
		SET status = 'failed', last_error = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, reason, id); err != nil {
		return fmt.Errorf("failed to mark delivery as failed: %w", err)
	}

	return nil
}

func (r *DeliveryRepository) GetByID(ctx context.Context, id int64) (*domain.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = ?`

	var delivery domain.Delivery
	if err := r.db.GetContext(ctx, &delivery, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	return &delivery, nil
}

func (r *DeliveryRepository) GetAll(
	ctx context.Context,
	status *domain.DeliveryStatus,
	page, pageSize int,
) ([]domain.Delivery, int64, error) {
	offset := (page - 1) * pageSize

	where := ""
	args := []any{}
	if status != nil {
		where = "WHERE status = ?"
		args = append(args, *status)
	}

	var totalCount int64
	if err := r.db.GetContext(ctx, &totalCount, "SELECT COUNT(*) FROM deliveries "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	deliveries := []domain.Delivery{}
	if err := r.db.SelectContext(ctx, &deliveries, query, append(args, pageSize, offset)...); err != nil {
		return nil, 0, fmt.Errorf("failed to get deliveries: %w", err)
	}

	return deliveries, totalCount, nil
}

func (r *DeliveryRepository) GetStats(ctx context.Context) (domain.DeliveryStats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'scheduled' THEN 1 ELSE 0 END), 0) AS scheduled,
			COALESCE(SUM(CASE WHEN status = 'submitted' THEN 1 ELSE 0 END), 0) AS submitted,
			COALESCE(SUM(CASE WHEN status = 'sent' THEN 1 ELSE 0 END), 0)      AS sent,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)    AS failed
		FROM deliveries
	`

	var stats domain.DeliveryStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return domain.DeliveryStats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

// ReplayFailedByID puts a failed delivery back in the outbox, due now.
func (r *DeliveryRepository) ReplayFailedByID(ctx context.Context, id int64) error {
	query := `
		UPDATE deliveries
		SET status = 'scheduled',
		    provider_sid = NULL,
		    sent_at = NULL,
		    last_error = NULL,
		    send_at = UTC_TIMESTAMP(),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'failed'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to replay failed delivery: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("no failed delivery found with id %d", id)
	}

	return nil
}

func (r *DeliveryRepository) ReplayAllFailed(ctx context.Context) (int64, error) {
	query := `
		UPDATE deliveries
		SET status = 'scheduled',
		    provider_sid = NULL,
		    sent_at = NULL,
		    last_error = NULL,
		    send_at = UTC_TIMESTAMP(),
		    updated_at = CURRENT_TIMESTAMP
		WHERE status = 'failed'
	`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to replay failed deliveries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}
