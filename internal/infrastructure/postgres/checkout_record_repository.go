package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
	"github.com/bibbank/smart-checkout/pkg/postgres"
)

var _ port.CheckoutRecordRepository = (*CheckoutRecordRepository)(nil)

// CheckoutRecordRepository implements port.CheckoutRecordRepository using PostgreSQL.
type CheckoutRecordRepository struct {
	pool *pgxpool.Pool
}

// NewCheckoutRecordRepository creates a new PostgreSQL-backed record repository.
func NewCheckoutRecordRepository(pool *pgxpool.Pool) *CheckoutRecordRepository {
	return &CheckoutRecordRepository{pool: pool}
}

// Save persists a checkout record and its reasons in one transaction.
func (r *CheckoutRecordRepository) Save(ctx context.Context, record model.CheckoutRecord) error {
	return postgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO checkout_records (
				id, reference_id, status, payment_method,
				amount, currency, risk_score, risk_level,
				step_up_required, message, created_at
			) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			record.ID,
			record.ReferenceID,
			record.Status.String(),
			record.PaymentMethod,
			record.Amount,
			record.Currency,
			record.RiskScore,
			record.RiskLevel.String(),
			record.StepUpRequired,
			record.Message,
			record.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save checkout record: %w", err)
		}

		for i, reason := range record.Reasons {
			_, err = tx.Exec(ctx,
				`INSERT INTO checkout_record_reasons (record_id, position, reason) VALUES ($1, $2, $3)`,
				record.ID, i, reason,
			)
			if err != nil {
				return fmt.Errorf("failed to save checkout reason: %w", err)
			}
		}
		return nil
	})
}

// FindByID loads a record. A missing record returns (nil, nil).
func (r *CheckoutRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CheckoutRecord, error) {
	var (
		record    model.CheckoutRecord
		reference *string
		status    string
		level     string
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, reference_id, status, payment_method,
			amount, currency, risk_score, risk_level,
			step_up_required, message, created_at
		FROM checkout_records
		WHERE id = $1`, id,
	).Scan(
		&record.ID, &reference, &status, &record.PaymentMethod,
		&record.Amount, &record.Currency, &record.RiskScore, &level,
		&record.StepUpRequired, &record.Message, &record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan checkout record: %w", err)
	}

	if reference != nil {
		record.ReferenceID = *reference
	}
	if record.Status, err = valueobject.CheckoutStatusFromString(status); err != nil {
		return nil, fmt.Errorf("failed to parse status: %w", err)
	}
	if record.RiskLevel, err = valueobject.RiskLevelFromString(level); err != nil {
		return nil, fmt.Errorf("failed to parse risk level: %w", err)
	}

	record.Reasons, err = r.loadReasons(ctx, id)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *CheckoutRecordRepository) loadReasons(ctx context.Context, id uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT reason FROM checkout_record_reasons WHERE record_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query reasons: %w", err)
	}

	reasons, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan reasons: %w", err)
	}
	return reasons, nil
}
