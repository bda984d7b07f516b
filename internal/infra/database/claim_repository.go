package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nickppf/nickppf-api/internal/usecase"
)

const codeUndefinedTable = "42P01"

// ClaimRepository guarda as reservas do sync no Postgres, compartilhadas entre réplicas.
type ClaimRepository struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewClaimRepository(db *sql.DB, ttl time.Duration) *ClaimRepository {
	return &ClaimRepository{DB: db, TTL: ttl}
}

func (r *ClaimRepository) Claim(ctx context.Context, submissionID string) (usecase.Claim, error) {
	// retoma reserva sem pedido mais velha que o TTL, ou já gravada na planilha há mais de um TTL
	query := `
		INSERT INTO order_sync_claims (submission_id, claimed_at)
		VALUES ($1, NOW())
		ON CONFLICT (submission_id)
		DO UPDATE SET claimed_at = NOW(), order_id = NULL, written_at = NULL
		WHERE (order_sync_claims.order_id IS NULL
		       AND order_sync_claims.claimed_at < NOW() - ($2 * INTERVAL '1 second'))
		   OR order_sync_claims.written_at < NOW() - ($2 * INTERVAL '1 second')
		RETURNING order_id
	`

	var orderID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, submissionID, r.TTL.Seconds()).Scan(&orderID)
	switch {
	case err == nil:
		return usecase.Claim{Acquired: true, OrderID: orderID.String}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return usecase.Claim{}, wrapPgError("claim", err)
	}

	// conflito sem update: ou já tem pedido, ou outra execução está com a linha
	err = r.DB.QueryRowContext(ctx,
		`SELECT order_id FROM order_sync_claims WHERE submission_id = $1`,
		submissionID,
	).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return usecase.Claim{}, nil
	}
	if err != nil {
		return usecase.Claim{}, wrapPgError("claim lookup", err)
	}

	if orderID.Valid && orderID.String != "" {
		return usecase.Claim{Acquired: true, OrderID: orderID.String}, nil
	}
	return usecase.Claim{}, nil
}

func (r *ClaimRepository) Complete(ctx context.Context, submissionID, orderID string) error {
	query := `
		INSERT INTO order_sync_claims (submission_id, claimed_at, order_id)
		VALUES ($1, NOW(), $2)
		ON CONFLICT (submission_id)
		DO UPDATE SET order_id = EXCLUDED.order_id
	`
	if _, err := r.DB.ExecContext(ctx, query, submissionID, orderID); err != nil {
		return wrapPgError("complete", err)
	}
	return nil
}

func (r *ClaimRepository) Release(ctx context.Context, submissionID string) error {
	query := `DELETE FROM order_sync_claims WHERE submission_id = $1 AND order_id IS NULL`
	if _, err := r.DB.ExecContext(ctx, query, submissionID); err != nil {
		return wrapPgError("release", err)
	}
	return nil
}

// Forget marca a gravação na planilha e apaga as reservas gravadas há mais de um TTL.
func (r *ClaimRepository) Forget(ctx context.Context, submissionID string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE order_sync_claims SET written_at = NOW() WHERE submission_id = $1 AND order_id IS NOT NULL`,
		submissionID,
	)
	if err != nil {
		return wrapPgError("forget", err)
	}

	_, err = r.DB.ExecContext(ctx,
		`DELETE FROM order_sync_claims WHERE written_at < NOW() - ($1 * INTERVAL '1 second')`,
		r.TTL.Seconds(),
	)
	if err != nil {
		return wrapPgError("forget sweep", err)
	}
	return nil
}

func wrapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUndefinedTable {
		return fmt.Errorf("%s: tabela order_sync_claims não existe, rode EnsureSchema: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
