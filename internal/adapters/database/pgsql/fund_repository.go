package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fundops/fund_admin_app/internal/apperrors"
	"github.com/fundops/fund_admin_app/internal/core/domain"
	portsrepo "github.com/fundops/fund_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxFundRepository persists fund master data.
type PgxFundRepository struct {
	pool *pgxpool.Pool
}

// NewPgxFundRepository creates a new repository for fund master data.
func NewPgxFundRepository(pool *pgxpool.Pool) portsrepo.FundRepositoryFacade {
	return &PgxFundRepository{pool: pool}
}

var _ portsrepo.FundRepositoryFacade = (*PgxFundRepository)(nil)

// SaveFund persists a new fund.
func (r *PgxFundRepository) SaveFund(ctx context.Context, fund domain.Fund) error {
	query := `
		INSERT INTO funds (fund_id, org_id, name, onboard_mode, reporting_start_date, currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		fund.FundID,
		fund.OrgID,
		fund.Name,
		fund.OnboardMode,
		fund.ReportingStartDate,
		fund.CurrencyCode,
		fund.IsActive,
		fund.CreatedAt,
		fund.CreatedBy,
		fund.LastUpdatedAt,
		fund.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert fund %s: %w", fund.FundID, err)
	}
	return nil
}

// FindFundByID retrieves a fund by its ID.
func (r *PgxFundRepository) FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	query := `
		SELECT fund_id, org_id, name, onboard_mode, reporting_start_date, currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM funds
		WHERE fund_id = $1;
	`
	var fund domain.Fund
	err := r.pool.QueryRow(ctx, query, fundID).Scan(
		&fund.FundID,
		&fund.OrgID,
		&fund.Name,
		&fund.OnboardMode,
		&fund.ReportingStartDate,
		&fund.CurrencyCode,
		&fund.IsActive,
		&fund.CreatedAt,
		&fund.CreatedBy,
		&fund.LastUpdatedAt,
		&fund.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fund %s: %w", fundID, err)
	}
	return &fund, nil
}

// ListFunds retrieves all active funds ordered by name.
func (r *PgxFundRepository) ListFunds(ctx context.Context) ([]domain.Fund, error) {
	query := `
		SELECT fund_id, org_id, name, onboard_mode, reporting_start_date, currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM funds
		WHERE is_active = TRUE
		ORDER BY name;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}
	defer rows.Close()

	var funds []domain.Fund
	for rows.Next() {
		var fund domain.Fund
		if err := rows.Scan(
			&fund.FundID,
			&fund.OrgID,
			&fund.Name,
			&fund.OnboardMode,
			&fund.ReportingStartDate,
			&fund.CurrencyCode,
			&fund.IsActive,
			&fund.CreatedAt,
			&fund.CreatedBy,
			&fund.LastUpdatedAt,
			&fund.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fund row: %w", err)
		}
		funds = append(funds, fund)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund rows: %w", err)
	}
	return funds, nil
}
