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

// PgxGLAccountRepository persists the GL master.
type PgxGLAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPgxGLAccountRepository creates a new repository for GL master data.
func NewPgxGLAccountRepository(pool *pgxpool.Pool) portsrepo.GLAccountRepositoryFacade {
	return &PgxGLAccountRepository{pool: pool}
}

var _ portsrepo.GLAccountRepositoryFacade = (*PgxGLAccountRepository)(nil)

// SaveGLAccount persists a new GL master entry.
func (r *PgxGLAccountRepository) SaveGLAccount(ctx context.Context, account domain.GLAccount) error {
	query := `
		INSERT INTO gl_accounts (code, name, category, nature, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		account.Code,
		account.Name,
		account.Category,
		account.Nature,
		account.Description,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert GL account %s: %w", account.Code, err)
	}
	return nil
}

// FindGLAccountByCode retrieves a GL master entry by code.
func (r *PgxGLAccountRepository) FindGLAccountByCode(ctx context.Context, code string) (*domain.GLAccount, error) {
	query := `
		SELECT code, name, category, nature, description, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM gl_accounts
		WHERE code = $1;
	`
	var account domain.GLAccount
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&account.Code,
		&account.Name,
		&account.Category,
		&account.Nature,
		&account.Description,
		&account.IsActive,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find GL account %s: %w", code, err)
	}
	return &account, nil
}

// ListGLAccounts retrieves all GL master entries in code order.
func (r *PgxGLAccountRepository) ListGLAccounts(ctx context.Context) ([]domain.GLAccount, error) {
	query := `
		SELECT code, name, category, nature, description, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM gl_accounts
		ORDER BY code;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list GL accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.GLAccount
	for rows.Next() {
		var account domain.GLAccount
		if err := rows.Scan(
			&account.Code,
			&account.Name,
			&account.Category,
			&account.Nature,
			&account.Description,
			&account.IsActive,
			&account.CreatedAt,
			&account.CreatedBy,
			&account.LastUpdatedAt,
			&account.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan GL account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating GL account rows: %w", err)
	}
	return accounts, nil
}

// FindGLAccountNames returns a code -> name map for the given codes.
func (r *PgxGLAccountRepository) FindGLAccountNames(ctx context.Context, codes []string) (map[string]string, error) {
	names := make(map[string]string, len(codes))
	if len(codes) == 0 {
		return names, nil
	}

	query := `SELECT code, name FROM gl_accounts WHERE code = ANY($1);`
	rows, err := r.pool.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query GL account names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, fmt.Errorf("failed to scan GL name row: %w", err)
		}
		names[code] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating GL name rows: %w", err)
	}
	return names, nil
}
