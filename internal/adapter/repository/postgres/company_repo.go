package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/stagelens-backend/internal/domain"
)

// companyRepository implements domain.CompanyRepository
type companyRepository struct {
	db *DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *DB) domain.CompanyRepository {
	return &companyRepository{db: db}
}

type companyRow struct {
	ID        uuid.UUID      `db:"id"`
	Name      string         `db:"name"`
	Sector    sql.NullString `db:"sector"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// Create creates a new company
func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	query := `
		INSERT INTO companies (id, name, sector, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	var sector interface{}
	if company.Sector != nil {
		sector = *company.Sector
	}

	_, err := r.db.ExecContext(ctx, query,
		company.ID,
		company.Name,
		sector,
		company.CreatedAt,
		company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicateError(fmt.Sprintf("company %s already exists", company.ID))
		}
		return fmt.Errorf("failed to create company: %w", err)
	}

	return nil
}

// GetByID retrieves a company by its ID
func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	query := `
		SELECT id, name, sector, created_at, updated_at
		FROM companies
		WHERE id = $1
	`

	var row companyRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("company %s not found", id))
		}
		return nil, fmt.Errorf("failed to get company by ID: %w", err)
	}

	company := &domain.Company{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Sector.Valid {
		sector := row.Sector.String
		company.Sector = &sector
	}
	return company, nil
}
