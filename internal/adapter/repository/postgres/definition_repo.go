package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/stagelens-backend/internal/domain"
)

// definitionRepository implements domain.DefinitionRepository
type definitionRepository struct {
	db *DB
}

// NewDefinitionRepository creates a new definition repository
func NewDefinitionRepository(db *DB) domain.DefinitionRepository {
	return &definitionRepository{db: db}
}

// GetByKindAndName retrieves a definition by its kind and name
func (r *definitionRepository) GetByKindAndName(ctx context.Context, kind domain.DefinitionKind, name string) (*domain.Definition, error) {
	query := `
		SELECT id, kind, name, type, description
		FROM definitions
		WHERE kind = $1 AND name = $2
	`

	var def domain.Definition
	err := r.db.QueryRowxContext(ctx, query, string(kind), name).Scan(
		&def.ID,
		&def.Kind,
		&def.Name,
		&def.Type,
		&def.Description,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("%s definition %s not found", kind, name))
		}
		return nil, fmt.Errorf("failed to get definition: %w", err)
	}

	return &def, nil
}

// Create creates a new definition. A concurrent insert of the same kind and name is not an error.
func (r *definitionRepository) Create(ctx context.Context, def *domain.Definition) error {
	query := `
		INSERT INTO definitions (id, kind, name, type, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		def.ID,
		string(def.Kind),
		def.Name,
		def.Type,
		def.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create definition: %w", err)
	}

	return nil
}
