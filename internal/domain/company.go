package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Company represents a startup tracked through dated snapshots.
// It holds metadata only; financial data and stages live on snapshots.
type Company struct {
	ID        uuid.UUID
	Name      string
	Sector    *string // NULL when unknown
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCompany creates a company with a trimmed, non-empty name
func NewCompany(name string, sector *string, now time.Time) (*Company, error) {
	c := &Company{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if sector != nil {
		if trimmed := strings.TrimSpace(*sector); trimmed != "" {
			c.Sector = &trimmed
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate ensures the company adheres to domain rules
func (c *Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewInvalidInputError("name", "company name cannot be empty")
	}
	return nil
}
