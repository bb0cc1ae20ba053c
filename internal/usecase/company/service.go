package company

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/stagelens-backend/internal/domain"
)

// CompanyService handles company metadata
type CompanyService struct {
	CompanyRepo domain.CompanyRepository
	Now         func() time.Time
}

// NewCompanyService creates a new CompanyService instance
func NewCompanyService(companyRepo domain.CompanyRepository) *CompanyService {
	return &CompanyService{
		CompanyRepo: companyRepo,
		Now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create registers a company. Sector is optional.
func (s *CompanyService) Create(ctx context.Context, name string, sector *string) (*domain.Company, error) {
	c, err := domain.NewCompany(name, sector, s.Now())
	if err != nil {
		return nil, err
	}

	if err := s.CompanyRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get retrieves a company by ID
func (s *CompanyService) Get(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	return s.CompanyRepo.GetByID(ctx, id)
}
