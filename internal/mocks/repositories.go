// Package mocks holds testify mocks of the domain repository interfaces
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/stretchr/testify/mock"
)

// CompanyRepository is a mock implementation of domain.CompanyRepository
type CompanyRepository struct {
	mock.Mock
}

func (m *CompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

// SnapshotRepository is a mock implementation of domain.SnapshotRepository
type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) Create(ctx context.Context, snapshot *domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *SnapshotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *SnapshotRepository) ExistsForDate(ctx context.Context, companyID uuid.UUID, date time.Time) (bool, error) {
	args := m.Called(ctx, companyID, date)
	return args.Bool(0), args.Error(1)
}

func (m *SnapshotRepository) UpdateDraft(ctx context.Context, snapshot *domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *SnapshotRepository) SaveFinalized(ctx context.Context, snapshot *domain.Snapshot, result *domain.FinalizeResult) error {
	args := m.Called(ctx, snapshot, result)
	return args.Error(0)
}

func (m *SnapshotRepository) SaveInvalidated(ctx context.Context, snapshot *domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *SnapshotRepository) GetEvaluation(ctx context.Context, snapshotID uuid.UUID) (*domain.Evaluation, error) {
	args := m.Called(ctx, snapshotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *SnapshotRepository) ListFinalizedByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Snapshot, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Snapshot), args.Error(1)
}

func (m *SnapshotRepository) GetFinalizedByCompanyAndDate(ctx context.Context, companyID uuid.UUID, date time.Time) (*domain.Snapshot, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

// DefinitionRepository is a mock implementation of domain.DefinitionRepository
type DefinitionRepository struct {
	mock.Mock
}

func (m *DefinitionRepository) GetByKindAndName(ctx context.Context, kind domain.DefinitionKind, name string) (*domain.Definition, error) {
	args := m.Called(ctx, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Definition), args.Error(1)
}

func (m *DefinitionRepository) Create(ctx context.Context, def *domain.Definition) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}
