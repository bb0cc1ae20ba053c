package company

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/simaogato/stagelens-backend/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompanyService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.CompanyRepository)
	service := NewCompanyService(repo)
	sector := "Climate"

	repo.On("Create", ctx, mock.MatchedBy(func(c *domain.Company) bool {
		return c.Name == "Heliox" && c.Sector != nil && *c.Sector == "Climate"
	})).Return(nil)

	c, err := service.Create(ctx, " Heliox ", &sector)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)
	repo.AssertExpectations(t)
}

func TestCompanyService_Create_EmptyName(t *testing.T) {
	repo := new(mocks.CompanyRepository)
	service := NewCompanyService(repo)

	_, err := service.Create(context.Background(), "", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCompanyService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.CompanyRepository)
	service := NewCompanyService(repo)
	id := uuid.New()

	repo.On("GetByID", ctx, id).Return(nil, domain.NewNotFoundError("company not found"))

	_, err := service.Get(ctx, id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
