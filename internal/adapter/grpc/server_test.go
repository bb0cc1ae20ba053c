package grpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/simaogato/stagelens-backend/internal/mocks"
	"github.com/simaogato/stagelens-backend/internal/usecase/company"
	"github.com/simaogato/stagelens-backend/internal/usecase/history"
	"github.com/simaogato/stagelens-backend/internal/usecase/pipeline"
	"github.com/simaogato/stagelens-backend/internal/usecase/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const (
	testAnalystToken = "analyst-token"
	testAdminToken   = "admin-token"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	client       *StageServiceClient
	companyRepo  *mocks.CompanyRepository
	snapshotRepo *mocks.SnapshotRepository
}

// newTestEnv starts the StageService on an in-memory listener and returns a connected client
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	companyRepo := new(mocks.CompanyRepository)
	snapshotRepo := new(mocks.SnapshotRepository)

	companyService := company.NewCompanyService(companyRepo)
	companyService.Now = func() time.Time { return testNow }
	snapshotService := snapshot.NewSnapshotService(companyRepo, snapshotRepo, pipeline.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	snapshotService.Now = func() time.Time { return testNow }
	historyService := history.NewHistoryService(snapshotRepo)

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(slog.New(slog.NewTextHandler(io.Discard, nil))),
		AuthInterceptor(map[string]Role{
			testAnalystToken: RoleAnalyst,
			testAdminToken:   RoleAdmin,
		}),
	))
	RegisterStageServiceServer(srv, NewServer(companyService, snapshotService, historyService))
	go func() {
		_ = srv.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
	})

	return &testEnv{
		client:       NewStageServiceClient(conn),
		companyRepo:  companyRepo,
		snapshotRepo: snapshotRepo,
	}
}

func authed(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func str(s string) *string { return &s }

func present(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func draftSnapshot(companyID uuid.UUID) *domain.Snapshot {
	return domain.NewSnapshot(companyID, testNow, domain.Financials{
		CashBalance:    present(120000),
		MonthlyRevenue: present(20000),
		OperatingCosts: present(40000),
	}, testNow)
}

func finalizedSnapshot(t *testing.T, companyID uuid.UUID, date time.Time, cash, revenue, costs int64) *domain.Snapshot {
	t.Helper()
	s := domain.NewSnapshot(companyID, date, domain.Financials{
		CashBalance:    present(cash),
		MonthlyRevenue: present(revenue),
		OperatingCosts: present(costs),
	}, testNow)
	_, err := pipeline.Default().Finalize(s, testNow)
	require.NoError(t, err)
	return s
}

func TestServer_RequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.GetSnapshot(context.Background(), &GetSnapshotRequest{SnapshotID: uuid.NewString()})

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_CreateCompany(t *testing.T) {
	env := newTestEnv(t)
	env.companyRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Company")).Return(nil)

	resp, err := env.client.CreateCompany(authed(testAnalystToken), &CreateCompanyRequest{Name: " Acme ", Sector: str("Fintech")})

	require.NoError(t, err)
	assert.Equal(t, "Acme", resp.Company.Name)
	require.NotNil(t, resp.Company.Sector)
	assert.Equal(t, "Fintech", *resp.Company.Sector)
	_, err = uuid.Parse(resp.Company.ID)
	assert.NoError(t, err)
}

func TestServer_CreateSnapshot(t *testing.T) {
	env := newTestEnv(t)
	companyID := uuid.New()
	env.companyRepo.On("GetByID", mock.Anything, companyID).Return(&domain.Company{ID: companyID, Name: "Acme"}, nil)
	env.snapshotRepo.On("ExistsForDate", mock.Anything, companyID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)).Return(false, nil)
	env.snapshotRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Snapshot")).Return(nil)

	resp, err := env.client.CreateSnapshot(authed(testAnalystToken), &CreateSnapshotRequest{
		CompanyID:    companyID.String(),
		SnapshotDate: "2026-03-01",
		Financials: Financials{
			CashBalance:    str("120000"),
			MonthlyRevenue: str("20000"),
			OperatingCosts: str("40000"),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.SnapshotStatusDraft), resp.Snapshot.Status)
	assert.Equal(t, "2026-03-01", resp.Snapshot.SnapshotDate)
	require.NotNil(t, resp.Snapshot.MonthlyBurn)
	assert.Equal(t, "20000", *resp.Snapshot.MonthlyBurn)
	require.NotNil(t, resp.Snapshot.RunwayMonths)
	assert.Equal(t, "6", *resp.Snapshot.RunwayMonths)
	assert.Nil(t, resp.Snapshot.Stage)
}

func TestServer_CreateSnapshot_InvalidArguments(t *testing.T) {
	companyID := uuid.New()

	tests := []struct {
		name    string
		req     *CreateSnapshotRequest
		setup   func(env *testEnv)
		code    codes.Code
		message string
	}{
		{
			name:    "Malformed company ID",
			req:     &CreateSnapshotRequest{CompanyID: "nope", SnapshotDate: "2026-03-01"},
			code:    codes.InvalidArgument,
			message: "company_id",
		},
		{
			name:    "Malformed date",
			req:     &CreateSnapshotRequest{CompanyID: companyID.String(), SnapshotDate: "01/03/2026"},
			code:    codes.InvalidArgument,
			message: "snapshot_date",
		},
		{
			name: "Malformed decimal",
			req: &CreateSnapshotRequest{
				CompanyID:    companyID.String(),
				SnapshotDate: "2026-03-01",
				Financials:   Financials{CashBalance: str("lots")},
			},
			code:    codes.InvalidArgument,
			message: "cash_balance",
		},
		{
			name: "Negative cash balance",
			req: &CreateSnapshotRequest{
				CompanyID:    companyID.String(),
				SnapshotDate: "2026-03-01",
				Financials:   Financials{CashBalance: str("-1")},
			},
			setup: func(env *testEnv) {
				env.companyRepo.On("GetByID", mock.Anything, companyID).Return(&domain.Company{ID: companyID}, nil)
			},
			code:    codes.InvalidArgument,
			message: "cash_balance",
		},
		{
			name: "Duplicate date",
			req: &CreateSnapshotRequest{
				CompanyID:    companyID.String(),
				SnapshotDate: "2026-03-01",
			},
			setup: func(env *testEnv) {
				env.companyRepo.On("GetByID", mock.Anything, companyID).Return(&domain.Company{ID: companyID}, nil)
				env.snapshotRepo.On("ExistsForDate", mock.Anything, companyID, mock.Anything).Return(true, nil)
			},
			code:    codes.AlreadyExists,
			message: "2026-03-01",
		},
		{
			name: "Unknown company",
			req: &CreateSnapshotRequest{
				CompanyID:    companyID.String(),
				SnapshotDate: "2026-03-01",
			},
			setup: func(env *testEnv) {
				env.companyRepo.On("GetByID", mock.Anything, companyID).Return(nil, domain.NewNotFoundError("company not found"))
			},
			code:    codes.NotFound,
			message: "company not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.setup != nil {
				tt.setup(env)
			}

			_, err := env.client.CreateSnapshot(authed(testAnalystToken), tt.req)

			require.Error(t, err)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Contains(t, st.Message(), tt.message)
			env.snapshotRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestServer_FinalizeSnapshot(t *testing.T) {
	env := newTestEnv(t)
	snap := draftSnapshot(uuid.New())
	env.snapshotRepo.On("GetByID", mock.Anything, snap.ID).Return(snap, nil)
	env.snapshotRepo.On("SaveFinalized", mock.Anything, snap, mock.AnythingOfType("*domain.FinalizeResult")).Return(nil)

	resp, err := env.client.FinalizeSnapshot(authed(testAnalystToken), &FinalizeSnapshotRequest{SnapshotID: snap.ID.String()})

	require.NoError(t, err)
	assert.Equal(t, string(domain.SnapshotStatusFinalized), resp.Snapshot.Status)
	require.NotNil(t, resp.Snapshot.Stage)
	assert.Equal(t, string(domain.StagePreSeed), *resp.Snapshot.Stage)
	assert.Equal(t, "runway-caution", resp.Branch)
	require.NotNil(t, resp.Snapshot.FinalizedAt)

	names := make([]string, 0, len(resp.Snapshot.Signals))
	for _, s := range resp.Snapshot.Signals {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{domain.SignalMonthlyBurn, domain.SignalRunwayMonths, domain.SignalRunwayRisk}, names)
	assert.Len(t, resp.Snapshot.RuleResults, 2)
	require.NotEmpty(t, resp.Snapshot.ContributingSignals)
	for _, c := range resp.Snapshot.ContributingSignals {
		assert.Equal(t, "runway-caution", c.Reason)
	}
}

func TestServer_FinalizeSnapshot_AlreadyFinalized(t *testing.T) {
	env := newTestEnv(t)
	snap := finalizedSnapshot(t, uuid.New(), testNow, 120000, 20000, 40000)
	env.snapshotRepo.On("GetByID", mock.Anything, snap.ID).Return(snap, nil)

	_, err := env.client.FinalizeSnapshot(authed(testAnalystToken), &FinalizeSnapshotRequest{SnapshotID: snap.ID.String()})

	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	env.snapshotRepo.AssertNotCalled(t, "SaveFinalized", mock.Anything, mock.Anything, mock.Anything)
}

func TestServer_UpdateSnapshotFinancials_FinalizedIsImmutable(t *testing.T) {
	env := newTestEnv(t)
	snap := finalizedSnapshot(t, uuid.New(), testNow, 120000, 20000, 40000)
	env.snapshotRepo.On("GetByID", mock.Anything, snap.ID).Return(snap, nil)

	_, err := env.client.UpdateSnapshotFinancials(authed(testAnalystToken), &UpdateSnapshotFinancialsRequest{
		SnapshotID: snap.ID.String(),
		Financials: Financials{MonthlyRevenue: str("50000")},
	})

	st, _ := status.FromError(err)
	assert.Equal(t, codes.FailedPrecondition, st.Code())
	assert.Contains(t, st.Message(), "FINALIZED")
	env.snapshotRepo.AssertNotCalled(t, "UpdateDraft", mock.Anything, mock.Anything)
}

func TestServer_InvalidateSnapshot(t *testing.T) {
	env := newTestEnv(t)
	snap := finalizedSnapshot(t, uuid.New(), testNow, 120000, 20000, 40000)
	env.snapshotRepo.On("GetByID", mock.Anything, snap.ID).Return(snap, nil)
	env.snapshotRepo.On("SaveInvalidated", mock.Anything, snap).Return(nil)

	_, err := env.client.InvalidateSnapshot(authed(testAnalystToken), &InvalidateSnapshotRequest{
		SnapshotID: snap.ID.String(),
		Reason:     "restated figures",
	})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	resp, err := env.client.InvalidateSnapshot(authed(testAdminToken), &InvalidateSnapshotRequest{
		SnapshotID: snap.ID.String(),
		Reason:     "restated figures",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.SnapshotStatusInvalidated), resp.Snapshot.Status)
	require.NotNil(t, resp.Snapshot.InvalidationReason)
	assert.Equal(t, "restated figures", *resp.Snapshot.InvalidationReason)
	require.NotNil(t, resp.Snapshot.Stage)
	assert.Equal(t, string(domain.StagePreSeed), *resp.Snapshot.Stage)
	env.snapshotRepo.AssertNumberOfCalls(t, "SaveInvalidated", 1)
}

func TestServer_GetSnapshot_WithEvaluation(t *testing.T) {
	env := newTestEnv(t)
	snap := finalizedSnapshot(t, uuid.New(), testNow, 120000, 20000, 40000)
	sig := domain.NewSignal(domain.SignalRunwayRisk, domain.SignalCategoryRisk, decimal.NewFromInt(2), testNow)
	eval := &domain.Evaluation{
		Signals:      []domain.Signal{sig},
		RuleResults:  []domain.RuleResult{domain.NewRuleResult(domain.RuleRunwayRisk, domain.ResultCaution, testNow)},
		Contributing: []domain.ContributingSignal{{SnapshotID: snap.ID, SignalID: sig.ID, Reason: "runway-caution"}},
	}
	env.snapshotRepo.On("GetByID", mock.Anything, snap.ID).Return(snap, nil)
	env.snapshotRepo.On("GetEvaluation", mock.Anything, snap.ID).Return(eval, nil)

	resp, err := env.client.GetSnapshot(authed(testAnalystToken), &GetSnapshotRequest{SnapshotID: snap.ID.String()})

	require.NoError(t, err)
	require.Len(t, resp.Snapshot.Signals, 1)
	assert.Equal(t, "2", resp.Snapshot.Signals[0].Value)
	require.Len(t, resp.Snapshot.ContributingSignals, 1)
	assert.Equal(t, sig.ID.String(), resp.Snapshot.ContributingSignals[0].SignalID)
	require.Len(t, resp.Snapshot.RuleResults, 1)
	assert.Equal(t, domain.ResultCaution, resp.Snapshot.RuleResults[0].Result)
}

func TestServer_GetTimelineAndTrends(t *testing.T) {
	env := newTestEnv(t)
	companyID := uuid.New()
	snapshots := []*domain.Snapshot{
		finalizedSnapshot(t, companyID, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 120000, 20000, 40000),
		finalizedSnapshot(t, companyID, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), 1000000, 10000, 60000),
	}
	env.snapshotRepo.On("ListFinalizedByCompany", mock.Anything, companyID).Return(snapshots, nil)

	timeline, err := env.client.GetTimeline(authed(testAnalystToken), &GetTimelineRequest{CompanyID: companyID.String()})

	require.NoError(t, err)
	require.Len(t, timeline.Items, 2)
	assert.Equal(t, string(domain.StagePreSeed), timeline.Items[0].Stage)
	assert.Nil(t, timeline.Items[0].StageTransition)
	assert.Equal(t, string(domain.StageSeed), timeline.Items[1].Stage)
	require.NotNil(t, timeline.Items[1].StageTransition)
	assert.Equal(t, "PRE_SEED -> SEED", *timeline.Items[1].StageTransition)

	trends, err := env.client.GetTrends(authed(testAnalystToken), &GetTrendsRequest{CompanyID: companyID.String()})

	require.NoError(t, err)
	assert.Equal(t, 2, trends.SnapshotCount)
	require.Len(t, trends.TimeSeries, 2)
	assert.Nil(t, trends.TimeSeries[0].RevenueGrowthPercent)
	require.NotNil(t, trends.TimeSeries[1].RevenueGrowthPercent)
	assert.Equal(t, "-50", *trends.TimeSeries[1].RevenueGrowthPercent)
	require.NotNil(t, trends.Indicators.RevenueTrend)
	assert.Equal(t, "DOWN", *trends.Indicators.RevenueTrend)
}

func TestServer_CompareSnapshots(t *testing.T) {
	env := newTestEnv(t)
	companyID := uuid.New()
	from := finalizedSnapshot(t, companyID, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 120000, 20000, 40000)
	to := finalizedSnapshot(t, companyID, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), 500000, 100000, 80000)
	env.snapshotRepo.On("GetFinalizedByCompanyAndDate", mock.Anything, companyID, from.Date).Return(from, nil)
	env.snapshotRepo.On("GetFinalizedByCompanyAndDate", mock.Anything, companyID, to.Date).Return(to, nil)

	resp, err := env.client.CompareSnapshots(authed(testAnalystToken), &CompareSnapshotsRequest{
		CompanyID: companyID.String(),
		FromDate:  "2026-01-01",
		ToDate:    "2026-02-01",
	})

	require.NoError(t, err)
	assert.True(t, resp.StageChanged)
	assert.Equal(t, string(domain.StagePreSeed), resp.FromStage)
	assert.Equal(t, string(domain.StageSeriesA), resp.ToStage)
	require.NotNil(t, resp.Deltas.MonthlyRevenue)
	assert.Equal(t, "80000", *resp.Deltas.MonthlyRevenue)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"Sanity", domain.NewSanityError("cash_balance", "-1", "negative", "negative"), codes.InvalidArgument},
		{"InvalidSignal", domain.NewInvalidSignalError("RunwayRisk", "4", "unknown code"), codes.InvalidArgument},
		{"Immutability", domain.NewImmutabilityError(uuid.New(), domain.SnapshotStatusFinalized, "set stage"), codes.FailedPrecondition},
		{"Transition", domain.NewTransitionError(uuid.New(), domain.SnapshotStatusDraft, "invalidate", "draft"), codes.FailedPrecondition},
		{"InsufficientData", domain.NewInsufficientDataError("no rule matched"), codes.FailedPrecondition},
		{"NotFound", domain.NewNotFoundError("missing"), codes.NotFound},
		{"Duplicate", domain.NewDuplicateError("exists"), codes.AlreadyExists},
		{"Wrapped domain error", fmt.Errorf("loading: %w", domain.NewNotFoundError("missing")), codes.NotFound},
		{"Deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"Unknown", errors.New("connection reset"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(mapError(tt.err)))
		})
	}
	assert.NoError(t, mapError(nil))
}
