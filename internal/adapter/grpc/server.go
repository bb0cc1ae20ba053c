package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/simaogato/stagelens-backend/internal/usecase/company"
	"github.com/simaogato/stagelens-backend/internal/usecase/history"
	"github.com/simaogato/stagelens-backend/internal/usecase/snapshot"
	"github.com/simaogato/stagelens-backend/internal/usecase/trend"
)

// Server implements the StageService gRPC server
type Server struct {
	CompanyService  *company.CompanyService
	SnapshotService *snapshot.SnapshotService
	HistoryService  *history.HistoryService
}

// NewServer creates a new gRPC server instance
func NewServer(
	companyService *company.CompanyService,
	snapshotService *snapshot.SnapshotService,
	historyService *history.HistoryService,
) *Server {
	return &Server{
		CompanyService:  companyService,
		SnapshotService: snapshotService,
		HistoryService:  historyService,
	}
}

var _ StageServiceServer = (*Server)(nil)

// CreateCompany handles the CreateCompany RPC
func (s *Server) CreateCompany(ctx context.Context, req *CreateCompanyRequest) (*CreateCompanyResponse, error) {
	c, err := s.CompanyService.Create(ctx, req.Name, req.Sector)
	if err != nil {
		return nil, mapError(err)
	}
	return &CreateCompanyResponse{Company: companyToProto(c)}, nil
}

// GetCompany handles the GetCompany RPC
func (s *Server) GetCompany(ctx context.Context, req *GetCompanyRequest) (*GetCompanyResponse, error) {
	id, err := parseID("company_id", req.CompanyID)
	if err != nil {
		return nil, err
	}

	c, err := s.CompanyService.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return &GetCompanyResponse{Company: companyToProto(c)}, nil
}

// CreateSnapshot handles the CreateSnapshot RPC
func (s *Server) CreateSnapshot(ctx context.Context, req *CreateSnapshotRequest) (*SnapshotResponse, error) {
	companyID, err := parseID("company_id", req.CompanyID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate("snapshot_date", req.SnapshotDate)
	if err != nil {
		return nil, err
	}

	update, err := financialsFromProto(req.Financials)
	if err != nil {
		return nil, err
	}

	snap, err := s.SnapshotService.Create(ctx, snapshot.CreateInput{
		CompanyID:  companyID,
		Date:       date,
		Financials: update.Apply(domain.Financials{}),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &SnapshotResponse{Snapshot: snapshotToProto(snap, nil)}, nil
}

// UpdateSnapshotFinancials handles the UpdateSnapshotFinancials RPC
func (s *Server) UpdateSnapshotFinancials(ctx context.Context, req *UpdateSnapshotFinancialsRequest) (*SnapshotResponse, error) {
	id, err := parseID("snapshot_id", req.SnapshotID)
	if err != nil {
		return nil, err
	}

	update, err := financialsFromProto(req.Financials)
	if err != nil {
		return nil, err
	}

	snap, err := s.SnapshotService.UpdateFinancials(ctx, id, update)
	if err != nil {
		return nil, mapError(err)
	}
	return &SnapshotResponse{Snapshot: snapshotToProto(snap, nil)}, nil
}

// GetSnapshot handles the GetSnapshot RPC
func (s *Server) GetSnapshot(ctx context.Context, req *GetSnapshotRequest) (*SnapshotResponse, error) {
	id, err := parseID("snapshot_id", req.SnapshotID)
	if err != nil {
		return nil, err
	}

	d, err := s.SnapshotService.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return &SnapshotResponse{Snapshot: snapshotToProto(d.Snapshot, d.Evaluation)}, nil
}

// FinalizeSnapshot handles the FinalizeSnapshot RPC
func (s *Server) FinalizeSnapshot(ctx context.Context, req *FinalizeSnapshotRequest) (*FinalizeSnapshotResponse, error) {
	id, err := parseID("snapshot_id", req.SnapshotID)
	if err != nil {
		return nil, err
	}

	snap, result, err := s.SnapshotService.Finalize(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	eval := &domain.Evaluation{
		Signals:      result.Signals,
		RuleResults:  result.RuleResults,
		Contributing: result.ContributingSignals(snap.ID),
	}
	return &FinalizeSnapshotResponse{
		Snapshot: snapshotToProto(snap, eval),
		Branch:   result.Branch,
	}, nil
}

// InvalidateSnapshot handles the InvalidateSnapshot RPC
func (s *Server) InvalidateSnapshot(ctx context.Context, req *InvalidateSnapshotRequest) (*SnapshotResponse, error) {
	id, err := parseID("snapshot_id", req.SnapshotID)
	if err != nil {
		return nil, err
	}

	snap, err := s.SnapshotService.Invalidate(ctx, id, req.Reason)
	if err != nil {
		return nil, mapError(err)
	}
	return &SnapshotResponse{Snapshot: snapshotToProto(snap, nil)}, nil
}

// GetTimeline handles the GetTimeline RPC
func (s *Server) GetTimeline(ctx context.Context, req *GetTimelineRequest) (*GetTimelineResponse, error) {
	companyID, err := parseID("company_id", req.CompanyID)
	if err != nil {
		return nil, err
	}

	items, err := s.HistoryService.Timeline(ctx, companyID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &GetTimelineResponse{
		CompanyID: companyID.String(),
		Items:     make([]TimelineItem, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, TimelineItem{
			SnapshotID:      item.SnapshotID.String(),
			SnapshotDate:    formatDate(item.Date),
			Stage:           string(item.Stage),
			MonthlyRevenue:  decimalToProto(item.MonthlyRevenue),
			MonthlyBurn:     decimalToProto(item.MonthlyBurn),
			RunwayMonths:    decimalToProto(item.RunwayMonths),
			StageTransition: optionalString(item.StageTransition),
		})
	}
	return resp, nil
}

// GetTrends handles the GetTrends RPC
func (s *Server) GetTrends(ctx context.Context, req *GetTrendsRequest) (*GetTrendsResponse, error) {
	companyID, err := parseID("company_id", req.CompanyID)
	if err != nil {
		return nil, err
	}

	series, err := s.HistoryService.Trends(ctx, companyID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &GetTrendsResponse{
		CompanyID:     companyID.String(),
		TimeSeries:    make([]TrendPoint, 0, len(series.Points)),
		SnapshotCount: series.SnapshotCount,
		Indicators: TrendIndicators{
			RevenueTrend: directionToProto(series.Indicators.Revenue),
			BurnTrend:    directionToProto(series.Indicators.Burn),
			RunwayTrend:  directionToProto(series.Indicators.Runway),
		},
		MeanRevenueGrowth: decimalToProto(series.MeanRevenueGrowth),
	}
	for _, p := range series.Points {
		resp.TimeSeries = append(resp.TimeSeries, TrendPoint{
			Date:                 p.Date,
			RunwayMonths:         decimalToProto(p.RunwayMonths),
			MonthlyBurn:          decimalToProto(p.MonthlyBurn),
			MonthlyRevenue:       decimalToProto(p.MonthlyRevenue),
			RevenueGrowthPercent: decimalToProto(p.RevenueGrowth),
		})
	}
	return resp, nil
}

// CompareSnapshots handles the CompareSnapshots RPC
func (s *Server) CompareSnapshots(ctx context.Context, req *CompareSnapshotsRequest) (*CompareSnapshotsResponse, error) {
	companyID, err := parseID("company_id", req.CompanyID)
	if err != nil {
		return nil, err
	}
	from, err := parseDate("from_date", req.FromDate)
	if err != nil {
		return nil, err
	}
	to, err := parseDate("to_date", req.ToDate)
	if err != nil {
		return nil, err
	}

	c, err := s.HistoryService.Compare(ctx, companyID, from, to)
	if err != nil {
		return nil, mapError(err)
	}

	return &CompareSnapshotsResponse{
		FromDate:     formatDate(c.FromDate),
		ToDate:       formatDate(c.ToDate),
		FromStage:    string(c.FromStage),
		ToStage:      string(c.ToStage),
		StageChanged: c.StageChanged,
		FromMetrics:  metricValuesToProto(c.From),
		ToMetrics:    metricValuesToProto(c.To),
		Deltas:       metricValuesToProto(c.Delta),
	}, nil
}

// parseID parses a UUID request field
func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", field, err)
	}
	return id, nil
}

// parseDate parses a YYYY-MM-DD request field
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "invalid %s format, want YYYY-MM-DD: %v", field, err)
	}
	return t, nil
}

// financialsFromProto parses the present decimal strings into a partial update
func financialsFromProto(f Financials) (domain.FinancialsUpdate, error) {
	var u domain.FinancialsUpdate
	fields := []struct {
		name  string
		value *string
		dest  **decimal.Decimal
	}{
		{"cash_balance", f.CashBalance, &u.CashBalance},
		{"monthly_revenue", f.MonthlyRevenue, &u.MonthlyRevenue},
		{"operating_costs", f.OperatingCosts, &u.OperatingCosts},
	}

	for _, field := range fields {
		if field.value == nil {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(*field.value))
		if err != nil {
			return domain.FinancialsUpdate{}, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", field.name, err)
		}
		*field.dest = &d
	}
	return u, nil
}

func formatDate(t time.Time) string { return t.Format(time.DateOnly) }

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func optionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func decimalToProto(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}

func directionToProto(d trend.Direction) *string {
	return optionalString(string(d))
}

func metricValuesToProto(m history.MetricValues) MetricValues {
	return MetricValues{
		MonthlyRevenue: decimalToProto(m.MonthlyRevenue),
		MonthlyBurn:    decimalToProto(m.MonthlyBurn),
		RunwayMonths:   decimalToProto(m.RunwayMonths),
	}
}

// companyToProto converts a domain Company to its wire message
func companyToProto(c *domain.Company) *Company {
	return &Company{
		ID:        c.ID.String(),
		Name:      c.Name,
		Sector:    c.Sector,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

// snapshotToProto converts a domain Snapshot and its optional evaluation to a wire message
func snapshotToProto(s *domain.Snapshot, eval *domain.Evaluation) *Snapshot {
	f := s.Financials()
	m := s.Metrics()

	out := &Snapshot{
		ID:           s.ID.String(),
		CompanyID:    s.CompanyID.String(),
		SnapshotDate: formatDate(s.Date),
		Status:       string(s.Status()),
		Financials: Financials{
			CashBalance:    decimalToProto(f.CashBalance),
			MonthlyRevenue: decimalToProto(f.MonthlyRevenue),
			OperatingCosts: decimalToProto(f.OperatingCosts),
		},
		MonthlyBurn:        decimalToProto(m.MonthlyBurn),
		RunwayMonths:       decimalToProto(m.RunwayMonths),
		InvalidationReason: optionalString(s.InvalidationReason()),
		CreatedAt:          formatTime(s.CreatedAt),
		FinalizedAt:        optionalTime(s.FinalizedAt()),
		InvalidatedAt:      optionalTime(s.InvalidatedAt()),
	}
	if stage, ok := s.Stage(); ok {
		out.Stage = optionalString(string(stage))
	}

	if eval == nil {
		return out
	}
	for _, sig := range eval.Signals {
		out.Signals = append(out.Signals, Signal{
			ID:        sig.ID.String(),
			Name:      sig.Name,
			Category:  string(sig.Category),
			Value:     sig.Value.String(),
			CreatedAt: formatTime(sig.CreatedAt),
		})
	}
	for _, rr := range eval.RuleResults {
		out.RuleResults = append(out.RuleResults, RuleResult{
			ID:        rr.ID.String(),
			RuleName:  rr.RuleName,
			Result:    rr.Result,
			CreatedAt: formatTime(rr.CreatedAt),
		})
	}
	for _, c := range eval.Contributing {
		out.ContributingSignals = append(out.ContributingSignals, ContributingSignal{
			SignalID: c.SignalID.String(),
			Reason:   c.Reason,
		})
	}
	return out
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return status.Error(codeFor(domainErr.Kind), domainErr.Error())
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}

func codeFor(kind domain.ErrorKind) codes.Code {
	switch kind {
	case domain.ErrKindSanity, domain.ErrKindInvalidInput, domain.ErrKindInvalidSignal:
		return codes.InvalidArgument
	case domain.ErrKindImmutability, domain.ErrKindTransition, domain.ErrKindInsufficientData:
		return codes.FailedPrecondition
	case domain.ErrKindNotFound:
		return codes.NotFound
	case domain.ErrKindDuplicate:
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}
