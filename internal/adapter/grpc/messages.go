package grpc

// Wire messages of stagelens.v1.StageService.
// Decimals travel as strings, dates as YYYY-MM-DD and timestamps as RFC 3339.
// Optional values are pointers and are omitted when absent.

type Company struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Sector    *string `json:"sector,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type CreateCompanyRequest struct {
	Name   string  `json:"name"`
	Sector *string `json:"sector,omitempty"`
}

type CreateCompanyResponse struct {
	Company *Company `json:"company"`
}

type GetCompanyRequest struct {
	CompanyID string `json:"company_id"`
}

type GetCompanyResponse struct {
	Company *Company `json:"company"`
}

type Financials struct {
	CashBalance    *string `json:"cash_balance,omitempty"`
	MonthlyRevenue *string `json:"monthly_revenue,omitempty"`
	OperatingCosts *string `json:"operating_costs,omitempty"`
}

type Signal struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Value     string `json:"value"`
	CreatedAt string `json:"created_at"`
}

type RuleResult struct {
	ID        string `json:"id"`
	RuleName  string `json:"rule_name"`
	Result    string `json:"result"`
	CreatedAt string `json:"created_at"`
}

type ContributingSignal struct {
	SignalID string `json:"signal_id"`
	Reason   string `json:"reason"`
}

type Snapshot struct {
	ID                  string               `json:"id"`
	CompanyID           string               `json:"company_id"`
	SnapshotDate        string               `json:"snapshot_date"`
	Status              string               `json:"status"`
	Financials          Financials           `json:"financials"`
	MonthlyBurn         *string              `json:"monthly_burn,omitempty"`
	RunwayMonths        *string              `json:"runway_months,omitempty"`
	Stage               *string              `json:"stage,omitempty"`
	InvalidationReason  *string              `json:"invalidation_reason,omitempty"`
	CreatedAt           string               `json:"created_at"`
	FinalizedAt         *string              `json:"finalized_at,omitempty"`
	InvalidatedAt       *string              `json:"invalidated_at,omitempty"`
	Signals             []Signal             `json:"signals,omitempty"`
	RuleResults         []RuleResult         `json:"rule_results,omitempty"`
	ContributingSignals []ContributingSignal `json:"contributing_signals,omitempty"`
}

type CreateSnapshotRequest struct {
	CompanyID    string     `json:"company_id"`
	SnapshotDate string     `json:"snapshot_date"`
	Financials   Financials `json:"financials"`
}

type UpdateSnapshotFinancialsRequest struct {
	SnapshotID string     `json:"snapshot_id"`
	Financials Financials `json:"financials"`
}

type GetSnapshotRequest struct {
	SnapshotID string `json:"snapshot_id"`
}

type FinalizeSnapshotRequest struct {
	SnapshotID string `json:"snapshot_id"`
}

type InvalidateSnapshotRequest struct {
	SnapshotID string `json:"snapshot_id"`
	Reason     string `json:"reason"`
}

type SnapshotResponse struct {
	Snapshot *Snapshot `json:"snapshot"`
}

type FinalizeSnapshotResponse struct {
	Snapshot *Snapshot `json:"snapshot"`
	Branch   string    `json:"branch"`
}

type GetTimelineRequest struct {
	CompanyID string `json:"company_id"`
}

type TimelineItem struct {
	SnapshotID      string  `json:"snapshot_id"`
	SnapshotDate    string  `json:"snapshot_date"`
	Stage           string  `json:"stage"`
	MonthlyRevenue  *string `json:"monthly_revenue,omitempty"`
	MonthlyBurn     *string `json:"monthly_burn,omitempty"`
	RunwayMonths    *string `json:"runway_months,omitempty"`
	StageTransition *string `json:"stage_transition_from_previous,omitempty"`
}

type GetTimelineResponse struct {
	CompanyID string         `json:"company_id"`
	Items     []TimelineItem `json:"items"`
}

type GetTrendsRequest struct {
	CompanyID string `json:"company_id"`
}

type TrendPoint struct {
	Date                 string  `json:"date"`
	RunwayMonths         *string `json:"runway_months,omitempty"`
	MonthlyBurn          *string `json:"monthly_burn,omitempty"`
	MonthlyRevenue       *string `json:"monthly_revenue,omitempty"`
	RevenueGrowthPercent *string `json:"revenue_growth_percent,omitempty"`
}

type TrendIndicators struct {
	RevenueTrend *string `json:"revenue_trend,omitempty"`
	BurnTrend    *string `json:"burn_trend,omitempty"`
	RunwayTrend  *string `json:"runway_trend,omitempty"`
}

type GetTrendsResponse struct {
	CompanyID         string          `json:"company_id"`
	TimeSeries        []TrendPoint    `json:"time_series"`
	Indicators        TrendIndicators `json:"indicators"`
	SnapshotCount     int             `json:"snapshot_count"`
	MeanRevenueGrowth *string         `json:"mean_revenue_growth_percent,omitempty"`
}

type CompareSnapshotsRequest struct {
	CompanyID string `json:"company_id"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
}

type MetricValues struct {
	MonthlyRevenue *string `json:"monthly_revenue,omitempty"`
	MonthlyBurn    *string `json:"monthly_burn,omitempty"`
	RunwayMonths   *string `json:"runway_months,omitempty"`
}

type CompareSnapshotsResponse struct {
	FromDate     string       `json:"from_date"`
	ToDate       string       `json:"to_date"`
	FromStage    string       `json:"from_stage"`
	ToStage      string       `json:"to_stage"`
	StageChanged bool         `json:"stage_changed"`
	FromMetrics  MetricValues `json:"from_metrics"`
	ToMetrics    MetricValues `json:"to_metrics"`
	Deltas       MetricValues `json:"deltas"`
}
