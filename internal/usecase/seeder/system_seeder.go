package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/simaogato/stagelens-backend/internal/domain"
)

// Fixed UUIDs for the baseline catalog so every deployment shares the same identifiers
var (
	SYS_SIGNAL_MONTHLY_BURN  = uuid.MustParse("00000000-0000-0000-0001-000000000001")
	SYS_SIGNAL_RUNWAY_MONTHS = uuid.MustParse("00000000-0000-0000-0001-000000000002")
	SYS_SIGNAL_RUNWAY_RISK   = uuid.MustParse("00000000-0000-0000-0001-000000000003")

	SYS_RULE_RUNWAY_RISK   = uuid.MustParse("00000000-0000-0000-0002-000000000001")
	SYS_RULE_PROFITABILITY = uuid.MustParse("00000000-0000-0000-0002-000000000002")

	SYS_STAGE_IDEA     = uuid.MustParse("00000000-0000-0000-0003-000000000001")
	SYS_STAGE_PRE_SEED = uuid.MustParse("00000000-0000-0000-0003-000000000002")
	SYS_STAGE_SEED     = uuid.MustParse("00000000-0000-0000-0003-000000000003")
	SYS_STAGE_SERIES_A = uuid.MustParse("00000000-0000-0000-0003-000000000004")
	SYS_STAGE_GROWTH   = uuid.MustParse("00000000-0000-0000-0003-000000000005")
)

// SystemDefinitions returns the baseline signal, rule and stage catalog
func SystemDefinitions() []domain.Definition {
	return []domain.Definition{
		{ID: SYS_SIGNAL_MONTHLY_BURN, Kind: domain.DefinitionKindSignal, Name: domain.SignalMonthlyBurn, Type: string(domain.SignalCategoryFinancial),
			Description: "Operating costs minus monthly revenue"},
		{ID: SYS_SIGNAL_RUNWAY_MONTHS, Kind: domain.DefinitionKindSignal, Name: domain.SignalRunwayMonths, Type: string(domain.SignalCategoryFinancial),
			Description: "Months of operation at the current cash balance and burn"},
		{ID: SYS_SIGNAL_RUNWAY_RISK, Kind: domain.DefinitionKindSignal, Name: domain.SignalRunwayRisk, Type: string(domain.SignalCategoryRisk),
			Description: "Runway risk code: 3 under 6 months, 2 from 6 to 12, 1 over 12, 0 not burning"},

		{ID: SYS_RULE_RUNWAY_RISK, Kind: domain.DefinitionKindRule, Name: domain.RuleRunwayRisk, Type: "THRESHOLD",
			Description: "Labels RunwayRisk as HIGH_RISK, CAUTION, HEALTHY or PROFITABLE"},
		{ID: SYS_RULE_PROFITABILITY, Kind: domain.DefinitionKindRule, Name: domain.RuleProfitability, Type: "THRESHOLD",
			Description: "Labels MonthlyBurn as PROFITABLE (<= 0) or BURNING"},

		{ID: SYS_STAGE_IDEA, Kind: domain.DefinitionKindStage, Name: string(domain.StageIdea), Type: "1",
			Description: "Runway under six months"},
		{ID: SYS_STAGE_PRE_SEED, Kind: domain.DefinitionKindStage, Name: string(domain.StagePreSeed), Type: "2",
			Description: "Runway between six and twelve months"},
		{ID: SYS_STAGE_SEED, Kind: domain.DefinitionKindStage, Name: string(domain.StageSeed), Type: "3",
			Description: "Runway over twelve months while burning cash"},
		{ID: SYS_STAGE_SERIES_A, Kind: domain.DefinitionKindStage, Name: string(domain.StageSeriesA), Type: "4",
			Description: "Cash-generative or long runway without burn"},
		{ID: SYS_STAGE_GROWTH, Kind: domain.DefinitionKindStage, Name: string(domain.StageGrowth), Type: "5",
			Description: "Reserved; no baseline rule selects it"},
	}
}

// SystemSeeder handles seeding of the definition catalog
type SystemSeeder struct {
	repo   domain.DefinitionRepository
	logger *slog.Logger
}

// NewSystemSeeder creates a new SystemSeeder instance
func NewSystemSeeder(repo domain.DefinitionRepository, logger *slog.Logger) *SystemSeeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SystemSeeder{
		repo:   repo,
		logger: logger,
	}
}

// Seed ensures every baseline definition exists in the database.
// Missing definitions are created; existing ones are left untouched.
func (s *SystemSeeder) Seed(ctx context.Context) error {
	created := 0
	for _, def := range SystemDefinitions() {
		_, err := s.repo.GetByKindAndName(ctx, def.Kind, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to look up %s definition %s: %w", def.Kind, def.Name, err)
		}

		// Validate before creating
		if err := def.Validate(); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, &def); err != nil {
			return err
		}
		created++
	}

	s.logger.InfoContext(ctx, "definition catalog seeded", slog.Int("created", created))
	return nil
}
