package explain

import (
	"fmt"

	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/simaogato/stagelens-backend/internal/usecase/stage"
)

// Resolve returns the signals that justified the stage: the contributors of
// the precedence branch the rule results select, kept in input order.
//
// The branch is re-matched from the results, and the stage it yields must
// equal the one given, so the explanation can never describe another stage.
func Resolve(signals []domain.Signal, results []domain.RuleResult, st domain.Stage, evaluator *stage.Evaluator) ([]domain.Signal, error) {
	branch, err := evaluator.Match(results)
	if err != nil {
		return nil, err
	}
	if branch.Stage != st {
		return nil, domain.NewInsufficientDataError(
			fmt.Sprintf("rule results select stage %s via %s, not %s", branch.Stage, branch.Name, st))
	}

	wanted := make(map[string]struct{}, len(branch.Contributors))
	for _, name := range branch.Contributors {
		wanted[name] = struct{}{}
	}

	out := make([]domain.Signal, 0, len(branch.Contributors))
	for _, s := range signals {
		if _, ok := wanted[s.Name]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}
