package result

import "context"

type Repo interface {
	Insert(ctx context.Context, r *Result) error
	CountByScenario(ctx context.Context, scenarioID int64) (int, error)
	ListByScenario(ctx context.Context, scenarioID int64, limit int) ([]*Result, error)
}
