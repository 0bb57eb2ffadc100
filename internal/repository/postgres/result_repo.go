package postgres

import (
	"context"
	"fmt"

	"github.com/fraudlab/fraudsim/internal/domain/result"
)

var _ result.Repo = (*ResultRepoImpl)(nil)

type ResultRepoImpl struct{ db *DB }

func NewResultRepo(db *DB) *ResultRepoImpl { return &ResultRepoImpl{db: db} }

const (
	qResultInsert = `
INSERT INTO results (scenario_id, iteration, payload, response, status_code, success, error, latency_ms, ts)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id;
`

	qResultCount = `SELECT COUNT(1) FROM results WHERE scenario_id = $1;`

	qResultsByScenario = `
SELECT id, scenario_id, iteration, payload, response, status_code, success, error, latency_ms, ts
FROM results
WHERE scenario_id = $1
ORDER BY ts DESC
LIMIT $2;
`
)

func (r *ResultRepoImpl) Insert(ctx context.Context, res *result.Result) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return r.db.Pool.QueryRow(ctx, qResultInsert,
		res.ScenarioID, res.Iteration, res.Payload, res.Response,
		res.StatusCode, res.Success, res.Error, res.LatencyMS, res.Timestamp,
	).Scan(&res.ID)
}

func (r *ResultRepoImpl) CountByScenario(ctx context.Context, scenarioID int64) (int, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var n int
	if err := r.db.Pool.QueryRow(ctx, qResultCount, scenarioID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

func (r *ResultRepoImpl) ListByScenario(ctx context.Context, scenarioID int64, limit int) ([]*result.Result, error) {
	if limit <= 0 {
		limit = 50
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qResultsByScenario, scenarioID, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	out := make([]*result.Result, 0, limit)
	for rows.Next() {
		var rr result.Result
		if err := rows.Scan(
			&rr.ID, &rr.ScenarioID, &rr.Iteration, &rr.Payload, &rr.Response,
			&rr.StatusCode, &rr.Success, &rr.Error, &rr.LatencyMS, &rr.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, &rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
