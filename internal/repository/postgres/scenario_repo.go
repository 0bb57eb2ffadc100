package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fraudlab/fraudsim/internal/domain/scenario"
)

var _ scenario.Repo = (*ScenarioRepoImpl)(nil)

type ScenarioRepoImpl struct {
	db *DB
}

func NewScenarioRepo(db *DB) *ScenarioRepoImpl { return &ScenarioRepoImpl{db: db} }

const (
	qScenarioCols = `id, name, url, body_template, bearer_token, insecure_tls, delay_ms, max_iterations, active, created_at, updated_at`

	qScenarioInsert = `
INSERT INTO scenarios (name, url, body_template, bearer_token, insecure_tls, delay_ms, max_iterations, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + qScenarioCols + `;
`

	qScenarioGetByID = `
SELECT ` + qScenarioCols + `
FROM scenarios
WHERE id = $1;
`

	qScenarioList = `
SELECT ` + qScenarioCols + `
FROM scenarios
ORDER BY id DESC;
`

	qScenarioListActive = `
SELECT ` + qScenarioCols + `
FROM scenarios
WHERE active = TRUE
ORDER BY id;
`

	qScenarioUpdate = `
UPDATE scenarios
SET name = $2, url = $3, body_template = $4, bearer_token = $5,
    insecure_tls = $6, delay_ms = $7, max_iterations = $8, active = $9,
    updated_at = NOW()
WHERE id = $1;
`

	qScenarioSetActive = `
UPDATE scenarios
SET active = $2, updated_at = NOW()
WHERE id = $1;
`

	qScenarioDelete = `DELETE FROM scenarios WHERE id = $1;`
)

func scanScenario(row pgx.Row, s *scenario.Scenario) error {
	var delayMS int64
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.URL,
		&s.BodyTemplate,
		&s.BearerToken,
		&s.InsecureTLS,
		&delayMS,
		&s.MaxIterations,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("scan scenario: %w", err)
	}
	s.Delay = time.Duration(delayMS) * time.Millisecond
	return nil
}

func (r *ScenarioRepoImpl) Create(ctx context.Context, s *scenario.Scenario) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	row := r.db.Pool.QueryRow(ctx, qScenarioInsert,
		s.Name, s.URL, s.BodyTemplate, s.BearerToken, s.InsecureTLS,
		s.Delay.Milliseconds(), s.MaxIterations, s.Active,
	)
	return scanScenario(row, s)
}

func (r *ScenarioRepoImpl) GetByID(ctx context.Context, id int64) (*scenario.Scenario, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var s scenario.Scenario
	if err := scanScenario(r.db.Pool.QueryRow(ctx, qScenarioGetByID, id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScenarioRepoImpl) List(ctx context.Context) ([]*scenario.Scenario, error) {
	return r.queryMany(ctx, qScenarioList)
}

func (r *ScenarioRepoImpl) ListActive(ctx context.Context) ([]*scenario.Scenario, error) {
	return r.queryMany(ctx, qScenarioListActive)
}

func (r *ScenarioRepoImpl) queryMany(ctx context.Context, q string) ([]*scenario.Scenario, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer rows.Close()

	var out []*scenario.Scenario
	for rows.Next() {
		var s scenario.Scenario
		if err := scanScenario(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *ScenarioRepoImpl) Update(ctx context.Context, s *scenario.Scenario) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.Pool.Exec(ctx, qScenarioUpdate,
		s.ID, s.Name, s.URL, s.BodyTemplate, s.BearerToken,
		s.InsecureTLS, s.Delay.Milliseconds(), s.MaxIterations, s.Active,
	)
	if err != nil {
		return fmt.Errorf("update scenario: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ScenarioRepoImpl) SetActive(ctx context.Context, id int64, active bool) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.Pool.Exec(ctx, qScenarioSetActive, id, active)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ScenarioRepoImpl) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.Pool.Exec(ctx, qScenarioDelete, id)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
