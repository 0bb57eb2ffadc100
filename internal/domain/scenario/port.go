package scenario

import "context"

type Repo interface {
	Create(ctx context.Context, s *Scenario) error
	GetByID(ctx context.Context, id int64) (*Scenario, error)
	List(ctx context.Context) ([]*Scenario, error)
	Update(ctx context.Context, s *Scenario) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	ListActive(ctx context.Context) ([]*Scenario, error)
}
