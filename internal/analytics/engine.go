package analytics

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skillshock/skillshock-cli/internal/model"
	"github.com/skillshock/skillshock-cli/internal/store"
)

// Engine computes all five metrics from the store. Each computation is a
// pure function of the committed store contents; re-running recomputes
// from scratch. The five run concurrently: they are read-only and share no
// state beyond the sequenced careers built once up front.
type Engine struct {
	store         store.Store
	minSample     int
	topFirstRoles int
	topPaths      int
}

// NewEngine creates an Engine with the given sample threshold and caps.
func NewEngine(st store.Store, minSample, topFirstRoles, topPaths int) *Engine {
	if minSample <= 0 {
		minSample = 10
	}
	if topFirstRoles <= 0 {
		topFirstRoles = 10
	}
	if topPaths <= 0 {
		topPaths = 5
	}
	return &Engine{store: st, minSample: minSample, topFirstRoles: topFirstRoles, topPaths: topPaths}
}

// ComputeAll runs the five aggregations and returns the combined metrics.
// Empty or fully-filtered input yields empty maps, never an error.
func (e *Engine) ComputeAll(ctx context.Context) (*model.Metrics, error) {
	rows, err := e.store.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	careers := BuildSequences(rows)
	zap.L().Info("analytics: sequenced careers",
		zap.Int("job_rows", len(rows)),
		zap.Int("persons", len(careers)),
	)

	m := &model.Metrics{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m.PromotionVelocity = PromotionVelocity(careers, e.minSample)
		return nil
	})
	g.Go(func() error {
		m.RoleTransitions = RoleTransitions(careers)
		return nil
	})
	g.Go(func() error {
		m.IndustryTransitions = IndustryTransitions(careers)
		return nil
	})
	g.Go(func() error {
		m.PathsToRole = PathsToRole(careers, e.topPaths)
		return nil
	})
	g.Go(func() error {
		firstJobs, err := e.store.ListFirstJobs(gctx)
		if err != nil {
			return err
		}
		fields, err := e.store.ListEducationFields(gctx)
		if err != nil {
			return err
		}
		m.MajorToFirstRole = MajorToFirstRole(firstJobs, fields, e.topFirstRoles)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}
