package evm

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"production-ledger/internal/storage"
)

type ProjectStore interface {
	GetProject(ctx context.Context, id string) (*storage.Project, error)
}

type CostSource interface {
	ActualCost(ctx context.Context, projectID string) (decimal.Decimal, error)
}

// Snapshot is the read-time projection of a project's earned value.
type Snapshot struct {
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	PV        float64 `json:"pv"`
	EV        float64 `json:"ev"`
	AC        float64 `json:"ac"`
	BAC       float64 `json:"bac"`
	Result
}

type Service struct {
	projects ProjectStore
	costs    CostSource
}

func NewService(projects ProjectStore, costs CostSource) *Service {
	return &Service{projects: projects, costs: costs}
}

func (s *Service) ProjectEVM(ctx context.Context, projectID string) (*Snapshot, error) {
	const op = "service.evm.ProjectEVM"

	var (
		project *storage.Project
		ac      decimal.Decimal
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		project, err = s.projects.GetProject(gCtx, projectID)
		if err != nil {
			return fmt.Errorf("project: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ac, err = s.costs.ActualCost(gCtx, projectID)
		if err != nil {
			return fmt.Errorf("actual cost: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	acf := ac.InexactFloat64()
	result, err := Compute(project.PV, project.EV, acf, project.BAC)
	if err != nil {
		return nil, fmt.Errorf("%s: project %q: %w", op, projectID, err)
	}

	return &Snapshot{
		ProjectID: project.ID,
		Name:      project.Name,
		PV:        project.PV,
		EV:        project.EV,
		AC:        acf,
		BAC:       project.BAC,
		Result:    result,
	}, nil
}
