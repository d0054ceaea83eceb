package usecase

import (
	"cambliss-news-backend/internal/domain/model"
)

// PlanUseCase exposes the plan catalog. The catalog is process-wide
// immutable state, so reads are pure lookups with no failure modes beyond
// an unknown id.
type PlanUseCase struct {
	catalog *model.Catalog
}

// NewPlanUseCase constructs a PlanUseCase.
func NewPlanUseCase(catalog *model.Catalog) *PlanUseCase {
	return &PlanUseCase{catalog: catalog}
}

// List returns all plans in catalog order.
func (uc *PlanUseCase) List() []model.Plan {
	return uc.catalog.List()
}

// Get retrieves a plan by id.
func (uc *PlanUseCase) Get(id string) (*model.Plan, error) {
	return uc.catalog.FindByID(id)
}
