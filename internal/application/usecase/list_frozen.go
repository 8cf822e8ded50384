package usecase

import (
	"context"

	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/domain/repository"
)

// ListFrozenTabsUseCase exposes the frozen-state map for the UI.
type ListFrozenTabsUseCase struct {
	states repository.FrozenStateRepository
}

// NewListFrozenTabsUseCase creates the listing use case.
func NewListFrozenTabsUseCase(states repository.FrozenStateRepository) *ListFrozenTabsUseCase {
	return &ListFrozenTabsUseCase{states: states}
}

// Execute returns the full tabId -> state map.
func (uc *ListFrozenTabsUseCase) Execute(ctx context.Context) (map[entity.TabID]*entity.FrozenTabState, error) {
	return uc.states.All(ctx)
}
