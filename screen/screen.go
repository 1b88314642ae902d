package screen

import (
	"context"
	"fmt"

	"github.com/forgefit/forgefit"
)

const (
	RouteMyExercises = "/my-exercises"
	RouteNewExercise = "/my-exercises/new"

	CreateLabel = "Create"
)

type Navigator interface {
	CanGoBack() bool
	Back() error
	// Replace current entry with route, leaving no way back to it.
	Replace(route string) error
}

type CreateDraftFunc = func(ctx context.Context, values forgefit.DraftValues) (forgefit.Draft, error)

// Form collecting training item values.
type DraftForm struct {
	SubmitLabel string
	OnSubmit    func(ctx context.Context, values forgefit.DraftValues) error
}

// CreateDraftScreen hosts the draft form and leaves after a successful create.
type CreateDraftScreen struct {
	Create CreateDraftFunc
	Nav    Navigator
}

func (s *CreateDraftScreen) Form() DraftForm {
	return DraftForm{SubmitLabel: CreateLabel, OnSubmit: s.Submit}
}

// Submit creates exactly one draft. Navigation happens only when it was stored.
func (s *CreateDraftScreen) Submit(ctx context.Context, values forgefit.DraftValues) error {
	if _, err := s.Create(ctx, values); err != nil {
		return fmt.Errorf("create draft: %w", err)
	}
	if s.Nav.CanGoBack() {
		return s.Nav.Back()
	}
	return s.Nav.Replace(RouteMyExercises)
}
