package screen

import (
	"context"
	"errors"
	"testing"

	"github.com/forgefit/forgefit"
	"github.com/stretchr/testify/assert"
)

type recordingNavigator struct {
	canGoBack bool
	calls     []string
}

func (n *recordingNavigator) CanGoBack() bool {
	return n.canGoBack
}

func (n *recordingNavigator) Back() error {
	n.calls = append(n.calls, "back")
	return nil
}

func (n *recordingNavigator) Replace(route string) error {
	n.calls = append(n.calls, "replace "+route)
	return nil
}

func TestSubmitNavigation(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		canGoBack bool
		expected  []string
	}{
		{canGoBack: true, expected: []string{"back"}},
		{canGoBack: false, expected: []string{"replace /my-exercises"}},
	}
	for _, tc := range cases {
		var created []forgefit.DraftValues
		nav := &recordingNavigator{canGoBack: tc.canGoBack}
		s := CreateDraftScreen{
			Create: func(ctx context.Context, values forgefit.DraftValues) (forgefit.Draft, error) {
				created = append(created, values)
				return forgefit.Draft{Id: "d-1", Values: values}, nil
			},
			Nav: nav,
		}

		values := forgefit.DraftValues{"name": "Pull-up", "reps": 8}
		assert.NoError(s.Submit(context.Background(), values))
		assert.Equal([]forgefit.DraftValues{values}, created)
		assert.Equal(tc.expected, nav.calls)
	}
}

func TestSubmitFailureDoesNotNavigate(t *testing.T) {
	assert := assert.New(t)

	createErr := errors.New("connection reset")
	calls := 0
	nav := &recordingNavigator{canGoBack: true}
	s := CreateDraftScreen{
		Create: func(ctx context.Context, values forgefit.DraftValues) (forgefit.Draft, error) {
			calls++
			return forgefit.Draft{}, createErr
		},
		Nav: nav,
	}

	err := s.Submit(context.Background(), forgefit.DraftValues{})
	assert.ErrorIs(err, createErr)
	assert.Equal(1, calls)
	assert.Empty(nav.calls)
}

func TestForm(t *testing.T) {
	assert := assert.New(t)

	nav := &recordingNavigator{}
	s := CreateDraftScreen{
		Create: func(ctx context.Context, values forgefit.DraftValues) (forgefit.Draft, error) {
			return forgefit.Draft{}, nil
		},
		Nav: nav,
	}
	form := s.Form()
	assert.Equal("Create", form.SubmitLabel)
	assert.NoError(form.OnSubmit(context.Background(), forgefit.DraftValues{}))
	assert.Equal([]string{"replace /my-exercises"}, nav.calls)
}
