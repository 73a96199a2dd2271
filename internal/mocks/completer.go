package mocks

import (
	"context"

	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/stretchr/testify/mock"
)

// Completer mocks generation.Completer.
type Completer struct {
	mock.Mock
}

var _ generation.Completer = (*Completer)(nil)

func (m *Completer) Complete(ctx context.Context, req generation.Request) (*generation.Response, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*generation.Response); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// Replies makes every Complete call return text.
func (m *Completer) Replies(text string) *mock.Call {
	return m.On("Complete", mock.Anything, mock.Anything).Return(&generation.Response{Text: text}, nil)
}
