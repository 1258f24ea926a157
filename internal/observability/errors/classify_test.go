package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"app error", apperrors.Unauthorized("expired"), "unauthorized"},
		{"wrapped app error", fmt.Errorf("fetch: %w", apperrors.Rejected("")), "rejected"},
		{"transport", apperrors.FromTransport(context.DeadlineExceeded, "list"), "timeout"},
		{"plain", errors.New("boom"), "errors_errorstring"},
		{"wrapped plain", fmt.Errorf("outer: %w", errors.New("inner")), "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
