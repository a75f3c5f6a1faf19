package apperr

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, 0},
		{"validation", Validation("content", "too long"), KindValidation},
		{"not found", NotFound("post", "abc"), KindNotFound},
		{"conflict", Conflict("post", "abc", "post deleted"), KindConflict},
		{"forbidden", Forbidden("post", "abc", "not the author"), KindForbidden},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("user", "u1")), KindNotFound},
		{"plain error", errors.New("connection reset"), KindStore},
		{"store", Store(errors.New("timeout"), "find posts"), KindStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestStoreKeepsClassifiedErrors(t *testing.T) {
	nf := NotFound("comment", "c1")
	assert.Same(t, nf, Store(nf, "get comment"))
	assert.Nil(t, Store(nil, "noop"))
}

func TestStoreUnwrapsToCause(t *testing.T) {
	cause := errors.New("i/o timeout")
	err := Store(cause, "count comments")
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "count comments: i/o timeout", err.Error())
}
