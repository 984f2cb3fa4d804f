package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAndMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "validation", err: fmt.Errorf("%w: items required", ErrValidation), status: http.StatusBadRequest, message: "items required"},
		{name: "not found", err: fmt.Errorf("%w: order ORD-1", ErrNotFound), status: http.StatusNotFound, message: "order ORD-1"},
		{name: "conflict", err: fmt.Errorf("%w: email already used", ErrConflict), status: http.StatusConflict, message: "email already used"},
		{name: "state", err: fmt.Errorf("%w: cannot cancel order in status PAID", ErrState), status: http.StatusConflict, message: "cannot cancel order in status PAID"},
		{name: "stock", err: fmt.Errorf("%w: not enough stock for product: Blue", ErrStock), status: http.StatusUnprocessableEntity, message: "not enough stock for product: Blue"},
		{name: "auth", err: fmt.Errorf("%w: user not existed", ErrUnauthenticated), status: http.StatusUnauthorized, message: "user not existed"},
		{name: "forbidden", err: ErrForbidden, status: http.StatusForbidden, message: "forbidden"},
		{name: "double wrap", err: fmt.Errorf("create order: %w", fmt.Errorf("%w: variant VAR-1", ErrNotFound)), status: http.StatusNotFound, message: "not found: variant VAR-1"},
		{name: "internal", err: errors.New("pq: connection refused"), status: http.StatusInternalServerError, message: "internal error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, tt.message, Message(tt.err))
		})
	}
}

func TestStatus_Nil(t *testing.T) {
	t.Parallel()
	assert.Equal(t, http.StatusOK, Status(nil))
	assert.Empty(t, Message(nil))
}
