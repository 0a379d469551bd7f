package error

import (
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{NotFound, http.StatusNotFound},
		{BackendUnavailable, http.StatusBadGateway},
		{RequestTooLarge, http.StatusRequestEntityTooLarge},
		{UnknownError, http.StatusInternalServerError},
		{ErrorCode("made_up"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := tt.code.StatusCode(); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMessageFallsBackToInternal(t *testing.T) {
	if got := ErrorCode("made_up").Message(); got != InternalServerError.Message() {
		t.Errorf("expected internal message, got %q", got)
	}
}
