package kafka

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "nil", err: nil, retryable: false},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), retryable: true},
		{name: "io timeout", err: errors.New("read tcp: i/o timeout"), retryable: true},
		{name: "broker not available", err: errors.New("[5] Broker Not Available"), retryable: true},
		{name: "connection reset", err: errors.New("write: connection reset by peer"), retryable: true},
		{name: "broken pipe", err: errors.New("write: broken pipe"), retryable: true},
		{name: "unknown host", err: errors.New("lookup kafka: no such host"), retryable: true},
		{name: "serialization error", err: errors.New("invalid message payload"), retryable: false},
		{name: "topic authorization", err: errors.New("topic authorization failed"), retryable: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, isRetryableError(tc.err))
		})
	}
}
