package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsline/storefront/pkg/e"
)

func TestParsePriceToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{name: "integer", input: "600", want: 60000},
		{name: "two decimals", input: "599.99", want: 59999},
		{name: "one decimal", input: "12.5", want: 1250},
		{name: "zero", input: "0", want: 0},
		{name: "negative", input: "-1", wantErr: e.ErrInvalidPrice},
		{name: "three decimals", input: "1.999", wantErr: e.ErrPricePrecision},
		{name: "not a number", input: "abc", wantErr: e.ErrInvalidPrice},
		{name: "at limit", input: "1000000000", want: 100_000_000_000},
		{name: "over limit", input: "1000000001", wantErr: e.ErrInvalidPrice},
		{name: "just over limit", input: "1000000000.01", wantErr: e.ErrInvalidPrice},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePriceToCents(tc.input)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePriceToCentsEmpty(t *testing.T) {
	_, err := parsePriceToCents("   ")
	assert.Error(t, err)
}

func TestParseSpecs(t *testing.T) {
	specs, err := parseSpecs(`{"material": "ceramic", "position": "front"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"material": "ceramic", "position": "front"}, specs)

	specs, err = parseSpecs("")
	require.NoError(t, err)
	assert.Nil(t, specs)

	_, err = parseSpecs("{broken")
	assert.ErrorIs(t, err, e.ErrStatusBadRequest)
}

func TestSessionFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/cart", nil)
	r.Header.Set(sessionHeader, "  session-123  ")

	sessionID, err := sessionFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "session-123", sessionID)
}

func TestSessionFromRequestMissing(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/cart", nil)

	_, err := sessionFromRequest(r)
	assert.ErrorIs(t, err, e.ErrSessionRequired)
}

func TestToHTTPResponseMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{err: e.ErrProductNotFound, code: 404},
		{err: e.ErrCategoryNotFound, code: 404},
		{err: e.ErrEmptyCart, code: 409},
		{err: e.ErrSessionRequired, code: 400},
		{err: e.ErrInvalidQuantity, code: 400},
		{err: e.Wrap("op", e.ErrProductNotFound), code: 404},
		{err: assert.AnError, code: 500},
	}

	for _, tc := range tests {
		code, msg := ToHTTPResponse(tc.err)
		assert.Equal(t, tc.code, code)
		assert.NotEmpty(t, msg)
	}
}
