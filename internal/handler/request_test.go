package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "valid",
			body: `{"name":"Cast Away"}`,
		},
		{
			name:    "malformed json",
			body:    `{"name":`,
			wantErr: "invalid request body",
		},
		{
			name:    "missing required field",
			body:    `{}`,
			wantErr: "name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/movies", strings.NewReader(tt.body))

			var dst payload
			err := decodeJSON(req, &dst)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				var reqErr *requestError
				assert.ErrorAs(t, err, &reqErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseBirth(t *testing.T) {
	got, err := parseBirth("1956-07-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1956, time.July, 9, 0, 0, 0, 0, time.UTC), got)

	got, err = parseBirth("1956-07-09T12:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 12, got.Hour())

	_, err = parseBirth("09/07/1956")
	require.Error(t, err)
	var reqErr *requestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestListOptions(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/actors?offset=10&limit=5", nil)
	opts, err := listOptions(req)
	require.NoError(t, err)
	assert.Equal(t, 10, opts.Offset)
	assert.Equal(t, 5, opts.Limit)

	req = httptest.NewRequest("GET", "/v1/actors", nil)
	opts, err = listOptions(req)
	require.NoError(t, err)
	assert.Zero(t, opts.Offset)
	assert.Zero(t, opts.Limit)

	req = httptest.NewRequest("GET", "/v1/actors?limit=-3", nil)
	_, err = listOptions(req)
	require.Error(t, err)

	req = httptest.NewRequest("GET", "/v1/actors?offset=abc", nil)
	_, err = listOptions(req)
	require.Error(t, err)
}
