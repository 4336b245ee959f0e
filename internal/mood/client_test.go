package mood

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "something cozy and rainy", body["prompt"])

		fmt.Fprint(w, `{"movies":[{"title":"Amélie"},{"title":"  "},{"title":"Paddington 2"}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	titles, err := c.Recommend(context.Background(), "  something cozy and rainy ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Amélie", "Paddington 2"}, titles)
}

func TestRecommendErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		prompt  string
		wantErr error
	}{
		{name: "empty prompt", prompt: "   ", wantErr: ErrEmptyPrompt},
		{name: "server error", status: http.StatusInternalServerError, prompt: "sad", wantErr: ErrUnexpectedStatus},
		{name: "created is not ok", status: http.StatusCreated, body: `{"movies":[]}`, prompt: "sad", wantErr: ErrUnexpectedStatus},
		{name: "bad json", status: http.StatusOK, body: `{"movies":`, prompt: "sad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, time.Second, nil)
			_, err := c.Recommend(context.Background(), tt.prompt)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRecommendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, nil)
	_, err := c.Recommend(context.Background(), "anything")
	require.Error(t, err)
}
