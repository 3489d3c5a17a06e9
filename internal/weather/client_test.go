package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.URL, "test-key", 2*time.Second)
}

func TestSuggest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geo/1.0/direct", r.URL.Path)
		assert.Equal(t, "London", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name":"London","lat":51.5073,"lon":-0.1276,"country":"GB","state":"England","local_names":{"en":"London"}},
			{"name":"London","lat":42.98,"lon":-81.24,"country":"CA"}
		]`))
	})

	got, err := c.Suggest(context.Background(), "London")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Suggestion{Name: "London", Lat: 51.5073, Lon: -0.1276, Country: "GB", State: "England"}, got[0])
	assert.Equal(t, "", got[1].State)
}

func TestSuggest_CapsResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"a"},{"name":"b"},{"name":"c"},{"name":"d"},{"name":"e"},{"name":"f"}]`))
	})

	got, err := c.Suggest(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, got, SuggestionLimit)
}

func TestSuggest_NullBodyIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	got, err := c.Suggest(context.Background(), "x")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggest_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	})

	_, err := c.Suggest(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusUnauthorized, ue.Status)
	assert.Contains(t, ue.Error(), "Invalid API key")
}

func TestCurrent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/data/3.0/onecall", r.URL.Path)
		assert.Equal(t, "51.51", q.Get("lat"))
		assert.Equal(t, "-0.13", q.Get("lon"))
		assert.Equal(t, "minutely,hourly,daily,alerts", q.Get("exclude"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "test-key", q.Get("appid"))
		_, _ = w.Write([]byte(`{"lat":51.51,"lon":-0.13,"current":{"temp":14.2,"weather":[{"id":803,"main":"Clouds","description":"broken clouds","icon":"04d"}]}}`))
	})

	got, err := c.Current(context.Background(), 51.51, -0.13)
	require.NoError(t, err)
	assert.Equal(t, Current{Temp: 14.2, Description: "broken clouds", Icon: "04d"}, got)
}

func TestCurrent_NotFound(t *testing.T) {
	tests := map[string]string{
		"no current block":   `{"cod":"400","message":"wrong latitude"}`,
		"empty weather list": `{"current":{"temp":1,"weather":[]}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := c.Current(context.Background(), 1, 2)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestCurrent_BadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"400","message":"wrong latitude"}`, http.StatusBadRequest)
	})

	_, err := c.Current(context.Background(), 1000, 1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCurrent_MalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current":`))
	})

	_, err := c.Current(context.Background(), 1, 2)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCurrent_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()
	c := NewClient(srv.URL, srv.URL, "SUPERSECRETKEY", 50*time.Millisecond)

	_, err := c.Current(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/data/3.0/onecall")
	assert.NotContains(t, err.Error(), "SUPERSECRETKEY")
	assert.NotContains(t, err.Error(), "appid")
}

func TestSuggest_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close() // nothing listens on addr any more

	c := NewClient(addr, addr, "SUPERSECRETKEY", time.Second)
	_, err := c.Suggest(context.Background(), "London")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SUPERSECRETKEY")
	assert.NotContains(t, err.Error(), "appid")
}
