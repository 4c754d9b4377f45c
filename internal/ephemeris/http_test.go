package ephemeris

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

func TestHTTPSourceLongitude(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/longitude" {
			http.NotFound(w, r)
			return
		}
		jd, err := strconv.ParseFloat(r.URL.Query().Get("jd"), 64)
		if err != nil {
			http.Error(w, "bad jd", http.StatusBadRequest)
			return
		}
		switch r.URL.Query().Get("body") {
		case "moon":
			json.NewEncoder(w).Encode(map[string]float64{"longitude": jd - 2451550.0 + 120})
		case "sun":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"error":"sun not served"}`))
		default:
			http.Error(w, "unknown body", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL + "/")
	ctx := context.Background()

	lon, err := src.Longitude(ctx, 2451550.5, models.Moon)
	require.NoError(t, err)
	assert.InDelta(t, 120.5, lon, 1e-6)

	_, err = src.Longitude(ctx, 2451550.5, models.Sun)
	assert.ErrorContains(t, err, "sun not served")

	_, err = src.Longitude(ctx, 2451550.5, models.Body("mars"))
	assert.ErrorContains(t, err, "status 500")
}

func TestHTTPSourceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL).Longitude(context.Background(), 2451550.0, models.Moon)
	assert.ErrorIs(t, err, ErrNoCoverage)
}

func TestHTTPSourceSlowServerFallsBack(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r := NewResolver(NewAdapter(50*time.Millisecond, nil, NewHTTPSource(srv.URL)), nil)
	pos := r.MoonSignExact(context.Background(), birthDate, noon, 0)

	assert.False(t, pos.UsedExact)
	assert.Equal(t, models.Capricorn, pos.Sign)
}
