package ephemeris

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

// HTTPSource queries a remote ephemeris service.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

type longitudeResponse struct {
	Longitude *float64 `json:"longitude"`
	Error     string   `json:"error,omitempty"`
}

func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Longitude asks the service for body's ecliptic longitude at jd
func (c *HTTPSource) Longitude(ctx context.Context, jd float64, body models.Body) (float64, error) {
	q := url.Values{}
	q.Set("jd", strconv.FormatFloat(jd, 'f', 6, 64))
	q.Set("body", string(body))

	endpoint := fmt.Sprintf("%s/longitude?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sending request to ephemeris: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("%w: %s at jd %.4f", ErrNoCoverage, body, jd)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("ephemeris API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var result longitudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}
	if result.Longitude == nil {
		if result.Error != "" {
			return 0, fmt.Errorf("ephemeris API returned failure: %s", result.Error)
		}
		return 0, fmt.Errorf("ephemeris API returned no longitude")
	}

	return *result.Longitude, nil
}
