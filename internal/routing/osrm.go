package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"cryofleet/internal/models"
)

const defaultOSRMBaseURL = "https://router.project-osrm.org"

// OSRMResolver resolves road routes via an OSRM routing server. It retries
// transient failures (network errors, 5xx) with backoff and respects context
// cancellation. Safe for concurrent use.
type OSRMResolver struct {
	client  *http.Client
	baseURL string
}

func NewOSRMResolver(baseURL string) *OSRMResolver {
	if baseURL == "" {
		baseURL = defaultOSRMBaseURL
	}
	return &OSRMResolver{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Name     string  `json:"name"`
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"` // [lng, lat]
		} `json:"geometry"`
	} `json:"routes"`
}

// Resolve fetches candidate paths from start to end. A non-Ok OSRM code is
// treated as "no route available", not an error.
func (o *OSRMResolver) Resolve(ctx context.Context, start, end LatLng) ([]models.RouteData, error) {
	url := fmt.Sprintf(
		"%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson&alternatives=true",
		o.baseURL, start.Lng, start.Lat, end.Lng, end.Lat,
	)

	resp, err := o.doWithRetry(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("osrm route %v -> %v: %w", start, end, err)
	}
	defer resp.Body.Close()

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode osrm response: %w", err)
	}
	if body.Code != "Ok" {
		return nil, nil
	}

	routes := make([]models.RouteData, 0, len(body.Routes))
	for _, r := range body.Routes {
		geometry := make([][2]float64, 0, len(r.Geometry.Coordinates))
		for _, c := range r.Geometry.Coordinates {
			geometry = append(geometry, [2]float64{c[1], c[0]})
		}
		summary := r.Name
		if summary == "" {
			summary = "Main Route"
		}
		routes = append(routes, models.RouteData{
			DistanceKm:  math.Round(r.Distance/1000*10) / 10,
			DurationMin: int(math.Round(r.Duration / 60)),
			Geometry:    geometry,
			Summary:     summary,
		})
	}
	return routes, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("osrm returned %d: %s", e.Code, e.Body)
}

func (o *OSRMResolver) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// doWithRetry retries transient failures with exponential backoff.
func (o *OSRMResolver) doWithRetry(ctx context.Context, url string) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := o.do(ctx, url)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isTransient(err) {
			return nil, err
		}
		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func isTransient(err error) bool {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
