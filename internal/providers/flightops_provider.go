package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"infinite-experiment/flightboard/internal/config"
	"infinite-experiment/flightboard/internal/constants"
	"infinite-experiment/flightboard/internal/metrics"
	"infinite-experiment/flightboard/internal/models/entities"

	"golang.org/x/time/rate"
)

// FlightOpsClient is the set of backing-service operations the store and
// the mutation service depend on. Responses are returned raw; callers run
// them through the normalizer.
type FlightOpsClient interface {
	FetchAirports(ctx context.Context) (json.RawMessage, int, error)
	FetchAirlines(ctx context.Context) (json.RawMessage, int, error)
	FetchGates(ctx context.Context) (json.RawMessage, int, error)
	FetchGatesByAirport(ctx context.Context, airportID int64) (json.RawMessage, int, error)
	FetchFlights(ctx context.Context) (json.RawMessage, int, error)
	FetchDepartures(ctx context.Context, airportID int64) (json.RawMessage, int, error)
	FetchArrivals(ctx context.Context, airportID int64) (json.RawMessage, int, error)

	Create(ctx context.Context, kind entities.EntityKind, payload any) (json.RawMessage, int, error)
	Update(ctx context.Context, kind entities.EntityKind, id int64, payload any) (json.RawMessage, int, error)
	Delete(ctx context.Context, kind entities.EntityKind, id int64) (int, error)
}

// FlightOpsProvider talks JSON to the flight operations REST service.
type FlightOpsProvider struct {
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter
	Metrics *metrics.MetricsRegistry
}

var _ FlightOpsClient = (*FlightOpsProvider)(nil)

// NewFlightOpsProvider builds a provider from config. m may be nil.
func NewFlightOpsProvider(cfg config.FlightOps, m *metrics.MetricsRegistry) *FlightOpsProvider {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	return &FlightOpsProvider{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Client: &http.Client{
			Timeout: cfg.Timeout,
		},
		Limiter: limiter,
		Metrics: m,
	}
}

// ============================================================================
// Reference and transactional collections
// ============================================================================

func (p *FlightOpsProvider) FetchAirports(ctx context.Context) (json.RawMessage, int, error) {
	return p.doRequest(ctx, http.MethodGet, "/airports", nil)
}

func (p *FlightOpsProvider) FetchAirlines(ctx context.Context) (json.RawMessage, int, error) {
	return p.doRequest(ctx, http.MethodGet, "/airlines", nil)
}

func (p *FlightOpsProvider) FetchGates(ctx context.Context) (json.RawMessage, int, error) {
	return p.doRequest(ctx, http.MethodGet, "/gates", nil)
}

func (p *FlightOpsProvider) FetchGatesByAirport(ctx context.Context, airportID int64) (json.RawMessage, int, error) {
	return p.doRequest(ctx, http.MethodGet, fmt.Sprintf("/gates/airport/%d", airportID), nil)
}

func (p *FlightOpsProvider) FetchFlights(ctx context.Context) (json.RawMessage, int, error) {
	return p.doRequest(ctx, http.MethodGet, "/flights", nil)
}

// FetchDepartures is the server-side filtered variant of FetchFlights.
func (p *FlightOpsProvider) FetchDepartures(ctx context.Context, airportID int64) (json.RawMessage, int, error) {
	return p.doRequest(ctx, http.MethodGet, fmt.Sprintf("/flights/departures?airport=%d", airportID), nil)
}

func (p *FlightOpsProvider) FetchArrivals(ctx context.Context, airportID int64) (json.RawMessage, int, error) {
	return p.doRequest(ctx, http.MethodGet, fmt.Sprintf("/flights/arrivals?airport=%d", airportID), nil)
}

// ============================================================================
// Writes
// ============================================================================

func (p *FlightOpsProvider) Create(ctx context.Context, kind entities.EntityKind, payload any) (json.RawMessage, int, error) {
	path, err := collectionPath(kind)
	if err != nil {
		return nil, 0, err
	}
	return p.doRequest(ctx, http.MethodPost, path, payload)
}

func (p *FlightOpsProvider) Update(ctx context.Context, kind entities.EntityKind, id int64, payload any) (json.RawMessage, int, error) {
	path, err := collectionPath(kind)
	if err != nil {
		return nil, 0, err
	}
	return p.doRequest(ctx, http.MethodPut, path+"/"+strconv.FormatInt(id, 10), payload)
}

func (p *FlightOpsProvider) Delete(ctx context.Context, kind entities.EntityKind, id int64) (int, error) {
	path, err := collectionPath(kind)
	if err != nil {
		return 0, err
	}
	_, status, err := p.doRequest(ctx, http.MethodDelete, path+"/"+strconv.FormatInt(id, 10), nil)
	return status, err
}

func collectionPath(kind entities.EntityKind) (string, error) {
	switch kind {
	case entities.KindFlight:
		return "/flights", nil
	case entities.KindAirline:
		return "/airlines", nil
	case entities.KindGate:
		return "/gates", nil
	}
	return "", fmt.Errorf("%s: %q", constants.GetErrorMessage(constants.ErrCodeUnknownKind), kind)
}

// ============================================================================
// HTTP Helper Methods
// ============================================================================

// doRequest performs one JSON exchange and returns the raw response body.
func (p *FlightOpsProvider) doRequest(ctx context.Context, method, endpoint string, payload any) (json.RawMessage, int, error) {
	start := time.Now()
	label := NormalizeEndpoint(endpoint)

	body, status, err := p.exchange(ctx, method, endpoint, payload)

	if p.Metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = ErrorCode(err)
			if outcome == "" {
				outcome = "error"
			}
		}
		p.Metrics.UpstreamRequestsTotal.WithLabelValues(label, method, outcome).Inc()
		p.Metrics.UpstreamRequestDuration.WithLabelValues(label, method).Observe(time.Since(start).Seconds())
	}
	return body, status, err
}

func (p *FlightOpsProvider) exchange(ctx context.Context, method, endpoint string, payload any) (json.RawMessage, int, error) {
	var reqBody io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, &ProviderError{
				Code:    constants.ErrCodeBadRequest,
				Message: "Failed to marshal request body",
				Err:     err,
			}
		}
		reqBody = bytes.NewReader(payloadBytes)
	}

	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx); err != nil {
			return nil, 0, &ProviderError{
				Code:    constants.ErrCodeRateLimited,
				Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
				Err:     err,
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+endpoint, reqBody)
	if err != nil {
		return nil, 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &ProviderError{
			Code:       constants.ErrCodeNetworkError,
			Message:    "Failed to read response body",
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, buildHTTPError(resp.StatusCode, method, endpoint, string(bodyBytes))
	}

	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil, resp.StatusCode, nil
	}
	return json.RawMessage(bodyBytes), resp.StatusCode, nil
}

// buildHTTPError creates appropriate error based on status code
func buildHTTPError(statusCode int, method, endpoint, body string) error {
	pe := &ProviderError{
		StatusCode: statusCode,
		Details:    body,
	}

	switch {
	case statusCode == http.StatusNotFound:
		pe.Code = constants.ErrCodeResourceNotFound
		pe.Message = fmt.Sprintf("Resource not found: %s %s", method, endpoint)
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		pe.Code = constants.ErrCodeUnauthorized
		pe.Message = fmt.Sprintf("Access denied for %s %s", method, endpoint)
	case statusCode == http.StatusTooManyRequests:
		pe.Code = constants.ErrCodeRateLimited
		pe.Message = constants.GetErrorMessage(constants.ErrCodeRateLimited)
	case statusCode >= 400 && statusCode < 500:
		pe.Code = constants.ErrCodeBadRequest
		pe.Message = fmt.Sprintf("Bad request to %s %s", method, endpoint)
	default:
		pe.Code = constants.ErrCodeUpstreamError
		pe.Message = fmt.Sprintf("HTTP %d from %s %s", statusCode, method, endpoint)
	}
	return pe
}

// NormalizeEndpoint strips the query and replaces numeric path segments so
// metric labels stay low-cardinality.
// e.g., /gates/airport/12?x=1 -> /gates/airport/{id}
func NormalizeEndpoint(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	parts := strings.Split(endpoint, "/")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if _, err := strconv.ParseInt(part, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
