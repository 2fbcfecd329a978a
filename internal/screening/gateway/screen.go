package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vetgate/internal/screening/models"
	"vetgate/internal/screening/payload"
)

// ScreenClient talks to the AML/fraud screening vendor. Both operations
// share one API key and the vendor's success/data/error envelope.
type ScreenClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
}

// NewScreenClient constructs the screening vendor client.
func NewScreenClient(baseURL, apiKey string, timeout time.Duration) *ScreenClient {
	return &ScreenClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		http:    &http.Client{},
	}
}

func (c *ScreenClient) headers() map[string]string {
	return map[string]string{"X-API-KEY": c.apiKey}
}

// ScreenAML performs the watchlist screen. Transport failures, non-2xx
// statuses, and undecodable bodies all come back as an unsuccessful
// envelope; the evaluator decides what that means.
func (c *ScreenClient) ScreenAML(ctx context.Context, p payload.AMLPayload) *models.AMLResponse {
	status, body, err := postJSON(ctx, c.http, c.baseURL+"/SeonRestService/aml-api/v1", p, c.headers(), c.timeout)
	if err != nil {
		return &models.AMLResponse{Success: false, TransportError: err.Error()}
	}
	if status < 200 || status >= 300 {
		return &models.AMLResponse{Success: false, TransportError: fmt.Sprintf("vendor status %d", status), Raw: body}
	}
	var resp models.AMLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &models.AMLResponse{Success: false, TransportError: "non-JSON response", Raw: body}
	}
	resp.Raw = body
	return &resp
}

// CheckFraud performs the device/IP fraud check against the same vendor.
func (c *ScreenClient) CheckFraud(ctx context.Context, p payload.FraudPayload) *models.FraudResponse {
	status, body, err := postJSON(ctx, c.http, c.baseURL+"/SeonRestService/fraud-api/v2", p, c.headers(), c.timeout)
	if err != nil {
		return &models.FraudResponse{Success: false, TransportError: err.Error()}
	}
	if status < 200 || status >= 300 {
		return &models.FraudResponse{Success: false, TransportError: fmt.Sprintf("vendor status %d", status), Raw: body}
	}
	var resp models.FraudResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &models.FraudResponse{Success: false, TransportError: "non-JSON response", Raw: body}
	}
	resp.Raw = body
	return &resp
}
