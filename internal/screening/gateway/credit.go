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

// CreditClient talks to the credit bureau. The bureau's contract is
// different from the screening vendor's: errors arrive inside the report
// body, so this client never fails transport-hard either — it synthesizes
// an errors entry instead, keeping one shape for the evaluator.
type CreditClient struct {
	baseURL   string
	token     string
	clientRef string
	timeout   time.Duration
	http      *http.Client
}

// NewCreditClient constructs the bureau client.
func NewCreditClient(baseURL, token, clientRef string, timeout time.Duration) *CreditClient {
	return &CreditClient{
		baseURL:   baseURL,
		token:     token,
		clientRef: clientRef,
		timeout:   timeout,
		http:      &http.Client{},
	}
}

// GetReport requests a credit report for the applicant.
func (c *CreditClient) GetReport(ctx context.Context, p payload.CreditPayload) *models.CreditReport {
	headers := map[string]string{
		"Authorization":     "Bearer " + c.token,
		"clientReferenceId": c.clientRef,
	}
	status, body, err := postJSON(ctx, c.http, c.baseURL+"/v2/credit-report", p, headers, c.timeout)
	if err != nil {
		return &models.CreditReport{
			Errors: []models.CreditError{{
				Code:    "REQUEST_EXCEPTION",
				Message: err.Error(),
				Status:  "0",
			}},
		}
	}

	var report models.CreditReport
	if err := json.Unmarshal(body, &report); err != nil {
		return &models.CreditReport{
			Errors: []models.CreditError{{
				Code:    "INVALID_JSON",
				Message: "Non-JSON response",
				Status:  fmt.Sprintf("%d", status),
			}},
			Raw: body,
		}
	}
	report.Raw = body
	return &report
}
