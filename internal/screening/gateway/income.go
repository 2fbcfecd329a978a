package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"vetgate/internal/screening/models"
	"vetgate/internal/screening/payload"
)

// IncomeClient talks to the payroll/bank income vendor. The vendor's own
// convention is to answer 200 with an error document rather than fail a
// request, so transport failures are modeled as the same error document.
type IncomeClient struct {
	baseURL  string
	clientID string
	secret   string
	timeout  time.Duration
	http     *http.Client
}

// NewIncomeClient constructs the income vendor client.
func NewIncomeClient(baseURL, clientID, secret string, timeout time.Duration) *IncomeClient {
	return &IncomeClient{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		timeout:  timeout,
		http:     &http.Client{},
	}
}

type incomeRequest struct {
	ClientUserID string                 `json:"client_user_id"`
	ClientID     string                 `json:"client_id"`
	Secret       string                 `json:"secret"`
	Options      *payload.IncomeOptions `json:"options,omitempty"`
}

// GetPayroll fetches the payroll income document for a subject.
func (c *IncomeClient) GetPayroll(ctx context.Context, subjectKey string, opts payload.IncomeOptions) *models.IncomeDocument {
	return c.post(ctx, "/credit/payroll_income/get", subjectKey, opts)
}

// GetBank fetches the bank-derived income document, used only as fallback.
func (c *IncomeClient) GetBank(ctx context.Context, subjectKey string, opts payload.IncomeOptions) *models.IncomeDocument {
	return c.post(ctx, "/credit/bank_income/get", subjectKey, opts)
}

// GetRiskSignals fetches the payroll risk-signal document.
func (c *IncomeClient) GetRiskSignals(ctx context.Context, subjectKey string, opts payload.IncomeOptions) *models.IncomeDocument {
	return c.post(ctx, "/credit/payroll_income/risk_signals/get", subjectKey, opts)
}

func (c *IncomeClient) post(ctx context.Context, path, subjectKey string, opts payload.IncomeOptions) *models.IncomeDocument {
	req := incomeRequest{
		ClientUserID: subjectKey,
		ClientID:     c.clientID,
		Secret:       c.secret,
		Options:      &opts,
	}
	_, body, err := postJSON(ctx, c.http, c.baseURL+path, req, nil, c.timeout)
	if err != nil {
		return &models.IncomeDocument{
			ErrorType:      "API_ERROR",
			ErrorCode:      "REQUEST_EXCEPTION",
			DisplayMessage: err.Error(),
			RequestID:      "req-exception",
		}
	}
	var doc models.IncomeDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return &models.IncomeDocument{
			ErrorType:      "API_ERROR",
			ErrorCode:      "INVALID_JSON",
			DisplayMessage: "Non-JSON response",
			RequestID:      "req-exception",
		}
	}
	doc.Raw = body
	return &doc
}
