package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetgate/internal/screening/payload"
)

func TestScreenClient(t *testing.T) {
	t.Run("sends API key and decodes the envelope", func(t *testing.T) {
		var gotKey, gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("X-API-KEY")
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"data":{"has_sanction_match":true}}`))
		}))
		defer srv.Close()

		client := NewScreenClient(srv.URL, "test-key", time.Second)
		resp := client.ScreenAML(context.Background(), payload.AMLPayload{})

		assert.Equal(t, "test-key", gotKey)
		assert.Equal(t, "/SeonRestService/aml-api/v1", gotPath)
		require.True(t, resp.Success)
		require.NotNil(t, resp.Data)
		assert.True(t, resp.Data.HasSanctionMatch)
		assert.NotEmpty(t, resp.Raw)
	})

	t.Run("connection failure becomes an unsuccessful envelope", func(t *testing.T) {
		client := NewScreenClient("http://127.0.0.1:1", "k", 200*time.Millisecond)
		resp := client.ScreenAML(context.Background(), payload.AMLPayload{})
		assert.False(t, resp.Success)
		assert.NotEmpty(t, resp.TransportError)
	})

	t.Run("non-2xx becomes an unsuccessful envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewScreenClient(srv.URL, "k", time.Second)
		resp := client.CheckFraud(context.Background(), payload.FraudPayload{})
		assert.False(t, resp.Success)
		assert.Contains(t, resp.TransportError, "502")
	})

	t.Run("non-JSON body becomes an unsuccessful envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>oops</html>"))
		}))
		defer srv.Close()

		client := NewScreenClient(srv.URL, "k", time.Second)
		resp := client.CheckFraud(context.Background(), payload.FraudPayload{})
		assert.False(t, resp.Success)
		assert.Equal(t, "non-JSON response", resp.TransportError)
	})

	t.Run("fraud path and decode", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"success":true,"data":{"fraud_score":25}}`))
		}))
		defer srv.Close()

		client := NewScreenClient(srv.URL, "k", time.Second)
		resp := client.CheckFraud(context.Background(), payload.FraudPayload{})
		assert.Equal(t, "/SeonRestService/fraud-api/v2", gotPath)
		require.True(t, resp.Success)
		assert.Equal(t, float64(25), resp.Data.FraudScore)
	})
}

func TestCreditClient(t *testing.T) {
	t.Run("sends bearer token and reference id", func(t *testing.T) {
		var gotAuth, gotRef, gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotRef = r.Header.Get("clientReferenceId")
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"creditProfile":[{"riskModel":[{"modelIndicator":"V4","score":740}]}]}`))
		}))
		defer srv.Close()

		client := NewCreditClient(srv.URL, "tok", "ref-1", time.Second)
		report := client.GetReport(context.Background(), payload.CreditPayload{})

		assert.Equal(t, "Bearer tok", gotAuth)
		assert.Equal(t, "ref-1", gotRef)
		assert.Equal(t, "/v2/credit-report", gotPath)
		require.Len(t, report.CreditProfile, 1)
		assert.Empty(t, report.Errors)
	})

	t.Run("transport failure synthesizes an errors entry", func(t *testing.T) {
		client := NewCreditClient("http://127.0.0.1:1", "tok", "ref", 200*time.Millisecond)
		report := client.GetReport(context.Background(), payload.CreditPayload{})
		require.Len(t, report.Errors, 1)
		assert.Equal(t, "REQUEST_EXCEPTION", report.Errors[0].Code)
		assert.Equal(t, "0", report.Errors[0].Status)
	})

	t.Run("non-JSON body synthesizes an errors entry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		client := NewCreditClient(srv.URL, "tok", "ref", time.Second)
		report := client.GetReport(context.Background(), payload.CreditPayload{})
		require.Len(t, report.Errors, 1)
		assert.Equal(t, "INVALID_JSON", report.Errors[0].Code)
		assert.Equal(t, "200", report.Errors[0].Status)
	})
}

func TestIncomeClient(t *testing.T) {
	t.Run("posts sandbox credentials and options", func(t *testing.T) {
		var gotPath string
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_, _ = w.Write([]byte(`{"payroll_income":{"streams":[{"net":2000,"cadence":"MONTHLY"}]}}`))
		}))
		defer srv.Close()

		client := NewIncomeClient(srv.URL, "sandbox", "sandbox", time.Second)
		doc := client.GetPayroll(context.Background(), "case-1", payload.IncomeOptions{CoverageMonths: 12})

		assert.Equal(t, "/credit/payroll_income/get", gotPath)
		assert.Equal(t, "case-1", gotBody["client_user_id"])
		assert.Equal(t, "sandbox", gotBody["client_id"])
		assert.Equal(t, "sandbox", gotBody["secret"])
		require.NotNil(t, doc.PayrollIncome)
		assert.False(t, doc.HasError())
	})

	t.Run("bank and risk paths", func(t *testing.T) {
		var paths []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client := NewIncomeClient(srv.URL, "sandbox", "sandbox", time.Second)
		_ = client.GetBank(context.Background(), "c", payload.IncomeOptions{})
		_ = client.GetRiskSignals(context.Background(), "c", payload.IncomeOptions{})

		assert.Equal(t, []string{
			"/credit/bank_income/get",
			"/credit/payroll_income/risk_signals/get",
		}, paths)
	})

	t.Run("transport failure becomes an error document", func(t *testing.T) {
		client := NewIncomeClient("http://127.0.0.1:1", "sandbox", "sandbox", 200*time.Millisecond)
		doc := client.GetPayroll(context.Background(), "c", payload.IncomeOptions{})
		require.True(t, doc.HasError())
		assert.Equal(t, "API_ERROR", doc.ErrorType)
		assert.Equal(t, "REQUEST_EXCEPTION", doc.ErrorCode)
	})

	t.Run("non-JSON body becomes an error document", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("oops"))
		}))
		defer srv.Close()

		client := NewIncomeClient(srv.URL, "sandbox", "sandbox", time.Second)
		doc := client.GetPayroll(context.Background(), "c", payload.IncomeOptions{})
		require.True(t, doc.HasError())
		assert.Equal(t, "INVALID_JSON", doc.ErrorCode)
	})
}
