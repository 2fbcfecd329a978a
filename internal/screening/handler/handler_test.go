package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetgate/internal/screening/models"
	"vetgate/internal/screening/pipeline"
	id "vetgate/pkg/domain"
	dErrors "vetgate/pkg/domain-errors"
	"vetgate/pkg/platform/sentinel"
)

type stubService struct {
	runResult *pipeline.Result
	runErr    error
	runCaseID id.CaseID

	lookupCase models.Case
	lookupErr  error
}

func (s *stubService) Run(_ context.Context, caseID id.CaseID, _ models.Intake) (*pipeline.Result, error) {
	s.runCaseID = caseID
	if s.runErr != nil {
		return nil, s.runErr
	}
	result := s.runResult
	if result == nil {
		result = &pipeline.Result{CaseID: caseID, Status: "INCOME_PASS"}
	}
	return result, nil
}

func (s *stubService) Lookup(context.Context, id.CaseID) (models.Case, error) {
	if s.lookupErr != nil {
		return models.Case{}, s.lookupErr
	}
	return s.lookupCase, nil
}

func newTestRouter(svc *stubService) chi.Router {
	r := chi.NewRouter()
	New(svc, slog.Default(), nil).Register(r)
	return r
}

func TestHandleScreenFull(t *testing.T) {
	t.Run("runs the pipeline and returns the decision trail", func(t *testing.T) {
		svc := &stubService{
			runResult: &pipeline.Result{
				CaseID:    "case-1",
				Status:    "INCOME_PASS",
				FinalTier: models.TierPtr(4),
				Raw: map[models.Stage]json.RawMessage{
					models.StageAML: json.RawMessage(`{"success":true}`),
				},
			},
		}
		router := newTestRouter(svc)

		body := `{"case_id":"case-1","intake":{"user_fullname":"Jane Doe"}}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workflows/screening/full", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, id.CaseID("case-1"), svc.runCaseID)

		var resp ScreenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "case-1", resp.CaseID)
		assert.Equal(t, "INCOME_PASS", resp.Status)
		require.NotNil(t, resp.FinalTier)
		assert.Equal(t, models.Tier(4), *resp.FinalTier)
		assert.JSONEq(t, `{"success":true}`, string(resp.AMLRaw))
	})

	t.Run("generates a case id when the request omits one", func(t *testing.T) {
		svc := &stubService{}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workflows/screening/full", strings.NewReader(`{"intake":{}}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, svc.runCaseID.IsZero())
	})

	t.Run("rejects a malformed case id", func(t *testing.T) {
		router := newTestRouter(&stubService{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workflows/screening/full", strings.NewReader(`{"case_id":"bad id!"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a non-JSON body", func(t *testing.T) {
		router := newTestRouter(&stubService{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workflows/screening/full", strings.NewReader("not json")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "bad_request")
	})

	t.Run("orchestration failures map to bad gateway", func(t *testing.T) {
		svc := &stubService{runErr: dErrors.New(dErrors.CodeBadGateway, "credit orchestration error")}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workflows/screening/full", strings.NewReader(`{"intake":{}}`)))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "bad_gateway")
	})
}

func TestHandleGetCase(t *testing.T) {
	t.Run("returns the case without the intake snapshot", func(t *testing.T) {
		now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
		svc := &stubService{lookupCase: models.Case{
			ID:     "case-1",
			Intake: models.Intake{FullName: "Jane Doe", SSN: "666-12-3456"},
			Status: "FRAUD_REVIEW",
			Decisions: map[models.Stage]models.Decision{
				models.StageFraud: {Stage: models.StageFraud, Outcome: models.OutcomeReview, Reasons: []string{"medium_high_risk_score"}},
			},
			CreatedAt: now,
			UpdatedAt: now,
		}}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cases/case-1", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "666-12-3456")
		assert.NotContains(t, rec.Body.String(), "Jane Doe")

		var resp CaseResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "case-1", resp.CaseID)
		assert.Equal(t, "FRAUD_REVIEW", resp.Status)
		require.Contains(t, resp.Decisions, models.StageFraud)
	})

	t.Run("unknown case is a 404", func(t *testing.T) {
		svc := &stubService{lookupErr: sentinel.ErrNotFound}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cases/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "not_found")
	})

	t.Run("malformed case id is rejected before lookup", func(t *testing.T) {
		router := newTestRouter(&stubService{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cases/"+strings.Repeat("x", 80), nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
