package pipeline

import (
	"context"

	"vetgate/internal/screening/models"
	"vetgate/internal/screening/payload"
	id "vetgate/pkg/domain"
	"vetgate/pkg/platform/audit"
)

// Vendor gateway ports. Defined here rather than importing the gateway
// package directly so the orchestrator stays testable with hand-rolled fakes.

// AMLGateway performs the watchlist screen.
type AMLGateway interface {
	ScreenAML(ctx context.Context, p payload.AMLPayload) *models.AMLResponse
}

// FraudGateway performs the device/IP fraud check.
type FraudGateway interface {
	CheckFraud(ctx context.Context, p payload.FraudPayload) *models.FraudResponse
}

// CreditGateway pulls the bureau report.
type CreditGateway interface {
	GetReport(ctx context.Context, p payload.CreditPayload) *models.CreditReport
}

// IncomeGateway fetches the three income vendor documents.
type IncomeGateway interface {
	GetPayroll(ctx context.Context, subjectKey string, opts payload.IncomeOptions) *models.IncomeDocument
	GetBank(ctx context.Context, subjectKey string, opts payload.IncomeOptions) *models.IncomeDocument
	GetRiskSignals(ctx context.Context, subjectKey string, opts payload.IncomeOptions) *models.IncomeDocument
}

// CaseStore persists cases across stage transitions.
type CaseStore interface {
	Save(ctx context.Context, c models.Case) error
	FindByID(ctx context.Context, caseID id.CaseID) (models.Case, error)
}

// AuditPort emits audit events. Matches audit.Emitter but is defined here to
// keep the orchestrator's dependencies explicit.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}
