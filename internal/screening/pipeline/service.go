// Package pipeline drives the screening state machine: intake -> AML ->
// Fraud -> Credit -> Income, halting at the first non-passing stage. Stage
// evaluators are pure; everything effectful lives here.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"vetgate/internal/screening/metrics"
	"vetgate/internal/screening/models"
	"vetgate/internal/screening/payload"
	"vetgate/internal/screening/policy"
	id "vetgate/pkg/domain"
	dErrors "vetgate/pkg/domain-errors"
	"vetgate/pkg/platform/audit"
	"vetgate/pkg/requestcontext"
)

const incomeFetchTimeout = 30 * time.Second

// Service orchestrates the four screening stages against the vendor
// gateways, persisting case state and emitting audit events as it goes.
type Service struct {
	aml    AMLGateway
	fraud  FraudGateway
	credit CreditGateway
	income IncomeGateway

	store   CaseStore
	audit   AuditPort
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithStore sets the case store. Without one, cases are not persisted and
// lookups are unavailable; pipeline decisions are unaffected.
func WithStore(store CaseStore) Option {
	return func(s *Service) { s.store = store }
}

// WithAudit sets the audit emitter.
func WithAudit(emitter AuditPort) Option {
	return func(s *Service) { s.audit = emitter }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the pipeline service over the four vendor gateways.
func New(aml AMLGateway, fraud FraudGateway, credit CreditGateway, income IncomeGateway, opts ...Option) *Service {
	s := &Service{
		aml:    aml,
		fraud:  fraud,
		credit: credit,
		income: income,
		logger: slog.Default(),
		tracer: otel.Tracer("vetgate/screening"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the full pipeline for one case. It returns an error only for
// orchestration failures (payload building, case bookkeeping); vendor
// failures and policy outcomes are encoded in the Result.
func (s *Service) Run(ctx context.Context, caseID id.CaseID, intake models.Intake) (*Result, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObservePipelineLatency(time.Since(start))
	}()

	ctx, span := s.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("case_id", caseID.String())))
	defer span.End()

	now := requestcontext.Now(ctx)
	cs := models.Case{
		ID:        caseID,
		Intake:    intake,
		Status:    models.StatusCreated,
		Decisions: make(map[models.Stage]models.Decision),
		CreatedAt: now,
		UpdatedAt: now,
	}
	cs.Timeline = append(cs.Timeline, models.TimelineEvent{At: now, Event: "case_created"})
	if err := s.saveCase(ctx, cs); err != nil {
		return nil, err
	}

	result := newResult(caseID)

	// AML gates the pipeline; it never contributes a tier.
	amlResp := s.callAML(ctx, intake)
	amlDecision := policy.EvaluateAML(amlResp)
	result.AML = &amlDecision
	result.Raw[models.StageAML] = amlResp.Raw
	cs = s.recordStage(ctx, cs, amlDecision, intake)
	result.Status = cs.Status
	if amlDecision.Outcome == models.OutcomeDecline {
		return result, nil
	}

	fraudResp := s.callFraud(ctx, intake)
	fraudDecision := policy.EvaluateFraud(fraudResp)
	result.Fraud = &fraudDecision
	result.Raw[models.StageFraud] = fraudResp.Raw
	result.ProvisionalTier = fraudDecision.Tier
	cs = s.recordStage(ctx, cs, fraudDecision, intake)
	result.Status = cs.Status
	if fraudDecision.Outcome != models.OutcomePass {
		return result, nil
	}

	creditPayload, err := payload.BuildCredit(intake)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadGateway, "credit orchestration error")
	}
	report := s.callCredit(ctx, creditPayload)
	creditDecision := policy.EvaluateCredit(report,
		fraudDecision.Tier,
		intake.CustomString("freeze_override_code"),
		requestcontext.Now(ctx),
	)
	result.Credit = &creditDecision
	result.Raw[models.StageCredit] = report.Raw
	result.BureauTier = models.TierPtr(creditDecision.BureauTier)
	result.FinalTier = creditDecision.FinalTier
	cs = s.recordStage(ctx, cs, creditDecision.Decision, intake)
	result.Status = cs.Status
	if creditDecision.Decision.Outcome != models.OutcomePass {
		return result, nil
	}

	opts := payload.IncomeOptionsFromIntake(intake)
	subjectKey := intake.ClientUserID
	if subjectKey == "" {
		subjectKey = caseID.String()
	}
	bundle := s.fetchIncomeBundle(ctx, subjectKey, opts)
	incomeDecision := policy.EvaluateIncome(bundle, opts.CoverageMonths, creditDecision.FinalTier)
	result.Income = &incomeDecision
	result.FinalTier = incomeDecision.FinalTier
	cs = s.recordStage(ctx, cs, incomeDecision.Decision, intake)
	result.Status = cs.Status

	return result, nil
}

func (s *Service) callAML(ctx context.Context, intake models.Intake) *models.AMLResponse {
	ctx, span := s.tracer.Start(ctx, "stage.aml")
	defer span.End()

	start := time.Now()
	resp := s.aml.ScreenAML(ctx, payload.BuildAML(intake))
	s.metrics.ObserveVendorLatency(string(models.StageAML), time.Since(start))
	return resp
}

func (s *Service) callFraud(ctx context.Context, intake models.Intake) *models.FraudResponse {
	ctx, span := s.tracer.Start(ctx, "stage.fraud")
	defer span.End()

	start := time.Now()
	resp := s.fraud.CheckFraud(ctx, payload.BuildFraud(intake, requestcontext.UserAgent(ctx)))
	s.metrics.ObserveVendorLatency(string(models.StageFraud), time.Since(start))
	return resp
}

func (s *Service) callCredit(ctx context.Context, p payload.CreditPayload) *models.CreditReport {
	ctx, span := s.tracer.Start(ctx, "stage.credit")
	defer span.End()

	start := time.Now()
	report := s.credit.GetReport(ctx, p)
	s.metrics.ObserveVendorLatency(string(models.StageCredit), time.Since(start))
	return report
}

// fetchIncomeBundle gathers the income documents: payroll and risk signals in
// parallel, then bank income only when payroll came back empty. The gateways
// encode failures in the documents, so the group never aborts early.
func (s *Service) fetchIncomeBundle(ctx context.Context, subjectKey string, opts payload.IncomeOptions) models.IncomeBundle {
	ctx, span := s.tracer.Start(ctx, "stage.income")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, incomeFetchTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	var bundle models.IncomeBundle

	g.Go(func() error {
		start := time.Now()
		bundle.Payroll = s.income.GetPayroll(gctx, subjectKey, opts)
		s.metrics.ObserveVendorLatency("income_payroll", time.Since(start))
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		bundle.Risk = s.income.GetRiskSignals(gctx, subjectKey, opts)
		s.metrics.ObserveVendorLatency("income_risk", time.Since(start))
		return nil
	})
	_ = g.Wait()

	if bundle.Payroll == nil || bundle.Payroll.PayrollIncome == nil || len(bundle.Payroll.PayrollIncome.Streams) == 0 {
		start := time.Now()
		bundle.Bank = s.income.GetBank(ctx, subjectKey, opts)
		s.metrics.ObserveVendorLatency("income_bank", time.Since(start))
	}

	return bundle
}

// recordStage applies a stage decision to the case: status transition,
// timeline event, persistence, audit, metrics. Persistence and audit are
// best-effort after case creation; a sink outage must not change a decision.
func (s *Service) recordStage(ctx context.Context, cs models.Case, decision models.Decision, intake models.Intake) models.Case {
	now := requestcontext.Now(ctx)
	cs.Status = models.StageStatus(decision.Stage, decision.Outcome)
	cs.Decisions[decision.Stage] = decision
	cs.Timeline = append(cs.Timeline, models.TimelineEvent{
		At:    now,
		Event: string(cs.Status),
		Payload: map[string]any{
			"reasons": decision.Reasons,
		},
	})
	cs.UpdatedAt = now

	s.metrics.IncrementStageOutcome(string(decision.Stage), string(decision.Outcome))

	if err := s.saveCase(ctx, cs); err != nil {
		s.logger.ErrorContext(ctx, "case save failed",
			"case_id", cs.ID,
			"stage", decision.Stage,
			"error", err,
		)
	}

	if s.audit != nil {
		event := audit.NewEvent(audit.CategoryStage, cs.ID)
		event.Stage = string(decision.Stage)
		event.Decision = string(decision.Outcome)
		event.Reasons = decision.Reasons
		event.RequestID = requestcontext.RequestID(ctx)
		event.SubjectIDHash = audit.HashSubject(intake.SSN)
		if err := s.audit.Emit(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "audit emit failed",
				"case_id", cs.ID,
				"stage", decision.Stage,
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "stage evaluated",
		"case_id", cs.ID,
		"stage", decision.Stage,
		"outcome", decision.Outcome,
		"reasons", decision.Reasons,
	)

	return cs
}

func (s *Service) saveCase(ctx context.Context, cs models.Case) error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(ctx, cs)
}

// Lookup returns a stored case.
func (s *Service) Lookup(ctx context.Context, caseID id.CaseID) (models.Case, error) {
	if s.store == nil {
		return models.Case{}, dErrors.New(dErrors.CodeUnavailable, "case store not configured")
	}
	return s.store.FindByID(ctx, caseID)
}
