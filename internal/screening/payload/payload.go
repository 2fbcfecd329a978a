// Package payload maps applicant intake into each vendor's request shape.
// Builders are thin, deterministic, and stateless; a builder error is an
// orchestration defect, never an applicant-risk signal.
package payload

import (
	"strings"

	"github.com/mssola/useragent"

	"vetgate/internal/screening/models"
	dErrors "vetgate/pkg/domain-errors"
)

// AMLPayload is the watchlist vendor request shape.
type AMLPayload struct {
	UserFullname string         `json:"user_fullname"`
	UserDOB      string         `json:"user_dob"`
	UserCountry  string         `json:"user_country"`
	Email        string         `json:"email"`
	Config       AMLConfig      `json:"config"`
	CustomFields map[string]any `json:"custom_fields"`
}

type AMLConfig struct {
	MonitoringRequired bool       `json:"monitoring_required"`
	Sources            AMLSources `json:"sources"`
}

type AMLSources struct {
	SanctionEnabled     bool `json:"sanction_enabled"`
	PEPEnabled          bool `json:"pep_enabled"`
	WatchlistEnabled    bool `json:"watchlist_enabled"`
	CrimelistEnabled    bool `json:"crimelist_enabled"`
	AdverseMediaEnabled bool `json:"adversemedia_enabled"`
}

// BuildAML maps intake into the minimal AML screening request.
func BuildAML(intake models.Intake) AMLPayload {
	return AMLPayload{
		UserFullname: intake.FullName,
		UserDOB:      intake.DateOfBirth,
		UserCountry:  intake.Country,
		Email:        intake.Email,
		Config: AMLConfig{
			MonitoringRequired: false,
			Sources: AMLSources{
				SanctionEnabled:     true,
				PEPEnabled:          true,
				WatchlistEnabled:    true,
				CrimelistEnabled:    true,
				AdverseMediaEnabled: true,
			},
		},
		CustomFields: customFields(intake),
	}
}

// FraudPayload is the fraud vendor request shape.
type FraudPayload struct {
	Config        FraudConfig    `json:"config"`
	IP            string         `json:"ip"`
	Email         string         `json:"email"`
	PhoneNumber   string         `json:"phone_number"`
	UserFullname  string         `json:"user_fullname"`
	UserDOB       string         `json:"user_dob"`
	UserCountry   string         `json:"user_country"`
	Session       string         `json:"session"`
	DeviceContext *DeviceContext `json:"device_context,omitempty"`
	CustomFields  map[string]any `json:"custom_fields"`
}

type FraudConfig struct {
	IPAPI                bool              `json:"ip_api"`
	EmailAPI             bool              `json:"email_api"`
	PhoneAPI             bool              `json:"phone_api"`
	DeviceFingerprinting bool              `json:"device_fingerprinting"`
	Email                map[string]string `json:"email,omitempty"`
	Phone                map[string]string `json:"phone,omitempty"`
	IP                   map[string]string `json:"ip,omitempty"`
}

// DeviceContext enriches the fraud request with what the caller's
// User-Agent reveals about the applicant's device.
type DeviceContext struct {
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browser_version,omitempty"`
	OS             string `json:"os,omitempty"`
	Mobile         bool   `json:"mobile"`
	Bot            bool   `json:"bot"`
	RawUserAgent   string `json:"raw_user_agent,omitempty"`
}

// BuildFraud maps intake into the fraud check request. rawUserAgent comes
// from the request context and may be empty for non-HTTP invocations.
func BuildFraud(intake models.Intake, rawUserAgent string) FraudPayload {
	session := intake.Session
	if session == "" {
		session = "mock-session"
	}
	p := FraudPayload{
		Config: FraudConfig{
			IPAPI:                true,
			EmailAPI:             true,
			PhoneAPI:             true,
			DeviceFingerprinting: true,
			Email:                map[string]string{"version": "v3"},
			Phone:                map[string]string{"version": "v2"},
			IP:                   map[string]string{"include": "flags,history,id", "version": "v1"},
		},
		IP:           intake.IP,
		Email:        intake.Email,
		PhoneNumber:  intake.PhoneNumber,
		UserFullname: intake.FullName,
		UserDOB:      intake.DateOfBirth,
		UserCountry:  intake.Country,
		Session:      session,
		CustomFields: customFields(intake),
	}
	if rawUserAgent != "" {
		ua := useragent.New(rawUserAgent)
		name, version := ua.Browser()
		p.DeviceContext = &DeviceContext{
			Browser:        name,
			BrowserVersion: version,
			OS:             ua.OS(),
			Mobile:         ua.Mobile(),
			Bot:            ua.Bot(),
			RawUserAgent:   rawUserAgent,
		}
	}
	return p
}

// CreditPayload is the bureau request shape.
type CreditPayload struct {
	ConsumerPII        ConsumerPII        `json:"consumerPii"`
	PermissiblePurpose PermissiblePurpose `json:"permissiblePurpose"`
	AddOns             CreditAddOns       `json:"addOns"`
}

type ConsumerPII struct {
	PrimaryApplicant PrimaryApplicant `json:"primaryApplicant"`
}

type PrimaryApplicant struct {
	Name           ApplicantName    `json:"name"`
	DOB            ApplicantDOB     `json:"dob"`
	SSN            ApplicantSSN     `json:"ssn"`
	CurrentAddress ApplicantAddress `json:"currentAddress"`
}

type ApplicantName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type ApplicantDOB struct {
	DOB string `json:"dob"`
}

type ApplicantSSN struct {
	SSN string `json:"ssn"`
}

type ApplicantAddress struct {
	Line1   string `json:"line1"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type PermissiblePurpose struct {
	Type string `json:"type"`
}

type CreditAddOns struct {
	RiskModels RiskModelsAddOn `json:"riskModels"`
	Summaries  SummariesAddOn  `json:"summaries"`
	OFAC       string          `json:"ofac"`
	MLA        string          `json:"mla"`
	Scenario   string          `json:"scenario,omitempty"`
}

type RiskModelsAddOn struct {
	ModelIndicator  []string `json:"modelIndicator"`
	ScorePercentile string   `json:"scorePercentile"`
}

type SummariesAddOn struct {
	SummaryType []string `json:"summaryType"`
}

// BuildCredit maps intake into the bureau report request. A missing
// applicant name is a builder misconfiguration: the bureau cannot match a
// file without one, so this surfaces as an orchestration error rather than
// a decision.
func BuildCredit(intake models.Intake) (CreditPayload, error) {
	fullName := strings.TrimSpace(intake.FullName)
	if fullName == "" {
		return CreditPayload{}, dErrors.New(dErrors.CodeInvalidInput, "intake user_fullname is required for a bureau inquiry")
	}
	parts := strings.Fields(fullName)
	first := parts[0]
	last := parts[0]
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}

	country := intake.Country
	if country == "" {
		country = "US"
	}

	return CreditPayload{
		ConsumerPII: ConsumerPII{
			PrimaryApplicant: PrimaryApplicant{
				Name: ApplicantName{FirstName: first, LastName: last},
				DOB:  ApplicantDOB{DOB: intake.DateOfBirth},
				SSN:  ApplicantSSN{SSN: intake.SSN},
				CurrentAddress: ApplicantAddress{
					Line1:   intake.AddressLine1,
					City:    intake.AddressCity,
					State:   intake.AddressState,
					ZipCode: intake.AddressZip,
					Country: country,
				},
			},
		},
		PermissiblePurpose: PermissiblePurpose{Type: "CREDIT_GRANTING"},
		AddOns: CreditAddOns{
			RiskModels: RiskModelsAddOn{
				ModelIndicator:  []string{"V4", "FICO8"},
				ScorePercentile: "Y",
			},
			Summaries: SummariesAddOn{SummaryType: []string{"PROFILE"}},
			OFAC:      "Y",
			MLA:       "N",
			Scenario:  intake.CustomString("scenario"),
		},
	}, nil
}

// IncomeOptions are pass-through test-control knobs for the income vendor,
// extracted from intake custom fields. They steer the mock's behavior; they
// are not applicant-authored configuration.
type IncomeOptions struct {
	ForceMode      string `json:"force_mode,omitempty"`
	RiskProfile    string `json:"risk_profile,omitempty"`
	InjectError    bool   `json:"inject_error,omitempty"`
	CoverageMonths int    `json:"coverage_months"`
}

const defaultCoverageMonths = 12

// IncomeOptionsFromIntake extracts the recognized income knobs. The coverage
// window always rides along for the evaluator's bank-fallback rule.
func IncomeOptionsFromIntake(intake models.Intake) IncomeOptions {
	return IncomeOptions{
		ForceMode:      intake.CustomString("income_force_mode"),
		RiskProfile:    intake.CustomString("income_risk_profile"),
		InjectError:    intake.CustomBool("income_inject_error"),
		CoverageMonths: intake.CustomInt("income_coverage_months", defaultCoverageMonths),
	}
}

func customFields(intake models.Intake) map[string]any {
	if intake.CustomFields == nil {
		return map[string]any{}
	}
	return intake.CustomFields
}
