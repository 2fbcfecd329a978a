package models

import "encoding/json"

// Vendor document shapes. Field names define the minimum semantic contract
// with each vendor; everything else rides along in the raw payload.
//
// Amount and count fields that vendors serialize inconsistently (number vs
// "$1,234" string) are typed `any` and normalized by the policy package.

// VendorEnvelope tags a raw vendor payload for audit collection. One per
// stage call; lifetime is a single evaluation.
type VendorEnvelope struct {
	Stage Stage           `json:"stage"`
	OK    bool            `json:"ok"`
	Body  json.RawMessage `json:"body,omitempty"`
	Error string          `json:"error,omitempty"`
}

// -----------------------------------------------------------------------------
// AML (watchlist screening vendor)
// -----------------------------------------------------------------------------

// AMLResponse is the screening vendor's success envelope. A transport failure
// is represented as Success=false with TransportError set.
type AMLResponse struct {
	Success        bool            `json:"success"`
	Data           *AMLData        `json:"data,omitempty"`
	Error          any             `json:"error,omitempty"`
	TransportError string          `json:"-"`
	Raw            json.RawMessage `json:"-"`
}

type AMLData struct {
	HasWatchlistMatch    bool `json:"has_watchlist_match"`
	HasSanctionMatch     bool `json:"has_sanction_match"`
	HasCrimelistMatch    bool `json:"has_crimelist_match"`
	HasPEPMatch          bool `json:"has_pep_match"`
	HasAdverseMediaMatch bool `json:"has_adversemedia_match"`
}

// -----------------------------------------------------------------------------
// Fraud (device/IP scoring vendor)
// -----------------------------------------------------------------------------

type FraudResponse struct {
	Success        bool            `json:"success"`
	Data           *FraudData      `json:"data,omitempty"`
	Error          any             `json:"error,omitempty"`
	TransportError string          `json:"-"`
	Raw            json.RawMessage `json:"-"`
}

type FraudData struct {
	FraudScore    any            `json:"fraud_score"`
	DeviceDetails *DeviceDetails `json:"device_details,omitempty"`
	IPDetails     *IPDetails     `json:"ip_details,omitempty"`
}

type DeviceDetails struct {
	VPN             bool     `json:"vpn"`
	Proxy           bool     `json:"proxy"`
	SuspiciousFlags []string `json:"suspicious_flags,omitempty"`
}

type IPDetails struct {
	IPType string `json:"ip_type"`
	Proxy  bool   `json:"proxy"`
	VPN    bool   `json:"vpn"`
	Tor    bool   `json:"tor"`
}

// -----------------------------------------------------------------------------
// Credit bureau
// -----------------------------------------------------------------------------

// CreditReport is the bureau response. Absence of Errors and presence of
// CreditProfile[0] is the success path; transport failures are synthesized
// into an Errors entry by the gateway so the evaluator sees one shape.
type CreditReport struct {
	Errors        []CreditError   `json:"errors,omitempty"`
	CreditProfile []CreditProfile `json:"creditProfile,omitempty"`
	Raw           json.RawMessage `json:"-"`
}

type CreditError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type CreditProfile struct {
	Statement    []CreditStatement `json:"statement,omitempty"`
	PublicRecord []PublicRecord    `json:"publicRecord,omitempty"`
	FraudShield  []FraudShield     `json:"fraudShield,omitempty"`
	Tradeline    []Tradeline       `json:"tradeline,omitempty"`
	Inquiry      []CreditInquiry   `json:"inquiry,omitempty"`
	RiskModel    []RiskModel       `json:"riskModel,omitempty"`
	OFAC         *OFACRecord       `json:"ofac,omitempty"`
}

type CreditStatement struct {
	StatementText string `json:"statementText"`
}

type PublicRecord struct {
	CourtName  string `json:"courtName"`
	StatusDate string `json:"statusDate"`
	FilingDate string `json:"filingDate"`
}

type FraudShield struct {
	DateOfDeath           string                 `json:"dateOfDeath,omitempty"`
	FraudShieldIndicators *FraudShieldIndicators `json:"fraudShieldIndicators,omitempty"`
}

type FraudShieldIndicators struct {
	Indicator []string `json:"indicator,omitempty"`
}

type Tradeline struct {
	Status                   string               `json:"status,omitempty"`
	StatusDate               string               `json:"statusDate,omitempty"`
	BalanceDate              string               `json:"balanceDate,omitempty"`
	MaxDelinquencyDate       string               `json:"maxDelinquencyDate,omitempty"`
	OpenDate                 string               `json:"openDate,omitempty"`
	SpecialComment           string               `json:"specialComment,omitempty"`
	OriginalCreditorName     string               `json:"originalCreditorName,omitempty"`
	AccountType              string               `json:"accountType,omitempty"`
	RevolvingOrInstallment   string               `json:"revolvingOrInstallment,omitempty"`
	OpenOrClosed             string               `json:"openOrClosed,omitempty"`
	ConsumerDisputeFlag      string               `json:"consumerDisputeFlag,omitempty"`
	BalanceAmount            any                  `json:"balanceAmount,omitempty"`
	AmountPastDue            any                  `json:"amountPastDue,omitempty"`
	Delinquencies30Days      any                  `json:"delinquencies30Days,omitempty"`
	Delinquencies60Days      any                  `json:"delinquencies60Days,omitempty"`
	Delinquencies90to180Days any                  `json:"delinquencies90to180Days,omitempty"`
	EnhancedPaymentData      *EnhancedPaymentData `json:"enhancedPaymentData,omitempty"`
}

type EnhancedPaymentData struct {
	EnhancedPaymentStatus  string `json:"enhancedPaymentStatus,omitempty"`
	EnhancedSpecialComment string `json:"enhancedSpecialComment,omitempty"`
	ChargeoffAmount        any    `json:"chargeoffAmount,omitempty"`
	CreditLimitAmount      any    `json:"creditLimitAmount,omitempty"`
}

type CreditInquiry struct {
	Type string `json:"type"`
	Date string `json:"date"`
}

type RiskModel struct {
	ModelIndicator string `json:"modelIndicator"`
	Score          any    `json:"score"`
}

type OFACRecord struct {
	MessageText string `json:"messageText,omitempty"`
}

// -----------------------------------------------------------------------------
// Income (payroll/bank verification vendor)
// -----------------------------------------------------------------------------

// IncomeDocument is the common envelope for the three income vendor calls.
// The vendor never fails transport-hard: errors arrive as error_type/
// error_code documents, which the gateway also synthesizes on transport
// failure.
type IncomeDocument struct {
	ErrorType      string `json:"error_type,omitempty"`
	ErrorCode      string `json:"error_code,omitempty"`
	DisplayMessage string `json:"display_message,omitempty"`
	RequestID      string `json:"request_id,omitempty"`

	PayrollIncome *PayrollIncome `json:"payroll_income,omitempty"`
	BankIncome    *BankIncome    `json:"bank_income,omitempty"`
	Signals       []RiskSignal   `json:"signals,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// HasError reports a vendor-style error document.
func (d *IncomeDocument) HasError() bool {
	return d != nil && (d.ErrorType != "" || d.ErrorCode != "")
}

type PayrollIncome struct {
	PayFrequency string         `json:"pay_frequency,omitempty"`
	Streams      []IncomeStream `json:"streams,omitempty"`
}

type BankIncome struct {
	Coverage string         `json:"coverage,omitempty"`
	Streams  []IncomeStream `json:"streams,omitempty"`
}

type IncomeStream struct {
	Net        any    `json:"net,omitempty"`
	AverageNet any    `json:"average_net,omitempty"`
	Cadence    string `json:"cadence,omitempty"`
}

type RiskSignal struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
}

// IncomeBundle groups the three income vendor documents fetched for a stage.
type IncomeBundle struct {
	Payroll *IncomeDocument
	Bank    *IncomeDocument
	Risk    *IncomeDocument
}
