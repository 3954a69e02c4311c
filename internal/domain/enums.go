package domain

// Bureau is one of the three national credit reporting agencies.
type Bureau string

const (
	BureauEquifax    Bureau = "EQUIFAX"
	BureauExperian   Bureau = "EXPERIAN"
	BureauTransUnion Bureau = "TRANSUNION"
)

// AllBureaus lists bureaus in their canonical planning order.
var AllBureaus = []Bureau{BureauEquifax, BureauExperian, BureauTransUnion}

func (b Bureau) String() string { return string(b) }

func (b Bureau) IsValid() bool {
	switch b {
	case BureauEquifax, BureauExperian, BureauTransUnion:
		return true
	}
	return false
}

// Target is the recipient of a dispute letter: a bureau or the furnisher
// (original creditor or collection agency).
type Target string

const (
	TargetEquifax    Target = Target(BureauEquifax)
	TargetExperian   Target = Target(BureauExperian)
	TargetTransUnion Target = Target(BureauTransUnion)
	TargetFurnisher  Target = "FURNISHER"
)

func (t Target) String() string { return string(t) }

func (t Target) IsValid() bool {
	return t == TargetFurnisher || Bureau(t).IsValid()
}

// IsBureau reports whether the target is a credit bureau.
func (t Target) IsBureau() bool { return Bureau(t).IsValid() }

// BureauTarget converts a bureau to its dispute target.
func BureauTarget(b Bureau) Target { return Target(b) }

// AccountType classifies a negative credit-report entry.
type AccountType string

const (
	AccountTypeCollection   AccountType = "COLLECTION"
	AccountTypeChargeOff    AccountType = "CHARGE_OFF"
	AccountTypeLatePayment  AccountType = "LATE_PAYMENT"
	AccountTypeMedical      AccountType = "MEDICAL"
	AccountTypeCreditCard   AccountType = "CREDIT_CARD"
	AccountTypeAutoLoan     AccountType = "AUTO_LOAN"
	AccountTypePersonalLoan AccountType = "PERSONAL_LOAN"
	AccountTypeStudentLoan  AccountType = "STUDENT_LOAN"
	AccountTypeMortgage     AccountType = "MORTGAGE"
	AccountTypeRepossession AccountType = "REPOSSESSION"
	AccountTypeForeclosure  AccountType = "FORECLOSURE"
	AccountTypeBankruptcy   AccountType = "BANKRUPTCY"
	AccountTypeJudgment     AccountType = "JUDGMENT"
	AccountTypeTaxLien      AccountType = "TAX_LIEN"
	AccountTypeInquiry      AccountType = "INQUIRY"
)

func (a AccountType) String() string { return string(a) }

func (a AccountType) IsValid() bool {
	switch a {
	case AccountTypeCollection, AccountTypeChargeOff, AccountTypeLatePayment, AccountTypeMedical,
		AccountTypeCreditCard, AccountTypeAutoLoan, AccountTypePersonalLoan, AccountTypeStudentLoan,
		AccountTypeMortgage, AccountTypeRepossession, AccountTypeForeclosure, AccountTypeBankruptcy,
		AccountTypeJudgment, AccountTypeTaxLien, AccountTypeInquiry:
		return true
	}
	return false
}

// LetterType identifies the kind of dispute letter.
type LetterType string

const (
	LetterTypeInitialDispute       LetterType = "INITIAL_DISPUTE"
	LetterTypeDebtValidation       LetterType = "DEBT_VALIDATION"
	LetterTypeMethodOfVerification LetterType = "METHOD_OF_VERIFICATION"
	LetterTypeGoodwill             LetterType = "GOODWILL"
	LetterTypePayForDelete         LetterType = "PAY_FOR_DELETE"
	LetterTypeIntentToSue          LetterType = "INTENT_TO_SUE"
)

func (l LetterType) String() string { return string(l) }

func (l LetterType) IsValid() bool {
	switch l {
	case LetterTypeInitialDispute, LetterTypeDebtValidation, LetterTypeMethodOfVerification,
		LetterTypeGoodwill, LetterTypePayForDelete, LetterTypeIntentToSue:
		return true
	}
	return false
}

// AddressedToBureau reports whether letters of this type go to bureaus.
// The remaining types are addressed to the furnisher.
func (l LetterType) AddressedToBureau() bool {
	switch l {
	case LetterTypeInitialDispute, LetterTypeMethodOfVerification:
		return true
	}
	return false
}

// DisputeStatus is the persisted lifecycle state of a dispute.
type DisputeStatus string

const (
	DisputeStatusDraft            DisputeStatus = "DRAFT"
	DisputeStatusMailed           DisputeStatus = "MAILED"
	DisputeStatusAwaitingResponse DisputeStatus = "AWAITING_RESPONSE"
	DisputeStatusResponseReceived DisputeStatus = "RESPONSE_RECEIVED"
	DisputeStatusSuccessful       DisputeStatus = "SUCCESSFUL"
	DisputeStatusPartial          DisputeStatus = "PARTIAL"
	DisputeStatusUnsuccessful     DisputeStatus = "UNSUCCESSFUL"
)

func (s DisputeStatus) String() string { return string(s) }

func (s DisputeStatus) IsValid() bool {
	switch s {
	case DisputeStatusDraft, DisputeStatusMailed, DisputeStatusAwaitingResponse,
		DisputeStatusResponseReceived, DisputeStatusSuccessful, DisputeStatusPartial,
		DisputeStatusUnsuccessful:
		return true
	}
	return false
}

// IsTerminal reports whether the status carries an outcome.
func (s DisputeStatus) IsTerminal() bool {
	switch s {
	case DisputeStatusSuccessful, DisputeStatusPartial, DisputeStatusUnsuccessful:
		return true
	}
	return false
}

// IsInFlight reports whether the letter is mailed and unanswered.
func (s DisputeStatus) IsInFlight() bool {
	return s == DisputeStatusMailed || s == DisputeStatusAwaitingResponse
}

// Outcome is the terminal result of a dispute.
type Outcome string

const (
	OutcomeSuccessful   Outcome = "SUCCESSFUL"
	OutcomePartial      Outcome = "PARTIAL"
	OutcomeUnsuccessful Outcome = "UNSUCCESSFUL"
)

func (o Outcome) String() string { return string(o) }

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeSuccessful, OutcomePartial, OutcomeUnsuccessful:
		return true
	}
	return false
}

// IsFavorable reports whether the outcome counts as a win.
func (o Outcome) IsFavorable() bool {
	return o == OutcomeSuccessful || o == OutcomePartial
}

// Status returns the terminal dispute status matching the outcome.
func (o Outcome) Status() DisputeStatus {
	return DisputeStatus(o)
}

// ResponseType classifies the reply received from a target.
type ResponseType string

const (
	ResponseTypeDeleted         ResponseType = "DELETED"
	ResponseTypeUpdated         ResponseType = "UPDATED"
	ResponseTypeVerified        ResponseType = "VERIFIED"
	ResponseTypeVerifiedNoProof ResponseType = "VERIFIED_NO_PROOF"
	ResponseTypeFrivolous       ResponseType = "FRIVOLOUS"
	ResponseTypeStallLetter     ResponseType = "STALL_LETTER"
	ResponseTypeValidationSent  ResponseType = "VALIDATION_PROVIDED"
	ResponseTypeOther           ResponseType = "OTHER"
)

func (r ResponseType) String() string { return string(r) }

func (r ResponseType) IsValid() bool {
	switch r {
	case ResponseTypeDeleted, ResponseTypeUpdated, ResponseTypeVerified, ResponseTypeVerifiedNoProof,
		ResponseTypeFrivolous, ResponseTypeStallLetter, ResponseTypeValidationSent, ResponseTypeOther:
		return true
	}
	return false
}

// Action names a lifecycle operation (used in transition errors and logs).
type Action string

const (
	ActionMarkMailed    Action = "mark_mailed"
	ActionLogResponse   Action = "log_response"
	ActionRecordOutcome Action = "record_outcome"
	ActionRegenerate    Action = "regenerate"
	ActionDelete        Action = "delete"
	ActionEscalate      Action = "escalate"
)

func (a Action) String() string { return string(a) }

// StrategyKind selects how letter types are derived for selected items.
type StrategyKind string

const (
	// StrategySingle sends one configured letter type.
	StrategySingle StrategyKind = "SINGLE"
	// StrategyDual sends the letter type to bureaus and, for collection-type
	// items, a debt validation letter to the furnisher.
	StrategyDual StrategyKind = "DUAL"
	// StrategyByAccountType picks the letter type from the account type mapping.
	StrategyByAccountType StrategyKind = "BY_ACCOUNT_TYPE"
)

func (k StrategyKind) String() string { return string(k) }

func (k StrategyKind) IsValid() bool {
	switch k {
	case StrategySingle, StrategyDual, StrategyByAccountType:
		return true
	}
	return false
}

// UrgencyKind is the derived attention class of a dispute.
type UrgencyKind string

const (
	UrgencyNone     UrgencyKind = ""
	UrgencyOverdue  UrgencyKind = "OVERDUE"
	UrgencyUpcoming UrgencyKind = "UPCOMING"
	UrgencyEscalate UrgencyKind = "READY_TO_ESCALATE"
)

func (u UrgencyKind) String() string { return string(u) }

func (u UrgencyKind) IsValid() bool {
	switch u {
	case UrgencyOverdue, UrgencyUpcoming, UrgencyEscalate:
		return true
	}
	return false
}
