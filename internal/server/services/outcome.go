package services

// Outcome tags the result of a credential-checked operation so callers can
// tell "done" from "refused because of bad credentials".
type Outcome int

const (
	OutcomeSuccess Outcome = iota + 1
	OutcomeAuthenticationFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeAuthenticationFailed:
		return "authentication_failed"
	default:
		return "unknown"
	}
}

// AuthResult is returned by SessionService.Authenticate. Token is always
// populated but is only valid when Outcome is OutcomeSuccess.
type AuthResult struct {
	Token   string
	Outcome Outcome
}

func (r AuthResult) Success() bool {
	return r.Outcome == OutcomeSuccess
}
