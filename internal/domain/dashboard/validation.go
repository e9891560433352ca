package dashboard

import (
	"errors"
	"strings"
)

// PaymentCheck is the result of pre-validating a payment.
type PaymentCheck struct {
	IsValid bool  `json:"isValid"`
	Err     error `json:"-"`
}

// Message returns the user-facing reason a payment was rejected, or "".
func (c PaymentCheck) Message() string {
	switch {
	case c.Err == nil:
		return ""
	case errors.Is(c.Err, ErrProjectNotFound):
		return "Project not found"
	case errors.Is(c.Err, ErrAlreadyPaid):
		return "Project is already paid"
	case errors.Is(c.Err, ErrNonPositiveAmount):
		return "Amount must be positive"
	default:
		return c.Err.Error()
	}
}

// RecordPayment checks whether a payment may be recorded for projectID. It
// does not mutate anything.
func RecordPayment(projectID string, amount float64, projects []Project) PaymentCheck {
	project, ok := FindProjectByID(projects, projectID)
	if !ok {
		return PaymentCheck{Err: ErrProjectNotFound}
	}
	if project.PaymentStatus == PaymentPaid {
		return PaymentCheck{Err: ErrAlreadyPaid}
	}
	if amount <= 0 {
		return PaymentCheck{Err: ErrNonPositiveAmount}
	}
	return PaymentCheck{IsValid: true}
}

// ValidateClient checks the fields required to create a client.
func ValidateClient(c Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidInput
	}
	return nil
}

// ValidateProject checks the fields required to create a project.
func ValidateProject(p Project) error {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.ClientID) == "" {
		return ErrInvalidInput
	}
	if p.Budget <= 0 {
		return ErrInvalidInput
	}
	if !p.Status.Valid() || !p.PaymentStatus.Valid() {
		return ErrInvalidInput
	}
	return nil
}
