package dashboard

import (
	"fmt"
	"strings"
)

// ProjectStatus represents the delivery state of a project
type ProjectStatus string

const (
	StatusPending    ProjectStatus = "pending"
	StatusInProgress ProjectStatus = "in-progress"
	StatusCompleted  ProjectStatus = "completed"
)

// PaymentStatus represents whether a project has been paid
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// filterAll is the UI sentinel meaning "no criterion".
const filterAll = "all"

// Client is a customer the freelancer works for
type Client struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Country string `json:"country" yaml:"country"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Project is a piece of billable work for a client
type Project struct {
	ID            string        `json:"id" yaml:"id"`
	ClientID      string        `json:"clientId" yaml:"client_id"`
	Title         string        `json:"title" yaml:"title"`
	Budget        float64       `json:"budget" yaml:"budget"`
	Status        ProjectStatus `json:"status" yaml:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus" yaml:"payment_status"`
}

// Payment is an append-only record of money received for a project
type Payment struct {
	ProjectID string  `json:"projectId" yaml:"project_id"`
	Amount    float64 `json:"amount" yaml:"amount"`
	Date      string  `json:"date" yaml:"date"`
}

// State is the whole dashboard at one point in time
type State struct {
	Clients  []Client  `json:"clients" yaml:"clients"`
	Projects []Project `json:"projects" yaml:"projects"`
	Payments []Payment `json:"payments" yaml:"payments"`
}

// Clone returns a deep copy that shares no slices with s.
func (s State) Clone() State {
	return State{
		Clients:  append([]Client(nil), s.Clients...),
		Projects: append([]Project(nil), s.Projects...),
		Payments: append([]Payment(nil), s.Payments...),
	}
}

// SearchText implements Searchable.
func (c Client) SearchText() string { return c.Name }

// SearchText implements Searchable.
func (p Project) SearchText() string { return p.Title }

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPaid || s == PaymentUnpaid
}

// ParseProjectStatus converts a wire value to a ProjectStatus.
func ParseProjectStatus(value string) (ProjectStatus, error) {
	status := ProjectStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: project status %q", ErrInvalidInput, value)
	}
	return status, nil
}

// ParsePaymentStatus converts a wire value to a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	status := PaymentStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: payment status %q", ErrInvalidInput, value)
	}
	return status, nil
}

// ParseFilter builds a ProjectFilter from wire values. Empty strings and "all"
// leave the corresponding criterion unset.
func ParseFilter(status, paymentStatus string) (ProjectFilter, error) {
	var filter ProjectFilter
	if v := strings.TrimSpace(status); v != "" && !strings.EqualFold(v, filterAll) {
		parsed, err := ParseProjectStatus(v)
		if err != nil {
			return ProjectFilter{}, err
		}
		filter.Status = &parsed
	}
	if v := strings.TrimSpace(paymentStatus); v != "" && !strings.EqualFold(v, filterAll) {
		parsed, err := ParsePaymentStatus(v)
		if err != nil {
			return ProjectFilter{}, err
		}
		filter.PaymentStatus = &parsed
	}
	return filter, nil
}
