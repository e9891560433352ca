package mcp

import (
	"time"

	"github.com/rpggio/gigboard/internal/domain/activity"
	"github.com/rpggio/gigboard/internal/domain/dashboard"
	"github.com/rpggio/gigboard/internal/money"
)

type ListClientsParams struct {
	Query string `json:"query,omitempty" jsonschema:"case-insensitive substring of the client name"`
}

type GetClientParams struct {
	ID string `json:"id" jsonschema:"client id"`
}

type AddClientParams struct {
	ID      string `json:"id,omitempty" jsonschema:"client id (generated when omitted)"`
	Name    string `json:"name" jsonschema:"client display name"`
	Country string `json:"country,omitempty" jsonschema:"client country"`
	Email   string `json:"email,omitempty" jsonschema:"contact email"`
}

type UpdateClientParams struct {
	ID      string `json:"id" jsonschema:"client id"`
	Name    string `json:"name" jsonschema:"client display name"`
	Country string `json:"country,omitempty" jsonschema:"client country"`
	Email   string `json:"email,omitempty" jsonschema:"contact email"`
}

type ListProjectsParams struct {
	Status        string `json:"status,omitempty" jsonschema:"pending, in-progress, completed or all"`
	PaymentStatus string `json:"payment_status,omitempty" jsonschema:"paid, unpaid or all"`
	Query         string `json:"query,omitempty" jsonschema:"case-insensitive substring of the project title"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"project id"`
}

type AddProjectParams struct {
	ID            string  `json:"id,omitempty" jsonschema:"project id (generated when omitted)"`
	ClientID      string  `json:"client_id" jsonschema:"owning client id"`
	Title         string  `json:"title" jsonschema:"project title"`
	Budget        float64 `json:"budget" jsonschema:"agreed budget, must be positive"`
	Status        string  `json:"status,omitempty" jsonschema:"pending (default), in-progress or completed"`
	PaymentStatus string  `json:"payment_status,omitempty" jsonschema:"paid or unpaid; must match recorded payments (derived when omitted)"`
}

type UpdateProjectParams struct {
	ID            string  `json:"id" jsonschema:"project id"`
	ClientID      string  `json:"client_id" jsonschema:"owning client id"`
	Title         string  `json:"title" jsonschema:"project title"`
	Budget        float64 `json:"budget" jsonschema:"agreed budget, must be positive"`
	Status        string  `json:"status" jsonschema:"pending, in-progress or completed"`
	PaymentStatus string  `json:"payment_status,omitempty" jsonschema:"paid or unpaid; must match recorded payments (derived when omitted)"`
}

type UpdateProjectStatusParams struct {
	ProjectID string `json:"project_id" jsonschema:"project id"`
	Status    string `json:"status" jsonschema:"pending, in-progress or completed"`
}

type MarkProjectPaidParams struct {
	ProjectID string  `json:"project_id" jsonschema:"project id"`
	Amount    float64 `json:"amount" jsonschema:"amount received, must be positive"`
}

type AddPaymentParams struct {
	ProjectID string  `json:"project_id" jsonschema:"project id"`
	Amount    float64 `json:"amount" jsonschema:"amount received, must be positive"`
	Date      string  `json:"date,omitempty" jsonschema:"RFC 3339 timestamp (defaults to now)"`
}

type ListPaymentsParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"restrict to one project"`
}

type ValidatePaymentParams struct {
	ProjectID string  `json:"project_id" jsonschema:"project id"`
	Amount    float64 `json:"amount" jsonschema:"amount to record"`
}

type DispatchActionParams struct {
	Type    string         `json:"type" jsonschema:"action type such as ADD_CLIENT or MARK_PROJECT_PAID"`
	Payload map[string]any `json:"payload" jsonschema:"action payload"`
}

type GetRecentActivityParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"filter by project id"`
	ClientID  string `json:"client_id,omitempty" jsonschema:"filter by client id"`
	Type      string `json:"type,omitempty" jsonschema:"filter by activity type"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum entries (default 50)"`
	Offset    int    `json:"offset,omitempty" jsonschema:"entries to skip"`
}

type StatsResponse struct {
	TotalProjects       int     `json:"total_projects"`
	PaidProjects        int     `json:"paid_projects"`
	UnpaidProjects      int     `json:"unpaid_projects"`
	TotalClients        int     `json:"total_clients"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalRevenueDisplay string  `json:"total_revenue_display"`
}

type ClientResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Email   string `json:"email,omitempty"`
}

type ProjectResponse struct {
	ID                 string  `json:"id"`
	ClientID           string  `json:"client_id"`
	ClientName         string  `json:"client_name"`
	Title              string  `json:"title"`
	Budget             float64 `json:"budget"`
	BudgetDisplay      string  `json:"budget_display"`
	Status             string  `json:"status"`
	StatusLabel        string  `json:"status_label"`
	StatusTone         string  `json:"status_tone"`
	PaymentStatus      string  `json:"payment_status"`
	PaymentStatusLabel string  `json:"payment_status_label"`
	PaymentStatusTone  string  `json:"payment_status_tone"`
}

type PaymentResponse struct {
	ProjectID     string  `json:"project_id"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amount_display"`
	Date          string  `json:"date"`
}

type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}

type ClientDetailResponse struct {
	Client   ClientResponse    `json:"client"`
	Projects []ProjectResponse `json:"projects"`
}

type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type ProjectDetailResponse struct {
	Project  ProjectResponse   `json:"project"`
	Payments []PaymentResponse `json:"payments"`
}

type ListPaymentsResponse struct {
	Payments     []PaymentResponse `json:"payments"`
	Total        float64           `json:"total"`
	TotalDisplay string            `json:"total_display"`
}

type MarkProjectPaidResponse struct {
	Project ProjectResponse `json:"project"`
	Payment PaymentResponse `json:"payment"`
	Stats   StatsResponse   `json:"stats"`
}

type ValidatePaymentResponse struct {
	Valid   bool   `json:"valid"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type DispatchActionResponse struct {
	Type    string        `json:"type"`
	Changed bool          `json:"changed"`
	Reason  string        `json:"reason,omitempty"`
	Stats   StatsResponse `json:"stats"`
}

type ActivityResponse struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	ProjectID string `json:"project_id,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ListActivityResponse struct {
	Entries []ActivityResponse `json:"entries"`
}

func toStatsResponse(stats dashboard.Stats, f *money.Formatter) StatsResponse {
	return StatsResponse{
		TotalProjects:       stats.TotalProjects,
		PaidProjects:        stats.PaidProjects,
		UnpaidProjects:      stats.UnpaidProjects,
		TotalClients:        stats.TotalClients,
		TotalRevenue:        stats.TotalRevenue,
		TotalRevenueDisplay: f.Format(stats.TotalRevenue),
	}
}

func toClientResponse(c dashboard.Client) ClientResponse {
	return ClientResponse{ID: c.ID, Name: c.Name, Country: c.Country, Email: c.Email}
}

func toClientResponses(clients []dashboard.Client) []ClientResponse {
	resp := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		resp = append(resp, toClientResponse(c))
	}
	return resp
}

func toProjectResponse(p dashboard.Project, clients []dashboard.Client, f *money.Formatter) ProjectResponse {
	return ProjectResponse{
		ID:                 p.ID,
		ClientID:           p.ClientID,
		ClientName:         dashboard.ClientName(clients, p.ClientID),
		Title:              p.Title,
		Budget:             p.Budget,
		BudgetDisplay:      f.Format(p.Budget),
		Status:             string(p.Status),
		StatusLabel:        dashboard.StatusLabel(string(p.Status)),
		StatusTone:         dashboard.StatusTone(string(p.Status)),
		PaymentStatus:      string(p.PaymentStatus),
		PaymentStatusLabel: dashboard.StatusLabel(string(p.PaymentStatus)),
		PaymentStatusTone:  dashboard.StatusTone(string(p.PaymentStatus)),
	}
}

func toProjectResponses(projects []dashboard.Project, clients []dashboard.Client, f *money.Formatter) []ProjectResponse {
	resp := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, toProjectResponse(p, clients, f))
	}
	return resp
}

func toPaymentResponse(p dashboard.Payment, f *money.Formatter) PaymentResponse {
	return PaymentResponse{
		ProjectID:     p.ProjectID,
		Amount:        p.Amount,
		AmountDisplay: f.Format(p.Amount),
		Date:          p.Date,
	}
}

func toPaymentResponses(payments []dashboard.Payment, f *money.Formatter) []PaymentResponse {
	resp := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, toPaymentResponse(p, f))
	}
	return resp
}

func toActivityResponse(e activity.ActivityEntry) ActivityResponse {
	return ActivityResponse{
		ID:        e.ID,
		Type:      string(e.ActivityType),
		ProjectID: stringValue(e.ProjectID),
		ClientID:  stringValue(e.ClientID),
		Summary:   e.Summary,
		Details:   e.Details,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func stringValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}

func stringPtr(val string) *string {
	if val == "" {
		return nil
	}
	return &val
}
