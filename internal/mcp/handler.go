package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpggio/gigboard/internal/domain/activity"
	"github.com/rpggio/gigboard/internal/domain/dashboard"
	"github.com/rpggio/gigboard/internal/money"
)

// DashboardService defines dashboard operations needed by MCP.
type DashboardService interface {
	Snapshot() dashboard.State
	Dispatch(ctx context.Context, action dashboard.Action) (dashboard.State, dashboard.Outcome, error)
	MarkPaid(ctx context.Context, projectID string, amount float64) (dashboard.State, error)
	CheckPayment(projectID string, amount float64) dashboard.PaymentCheck
	AddClient(ctx context.Context, req dashboard.CreateClientRequest) (dashboard.Client, error)
	UpdateClient(ctx context.Context, client dashboard.Client) (dashboard.Client, error)
	AddProject(ctx context.Context, req dashboard.CreateProjectRequest) (dashboard.Project, error)
	UpdateProject(ctx context.Context, project dashboard.Project) (dashboard.Project, error)
	SetProjectStatus(ctx context.Context, projectID string, status dashboard.ProjectStatus) (dashboard.Project, error)
	AddPayment(ctx context.Context, payment dashboard.Payment) (dashboard.Payment, error)
	Stats() dashboard.Stats
	Clients(query string) []dashboard.Client
	Client(id string) (dashboard.ClientDetail, error)
	Project(id string) (dashboard.ProjectDetail, error)
	Payments(projectID string) []dashboard.Payment
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Handler dispatches MCP commands.
type Handler struct {
	dashboard DashboardService
	activity  ActivityService
	money     *money.Formatter
}

// NewHandler creates a new MCP handler. A nil formatter uses the default
// currency.
func NewHandler(dashboardSvc DashboardService, activitySvc ActivityService, formatter *money.Formatter) *Handler {
	if formatter == nil {
		formatter = money.NewFormatter(money.DefaultCurrency)
	}
	return &Handler{
		dashboard: dashboardSvc,
		activity:  activitySvc,
		money:     formatter,
	}
}

// Methods lists the method names Handle accepts, in tool registration order.
func Methods() []string {
	return []string{
		"dashboard_stats",
		"list_clients",
		"get_client",
		"add_client",
		"update_client",
		"list_projects",
		"get_project",
		"add_project",
		"update_project",
		"update_project_status",
		"mark_project_paid",
		"add_payment",
		"list_payments",
		"validate_payment",
		"dispatch_action",
		"get_recent_activity",
	}
}

// Handle dispatches requests to domain services by method name.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "dashboard_stats":
		return h.DashboardStats(ctx)
	case "list_clients":
		return handleWith(ctx, params, h.ListClients)
	case "get_client":
		return handleWith(ctx, params, h.GetClient)
	case "add_client":
		return handleWith(ctx, params, h.AddClient)
	case "update_client":
		return handleWith(ctx, params, h.UpdateClient)
	case "list_projects":
		return handleWith(ctx, params, h.ListProjects)
	case "get_project":
		return handleWith(ctx, params, h.GetProject)
	case "add_project":
		return handleWith(ctx, params, h.AddProject)
	case "update_project":
		return handleWith(ctx, params, h.UpdateProject)
	case "update_project_status":
		return handleWith(ctx, params, h.UpdateProjectStatus)
	case "mark_project_paid":
		return handleWith(ctx, params, h.MarkProjectPaid)
	case "add_payment":
		return handleWith(ctx, params, h.AddPayment)
	case "list_payments":
		return handleWith(ctx, params, h.ListPayments)
	case "validate_payment":
		return handleWith(ctx, params, h.ValidatePayment)
	case "dispatch_action":
		return handleWith(ctx, params, h.DispatchAction)
	case "get_recent_activity":
		return handleWith(ctx, params, h.GetRecentActivity)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func handleWith[P, R any](ctx context.Context, params json.RawMessage, fn func(context.Context, P) (R, error)) (any, error) {
	var req P
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return fn(ctx, req)
}

func (h *Handler) DashboardStats(_ context.Context) (StatsResponse, error) {
	return toStatsResponse(h.dashboard.Stats(), h.money), nil
}

func (h *Handler) ListClients(_ context.Context, req ListClientsParams) (ListClientsResponse, error) {
	return ListClientsResponse{Clients: toClientResponses(h.dashboard.Clients(req.Query))}, nil
}

func (h *Handler) GetClient(_ context.Context, req GetClientParams) (ClientDetailResponse, error) {
	detail, err := h.dashboard.Client(req.ID)
	if err != nil {
		return ClientDetailResponse{}, mapError(err)
	}
	clients := []dashboard.Client{detail.Client}
	return ClientDetailResponse{
		Client:   toClientResponse(detail.Client),
		Projects: toProjectResponses(detail.Projects, clients, h.money),
	}, nil
}

func (h *Handler) AddClient(ctx context.Context, req AddClientParams) (ClientResponse, error) {
	client, err := h.dashboard.AddClient(ctx, dashboard.CreateClientRequest{
		ID:      req.ID,
		Name:    req.Name,
		Country: req.Country,
		Email:   req.Email,
	})
	if err != nil {
		return ClientResponse{}, mapError(err)
	}
	return toClientResponse(client), nil
}

func (h *Handler) UpdateClient(ctx context.Context, req UpdateClientParams) (ClientResponse, error) {
	client, err := h.dashboard.UpdateClient(ctx, dashboard.Client{
		ID:      strings.TrimSpace(req.ID),
		Name:    strings.TrimSpace(req.Name),
		Country: strings.TrimSpace(req.Country),
		Email:   strings.TrimSpace(req.Email),
	})
	if err != nil {
		return ClientResponse{}, mapError(err)
	}
	return toClientResponse(client), nil
}

func (h *Handler) ListProjects(_ context.Context, req ListProjectsParams) (ListProjectsResponse, error) {
	filter, err := dashboard.ParseFilter(req.Status, req.PaymentStatus)
	if err != nil {
		return ListProjectsResponse{}, mapError(err)
	}
	state := h.dashboard.Snapshot()
	projects := dashboard.SearchItems(dashboard.FilterProjects(state.Projects, filter), req.Query)
	return ListProjectsResponse{Projects: toProjectResponses(projects, state.Clients, h.money)}, nil
}

func (h *Handler) GetProject(_ context.Context, req GetProjectParams) (ProjectDetailResponse, error) {
	detail, err := h.dashboard.Project(req.ID)
	if err != nil {
		return ProjectDetailResponse{}, mapError(err)
	}
	return h.projectDetail(detail), nil
}

func (h *Handler) AddProject(ctx context.Context, req AddProjectParams) (ProjectResponse, error) {
	create := dashboard.CreateProjectRequest{
		ID:       req.ID,
		ClientID: req.ClientID,
		Title:    req.Title,
		Budget:   req.Budget,
	}
	if req.Status != "" {
		status, err := dashboard.ParseProjectStatus(req.Status)
		if err != nil {
			return ProjectResponse{}, mapError(err)
		}
		create.Status = status
	}
	if req.PaymentStatus != "" {
		status, err := dashboard.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			return ProjectResponse{}, mapError(err)
		}
		create.PaymentStatus = status
	}
	project, err := h.dashboard.AddProject(ctx, create)
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	return h.projectResponse(project), nil
}

func (h *Handler) UpdateProject(ctx context.Context, req UpdateProjectParams) (ProjectResponse, error) {
	status, err := dashboard.ParseProjectStatus(req.Status)
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	var paymentStatus dashboard.PaymentStatus
	if req.PaymentStatus != "" {
		paymentStatus, err = dashboard.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			return ProjectResponse{}, mapError(err)
		}
	}
	project, err := h.dashboard.UpdateProject(ctx, dashboard.Project{
		ID:            strings.TrimSpace(req.ID),
		ClientID:      strings.TrimSpace(req.ClientID),
		Title:         strings.TrimSpace(req.Title),
		Budget:        req.Budget,
		Status:        status,
		PaymentStatus: paymentStatus,
	})
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	return h.projectResponse(project), nil
}

func (h *Handler) UpdateProjectStatus(ctx context.Context, req UpdateProjectStatusParams) (ProjectResponse, error) {
	status, err := dashboard.ParseProjectStatus(req.Status)
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	project, err := h.dashboard.SetProjectStatus(ctx, req.ProjectID, status)
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	return h.projectResponse(project), nil
}

func (h *Handler) MarkProjectPaid(ctx context.Context, req MarkProjectPaidParams) (MarkProjectPaidResponse, error) {
	state, err := h.dashboard.MarkPaid(ctx, req.ProjectID, req.Amount)
	if err != nil {
		return MarkProjectPaidResponse{}, mapError(err)
	}
	resp := MarkProjectPaidResponse{Stats: toStatsResponse(dashboard.CalculateStats(state), h.money)}
	if project, ok := dashboard.FindProjectByID(state.Projects, req.ProjectID); ok {
		resp.Project = toProjectResponse(project, state.Clients, h.money)
	}
	if payments := dashboard.PaymentsForProject(state.Payments, req.ProjectID); len(payments) > 0 {
		resp.Payment = toPaymentResponse(payments[len(payments)-1], h.money)
	}
	return resp, nil
}

func (h *Handler) AddPayment(ctx context.Context, req AddPaymentParams) (PaymentResponse, error) {
	payment, err := h.dashboard.AddPayment(ctx, dashboard.Payment{
		ProjectID: req.ProjectID,
		Amount:    req.Amount,
		Date:      req.Date,
	})
	if err != nil {
		return PaymentResponse{}, mapError(err)
	}
	return toPaymentResponse(payment, h.money), nil
}

func (h *Handler) ListPayments(_ context.Context, req ListPaymentsParams) (ListPaymentsResponse, error) {
	payments := h.dashboard.Payments(req.ProjectID)
	var total float64
	for _, p := range payments {
		total += p.Amount
	}
	return ListPaymentsResponse{
		Payments:     toPaymentResponses(payments, h.money),
		Total:        total,
		TotalDisplay: h.money.Format(total),
	}, nil
}

func (h *Handler) ValidatePayment(_ context.Context, req ValidatePaymentParams) (ValidatePaymentResponse, error) {
	check := h.dashboard.CheckPayment(req.ProjectID, req.Amount)
	if check.IsValid {
		return ValidatePaymentResponse{Valid: true}, nil
	}
	resp := ValidatePaymentResponse{Message: check.Message()}
	if apiErr := MapError(check.Err); apiErr != nil {
		resp.Code = apiErr.Code
	}
	return resp, nil
}

func (h *Handler) DispatchAction(ctx context.Context, req DispatchActionParams) (DispatchActionResponse, error) {
	if req.Payload == nil {
		return DispatchActionResponse{}, mapError(fmt.Errorf("%w: payload is required", dashboard.ErrInvalidInput))
	}
	payload, err := json.Marshal(req.Payload)
	if err != nil {
		return DispatchActionResponse{}, mapError(fmt.Errorf("%w: %v", dashboard.ErrInvalidInput, err))
	}
	action, err := dashboard.Envelope{Type: dashboard.Kind(req.Type), Payload: payload}.Action()
	if err != nil {
		return DispatchActionResponse{}, mapError(err)
	}
	state, outcome, err := h.dashboard.Dispatch(ctx, action)
	if err != nil {
		return DispatchActionResponse{}, mapError(err)
	}
	resp := DispatchActionResponse{
		Type:    string(outcome.Kind),
		Changed: outcome.Changed,
		Stats:   toStatsResponse(dashboard.CalculateStats(state), h.money),
	}
	if outcome.Reason != nil {
		resp.Reason = outcome.Reason.Error()
	}
	return resp, nil
}

func (h *Handler) GetRecentActivity(ctx context.Context, req GetRecentActivityParams) (ListActivityResponse, error) {
	if h.activity == nil {
		return ListActivityResponse{Entries: []ActivityResponse{}}, nil
	}
	opts := activity.ListActivityOptions{
		ProjectID: stringPtr(req.ProjectID),
		ClientID:  stringPtr(req.ClientID),
		Limit:     req.Limit,
		Offset:    req.Offset,
	}
	if req.Type != "" {
		activityType := activity.ActivityType(req.Type)
		opts.ActivityType = &activityType
	}
	entries, err := h.activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return ListActivityResponse{}, mapError(err)
	}
	resp := make([]ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, toActivityResponse(entry))
	}
	return ListActivityResponse{Entries: resp}, nil
}

func (h *Handler) projectResponse(project dashboard.Project) ProjectResponse {
	return toProjectResponse(project, h.dashboard.Snapshot().Clients, h.money)
}

func (h *Handler) projectDetail(detail dashboard.ProjectDetail) ProjectDetailResponse {
	project := toProjectResponse(detail.Project, nil, h.money)
	project.ClientName = detail.ClientName
	return ProjectDetailResponse{
		Project:  project,
		Payments: toPaymentResponses(detail.Payments, h.money),
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
