package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools exposes every Handler operation as a typed MCP tool.
func registerTools(server *sdkmcp.Server, h *Handler) {
	addTool(server, "dashboard_stats",
		"Get dashboard totals: projects, paid and unpaid projects, clients, and revenue",
		func(ctx context.Context, _ struct{}) (StatsResponse, error) { return h.DashboardStats(ctx) })

	// Clients
	addTool(server, "list_clients", "List clients, optionally filtered by a name query", h.ListClients)
	addTool(server, "get_client", "Get a client with its projects", h.GetClient)
	addTool(server, "add_client", "Create a new client", h.AddClient)
	addTool(server, "update_client", "Replace an existing client's details", h.UpdateClient)

	// Projects
	addTool(server, "list_projects",
		"List projects filtered by status, payment status, and title query", h.ListProjects)
	addTool(server, "get_project", "Get a project with its client name and payments", h.GetProject)
	addTool(server, "add_project", "Create a new project for a client", h.AddProject)
	addTool(server, "update_project", "Replace an existing project", h.UpdateProject)
	addTool(server, "update_project_status",
		"Change a project's delivery status (pending, in-progress, completed)", h.UpdateProjectStatus)

	// Payments
	addTool(server, "mark_project_paid",
		"Record the payment for an unpaid project and mark it paid; rejected if the project is already paid",
		h.MarkProjectPaid)
	addTool(server, "add_payment",
		"Append a payment for a project and mark it paid; does not check for earlier payments", h.AddPayment)
	addTool(server, "list_payments", "List payments, optionally for one project", h.ListPayments)
	addTool(server, "validate_payment",
		"Check whether a payment could be recorded without changing anything", h.ValidatePayment)

	// Actions and history
	addTool(server, "dispatch_action",
		"Apply a raw dashboard action envelope {type, payload}", h.DispatchAction)
	addTool(server, "get_recent_activity",
		"List recently applied dashboard changes, newest first", h.GetRecentActivity)
}

func addTool[In, Out any](server *sdkmcp.Server, name, description string, fn func(context.Context, In) (Out, error)) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		out, err := fn(ctx, in)
		if err != nil {
			var zero Out
			return nil, zero, err
		}
		return nil, out, nil
	})
}
