package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `gigboard tracks a freelancer's Clients → Projects → Payments.

Core concepts:
- Client: who the work is for.
- Project: belongs to a client; has a budget, a delivery status (pending, in-progress, completed) and a payment status (paid, unpaid).
- Payment: an amount received for a project. Payments are append-only.
- Every change is an action applied to one in-memory snapshot, in order.

Default workflow:
1) Orient: call dashboard_stats, then list_projects (filter with status / payment_status / query).
2) Inspect: get_project or get_client for details.
3) Record money: validate_payment first if unsure, then mark_project_paid. A project that already has a payment is rejected with ALREADY_PAID.
4) Edit: add_client / add_project / update_project / update_project_status.
5) Review: get_recent_activity shows what changed.

Docs:
- gigboard://docs/guide
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "gigboard://docs/guide",
		Name:        "docs_guide",
		Title:       "gigboard guide",
		Description: "Data model, actions, error codes, and the payment workflow.",
		Content: `# gigboard guide

## Data model

- Client: ` + "`id`, `name`, `country`, `email`" + `
- Project: ` + "`id`, `client_id`, `title`, `budget`, `status`, `payment_status`" + `
- Payment: ` + "`project_id`, `amount`, `date`" + ` (RFC 3339, UTC)

A project is paid when at least one payment exists for it. Amounts are shown in the configured currency, e.g. ` + "`RWF 5,000,000`" + `.

## Actions

` + "`dispatch_action`" + ` accepts an envelope ` + "`{\"type\": ..., \"payload\": {...}}`" + `:

| type | payload |
|---|---|
| ADD_CLIENT | client |
| UPDATE_CLIENT | client (matched by id) |
| ADD_PROJECT | project |
| UPDATE_PROJECT | project (matched by id) |
| ADD_PAYMENT | payment |
| MARK_PROJECT_PAID | ` + "`{\"projectId\", \"amount\"}`" + ` |
| UPDATE_PROJECT_STATUS | ` + "`{\"projectId\", \"status\"}`" + ` |

Payload fields use camelCase (` + "`clientId`, `paymentStatus`, `projectId`" + `).
An action that references an unknown id changes nothing and reports ` + "`changed: false`" + `.

## Recording a payment

1) ` + "`validate_payment`" + ` reports PROJECT_NOT_FOUND, ALREADY_PAID or INVALID_AMOUNT without changing anything.
2) ` + "`mark_project_paid`" + ` records the payment dated now. Calling it again for the same project is rejected with ALREADY_PAID and records nothing.
3) ` + "`add_payment`" + ` appends a payment unconditionally (use for instalments).

## Error codes

- PROJECT_NOT_FOUND, CLIENT_NOT_FOUND: check ids with list_projects / list_clients.
- ALREADY_PAID: the project already has a payment.
- INVALID_AMOUNT: amounts must be positive.
- REFERENCE_NOT_FOUND: strict mode rejected a dangling client or project id.
- UNKNOWN_ACTION: the action type is not in the table above.
- INVALID_INPUT: a field is missing or malformed.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
