package dashboard

import "strings"

// UnknownClientName is shown when a project's client id does not resolve.
const UnknownClientName = "Client not found"

// Stats is the aggregate summary shown at the top of the dashboard
type Stats struct {
	TotalProjects  int     `json:"totalProjects"`
	PaidProjects   int     `json:"paidProjects"`
	UnpaidProjects int     `json:"unpaidProjects"`
	TotalClients   int     `json:"totalClients"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

// ProjectFilter selects projects; nil criteria match everything.
type ProjectFilter struct {
	Status        *ProjectStatus
	PaymentStatus *PaymentStatus
}

// Searchable is anything with a name or title that search can match.
type Searchable interface {
	SearchText() string
}

// CalculateStats summarizes state. Revenue is the sum of recorded payments,
// not of paid projects' budgets.
func CalculateStats(state State) Stats {
	paid, unpaid := CountPaymentStatus(state.Projects)
	var revenue float64
	for _, p := range state.Payments {
		revenue += p.Amount
	}
	return Stats{
		TotalProjects:  len(state.Projects),
		PaidProjects:   paid,
		UnpaidProjects: unpaid,
		TotalClients:   len(state.Clients),
		TotalRevenue:   revenue,
	}
}

// CountPaymentStatus partitions projects on payment status. Anything other
// than paid counts as unpaid.
func CountPaymentStatus(projects []Project) (paid, unpaid int) {
	for _, p := range projects {
		if p.PaymentStatus == PaymentPaid {
			paid++
		} else {
			unpaid++
		}
	}
	return paid, unpaid
}

// FindClientByID returns the first client with the given id.
func FindClientByID(clients []Client, id string) (Client, bool) {
	for _, c := range clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}

// FindProjectByID returns the first project with the given id.
func FindProjectByID(projects []Project, id string) (Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// ClientName resolves a client id to a display name.
func ClientName(clients []Client, id string) string {
	if c, ok := FindClientByID(clients, id); ok {
		return c.Name
	}
	return UnknownClientName
}

// FilterProjects returns the projects matching every set criterion, in order.
func FilterProjects(projects []Project, filter ProjectFilter) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.PaymentStatus != nil && p.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SearchItems returns the items whose search text contains query, ignoring
// case. A blank query returns items unchanged.
func SearchItems[T Searchable](items []T, query string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	needle := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.SearchText()), needle) {
			out = append(out, item)
		}
	}
	return out
}

// PaymentsForProject returns the payments recorded against a project.
func PaymentsForProject(payments []Payment, projectID string) []Payment {
	out := make([]Payment, 0)
	for _, p := range payments {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out
}

// ProjectsForClient returns the projects belonging to a client.
func ProjectsForClient(projects []Project, clientID string) []Project {
	out := make([]Project, 0)
	for _, p := range projects {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out
}

// StatusLabel returns the human label for a project or payment status.
func StatusLabel(status string) string {
	switch status {
	case string(StatusPending):
		return "Pending"
	case string(StatusInProgress):
		return "In Progress"
	case string(StatusCompleted):
		return "Completed"
	case string(PaymentPaid):
		return "Paid"
	case string(PaymentUnpaid):
		return "Unpaid"
	default:
		return status
	}
}

// StatusTone returns a presentation-neutral badge tone for a status.
func StatusTone(status string) string {
	switch status {
	case string(StatusCompleted), string(PaymentPaid):
		return "success"
	case string(StatusInProgress):
		return "info"
	case string(StatusPending):
		return "warning"
	case string(PaymentUnpaid):
		return "danger"
	default:
		return "neutral"
	}
}
