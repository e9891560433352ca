package dashboard

import "time"

// PaymentDateLayout is the ISO-8601 millisecond UTC layout used for payment dates.
const PaymentDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Outcome describes what an applied action did. Reason is set only when the
// action left state unchanged.
type Outcome struct {
	Kind    Kind
	Changed bool
	Reason  error
}

// Reducer applies actions to state. The zero value uses the wall clock.
type Reducer struct {
	Now func() time.Time
}

// Apply returns the state produced by applying action to state with the wall clock.
func Apply(state State, action Action) State {
	next, _ := Reducer{}.Reduce(state, action)
	return next
}

// Apply returns the state produced by applying action to state.
func (r Reducer) Apply(state State, action Action) State {
	next, _ := r.Reduce(state, action)
	return next
}

// Reduce applies action to state and reports the outcome. It never mutates
// state; unchanged outcomes return state as given.
func (r Reducer) Reduce(state State, action Action) (State, Outcome) {
	switch a := action.(type) {
	case AddClient:
		next := state
		next.Clients = appendClient(state.Clients, a.Client)
		return next, changed(a)
	case UpdateClient:
		clients, ok := replaceClient(state.Clients, a.Client)
		if !ok {
			return state, unchanged(a, ErrReferenceNotFound)
		}
		next := state
		next.Clients = clients
		return next, changed(a)
	case AddProject:
		next := state
		next.Projects = appendProject(state.Projects, a.Project)
		return next, changed(a)
	case UpdateProject:
		projects, ok := mapProjects(state.Projects, a.Project.ID, func(Project) Project { return a.Project })
		if !ok {
			return state, unchanged(a, ErrReferenceNotFound)
		}
		next := state
		next.Projects = projects
		return next, changed(a)
	case AddPayment:
		next := state
		next.Payments = appendPayment(state.Payments, a.Payment)
		if projects, ok := mapProjects(state.Projects, a.Payment.ProjectID, markPaid); ok {
			next.Projects = projects
		}
		return next, changed(a)
	case MarkProjectPaid:
		if hasPayment(state.Payments, a.ProjectID) {
			return state, unchanged(a, ErrAlreadyPaid)
		}
		next := state
		next.Payments = appendPayment(state.Payments, Payment{
			ProjectID: a.ProjectID,
			Amount:    a.Amount,
			Date:      r.now().UTC().Format(PaymentDateLayout),
		})
		if projects, ok := mapProjects(state.Projects, a.ProjectID, markPaid); ok {
			next.Projects = projects
		}
		return next, changed(a)
	case UpdateProjectStatus:
		projects, ok := mapProjects(state.Projects, a.ProjectID, func(p Project) Project {
			p.Status = a.Status
			return p
		})
		if !ok {
			return state, unchanged(a, ErrReferenceNotFound)
		}
		next := state
		next.Projects = projects
		return next, changed(a)
	default:
		return state, Outcome{Reason: ErrUnknownAction}
	}
}

func (r Reducer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func changed(a Action) Outcome {
	return Outcome{Kind: a.Kind(), Changed: true}
}

func unchanged(a Action, reason error) Outcome {
	return Outcome{Kind: a.Kind(), Reason: reason}
}

func markPaid(p Project) Project {
	p.PaymentStatus = PaymentPaid
	return p
}

func hasPayment(payments []Payment, projectID string) bool {
	for _, p := range payments {
		if p.ProjectID == projectID {
			return true
		}
	}
	return false
}

// The append helpers always copy so the input backing array is never shared
// with the result.

func appendClient(clients []Client, c Client) []Client {
	out := make([]Client, len(clients), len(clients)+1)
	copy(out, clients)
	return append(out, c)
}

func appendProject(projects []Project, p Project) []Project {
	out := make([]Project, len(projects), len(projects)+1)
	copy(out, projects)
	return append(out, p)
}

func appendPayment(payments []Payment, p Payment) []Payment {
	out := make([]Payment, len(payments), len(payments)+1)
	copy(out, payments)
	return append(out, p)
}

func replaceClient(clients []Client, c Client) ([]Client, bool) {
	var out []Client
	for i := range clients {
		if clients[i].ID != c.ID {
			continue
		}
		if out == nil {
			out = append([]Client(nil), clients...)
		}
		out[i] = c
	}
	return out, out != nil
}

func mapProjects(projects []Project, id string, fn func(Project) Project) ([]Project, bool) {
	var out []Project
	for i := range projects {
		if projects[i].ID != id {
			continue
		}
		if out == nil {
			out = append([]Project(nil), projects...)
		}
		out[i] = fn(projects[i])
	}
	return out, out != nil
}
