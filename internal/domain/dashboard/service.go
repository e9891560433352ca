package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/gigboard/internal/domain/activity"
)

// ServiceOptions configures a Service.
type ServiceOptions struct {
	Activities ActivityLogger
	Recorder   Recorder
	// Now stamps payments created by MarkProjectPaid. Defaults to time.Now.
	Now func() time.Time
	// StrictReferences rejects actions whose client or project id does not
	// resolve instead of applying them silently.
	StrictReferences bool
}

// Service owns the current dashboard snapshot and is its only writer.
type Service struct {
	mu      sync.Mutex
	state   State
	// effects is closed when the latest commit's side effects have run.
	effects chan struct{}
	reducer Reducer
	strict  bool

	activities ActivityLogger
	recorder   Recorder
	logger     *slog.Logger

	subsMu  sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// NewService creates a dashboard service seeded with the given state.
func NewService(seed State, opts ServiceOptions, logger *slog.Logger) *Service {
	effects := make(chan struct{})
	close(effects)
	return &Service{
		effects:    effects,
		state:      seed.Clone(),
		reducer:    Reducer{Now: opts.Now},
		strict:     opts.StrictReferences,
		activities: opts.Activities,
		recorder:   opts.Recorder,
		logger:     logger,
		subs:       make(map[int]func(State)),
	}
}

// CreateClientRequest defines client creation inputs.
type CreateClientRequest struct {
	ID      string
	Name    string
	Country string
	Email   string
}

// CreateProjectRequest defines project creation inputs.
type CreateProjectRequest struct {
	ID            string
	ClientID      string
	Title         string
	Budget        float64
	Status        ProjectStatus
	PaymentStatus PaymentStatus
}

// ProjectDetail is a project with its resolved client name and payments.
type ProjectDetail struct {
	Project    Project   `json:"project"`
	ClientName string    `json:"clientName"`
	Payments   []Payment `json:"payments"`
}

// ClientDetail is a client with its projects.
type ClientDetail struct {
	Client   Client    `json:"client"`
	Projects []Project `json:"projects"`
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies an action and replaces the snapshot. It returns the new
// state and what the action did. The error is non-nil only when ctx is done or
// strict reference checking rejects the action.
//
// Activity logging and subscriber callbacks run in commit order. Subscribers
// must not dispatch from inside their callback.
func (s *Service) Dispatch(ctx context.Context, action Action) (State, Outcome, error) {
	return s.dispatch(ctx, func(State) (Action, error) { return action, nil })
}

// dispatch builds the action from the locked current state, then applies it.
// A build error leaves state untouched and is returned as is.
func (s *Service) dispatch(ctx context.Context, build func(State) (Action, error)) (State, Outcome, error) {
	if err := ctx.Err(); err != nil {
		return State{}, Outcome{}, err
	}
	start := time.Now()

	s.mu.Lock()
	action, err := build(s.state)
	if err != nil {
		s.mu.Unlock()
		return State{}, Outcome{Kind: kindOf(action)}, err
	}
	if s.strict {
		if err := checkReferences(s.state, action); err != nil {
			snap := s.state.Clone()
			s.mu.Unlock()
			outcome := Outcome{Kind: kindOf(action), Reason: err}
			s.observe(outcome, start)
			return snap, outcome, err
		}
	}
	next, outcome := s.reducer.Reduce(s.state, action)
	s.state = next
	snap := next.Clone()
	if !outcome.Changed {
		s.mu.Unlock()
		s.observe(outcome, start)
		if s.logger != nil {
			s.logger.Debug("action ignored", "kind", outcome.Kind, "reason", outcome.Reason)
		}
		return snap, outcome, nil
	}

	// Each commit waits for the previous commit's effects before running its own.
	prev, done := s.effects, make(chan struct{})
	s.effects = done
	s.mu.Unlock()
	defer close(done)
	<-prev

	s.observe(outcome, start)
	s.logActivity(ctx, action)
	s.notify(snap)
	return snap, outcome, nil
}

// MarkPaid pre-checks a payment and then dispatches MarkProjectPaid. The
// dispatched action stays authoritative for idempotence.
func (s *Service) MarkPaid(ctx context.Context, projectID string, amount float64) (State, error) {
	if check := s.CheckPayment(projectID, amount); !check.IsValid {
		return State{}, check.Err
	}
	state, outcome, err := s.Dispatch(ctx, MarkProjectPaid{ProjectID: projectID, Amount: amount})
	if err != nil {
		return state, err
	}
	if !outcome.Changed {
		return state, outcome.Reason
	}
	return state, nil
}

// CheckPayment runs RecordPayment against the current projects.
func (s *Service) CheckPayment(projectID string, amount float64) PaymentCheck {
	return RecordPayment(projectID, amount, s.Snapshot().Projects)
}

// AddClient creates a client, generating an id when none is given.
func (s *Service) AddClient(ctx context.Context, req CreateClientRequest) (Client, error) {
	client := Client{
		ID:      strings.TrimSpace(req.ID),
		Name:    strings.TrimSpace(req.Name),
		Country: strings.TrimSpace(req.Country),
		Email:   strings.TrimSpace(req.Email),
	}
	if err := ValidateClient(client); err != nil {
		return Client{}, err
	}
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if _, _, err := s.Dispatch(ctx, AddClient{Client: client}); err != nil {
		return Client{}, fmt.Errorf("adding client: %w", err)
	}
	return client, nil
}

// UpdateClient replaces an existing client.
func (s *Service) UpdateClient(ctx context.Context, client Client) (Client, error) {
	if err := ValidateClient(client); err != nil {
		return Client{}, err
	}
	_, outcome, err := s.Dispatch(ctx, UpdateClient{Client: client})
	if err != nil {
		return Client{}, fmt.Errorf("updating client: %w", err)
	}
	if !outcome.Changed {
		return Client{}, ErrClientNotFound
	}
	return client, nil
}

// AddProject creates a project. Status defaults to pending. Payment status
// follows the payments already recorded for the project id; a caller value
// that disagrees with them is rejected.
func (s *Service) AddProject(ctx context.Context, req CreateProjectRequest) (Project, error) {
	project := Project{
		ID:            strings.TrimSpace(req.ID),
		ClientID:      strings.TrimSpace(req.ClientID),
		Title:         strings.TrimSpace(req.Title),
		Budget:        req.Budget,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	}
	if project.Status == "" {
		project.Status = StatusPending
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	_, _, err := s.dispatch(ctx, func(state State) (Action, error) {
		resolved, err := withPaymentStatus(state, project)
		if err != nil {
			return nil, err
		}
		project = resolved
		return AddProject{Project: project}, nil
	})
	if err != nil {
		return Project{}, fmt.Errorf("adding project: %w", err)
	}
	return project, nil
}

// UpdateProject replaces an existing project. Payment status is held to the
// project's recorded payments the same way AddProject does.
func (s *Service) UpdateProject(ctx context.Context, project Project) (Project, error) {
	_, outcome, err := s.dispatch(ctx, func(state State) (Action, error) {
		resolved, err := withPaymentStatus(state, project)
		if err != nil {
			return nil, err
		}
		project = resolved
		return UpdateProject{Project: project}, nil
	})
	if err != nil {
		return Project{}, fmt.Errorf("updating project: %w", err)
	}
	if !outcome.Changed {
		return Project{}, ErrProjectNotFound
	}
	return project, nil
}

// withPaymentStatus fills an empty payment status from the payments recorded
// in state and validates the result.
func withPaymentStatus(state State, project Project) (Project, error) {
	derived := PaymentUnpaid
	if hasPayment(state.Payments, project.ID) {
		derived = PaymentPaid
	}
	if project.PaymentStatus == "" {
		project.PaymentStatus = derived
	}
	if err := ValidateProject(project); err != nil {
		return Project{}, err
	}
	if project.PaymentStatus != derived {
		return Project{}, fmt.Errorf("%w: project %q has %d payment(s), payment status cannot be %s",
			ErrInvalidInput, project.ID, len(PaymentsForProject(state.Payments, project.ID)), project.PaymentStatus)
	}
	return project, nil
}

// SetProjectStatus changes the delivery status of a project.
func (s *Service) SetProjectStatus(ctx context.Context, projectID string, status ProjectStatus) (Project, error) {
	if !status.Valid() {
		return Project{}, ErrInvalidInput
	}
	state, outcome, err := s.Dispatch(ctx, UpdateProjectStatus{ProjectID: projectID, Status: status})
	if err != nil {
		return Project{}, fmt.Errorf("updating project status: %w", err)
	}
	if !outcome.Changed {
		return Project{}, ErrProjectNotFound
	}
	project, _ := FindProjectByID(state.Projects, projectID)
	return project, nil
}

// AddPayment appends a payment, dating it now when no date is given.
func (s *Service) AddPayment(ctx context.Context, payment Payment) (Payment, error) {
	if strings.TrimSpace(payment.ProjectID) == "" {
		return Payment{}, ErrInvalidInput
	}
	if payment.Amount <= 0 {
		return Payment{}, ErrNonPositiveAmount
	}
	if payment.Date == "" {
		payment.Date = s.reducer.now().UTC().Format(PaymentDateLayout)
	} else if _, err := time.Parse(time.RFC3339, payment.Date); err != nil {
		return Payment{}, fmt.Errorf("%w: payment date %q", ErrInvalidInput, payment.Date)
	}
	if _, _, err := s.Dispatch(ctx, AddPayment{Payment: payment}); err != nil {
		return Payment{}, fmt.Errorf("adding payment: %w", err)
	}
	return payment, nil
}

// Stats returns aggregate statistics for the current snapshot.
func (s *Service) Stats() Stats {
	return CalculateStats(s.Snapshot())
}

// Clients lists clients matching query.
func (s *Service) Clients(query string) []Client {
	return SearchItems(s.Snapshot().Clients, query)
}

// Client returns a client and its projects.
func (s *Service) Client(id string) (ClientDetail, error) {
	state := s.Snapshot()
	client, ok := FindClientByID(state.Clients, id)
	if !ok {
		return ClientDetail{}, ErrClientNotFound
	}
	return ClientDetail{
		Client:   client,
		Projects: ProjectsForClient(state.Projects, id),
	}, nil
}

// Projects lists projects matching filter and query.
func (s *Service) Projects(filter ProjectFilter, query string) []Project {
	return SearchItems(FilterProjects(s.Snapshot().Projects, filter), query)
}

// Project returns a project with its client name and payments.
func (s *Service) Project(id string) (ProjectDetail, error) {
	state := s.Snapshot()
	project, ok := FindProjectByID(state.Projects, id)
	if !ok {
		return ProjectDetail{}, ErrProjectNotFound
	}
	return ProjectDetail{
		Project:    project,
		ClientName: ClientName(state.Clients, project.ClientID),
		Payments:   PaymentsForProject(state.Payments, id),
	}, nil
}

// Payments lists payments, optionally restricted to one project.
func (s *Service) Payments(projectID string) []Payment {
	payments := s.Snapshot().Payments
	if projectID == "" {
		return payments
	}
	return PaymentsForProject(payments, projectID)
}

// Subscribe registers fn to receive every changed snapshot. The returned
// function removes the subscription.
func (s *Service) Subscribe(fn func(State)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Service) notify(state State) {
	s.subsMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(State), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(state.Clone())
	}
}

func (s *Service) observe(outcome Outcome, start time.Time) {
	if s.recorder == nil {
		return
	}
	kind := string(outcome.Kind)
	if kind == "" {
		kind = "UNKNOWN"
	}
	s.recorder.ObserveAction(kind, outcome.Changed, time.Since(start))
}

func (s *Service) logActivity(ctx context.Context, action Action) {
	if s.activities == nil {
		return
	}
	entry := entryFor(action)
	if err := s.activities.LogActivity(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log activity", "kind", action.Kind(), "error", err)
	}
}

func entryFor(action Action) *activity.ActivityEntry {
	entry := &activity.ActivityEntry{}
	if details, err := json.Marshal(action.payload()); err == nil {
		entry.Details = string(details)
	}
	switch a := action.(type) {
	case AddClient:
		entry.ActivityType = activity.TypeClientAdded
		entry.ClientID = &a.Client.ID
		entry.Summary = fmt.Sprintf("added client %s", a.Client.Name)
	case UpdateClient:
		entry.ActivityType = activity.TypeClientUpdated
		entry.ClientID = &a.Client.ID
		entry.Summary = fmt.Sprintf("updated client %s", a.Client.Name)
	case AddProject:
		entry.ActivityType = activity.TypeProjectAdded
		entry.ProjectID = &a.Project.ID
		entry.ClientID = &a.Project.ClientID
		entry.Summary = fmt.Sprintf("added project %s", a.Project.Title)
	case UpdateProject:
		entry.ActivityType = activity.TypeProjectUpdated
		entry.ProjectID = &a.Project.ID
		entry.ClientID = &a.Project.ClientID
		entry.Summary = fmt.Sprintf("updated project %s", a.Project.Title)
	case AddPayment:
		entry.ActivityType = activity.TypePaymentAdded
		entry.ProjectID = &a.Payment.ProjectID
		entry.Summary = fmt.Sprintf("recorded payment of %.2f for project %s", a.Payment.Amount, a.Payment.ProjectID)
	case MarkProjectPaid:
		entry.ActivityType = activity.TypeProjectPaid
		entry.ProjectID = &a.ProjectID
		entry.Summary = fmt.Sprintf("marked project %s paid (%.2f)", a.ProjectID, a.Amount)
	case UpdateProjectStatus:
		entry.ActivityType = activity.TypeProjectStatusChanged
		entry.ProjectID = &a.ProjectID
		entry.Summary = fmt.Sprintf("changed project %s status to %s", a.ProjectID, a.Status)
	}
	return entry
}

// checkReferences reports ErrReferenceNotFound when action points at a client
// or project that is not in state.
func checkReferences(state State, action Action) error {
	switch a := action.(type) {
	case AddProject:
		return requireClient(state, a.Project.ClientID)
	case UpdateProject:
		return requireClient(state, a.Project.ClientID)
	case AddPayment:
		return requireProject(state, a.Payment.ProjectID)
	case MarkProjectPaid:
		return requireProject(state, a.ProjectID)
	}
	return nil
}

func requireClient(state State, id string) error {
	if _, ok := FindClientByID(state.Clients, id); !ok {
		return fmt.Errorf("%w: client %q", ErrReferenceNotFound, id)
	}
	return nil
}

func requireProject(state State, id string) error {
	if _, ok := FindProjectByID(state.Projects, id); !ok {
		return fmt.Errorf("%w: project %q", ErrReferenceNotFound, id)
	}
	return nil
}

func kindOf(action Action) Kind {
	if action == nil {
		return ""
	}
	return action.Kind()
}

// IsNotFound reports whether err is one of the dashboard lookup failures.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound) || errors.Is(err, ErrProjectNotFound) || errors.Is(err, ErrReferenceNotFound)
}
