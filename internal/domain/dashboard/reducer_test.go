package dashboard_test

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rpggio/gigboard/internal/domain/dashboard"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func testReducer() dashboard.Reducer {
	return dashboard.Reducer{Now: func() time.Time { return fixedNow }}
}

func seedState() dashboard.State {
	return dashboard.State{
		Clients: []dashboard.Client{
			{ID: "1", Name: "kira hospital", Country: "burundi", Email: "kira@gmail.com"},
			{ID: "2", Name: "inzora shophub", Country: "Rwanda"},
		},
		Projects: []dashboard.Project{
			{ID: "1", ClientID: "1", Title: "E-commerce Website", Budget: 5000000, Status: dashboard.StatusInProgress, PaymentStatus: dashboard.PaymentUnpaid},
			{ID: "2", ClientID: "2", Title: "Mobile App Development", Budget: 8000000, Status: dashboard.StatusCompleted, PaymentStatus: dashboard.PaymentPaid},
		},
		Payments: []dashboard.Payment{
			{ProjectID: "2", Amount: 8000000, Date: "2025-01-02T10:00:00.000Z"},
		},
	}
}

func TestReducer_AddClient(t *testing.T) {
	state := seedState()
	next := testReducer().Apply(state, dashboard.AddClient{Client: dashboard.Client{ID: "3", Name: "Acme"}})

	require.Len(t, next.Clients, 3)
	require.Equal(t, "Acme", next.Clients[2].Name)
	require.Len(t, state.Clients, 2, "input must not be mutated")
}

func TestReducer_UpdateClient(t *testing.T) {
	state := seedState()
	updated := dashboard.Client{ID: "2", Name: "Inzora", Country: "Rwanda", Email: "hello@inzora.rw"}

	next, outcome := testReducer().Reduce(state, dashboard.UpdateClient{Client: updated})
	require.True(t, outcome.Changed)
	require.Equal(t, updated, next.Clients[1])
	require.Equal(t, "inzora shophub", state.Clients[1].Name)
}

func TestReducer_UpdateClientUnknownIDIsNoop(t *testing.T) {
	state := seedState()
	next, outcome := testReducer().Reduce(state, dashboard.UpdateClient{Client: dashboard.Client{ID: "missing", Name: "x"}})

	require.False(t, outcome.Changed)
	require.ErrorIs(t, outcome.Reason, dashboard.ErrReferenceNotFound)
	require.Equal(t, state, next)
}

func TestReducer_AddAndUpdateProject(t *testing.T) {
	r := testReducer()
	state := r.Apply(seedState(), dashboard.AddProject{Project: dashboard.Project{
		ID: "3", ClientID: "1", Title: "Booking System", Budget: 1200, Status: dashboard.StatusPending, PaymentStatus: dashboard.PaymentUnpaid,
	}})
	require.Len(t, state.Projects, 3)

	replacement := state.Projects[2]
	replacement.Title = "Booking Platform"
	replacement.Budget = 1500
	state = r.Apply(state, dashboard.UpdateProject{Project: replacement})
	require.Equal(t, replacement, state.Projects[2])

	next, outcome := r.Reduce(state, dashboard.UpdateProject{Project: dashboard.Project{ID: "nope"}})
	require.False(t, outcome.Changed)
	require.Equal(t, state, next)
}

func TestReducer_AddPaymentMarksProjectPaid(t *testing.T) {
	state := seedState()
	next := testReducer().Apply(state, dashboard.AddPayment{Payment: dashboard.Payment{ProjectID: "1", Amount: 5000000, Date: "2025-03-01T00:00:00.000Z"}})

	require.Len(t, next.Payments, 2)
	require.Equal(t, dashboard.PaymentPaid, next.Projects[0].PaymentStatus)
	require.Equal(t, dashboard.PaymentUnpaid, state.Projects[0].PaymentStatus)
}

func TestReducer_AddPaymentDoesNotCheckDuplicates(t *testing.T) {
	state := testReducer().Apply(seedState(), dashboard.AddPayment{Payment: dashboard.Payment{ProjectID: "2", Amount: 10}})
	require.Len(t, dashboard.PaymentsForProject(state.Payments, "2"), 2)
}

func TestReducer_MarkProjectPaid(t *testing.T) {
	state := seedState()
	next, outcome := testReducer().Reduce(state, dashboard.MarkProjectPaid{ProjectID: "1", Amount: 4500000})

	require.True(t, outcome.Changed)
	require.Len(t, next.Payments, 2)
	require.Equal(t, dashboard.Payment{
		ProjectID: "1",
		Amount:    4500000,
		Date:      "2025-03-14T09:30:00.000Z",
	}, next.Payments[1])
	require.Equal(t, dashboard.PaymentPaid, next.Projects[0].PaymentStatus)
}

func TestReducer_MarkProjectPaidIsIdempotent(t *testing.T) {
	calls := 0
	r := dashboard.Reducer{Now: func() time.Time {
		calls++
		return fixedNow.Add(time.Duration(calls) * time.Hour)
	}}

	once := r.Apply(seedState(), dashboard.MarkProjectPaid{ProjectID: "1", Amount: 100})
	twice, outcome := r.Reduce(once, dashboard.MarkProjectPaid{ProjectID: "1", Amount: 100})

	require.Equal(t, once, twice)
	require.False(t, outcome.Changed)
	require.ErrorIs(t, outcome.Reason, dashboard.ErrAlreadyPaid)
	require.Equal(t, 1, calls, "second application must not stamp a new timestamp")
}

func TestReducer_MarkProjectPaidAlreadyPaidProject(t *testing.T) {
	state := seedState()
	next := testReducer().Apply(state, dashboard.MarkProjectPaid{ProjectID: "2", Amount: 1})
	require.Equal(t, state, next)
}

func TestReducer_UpdateProjectStatus(t *testing.T) {
	state := seedState()
	next := testReducer().Apply(state, dashboard.UpdateProjectStatus{ProjectID: "1", Status: dashboard.StatusCompleted})

	require.Equal(t, dashboard.StatusCompleted, next.Projects[0].Status)
	require.Equal(t, dashboard.StatusInProgress, state.Projects[0].Status)
}

func TestReducer_UpdateProjectStatusUnknownIDIsNoop(t *testing.T) {
	state := seedState()
	next := dashboard.Apply(state, dashboard.UpdateProjectStatus{ProjectID: "nonexistent", Status: dashboard.StatusCompleted})
	require.Equal(t, state, next)
}

func TestReducer_UnknownActionIsNoop(t *testing.T) {
	state := seedState()
	next, outcome := testReducer().Reduce(state, nil)

	require.Equal(t, state, next)
	require.False(t, outcome.Changed)
	require.ErrorIs(t, outcome.Reason, dashboard.ErrUnknownAction)
}

func TestReducer_PaidProjectsHavePayments(t *testing.T) {
	r := testReducer()
	state := seedState()
	actions := []dashboard.Action{
		dashboard.AddProject{Project: dashboard.Project{ID: "3", ClientID: "1", Title: "Logo", Budget: 300, Status: dashboard.StatusPending, PaymentStatus: dashboard.PaymentUnpaid}},
		dashboard.MarkProjectPaid{ProjectID: "3", Amount: 300},
		dashboard.UpdateProjectStatus{ProjectID: "3", Status: dashboard.StatusCompleted},
		dashboard.AddPayment{Payment: dashboard.Payment{ProjectID: "1", Amount: 50}},
		dashboard.MarkProjectPaid{ProjectID: "1", Amount: 50},
		dashboard.MarkProjectPaid{ProjectID: "3", Amount: 300},
	}
	for _, action := range actions {
		state = r.Apply(state, action)
	}

	for _, p := range state.Projects {
		if p.PaymentStatus != dashboard.PaymentPaid {
			continue
		}
		require.NotEmpty(t, dashboard.PaymentsForProject(state.Payments, p.ID),
			"paid project %s has no payment:\n%s", p.ID, spew.Sdump(state))
	}
	require.Len(t, state.Payments, 3)
}

func TestReducer_ResultDoesNotAliasInput(t *testing.T) {
	state := seedState()
	state.Projects = state.Projects[:1:2]

	next := testReducer().Apply(state, dashboard.AddProject{Project: dashboard.Project{ID: "9", Title: "x"}})
	next.Projects[0].Title = "changed"

	require.Equal(t, "E-commerce Website", state.Projects[0].Title)
}
