package dashboard_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/gigboard/internal/domain/activity"
	"github.com/rpggio/gigboard/internal/domain/dashboard"
	"github.com/rpggio/gigboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(opts dashboard.ServiceOptions) *dashboard.Service {
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return dashboard.NewService(seedState(), opts, nil)
}

func TestDashboardService_MarkPaid(t *testing.T) {
	ctx := context.Background()

	activities := &mocks.ActivityLogger{}
	activities.On("LogActivity", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeProjectPaid && e.ProjectID != nil && *e.ProjectID == "1"
	})).Return(nil).Once()

	recorder := &mocks.Recorder{}
	recorder.On("ObserveAction", string(dashboard.KindMarkProjectPaid), true, mock.Anything).Once()

	svc := newTestService(dashboard.ServiceOptions{Activities: activities, Recorder: recorder})
	state, err := svc.MarkPaid(ctx, "1", 5000000)
	require.NoError(t, err)
	require.Len(t, state.Payments, 2)
	require.Equal(t, dashboard.PaymentPaid, state.Projects[0].PaymentStatus)

	_, err = svc.MarkPaid(ctx, "1", 5000000)
	require.ErrorIs(t, err, dashboard.ErrAlreadyPaid)
	require.Len(t, svc.Snapshot().Payments, 2)

	activities.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestDashboardService_MarkPaidPreCheck(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(dashboard.ServiceOptions{})

	_, err := svc.MarkPaid(ctx, "missing", 10)
	require.ErrorIs(t, err, dashboard.ErrProjectNotFound)

	_, err = svc.MarkPaid(ctx, "1", 0)
	require.ErrorIs(t, err, dashboard.ErrNonPositiveAmount)

	require.Len(t, svc.Snapshot().Payments, 1)
}

func TestDashboardService_MarkPaidReducerIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(dashboard.ServiceOptions{})

	// A raw UpdateProject replaces the project wholesale, so project 2 can read
	// unpaid while its payment still exists. The reducer refuses a second one.
	reset := seedState().Projects[1]
	reset.PaymentStatus = dashboard.PaymentUnpaid
	_, outcome, err := svc.Dispatch(ctx, dashboard.UpdateProject{Project: reset})
	require.NoError(t, err)
	require.True(t, outcome.Changed)

	_, err = svc.MarkPaid(ctx, "2", 10)
	require.ErrorIs(t, err, dashboard.ErrAlreadyPaid)
	require.Len(t, svc.Snapshot().Payments, 1)
}

func TestDashboardService_AddProjectPaymentStatusFollowsPayments(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(dashboard.ServiceOptions{})

	_, err := svc.AddProject(ctx, dashboard.CreateProjectRequest{
		ID: "3", ClientID: "1", Title: "Logo", Budget: 300, PaymentStatus: dashboard.PaymentPaid,
	})
	require.ErrorIs(t, err, dashboard.ErrInvalidInput)
	require.Len(t, svc.Snapshot().Projects, 2)
	require.Equal(t, 1, svc.Stats().PaidProjects)

	project, err := svc.AddProject(ctx, dashboard.CreateProjectRequest{ID: "3", ClientID: "1", Title: "Logo", Budget: 300})
	require.NoError(t, err)
	require.Equal(t, dashboard.PaymentUnpaid, project.PaymentStatus)
	require.True(t, svc.CheckPayment("3", 300).IsValid)

	_, err = svc.MarkPaid(ctx, "3", 300)
	require.NoError(t, err)
}

func TestDashboardService_AddProjectDerivesPaidFromExistingPayments(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(dashboard.ServiceOptions{})

	_, err := svc.AddPayment(ctx, dashboard.Payment{ProjectID: "9", Amount: 50})
	require.NoError(t, err)

	project, err := svc.AddProject(ctx, dashboard.CreateProjectRequest{ID: "9", ClientID: "1", Title: "Retainer", Budget: 50})
	require.NoError(t, err)
	require.Equal(t, dashboard.PaymentPaid, project.PaymentStatus)
}

func TestDashboardService_UpdateProjectKeepsPaymentStatusConsistent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(dashboard.ServiceOptions{})

	_, err := svc.MarkPaid(ctx, "1", 5000000)
	require.NoError(t, err)

	update := svc.Snapshot().Projects[0]
	update.Title = "E-commerce Website v2"
	update.PaymentStatus = dashboard.PaymentUnpaid
	_, err = svc.UpdateProject(ctx, update)
	require.ErrorIs(t, err, dashboard.ErrInvalidInput)
	require.Equal(t, dashboard.PaymentPaid, svc.Snapshot().Projects[0].PaymentStatus)
	require.ErrorIs(t, svc.CheckPayment("1", 10).Err, dashboard.ErrAlreadyPaid)

	update.PaymentStatus = ""
	project, err := svc.UpdateProject(ctx, update)
	require.NoError(t, err)
	require.Equal(t, dashboard.PaymentPaid, project.PaymentStatus)
	require.Equal(t, "E-commerce Website v2", svc.Snapshot().Projects[0].Title)

	unpaid := svc.Snapshot().Projects[0]
	unpaid.ID = "2"
	unpaid.ClientID = "2"
	unpaid.PaymentStatus = dashboard.PaymentUnpaid
	_, err = svc.UpdateProject(ctx, unpaid)
	require.ErrorIs(t, err, dashboard.ErrInvalidInput)
}

func TestDashboardService_DispatchEmitsNoActivityForNoop(t *testing.T) {
	ctx := context.Background()
	activities := &mocks.ActivityLogger{}
	svc := newTestService(dashboard.ServiceOptions{Activities: activities})

	before := svc.Snapshot()
	state, outcome, err := svc.Dispatch(ctx, dashboard.UpdateProjectStatus{ProjectID: "nonexistent", Status: dashboard.StatusCompleted})
	require.NoError(t, err)
	require.False(t, outcome.Changed)
	require.Equal(t, before, state)
	activities.AssertNotCalled(t, "LogActivity", mock.Anything, mock.Anything)
}

func TestDashboardService_StrictReferences(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(dashboard.ServiceOptions{StrictReferences: true})

	_, err := svc.AddProject(ctx, dashboard.CreateProjectRequest{ClientID: "ghost", Title: "Orphan", Budget: 10})
	require.ErrorIs(t, err, dashboard.ErrReferenceNotFound)

	_, outcome, err := svc.Dispatch(ctx, dashboard.MarkProjectPaid{ProjectID: "ghost", Amount: 10})
	require.ErrorIs(t, err, dashboard.ErrReferenceNotFound)
	require.False(t, outcome.Changed)
	require.Equal(t, seedState(), svc.Snapshot())
}

func TestDashboardService_LenientReferences(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(dashboard.ServiceOptions{})

	state, outcome, err := svc.Dispatch(ctx, dashboard.MarkProjectPaid{ProjectID: "ghost", Amount: 10})
	require.NoError(t, err)
	require.True(t, outcome.Changed)
	require.Len(t, state.Payments, 2)
}

func TestDashboardService_AddClientAndProject(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(dashboard.ServiceOptions{})

	client, err := svc.AddClient(ctx, dashboard.CreateClientRequest{Name: " Umuco Ltd ", Country: "Rwanda"})
	require.NoError(t, err)
	require.NotEmpty(t, client.ID)
	require.Equal(t, "Umuco Ltd", client.Name)

	project, err := svc.AddProject(ctx, dashboard.CreateProjectRequest{ClientID: client.ID, Title: "Inventory", Budget: 900000})
	require.NoError(t, err)
	require.NotEmpty(t, project.ID)
	require.Equal(t, dashboard.StatusPending, project.Status)
	require.Equal(t, dashboard.PaymentUnpaid, project.PaymentStatus)

	detail, err := svc.Client(client.ID)
	require.NoError(t, err)
	require.Len(t, detail.Projects, 1)

	_, err = svc.AddClient(ctx, dashboard.CreateClientRequest{Name: ""})
	require.ErrorIs(t, err, dashboard.ErrInvalidInput)

	_, err = svc.AddProject(ctx, dashboard.CreateProjectRequest{ClientID: client.ID, Title: "Free", Budget: 0})
	require.ErrorIs(t, err, dashboard.ErrInvalidInput)
}

func TestDashboardService_UpdateNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(dashboard.ServiceOptions{})

	_, err := svc.UpdateClient(ctx, dashboard.Client{ID: "missing", Name: "x"})
	require.ErrorIs(t, err, dashboard.ErrClientNotFound)

	_, err = svc.SetProjectStatus(ctx, "missing", dashboard.StatusCompleted)
	require.ErrorIs(t, err, dashboard.ErrProjectNotFound)
	require.True(t, dashboard.IsNotFound(err))

	_, err = svc.SetProjectStatus(ctx, "1", "archived")
	require.ErrorIs(t, err, dashboard.ErrInvalidInput)
}

func TestDashboardService_SetProjectStatus(t *testing.T) {
	svc := newTestService(dashboard.ServiceOptions{})
	project, err := svc.SetProjectStatus(context.Background(), "1", dashboard.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, dashboard.StatusCompleted, project.Status)
}

func TestDashboardService_AddPayment(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(dashboard.ServiceOptions{})

	payment, err := svc.AddPayment(ctx, dashboard.Payment{ProjectID: "1", Amount: 200})
	require.NoError(t, err)
	require.Equal(t, "2025-03-14T09:30:00.000Z", payment.Date)
	require.Len(t, svc.Payments("1"), 1)
	require.Len(t, svc.Payments(""), 2)

	_, err = svc.AddPayment(ctx, dashboard.Payment{ProjectID: "1", Amount: -1})
	require.ErrorIs(t, err, dashboard.ErrNonPositiveAmount)

	_, err = svc.AddPayment(ctx, dashboard.Payment{ProjectID: "1", Amount: 1, Date: "yesterday"})
	require.ErrorIs(t, err, dashboard.ErrInvalidInput)
}

func TestDashboardService_ReadViews(t *testing.T) {
	svc := newTestService(dashboard.ServiceOptions{})

	require.Equal(t, dashboard.Stats{
		TotalProjects:  2,
		PaidProjects:   1,
		UnpaidProjects: 1,
		TotalClients:   2,
		TotalRevenue:   8000000,
	}, svc.Stats())

	require.Len(t, svc.Clients("kira"), 1)

	completed := dashboard.StatusCompleted
	projects := svc.Projects(dashboard.ProjectFilter{Status: &completed}, "app")
	require.Len(t, projects, 1)
	require.Equal(t, "2", projects[0].ID)

	detail, err := svc.Project("2")
	require.NoError(t, err)
	require.Equal(t, "inzora shophub", detail.ClientName)
	require.Len(t, detail.Payments, 1)

	_, err = svc.Project("missing")
	require.ErrorIs(t, err, dashboard.ErrProjectNotFound)
}

func TestDashboardService_SnapshotIsIsolated(t *testing.T) {
	svc := newTestService(dashboard.ServiceOptions{})
	snap := svc.Snapshot()
	snap.Clients[0].Name = "mutated"
	require.Equal(t, "kira hospital", svc.Snapshot().Clients[0].Name)
}

func TestDashboardService_Subscribe(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(dashboard.ServiceOptions{})

	var got []int
	cancel := svc.Subscribe(func(s dashboard.State) { got = append(got, len(s.Clients)) })

	_, err := svc.AddClient(ctx, dashboard.CreateClientRequest{Name: "One"})
	require.NoError(t, err)
	_, _, err = svc.Dispatch(ctx, dashboard.UpdateClient{Client: dashboard.Client{ID: "missing", Name: "x"}})
	require.NoError(t, err)

	cancel()
	_, err = svc.AddClient(ctx, dashboard.CreateClientRequest{Name: "Two"})
	require.NoError(t, err)

	require.Equal(t, []int{3}, got)
}

func TestDashboardService_DispatchCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(dashboard.ServiceOptions{})
	_, _, err := svc.Dispatch(ctx, dashboard.AddClient{Client: dashboard.Client{ID: "x", Name: "x"}})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, svc.Snapshot().Clients, 2)
}

func TestDashboardService_ConcurrentMarkPaidRecordsOnePayment(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(dashboard.ServiceOptions{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = svc.Dispatch(ctx, dashboard.MarkProjectPaid{ProjectID: "1", Amount: 100})
		}()
	}
	wg.Wait()

	require.Len(t, dashboard.PaymentsForProject(svc.Snapshot().Payments, "1"), 1)
}

func TestDashboardService_SubscribersSeeCommitOrder(t *testing.T) {
	ctx := context.Background()
	svc := dashboard.NewService(dashboard.State{}, dashboard.ServiceOptions{}, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	var (
		mu  sync.Mutex
		got []int
	)
	svc.Subscribe(func(s dashboard.State) {
		mu.Lock()
		got = append(got, len(s.Clients))
		first := len(got) == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
		}
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _, err := svc.Dispatch(ctx, dashboard.AddClient{Client: dashboard.Client{ID: "a", Name: "A"}})
		require.NoError(t, err)
	}()
	<-entered

	go func() {
		defer wg.Done()
		_, _, err := svc.Dispatch(ctx, dashboard.AddClient{Client: dashboard.Client{ID: "b", Name: "B"}})
		require.NoError(t, err)
	}()
	require.Eventually(t, func() bool { return len(svc.Snapshot().Clients) == 2 }, time.Second, time.Millisecond)

	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{1, 2}, got)
}

func TestDashboardService_ActivityFollowsCommitOrder(t *testing.T) {
	ctx := context.Background()

	var (
		mu    sync.Mutex
		order []string
	)
	activities := &mocks.ActivityLogger{}
	activities.On("LogActivity", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		entry := args.Get(1).(*activity.ActivityEntry)
		mu.Lock()
		order = append(order, *entry.ClientID)
		mu.Unlock()
	}).Return(nil)

	svc := dashboard.NewService(dashboard.State{}, dashboard.ServiceOptions{Activities: activities}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddClient(ctx, dashboard.CreateClientRequest{Name: "client"})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	committed := make([]string, 0, 8)
	for _, c := range svc.Snapshot().Clients {
		committed = append(committed, c.ID)
	}
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, committed, order)
}
