package service

import (
	"context"
	"testing"
	"time"

	"editledger/internal/modkit/repokit"
	perr "editledger/internal/platform/errors"
	contribdomain "editledger/internal/services/contributions/domain"
	identdomain "editledger/internal/services/ident/domain"
	"editledger/internal/services/jobs/domain"
)

type fakeTx struct{}

func (fakeTx) Exec(ctx context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	return nil, nil
}
func (fakeTx) Query(ctx context.Context, sql string, args ...any) (repokit.Rows, error) {
	return nil, nil
}
func (fakeTx) QueryRow(ctx context.Context, sql string, args ...any) repokit.Row { return nil }
func (f fakeTx) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error  { return fn(f) }

type fakeQueue struct {
	enqueued  []domain.Task
	completed []string
	requeued  map[string]time.Time
}

func newFakeQueue() *fakeQueue { return &fakeQueue{requeued: map[string]time.Time{}} }

func (f *fakeQueue) Enqueue(ctx context.Context, t domain.Task) error {
	f.enqueued = append(f.enqueued, t)
	return nil
}

func (f *fakeQueue) Lease(ctx context.Context, workerID string, limit int, leaseFor time.Duration) ([]domain.Leased, error) {
	return nil, nil
}

func (f *fakeQueue) Complete(ctx context.Context, jobID string) error {
	f.completed = append(f.completed, jobID)
	return nil
}

func (f *fakeQueue) Requeue(ctx context.Context, jobID string, nextAttemptAt time.Time) error {
	f.requeued[jobID] = nextAttemptAt
	return nil
}

type call struct {
	method string
	args   []any
}

// fakePorts records every dispatcher call; err is returned by all of them
type fakePorts struct {
	calls []call
	err   error
}

func (f *fakePorts) record(method string, args ...any) error {
	f.calls = append(f.calls, call{method, args})
	return f.err
}

func (f *fakePorts) ComputeContribution(ctx context.Context, wiki string, revisionID, eventID, userID int64) (contribdomain.Contribution, error) {
	err := f.record("compute", wiki, revisionID, eventID, userID)
	return contribdomain.Contribution{EventID: eventID, RevisionID: revisionID, UserID: userID, Wiki: wiki}, err
}

func (f *fakePorts) SaveContribution(ctx context.Context, c contribdomain.Contribution) error {
	return f.record("save", c.Wiki, c.RevisionID)
}

func (f *fakePorts) DeleteContribution(ctx context.Context, id int64, performer int64) error {
	return f.record("delete", id)
}

func (f *fakePorts) UpdateTitle(ctx context.Context, wiki string, pageID int64, newTitle string) error {
	return f.record("title", wiki, pageID, newTitle)
}

func (f *fakePorts) MarkPageDeleted(ctx context.Context, wiki string, pageID int64) error {
	return f.record("page-deleted", wiki, pageID)
}

func (f *fakePorts) MarkPageRestored(ctx context.Context, wiki string, pageID int64) error {
	return f.record("page-restored", wiki, pageID)
}

func (f *fakePorts) UpdateRevisionVisibility(ctx context.Context, wiki string, pageID int64, deletedRevIDs, restoredRevIDs []int64) error {
	return f.record("rev-visibility", wiki, pageID, deletedRevIDs, restoredRevIDs)
}

func (f *fakePorts) UpdateUserName(ctx context.Context, userID int64, newName string) error {
	return f.record("rows-rename", userID, newName)
}

func (f *fakePorts) UpdateUserVisibility(ctx context.Context, userID int64, hidden bool, userName string) error {
	return f.record("rows-visibility", userID, hidden)
}

func (f *fakePorts) Ensure(ctx context.Context, u identdomain.User) error {
	return f.record("ident-ensure", u.ID)
}

func (f *fakePorts) Rename(ctx context.Context, userID int64, newName string) error {
	return f.record("ident-rename", userID, newName)
}

func (f *fakePorts) SetVisibility(ctx context.Context, userID int64, hidden bool) error {
	return f.record("ident-visibility", userID, hidden)
}

type harness struct {
	svc   *Svc
	queue *fakeQueue
	ports *fakePorts
}

func newHarness() *harness {
	ports := &fakePorts{}
	queue := newFakeQueue()
	svc := New(fakeTx{}, Deps{
		Compute:      ports,
		Writer:       ports,
		Housekeeping: ports,
		Ident:        ports,
	}, Config{MaxAttempts: 3})
	svc.queue = queue // swap the pg queue for the fake
	return &harness{svc: svc, queue: queue, ports: ports}
}

func methods(calls []call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.method
	}
	return out
}

func TestHandleJob_ContributionSuccess(t *testing.T) {
	t.Parallel()

	h := newHarness()
	err := h.svc.handleJob(context.Background(), domain.Leased{
		JobID: "j1",
		Task:  &domain.ContributionTask{EventID: 5, RevisionID: 100, UserID: 7, Wiki: "enwiki"},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := methods(h.ports.calls)
	if len(got) != 2 || got[0] != "compute" || got[1] != "save" {
		t.Fatalf("calls = %v, want compute then save", got)
	}
	if len(h.queue.completed) != 1 || h.queue.completed[0] != "j1" {
		t.Fatalf("completed = %v", h.queue.completed)
	}
	if len(h.queue.requeued) != 0 {
		t.Fatal("success must not requeue")
	}
}

func TestHandleJob_PoisonRowDropped(t *testing.T) {
	t.Parallel()

	h := newHarness()
	err := h.svc.handleJob(context.Background(), domain.Leased{
		JobID:     "j1",
		DecodeErr: perr.InvalidArgf("unknown job kind"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(h.ports.calls) != 0 {
		t.Fatal("poison row must not dispatch")
	}
	if len(h.queue.completed) != 1 {
		t.Fatal("poison row must be completed away")
	}
}

func TestHandleJob_TransientFailureRequeues(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.ports.err = perr.Unavailablef("wiki api down")

	before := time.Now().UTC()
	err := h.svc.handleJob(context.Background(), domain.Leased{
		JobID:    "j1",
		Attempts: 0,
		Task:     &domain.PageDeletedTask{Wiki: "enwiki", PageID: 42},
	})
	if err == nil {
		t.Fatal("failure must surface to the loop log")
	}
	if len(h.queue.completed) != 0 {
		t.Fatal("transient failure must not complete")
	}
	at, ok := h.queue.requeued["j1"]
	if !ok {
		t.Fatal("transient failure must requeue")
	}
	if !at.After(before) {
		t.Fatalf("backoff must be in the future, got %v", at)
	}
}

func TestHandleJob_PermanentRejectionDropped(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.ports.err = perr.Forbiddenf("author suppressed")

	err := h.svc.handleJob(context.Background(), domain.Leased{
		JobID: "j1",
		Task:  &domain.ContributionTask{EventID: 5, RevisionID: 100, UserID: 7, Wiki: "enwiki"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(h.queue.requeued) != 0 {
		t.Fatal("a rejection never succeeds on retry")
	}
	if len(h.queue.completed) != 1 {
		t.Fatal("rejected job must be completed away")
	}
}

func TestHandleJob_AttemptBudget(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.ports.err = perr.Unavailablef("still down")

	err := h.svc.handleJob(context.Background(), domain.Leased{
		JobID:    "j1",
		Attempts: 2, // MaxAttempts is 3, this is the last try
		Task:     &domain.PageDeletedTask{Wiki: "enwiki", PageID: 42},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(h.queue.requeued) != 0 {
		t.Fatal("spent budget must not requeue")
	}
	if len(h.queue.completed) != 1 {
		t.Fatal("spent budget must drop the job")
	}
}

func TestDispatch_Routing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		task domain.Task
		want []string
	}{
		{&domain.PageMovedTask{Wiki: "enwiki", PageID: 42, NewTitle: "New"}, []string{"title"}},
		{&domain.PageDeletedTask{Wiki: "enwiki", PageID: 42}, []string{"page-deleted"}},
		{&domain.PageRestoredTask{Wiki: "enwiki", PageID: 42}, []string{"page-restored"}},
		{&domain.RevisionVisibilityTask{Wiki: "enwiki", PageID: 42, DeletedRevIDs: []int64{1}}, []string{"rev-visibility"}},
		{&domain.UserRenamedTask{UserID: 7, NewName: "Alice"}, []string{"ident-rename", "rows-rename"}},
		{&domain.UserVisibilityTask{UserID: 7, Hidden: true}, []string{"ident-visibility", "rows-visibility"}},
	}
	for _, tc := range cases {
		h := newHarness()
		if err := h.svc.dispatch(context.Background(), tc.task); err != nil {
			t.Fatalf("%s: %v", tc.task.Kind(), err)
		}
		got := methods(h.ports.calls)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: calls = %v, want %v", tc.task.Kind(), got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: calls = %v, want %v", tc.task.Kind(), got, tc.want)
			}
		}
	}
}

func TestNextAfter_BackoffCapped(t *testing.T) {
	base := 500

	// early attempts grow exponentially
	d0 := time.Until(nextAfter(0, base))
	d2 := time.Until(nextAfter(2, base))
	if d0 > time.Second || d2 < d0 {
		t.Fatalf("backoff not growing: attempt0 %v, attempt2 %v", d0, d2)
	}

	// from attempt 6 on (500ms << 6 = 32s) the delay pins to the 30s cap
	for _, attempt := range []int{6, 10, 63, 64, 100, 1 << 20} {
		d := time.Until(nextAfter(attempt, base))
		if d < 29*time.Second || d > 31*time.Second {
			t.Fatalf("attempt %d: delay %v, want ~30s", attempt, d)
		}
	}

	// a huge base must not shift into a negative delay
	if d := time.Until(nextAfter(40, 1<<40)); d < 29*time.Second {
		t.Fatalf("large base: delay %v, want the cap", d)
	}
}
