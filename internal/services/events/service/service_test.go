package service

import (
	"context"
	"testing"
	"time"

	"editledger/internal/modkit/repokit"
	perr "editledger/internal/platform/errors"
	"editledger/internal/services/events/domain"
	"editledger/internal/services/events/repo"
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

// fakeStorage satisfies repo.Storage with canned participant state
type fakeStorage struct {
	events       map[int64]domain.Event
	participants map[[2]int64]domain.Participant
	registered   []domain.Participant
}

func (f *fakeStorage) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return domain.Event{}, perr.NotFoundf("event %d not found", id)
	}
	return ev, nil
}

func (f *fakeStorage) CreateEvent(ctx context.Context, in domain.CreateEventInput) (domain.Event, error) {
	return domain.Event{ID: 1, Name: in.Name}, nil
}

func (f *fakeStorage) GetParticipant(ctx context.Context, eventID, userID int64) (domain.Participant, bool, error) {
	p, ok := f.participants[[2]int64{eventID, userID}]
	return p, ok, nil
}

func (f *fakeStorage) RegisterParticipant(ctx context.Context, p domain.Participant) error {
	f.registered = append(f.registered, p)
	return nil
}

func newSvc(st *fakeStorage) *Svc {
	binder := repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return st })
	return New(fakeTx{}, binder)
}

func TestOngoing(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ev := domain.Event{
		StartUTC: now.Add(-time.Hour),
		EndUTC:   now.Add(time.Hour),
	}
	if !ev.Ongoing(now) {
		t.Fatal("event within window should be ongoing")
	}
	if ev.Ongoing(now.Add(2 * time.Hour)) {
		t.Fatal("ended event should not be ongoing")
	}
	if ev.Ongoing(now.Add(-2 * time.Hour)) {
		t.Fatal("not yet started event should not be ongoing")
	}
}

func TestInScope(t *testing.T) {
	t.Parallel()

	scoped := domain.Event{Wikis: []string{"enwiki", "dewiki"}}
	if !scoped.InScope("enwiki") {
		t.Fatal("listed wiki should be in scope")
	}
	if scoped.InScope("frwiki") {
		t.Fatal("unlisted wiki should not be in scope")
	}

	global := domain.Event{AllWikis: true}
	if !global.InScope("anything") {
		t.Fatal("all-wikis event should accept any wiki")
	}
}

func TestCanAddContribution_SelfParticipant(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{
		participants: map[[2]int64]domain.Participant{
			{5, 7}: {EventID: 5, UserID: 7},
		},
	}
	svc := newSvc(st)

	if err := svc.CanAddContribution(context.Background(), 7, domain.Event{ID: 5}, 7); err != nil {
		t.Fatalf("self association by a participant should pass: %v", err)
	}
}

func TestCanAddContribution_AuthorNotParticipant(t *testing.T) {
	t.Parallel()

	svc := newSvc(&fakeStorage{participants: map[[2]int64]domain.Participant{}})

	err := svc.CanAddContribution(context.Background(), 7, domain.Event{ID: 5}, 7)
	if err == nil {
		t.Fatal("expected permission failure")
	}
	if got := perr.HTTPStatus(err); got != 403 {
		t.Fatalf("HTTPStatus = %d, want 403", got)
	}
}

func TestCanAddContribution_OrganizerOnBehalf(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{
		participants: map[[2]int64]domain.Participant{
			{5, 7}: {EventID: 5, UserID: 7},
			{5, 9}: {EventID: 5, UserID: 9, Organizer: true},
		},
	}
	svc := newSvc(st)

	if err := svc.CanAddContribution(context.Background(), 9, domain.Event{ID: 5}, 7); err != nil {
		t.Fatalf("organizer on behalf of participant should pass: %v", err)
	}

	// a plain participant may not act for another user
	st.participants[[2]int64{5, 8}] = domain.Participant{EventID: 5, UserID: 8}
	if err := svc.CanAddContribution(context.Background(), 8, domain.Event{ID: 5}, 7); err == nil {
		t.Fatal("non-organizer performer acting for another user should fail")
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	t.Parallel()

	svc := newSvc(&fakeStorage{})
	start := time.Now()

	cases := []struct {
		name string
		in   domain.CreateEventInput
	}{
		{"empty name", domain.CreateEventInput{StartUTC: start, EndUTC: start.Add(time.Hour), Wikis: []string{"*"}}},
		{"end before start", domain.CreateEventInput{Name: "x", StartUTC: start, EndUTC: start.Add(-time.Hour), Wikis: []string{"*"}}},
		{"no wikis", domain.CreateEventInput{Name: "x", StartUTC: start, EndUTC: start.Add(time.Hour)}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateEvent(context.Background(), tc.in); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
