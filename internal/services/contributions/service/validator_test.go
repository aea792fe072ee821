package service

import (
	"context"
	"testing"
	"time"

	perr "editledger/internal/platform/errors"
	"editledger/internal/services/contributions/domain"
	eventsdomain "editledger/internal/services/events/domain"
	jobsdomain "editledger/internal/services/jobs/domain"
)

func TestValidateAndSchedule_Success(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.events.events[5] = window(5, "enwiki")
	f.revs.revs[revKey{"enwiki", 100}] = domain.Revision{ID: 100, UserID: 7}

	if err := f.svc.ValidateAndSchedule(context.Background(), 5, 100, "enwiki", 7); err != nil {
		t.Fatal(err)
	}
	if len(f.queue.tasks) != 1 {
		t.Fatalf("enqueued %d tasks, want 1", len(f.queue.tasks))
	}
	task, ok := f.queue.tasks[0].(jobsdomain.ContributionTask)
	if !ok {
		t.Fatalf("task type %T", f.queue.tasks[0])
	}
	want := jobsdomain.ContributionTask{EventID: 5, RevisionID: 100, UserID: 7, Wiki: "enwiki"}
	if task != want {
		t.Fatalf("task = %+v, want %+v", task, want)
	}
}

func TestValidateAndSchedule_AnonymousPerformer(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.events.events[5] = window(5, "enwiki")

	err := f.svc.ValidateAndSchedule(context.Background(), 5, 100, "enwiki", 0)
	if perr.HTTPStatus(err) != 403 {
		t.Fatalf("err = %v, want 403", err)
	}
	if len(f.queue.tasks) != 0 {
		t.Fatal("nothing may be enqueued")
	}
}

func TestValidateAndSchedule_Resubmission(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.store.byRev[revKey{"enwiki", 100}] = domain.Contribution{EventID: 5, Wiki: "enwiki", RevisionID: 100}

	// same event: idempotent no-op, decided before any event lookup
	if err := f.svc.ValidateAndSchedule(context.Background(), 5, 100, "enwiki", 7); err != nil {
		t.Fatal(err)
	}
	if f.events.getCalls != 0 {
		t.Fatal("duplicate short-circuit must precede the event lookup")
	}
	if len(f.queue.tasks) != 0 {
		t.Fatal("resubmission must not enqueue")
	}
}

func TestValidateAndSchedule_ConflictingEvent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.events.events[6] = window(6, "enwiki")
	f.store.byRev[revKey{"enwiki", 100}] = domain.Contribution{EventID: 5, Wiki: "enwiki", RevisionID: 100}

	err := f.svc.ValidateAndSchedule(context.Background(), 6, 100, "enwiki", 7)
	if perr.HTTPStatus(err) != 400 {
		t.Fatalf("err = %v, want 400", err)
	}
	if len(f.queue.tasks) != 0 {
		t.Fatal("conflict must not enqueue")
	}
}

func TestValidateAndSchedule_Preconditions(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	disabled := window(5, "enwiki")
	disabled.TrackingEnabled = false

	deleted := window(5, "enwiki")
	deleted.Deleted = true

	ended := window(5, "enwiki")
	ended.StartUTC = now.Add(-2 * time.Hour)
	ended.EndUTC = now.Add(-time.Hour)

	cases := []struct {
		name string
		ev   eventsdomain.Event
		want int
	}{
		{"tracking disabled", disabled, 400},
		{"event deleted", deleted, 404},
		{"event not ongoing", ended, 400},
		{"wiki out of scope", window(5, "dewiki"), 400},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture()
			f.events.events[5] = tc.ev
			f.revs.revs[revKey{"enwiki", 100}] = domain.Revision{ID: 100, UserID: 7}

			err := f.svc.ValidateAndSchedule(context.Background(), 5, 100, "enwiki", 7)
			if perr.HTTPStatus(err) != tc.want {
				t.Fatalf("err = %v, want status %d", err, tc.want)
			}
			if len(f.queue.tasks) != 0 {
				t.Fatal("failed precondition must not enqueue")
			}
		})
	}
}

func TestValidateAndSchedule_MissingRevision(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.events.events[5] = window(5, "enwiki")

	err := f.svc.ValidateAndSchedule(context.Background(), 5, 100, "enwiki", 7)
	if perr.HTTPStatus(err) != 404 {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestValidateAndSchedule_AnonymousAuthor(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.events.events[5] = window(5, "enwiki")
	f.revs.revs[revKey{"enwiki", 100}] = domain.Revision{ID: 100, UserID: 0}

	err := f.svc.ValidateAndSchedule(context.Background(), 5, 100, "enwiki", 7)
	if perr.HTTPStatus(err) != 403 {
		t.Fatalf("err = %v, want 403", err)
	}
}

func TestValidateAndSchedule_PermissionDenied(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.events.events[5] = window(5, "enwiki")
	f.events.permErr = perr.Forbiddenf("author is not a participant")
	f.revs.revs[revKey{"enwiki", 100}] = domain.Revision{ID: 100, UserID: 7}

	err := f.svc.ValidateAndSchedule(context.Background(), 5, 100, "enwiki", 9)
	if perr.HTTPStatus(err) != 403 {
		t.Fatalf("err = %v, want 403", err)
	}
	if len(f.queue.tasks) != 0 {
		t.Fatal("denied permission must not enqueue")
	}
}
