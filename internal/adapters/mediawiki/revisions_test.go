package mediawiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "editledger/internal/platform/errors"
)

// testClient points BaseTemplate at a local server and disables real sleeps
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Options{
		BaseTemplate: srv.URL + "/{wiki}/api.php",
		MaxRetries:   2,
		RetryBase:    time.Millisecond,
	})
	c.sleep = func(time.Duration) {}
	return c
}

const revisionBody = `{
	"query": {
		"pages": [{
			"pageid": 42,
			"title": "September (song)",
			"revisions": [{
				"revid": 100,
				"parentid": 90,
				"size": 12345,
				"timestamp": "2026-03-10T12:00:00Z",
				"user": "Alice",
				"userid": 7
			}]
		}]
	}
}`

func TestGetRevision(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/enwiki/api.php" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("action") != "query" || q.Get("revids") != "100" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(revisionBody))
	}))

	rev, err := c.GetRevision(context.Background(), "enwiki", 100)
	if err != nil {
		t.Fatal(err)
	}
	if rev.ID != 100 || rev.ParentID != 90 || rev.Size != 12345 {
		t.Fatalf("revision: %+v", rev)
	}
	if rev.PageID != 42 || rev.PageTitle != "September (song)" {
		t.Fatalf("page fields: %+v", rev)
	}
	if rev.UserID != 7 || rev.UserName != "Alice" {
		t.Fatalf("user fields: %+v", rev)
	}
	if rev.Visibility != 0 {
		t.Fatalf("visibility = %d, want 0", rev.Visibility)
	}
}

func TestGetRevision_Missing(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"badrevids":{"999":{"missing":true}}}}`))
	}))

	_, err := c.GetRevision(context.Background(), "enwiki", 999)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestGetRevision_AnonAuthor(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"query": {"pages": [{"pageid": 42, "title": "P", "revisions": [
				{"revid": 100, "size": 10, "timestamp": "2026-03-10T12:00:00Z", "user": "192.0.2.1", "anon": true}
			]}]}
		}`))
	}))

	rev, err := c.GetRevision(context.Background(), "enwiki", 100)
	if err != nil {
		t.Fatal(err)
	}
	if rev.UserID != 0 {
		t.Fatalf("anonymous author must resolve to user id 0, got %d", rev.UserID)
	}
}

func TestGetRevision_HiddenFlags(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"query": {"pages": [{"pageid": 42, "title": "P", "revisions": [
				{"revid": 100, "size": 10, "timestamp": "2026-03-10T12:00:00Z",
				 "userhidden": true, "texthidden": true}
			]}]}
		}`))
	}))

	rev, err := c.GetRevision(context.Background(), "enwiki", 100)
	if err != nil {
		t.Fatal(err)
	}
	if rev.Visibility != revDeletedText|revDeletedUser {
		t.Fatalf("visibility = %d, want %d", rev.Visibility, revDeletedText|revDeletedUser)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "parse" || q.Get("oldid") != "100" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`{"parse":{"title":"P","text":"<p><a rel=\"mw:WikiLink\" href=\"./Q\">q</a></p>"}}`))
	}))

	html, err := c.Render(context.Background(), "enwiki", 100)
	if err != nil {
		t.Fatal(err)
	}
	if html == "" {
		t.Fatal("expected parsed html")
	}
}

func TestRender_MissingRevision(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":"nosuchrevid","info":"There is no revision with ID 999."}}`))
	}))

	_, err := c.Render(context.Background(), "enwiki", 999)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestDo_RetriesTransientErrors(t *testing.T) {
	t.Parallel()

	var hits int
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(revisionBody))
	}))

	if _, err := c.GetRevision(context.Background(), "enwiki", 100); err != nil {
		t.Fatalf("retry should recover: %v", err)
	}
	if hits != 2 {
		t.Fatalf("hits = %d, want 2", hits)
	}
}

func TestDo_RateLimitExhausted(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.GetRevision(context.Background(), "enwiki", 100)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}
