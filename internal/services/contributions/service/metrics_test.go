package service

import (
	"context"
	"strings"
	"testing"

	perr "editledger/internal/platform/errors"
	"editledger/internal/services/contributions/domain"
	identdomain "editledger/internal/services/ident/domain"
)

// linksHTML renders n internal wiki links
func linksHTML(n int) string {
	var b strings.Builder
	b.WriteString("<p>")
	for i := 0; i < n; i++ {
		b.WriteString(`<a rel="mw:WikiLink" href="./Page">p</a>`)
	}
	b.WriteString("</p>")
	return b.String()
}

func TestComputeContribution_Creation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.revs.revs[revKey{"enwiki", 100}] = domain.Revision{
		ID: 100, ParentID: 0, Size: 500, PageID: 42, PageTitle: "Article", UserID: 7, UserName: "Alice",
	}
	f.renderer.html[100] = linksHTML(3)

	c, err := f.svc.ComputeContribution(context.Background(), "enwiki", 100, 5, 7)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Created() {
		t.Fatal("page creation must set the creation flag")
	}
	if c.BytesDelta != 500 {
		t.Fatalf("BytesDelta = %d, want full size 500", c.BytesDelta)
	}
	if c.LinksDelta != 3 {
		t.Fatalf("LinksDelta = %d, want 3", c.LinksDelta)
	}
	if c.EventID != 5 || c.UserID != 7 || c.Wiki != "enwiki" || c.PageID != 42 {
		t.Fatalf("entity fields: %+v", c)
	}
	if c.UserName != "Alice" {
		t.Fatalf("UserName = %q, want revision author fallback", c.UserName)
	}
}

func TestComputeContribution_AgainstDirectParent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.revs.revs[revKey{"enwiki", 100}] = domain.Revision{ID: 100, ParentID: 90, Size: 300, UserID: 7}
	f.revs.revs[revKey{"enwiki", 90}] = domain.Revision{ID: 90, Size: 500}
	f.renderer.html[100] = linksHTML(1)
	f.renderer.html[90] = linksHTML(3)

	c, err := f.svc.ComputeContribution(context.Background(), "enwiki", 100, 5, 7)
	if err != nil {
		t.Fatal(err)
	}
	if c.Created() {
		t.Fatal("an edit with a parent is not a creation")
	}
	if c.BytesDelta != -200 {
		t.Fatalf("BytesDelta = %d, want -200", c.BytesDelta)
	}
	if c.LinksDelta != -2 {
		t.Fatalf("LinksDelta = %d, want -2", c.LinksDelta)
	}
}

func TestComputeContribution_RenderFailureDegradesToZero(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.revs.revs[revKey{"enwiki", 100}] = domain.Revision{ID: 100, ParentID: 90, Size: 300, UserID: 7}
	f.revs.revs[revKey{"enwiki", 90}] = domain.Revision{ID: 90, Size: 500}
	f.renderer.err = perr.Unavailablef("parse backend down")

	c, err := f.svc.ComputeContribution(context.Background(), "enwiki", 100, 5, 7)
	if err != nil {
		t.Fatalf("render failure must not block the contribution: %v", err)
	}
	if c.LinksDelta != 0 {
		t.Fatalf("LinksDelta = %d, want 0 on render failure", c.LinksDelta)
	}
	if c.BytesDelta != -200 {
		t.Fatalf("BytesDelta = %d, byte metrics are unaffected", c.BytesDelta)
	}
}

func TestComputeContribution_MissingParent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.revs.revs[revKey{"enwiki", 100}] = domain.Revision{ID: 100, ParentID: 90, Size: 300, UserID: 7}

	if _, err := f.svc.ComputeContribution(context.Background(), "enwiki", 100, 5, 7); err == nil {
		t.Fatal("missing parent revision must fail the computation")
	}
}

func TestComputeContribution_SuppressedRevision(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.revs.revs[revKey{"enwiki", 100}] = domain.Revision{ID: 100, Size: 10, Visibility: 4, UserID: 7}

	c, err := f.svc.ComputeContribution(context.Background(), "enwiki", 100, 5, 7)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Deleted {
		t.Fatal("suppressed revision must be recorded as deleted")
	}
}

func TestComputeContribution_IdentityMirrorWins(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.revs.revs[revKey{"enwiki", 100}] = domain.Revision{ID: 100, Size: 10, UserID: 7, UserName: "Stale"}
	f.ident.users[7] = identdomain.User{ID: 7, Name: "Current", Hidden: true}

	c, err := f.svc.ComputeContribution(context.Background(), "enwiki", 100, 5, 7)
	if err != nil {
		t.Fatal(err)
	}
	if c.UserName != "Current" || !c.UserHidden {
		t.Fatalf("mirror must win: got %q hidden=%v", c.UserName, c.UserHidden)
	}
}
