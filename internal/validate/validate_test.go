package validate

import (
	"strings"
	"testing"

	"wpmigrate/internal/model"
)

func strPtr(s string) *string { return &s }

func TestCheckCleanSnapshot(t *testing.T) {
	snap := &model.Snapshot{
		Authors: []model.Author{
			{ID: 1, Name: "Alice", Slug: "alice", Email: strPtr("alice@example.com")},
			{ID: 2, Name: "Bob", Slug: "bob", Email: strPtr("bob@example.com")},
		},
		Posts:    []model.Post{{ID: 1, Slug: "hello"}},
		Pages:    []model.Page{{ID: 2, Slug: "about"}},
		Comments: []model.Comment{{ID: 1, Post: 1}},
	}

	report, err := Check(snap)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !report.Empty() {
		t.Errorf("clean snapshot should produce an empty report, got %+v", report)
	}
}

func TestCheckDuplicateAuthorEmails(t *testing.T) {
	snap := &model.Snapshot{
		Authors: []model.Author{
			{ID: 1, Name: "Alice", Slug: "alice", Email: strPtr("a@x.com")},
			{ID: 2, Name: "Bob", Slug: "bob", Email: strPtr("a@x.com")},
			{ID: 3, Name: "Carol", Slug: "carol"},
			{ID: 4, Name: "Dave", Slug: "dave", Email: strPtr("")},
		},
	}

	report, err := Check(snap)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(report.DuplicateAuthorEmails) != 1 {
		t.Fatalf("duplicate emails = %d, want 1", len(report.DuplicateAuthorEmails))
	}
	d := report.DuplicateAuthorEmails[0]
	if d.Key != "a@x.com" || d.Count != 2 {
		t.Errorf("duplicate = %+v, want {a@x.com 2}", d)
	}
}

func TestCheckSlugsAcrossPostsAndPages(t *testing.T) {
	snap := &model.Snapshot{
		Posts: []model.Post{{ID: 1, Slug: "intro"}, {ID: 2, Slug: "faq"}},
		Pages: []model.Page{{ID: 3, Slug: "faq"}, {ID: 4, Slug: "contact"}},
	}

	report, err := Check(snap)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(report.DuplicateContentSlugs) != 1 {
		t.Fatalf("content slug duplicates = %d, want 1 (posts and pages share a namespace)",
			len(report.DuplicateContentSlugs))
	}
	if report.DuplicateContentSlugs[0].Key != "faq" {
		t.Errorf("duplicate key = %q, want faq", report.DuplicateContentSlugs[0].Key)
	}
}

func TestCheckSlugsAcrossCategoriesAndTags(t *testing.T) {
	snap := &model.Snapshot{
		Categories: []model.Category{{ID: 1, Name: "Go", Slug: "go"}},
		Tags:       []model.Tag{{ID: 2, Name: "go", Slug: "go"}},
	}

	report, err := Check(snap)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(report.DuplicateTaxonomySlugs) != 1 {
		t.Fatalf("taxonomy slug duplicates = %d, want 1", len(report.DuplicateTaxonomySlugs))
	}
}

func TestCheckOrphanComments(t *testing.T) {
	snap := &model.Snapshot{
		Posts: []model.Post{{ID: 1, Slug: "p"}},
		Comments: []model.Comment{
			{ID: 10, Post: 1},
			{ID: 11, Post: 999},
		},
	}

	report, err := Check(snap)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(report.OrphanComments) != 1 {
		t.Fatalf("orphan comments = %d, want 1", len(report.OrphanComments))
	}
	o := report.OrphanComments[0]
	if o.CommentID != 11 || o.PostID != 999 {
		t.Errorf("orphan = %+v, want {11 999}", o)
	}
}

func TestCheckDuplicateRedirectSources(t *testing.T) {
	snap := &model.Snapshot{
		Redirects: []model.Redirect{
			{ID: 1, Source: "/old", Target: "/a"},
			{ID: 2, Source: "/old", Target: "/b"},
			{ID: 3, Source: "/other", Target: "/c"},
		},
	}

	report, err := Check(snap)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(report.DuplicateRedirectSources) != 1 {
		t.Fatalf("duplicate sources = %d, want 1", len(report.DuplicateRedirectSources))
	}
	if report.DuplicateRedirectSources[0].Key != "/old" {
		t.Errorf("duplicate key = %q, want /old", report.DuplicateRedirectSources[0].Key)
	}
}

func TestCheckMalformedRecord(t *testing.T) {
	tests := []struct {
		name string
		snap *model.Snapshot
	}{
		{"author without name", &model.Snapshot{
			Authors: []model.Author{{ID: 1, Slug: "x"}},
		}},
		{"media without source_url", &model.Snapshot{
			Media: []model.Media{{ID: 1}},
		}},
		{"seo without object_id", &model.Snapshot{
			SEO: []model.SEORecord{{ID: 1}},
		}},
		{"custom field without key", &model.Snapshot{
			CustomFields: []model.CustomField{{Value: []byte(`"v"`)}},
		}},
		{"redirect without target", &model.Snapshot{
			Redirects: []model.Redirect{{ID: 1, Source: "/old"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Check(tt.snap); err == nil {
				t.Error("malformed record should be a hard error, not a finding")
			}
		})
	}
}

func TestReportWrite(t *testing.T) {
	var b strings.Builder
	(&Report{}).Write(&b)
	if !strings.Contains(b.String(), "No integrity findings.") {
		t.Errorf("empty report output = %q", b.String())
	}

	b.Reset()
	r := &Report{
		DuplicateAuthorEmails: []Duplicate{{Key: "a@x.com", Count: 2}},
		OrphanComments:        []OrphanComment{{CommentID: 11, PostID: 999}},
	}
	r.Write(&b)
	out := b.String()
	if !strings.Contains(out, "a@x.com") {
		t.Errorf("report should name the duplicate email, got %q", out)
	}
	if !strings.Contains(out, "missing post 999") {
		t.Errorf("report should name the missing post, got %q", out)
	}
}
