// Package validate implements the pre-flight integrity report over a
// snapshot: duplicate keys and dangling references an operator should know
// about before loading. Findings are advisory and never gate the pipeline.
package validate

import (
	"fmt"
	"io"
	"sort"

	"wpmigrate/internal/model"
)

// Duplicate reports a key shared by more than one record.
type Duplicate struct {
	Key   string
	Count int
}

// OrphanComment reports a comment whose post does not exist in the snapshot.
type OrphanComment struct {
	CommentID int64
	PostID    int64
}

// Report is the full set of integrity findings for one snapshot.
type Report struct {
	DuplicateAuthorEmails    []Duplicate
	DuplicateContentSlugs    []Duplicate // across the combined post+page namespace
	DuplicateTaxonomySlugs   []Duplicate // across the combined category+tag namespace
	OrphanComments           []OrphanComment
	DuplicateRedirectSources []Duplicate
}

// Empty reports whether the snapshot had no findings.
func (r *Report) Empty() bool {
	return len(r.DuplicateAuthorEmails) == 0 &&
		len(r.DuplicateContentSlugs) == 0 &&
		len(r.DuplicateTaxonomySlugs) == 0 &&
		len(r.OrphanComments) == 0 &&
		len(r.DuplicateRedirectSources) == 0
}

// Write renders the report for an operator.
func (r *Report) Write(w io.Writer) {
	if r.Empty() {
		fmt.Fprintln(w, "No integrity findings.")
		return
	}
	for _, d := range r.DuplicateAuthorEmails {
		fmt.Fprintf(w, "duplicate author email: %s (%d authors)\n", d.Key, d.Count)
	}
	for _, d := range r.DuplicateContentSlugs {
		fmt.Fprintf(w, "duplicate slug across posts+pages: %s (%d records)\n", d.Key, d.Count)
	}
	for _, d := range r.DuplicateTaxonomySlugs {
		fmt.Fprintf(w, "duplicate slug across categories+tags: %s (%d records)\n", d.Key, d.Count)
	}
	for _, o := range r.OrphanComments {
		fmt.Fprintf(w, "orphan comment: comment %d references missing post %d\n", o.CommentID, o.PostID)
	}
	for _, d := range r.DuplicateRedirectSources {
		fmt.Fprintf(w, "duplicate redirect source: %s (%d redirects)\n", d.Key, d.Count)
	}
}

// Check produces the integrity report for a snapshot. It is a pure function
// of its input: data-quality findings are reported, never raised. Only
// malformed input (a record missing a required field) returns an error.
func Check(snap *model.Snapshot) (*Report, error) {
	if err := checkRequired(snap); err != nil {
		return nil, err
	}

	r := &Report{}

	emails := map[string]int{}
	for _, a := range snap.Authors {
		if a.Email != nil && *a.Email != "" {
			emails[*a.Email]++
		}
	}
	r.DuplicateAuthorEmails = duplicates(emails)

	contentSlugs := map[string]int{}
	for _, p := range snap.Posts {
		contentSlugs[p.Slug]++
	}
	for _, p := range snap.Pages {
		contentSlugs[p.Slug]++
	}
	r.DuplicateContentSlugs = duplicates(contentSlugs)

	taxonomySlugs := map[string]int{}
	for _, c := range snap.Categories {
		taxonomySlugs[c.Slug]++
	}
	for _, t := range snap.Tags {
		taxonomySlugs[t.Slug]++
	}
	r.DuplicateTaxonomySlugs = duplicates(taxonomySlugs)

	knownPosts := make(map[int64]struct{}, len(snap.Posts))
	for _, p := range snap.Posts {
		knownPosts[p.ID] = struct{}{}
	}
	for _, c := range snap.Comments {
		if _, ok := knownPosts[c.Post]; !ok {
			r.OrphanComments = append(r.OrphanComments, OrphanComment{CommentID: c.ID, PostID: c.Post})
		}
	}

	sources := map[string]int{}
	for _, rd := range snap.Redirects {
		sources[rd.Source]++
	}
	r.DuplicateRedirectSources = duplicates(sources)

	return r, nil
}

// duplicates returns every key with a group size above one, sorted for
// stable report output.
func duplicates(groups map[string]int) []Duplicate {
	var out []Duplicate
	for key, count := range groups {
		if count > 1 {
			out = append(out, Duplicate{Key: key, Count: count})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// checkRequired rejects structurally malformed snapshots. The rules mirror
// the transform stage's required fields so a snapshot that validates cleanly
// will not fail-fast later for the same reason.
func checkRequired(snap *model.Snapshot) error {
	for _, a := range snap.Authors {
		if a.ID == 0 || a.Name == "" || a.Slug == "" {
			return fmt.Errorf("malformed author record (id=%d): id, name and slug are required", a.ID)
		}
	}
	for _, p := range snap.Posts {
		if p.ID == 0 || p.Slug == "" {
			return fmt.Errorf("malformed post record (id=%d): id and slug are required", p.ID)
		}
	}
	for _, p := range snap.Pages {
		if p.ID == 0 || p.Slug == "" {
			return fmt.Errorf("malformed page record (id=%d): id and slug are required", p.ID)
		}
	}
	for _, c := range snap.Categories {
		if c.ID == 0 || c.Slug == "" {
			return fmt.Errorf("malformed category record (id=%d): id and slug are required", c.ID)
		}
	}
	for _, t := range snap.Tags {
		if t.ID == 0 || t.Slug == "" {
			return fmt.Errorf("malformed tag record (id=%d): id and slug are required", t.ID)
		}
	}
	for _, c := range snap.Comments {
		if c.ID == 0 || c.Post == 0 {
			return fmt.Errorf("malformed comment record (id=%d): id and post are required", c.ID)
		}
	}
	for _, m := range snap.Media {
		if m.ID == 0 || m.SourceURL == "" {
			return fmt.Errorf("malformed media record (id=%d): id and source_url are required", m.ID)
		}
	}
	for _, s := range snap.SEO {
		if s.ObjectID == 0 {
			return fmt.Errorf("malformed seo record (id=%d): object_id is required", s.ID)
		}
	}
	for _, f := range snap.CustomFields {
		if f.Key == "" {
			return fmt.Errorf("malformed custom field record: key is required")
		}
	}
	for _, rd := range snap.Redirects {
		if rd.ID == 0 || rd.Source == "" || rd.Target == "" {
			return fmt.Errorf("malformed redirect record (id=%d): id, source and target are required", rd.ID)
		}
	}
	return nil
}
