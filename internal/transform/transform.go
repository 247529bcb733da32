package transform

import (
	"fmt"

	"wpmigrate/internal/model"
	"wpmigrate/internal/pipeline"
)

// Context carries the current run's known parent identifiers. Child entity
// transforms consult it to decide whether a record may be emitted or must be
// dropped for this run.
type Context struct {
	KnownPosts map[int64]struct{}
	KnownPages map[int64]struct{}
	logger     pipeline.Logger
}

// NewContext builds a Context from the snapshot's post and page collections.
// logger may be nil, in which case referential skips are not reported.
func NewContext(snap *model.Snapshot, logger pipeline.Logger) *Context {
	if logger == nil {
		logger = pipeline.NewNopLogger()
	}
	ctx := &Context{
		KnownPosts: make(map[int64]struct{}, len(snap.Posts)),
		KnownPages: make(map[int64]struct{}, len(snap.Pages)),
		logger:     logger,
	}
	for _, p := range snap.Posts {
		ctx.KnownPosts[p.ID] = struct{}{}
	}
	for _, p := range snap.Pages {
		ctx.KnownPages[p.ID] = struct{}{}
	}
	return ctx
}

func (c *Context) knownPost(id int64) bool {
	_, ok := c.KnownPosts[id]
	return ok
}

func (c *Context) knownPage(id int64) bool {
	_, ok := c.KnownPages[id]
	return ok
}

// skip reports a dropped child record. recordID is the record's own
// identifier, the wp_id for most types and the field key for custom fields.
// The record may reappear in a later run if its parent becomes available.
func (c *Context) skip(entity pipeline.EntityType, recordID any, parentID int64) {
	c.logger.Warn("record skipped, unknown parent post",
		"entity", string(entity), "record_id", recordID, "missing_post_id", parentID)
}

// TransformAuthors emits one upsert per author. Re-applied snapshots update
// in place: latest wins.
func TransformAuthors(records []model.Author) ([]pipeline.Statement, error) {
	stmts := make([]pipeline.Statement, 0, len(records))
	for _, a := range records {
		if a.ID == 0 {
			return nil, &pipeline.TransformError{Entity: pipeline.Authors, Field: "id"}
		}
		if a.Name == "" {
			return nil, &pipeline.TransformError{Entity: pipeline.Authors, WPID: a.ID, Field: "name"}
		}
		if a.Slug == "" {
			return nil, &pipeline.TransformError{Entity: pipeline.Authors, WPID: a.ID, Field: "slug"}
		}
		stmts = append(stmts, pipeline.Statement(fmt.Sprintf(
			"INSERT INTO authors (wp_id, name, handle, email, bio, avatar_url) VALUES (%s, %s, %s, %s, %s, %s)"+
				" ON CONFLICT (wp_id) DO UPDATE SET name = excluded.name, handle = excluded.handle,"+
				" email = excluded.email, bio = excluded.bio, avatar_url = excluded.avatar_url",
			Int(a.ID), Quote(a.Name), Quote(a.Slug), NullableString(a.Email),
			Quote(a.Description), Quote(a.AvatarURLs["96"]))))
	}
	return stmts, nil
}

// TransformCategories emits one insert-or-ignore per category. Categories are
// immutable once created.
func TransformCategories(records []model.Category) ([]pipeline.Statement, error) {
	stmts := make([]pipeline.Statement, 0, len(records))
	for _, c := range records {
		if c.ID == 0 {
			return nil, &pipeline.TransformError{Entity: pipeline.Categories, Field: "id"}
		}
		if c.Name == "" {
			return nil, &pipeline.TransformError{Entity: pipeline.Categories, WPID: c.ID, Field: "name"}
		}
		if c.Slug == "" {
			return nil, &pipeline.TransformError{Entity: pipeline.Categories, WPID: c.ID, Field: "slug"}
		}
		stmts = append(stmts, pipeline.Statement(fmt.Sprintf(
			"INSERT INTO categories (wp_id, name, slug, description) VALUES (%s, %s, %s, %s)"+
				" ON CONFLICT (wp_id) DO NOTHING",
			Int(c.ID), Quote(c.Name), Quote(c.Slug), Quote(c.Description))))
	}
	return stmts, nil
}

// TransformTags emits one insert-or-ignore per tag.
func TransformTags(records []model.Tag) ([]pipeline.Statement, error) {
	stmts := make([]pipeline.Statement, 0, len(records))
	for _, t := range records {
		if t.ID == 0 {
			return nil, &pipeline.TransformError{Entity: pipeline.Tags, Field: "id"}
		}
		if t.Name == "" {
			return nil, &pipeline.TransformError{Entity: pipeline.Tags, WPID: t.ID, Field: "name"}
		}
		if t.Slug == "" {
			return nil, &pipeline.TransformError{Entity: pipeline.Tags, WPID: t.ID, Field: "slug"}
		}
		stmts = append(stmts, pipeline.Statement(fmt.Sprintf(
			"INSERT INTO tags (wp_id, name, slug) VALUES (%s, %s, %s) ON CONFLICT (wp_id) DO NOTHING",
			Int(t.ID), Quote(t.Name), Quote(t.Slug))))
	}
	return stmts, nil
}

// TransformPosts emits one upsert per post: latest wins on re-run.
func TransformPosts(records []model.Post) ([]pipeline.Statement, error) {
	stmts := make([]pipeline.Statement, 0, len(records))
	for _, p := range records {
		if p.ID == 0 {
			return nil, &pipeline.TransformError{Entity: pipeline.Posts, Field: "id"}
		}
		if p.Slug == "" {
			return nil, &pipeline.TransformError{Entity: pipeline.Posts, WPID: p.ID, Field: "slug"}
		}
		stmts = append(stmts, pipeline.Statement(fmt.Sprintf(
			"INSERT INTO posts (wp_id, title, body, slug, excerpt, status, author_id, created_at, updated_at)"+
				" VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s)"+
				" ON CONFLICT (wp_id) DO UPDATE SET title = excluded.title, body = excluded.body,"+
				" slug = excluded.slug, excerpt = excluded.excerpt, status = excluded.status,"+
				" author_id = excluded.author_id, created_at = excluded.created_at, updated_at = excluded.updated_at",
			Int(p.ID), Quote(p.Title.Rendered), Quote(p.Content.Rendered), Quote(p.Slug),
			Quote(p.Excerpt.Rendered), Quote(p.Status), NullableInt(p.Author),
			Quote(p.Date), Quote(p.Modified))))
	}
	return stmts, nil
}

// TransformPages emits one upsert per page: latest wins on re-run.
func TransformPages(records []model.Page) ([]pipeline.Statement, error) {
	stmts := make([]pipeline.Statement, 0, len(records))
	for _, p := range records {
		if p.ID == 0 {
			return nil, &pipeline.TransformError{Entity: pipeline.Pages, Field: "id"}
		}
		if p.Slug == "" {
			return nil, &pipeline.TransformError{Entity: pipeline.Pages, WPID: p.ID, Field: "slug"}
		}
		stmts = append(stmts, pipeline.Statement(fmt.Sprintf(
			"INSERT INTO pages (wp_id, title, body, slug, status, author_id, created_at, updated_at)"+
				" VALUES (%s, %s, %s, %s, %s, %s, %s, %s)"+
				" ON CONFLICT (wp_id) DO UPDATE SET title = excluded.title, body = excluded.body,"+
				" slug = excluded.slug, status = excluded.status, author_id = excluded.author_id,"+
				" created_at = excluded.created_at, updated_at = excluded.updated_at",
			Int(p.ID), Quote(p.Title.Rendered), Quote(p.Content.Rendered), Quote(p.Slug),
			Quote(p.Status), NullableInt(p.Author), Quote(p.Date), Quote(p.Modified))))
	}
	return stmts, nil
}

// TransformComments emits one insert-or-ignore per comment. A comment whose
// post is unknown in this run is dropped and logged, and the transform
// continues; a comment with no post reference at all is a hard error.
func TransformComments(records []model.Comment, ctx *Context) ([]pipeline.Statement, error) {
	stmts := make([]pipeline.Statement, 0, len(records))
	for _, c := range records {
		if c.ID == 0 {
			return nil, &pipeline.TransformError{Entity: pipeline.Comments, Field: "id"}
		}
		if c.Post == 0 {
			return nil, &pipeline.TransformError{Entity: pipeline.Comments, WPID: c.ID, Field: "post"}
		}
		if !ctx.knownPost(c.Post) {
			ctx.skip(pipeline.Comments, c.ID, c.Post)
			continue
		}
		stmts = append(stmts, pipeline.Statement(fmt.Sprintf(
			"INSERT INTO comments (wp_id, post_id, author_name, author_email, body, status, created_at)"+
				" VALUES (%s, %s, %s, %s, %s, %s, %s) ON CONFLICT (wp_id) DO NOTHING",
			Int(c.ID), Int(c.Post), Quote(c.AuthorName), Quote(c.AuthorEmail),
			Quote(c.Content.Rendered), Quote(c.Status), Quote(c.Date))))
	}
	return stmts, nil
}

// TransformMedia emits one insert-or-ignore per media item. The post
// reference is optional; when present it must resolve to a known post or the
// record is dropped and logged.
func TransformMedia(records []model.Media, ctx *Context) ([]pipeline.Statement, error) {
	stmts := make([]pipeline.Statement, 0, len(records))
	for _, m := range records {
		if m.ID == 0 {
			return nil, &pipeline.TransformError{Entity: pipeline.Media, Field: "id"}
		}
		if m.SourceURL == "" {
			return nil, &pipeline.TransformError{Entity: pipeline.Media, WPID: m.ID, Field: "source_url"}
		}
		if m.Post != nil && !ctx.knownPost(*m.Post) {
			ctx.skip(pipeline.Media, m.ID, *m.Post)
			continue
		}
		stmts = append(stmts, pipeline.Statement(fmt.Sprintf(
			"INSERT INTO media (wp_id, post_id, url, alt_text, mime_type) VALUES (%s, %s, %s, %s, %s)"+
				" ON CONFLICT (wp_id) DO NOTHING",
			Int(m.ID), NullableInt(m.Post), Quote(m.SourceURL), Quote(m.AltText), Quote(m.MimeType))))
	}
	return stmts, nil
}

// TransformSEO emits one upsert per SEO record, keyed by the content it
// annotates: re-application overwrites, never appends. Records whose subject
// post or page is unknown in this run are dropped and logged.
func TransformSEO(records []model.SEORecord, ctx *Context) ([]pipeline.Statement, error) {
	stmts := make([]pipeline.Statement, 0, len(records))
	for _, s := range records {
		if s.ObjectID == 0 {
			return nil, &pipeline.TransformError{Entity: pipeline.SEOMetadata, WPID: s.ID, Field: "object_id"}
		}
		known := ctx.knownPost(s.ObjectID)
		if s.ObjectSubType == "page" {
			known = ctx.knownPage(s.ObjectID)
		}
		if !known {
			ctx.skip(pipeline.SEOMetadata, s.ID, s.ObjectID)
			continue
		}
		schema, err := JSONValue(s.Schema)
		if err != nil {
			return nil, &pipeline.TransformError{Entity: pipeline.SEOMetadata, WPID: s.ID, Field: "schema"}
		}
		stmts = append(stmts, pipeline.Statement(fmt.Sprintf(
			"INSERT INTO seo_metadata (post_id, object_type, title, description, focus_keyword, canonical_url,"+
				" og_title, og_description, twitter_title, twitter_description, schema_json)"+
				" VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)"+
				" ON CONFLICT (post_id) DO UPDATE SET object_type = excluded.object_type, title = excluded.title,"+
				" description = excluded.description, focus_keyword = excluded.focus_keyword,"+
				" canonical_url = excluded.canonical_url, og_title = excluded.og_title,"+
				" og_description = excluded.og_description, twitter_title = excluded.twitter_title,"+
				" twitter_description = excluded.twitter_description, schema_json = excluded.schema_json",
			Int(s.ObjectID), Quote(s.ObjectSubType), Quote(s.Title), Quote(s.Description),
			Quote(s.FocusKeyword), Quote(s.Canonical), Quote(s.OpenGraphTitle),
			Quote(s.OpenGraphDescription), Quote(s.TwitterTitle), Quote(s.TwitterDescription), schema)))
	}
	return stmts, nil
}

// TransformCustomFields emits one upsert per field, keyed by (post_id, key)
// so re-runs update values in place. Fields naming an unknown post are
// dropped and logged; fields without a post reference are kept as global
// under post_id 0, so the upsert key stays total (a NULL post_id would
// never match its own conflict target).
func TransformCustomFields(records []model.CustomField, ctx *Context) ([]pipeline.Statement, error) {
	stmts := make([]pipeline.Statement, 0, len(records))
	for _, f := range records {
		if f.Key == "" {
			return nil, &pipeline.TransformError{Entity: pipeline.CustomFields, Field: "key"}
		}
		if f.Post != nil && !ctx.knownPost(*f.Post) {
			ctx.skip(pipeline.CustomFields, f.Key, *f.Post)
			continue
		}
		value, err := JSONValue(f.Value)
		if err != nil {
			return nil, &pipeline.TransformError{Entity: pipeline.CustomFields, Field: "value"}
		}
		var postID int64
		if f.Post != nil {
			postID = *f.Post
		}
		stmts = append(stmts, pipeline.Statement(fmt.Sprintf(
			"INSERT INTO custom_fields (post_id, key, value) VALUES (%s, %s, %s)"+
				" ON CONFLICT (post_id, key) DO UPDATE SET value = excluded.value",
			Int(postID), Quote(f.Key), value)))
	}
	return stmts, nil
}

// TransformRedirects emits one insert-or-ignore per redirect.
func TransformRedirects(records []model.Redirect) ([]pipeline.Statement, error) {
	stmts := make([]pipeline.Statement, 0, len(records))
	for _, r := range records {
		if r.ID == 0 {
			return nil, &pipeline.TransformError{Entity: pipeline.Redirects, Field: "id"}
		}
		if r.Source == "" {
			return nil, &pipeline.TransformError{Entity: pipeline.Redirects, WPID: r.ID, Field: "source"}
		}
		if r.Target == "" {
			return nil, &pipeline.TransformError{Entity: pipeline.Redirects, WPID: r.ID, Field: "target"}
		}
		stmts = append(stmts, pipeline.Statement(fmt.Sprintf(
			"INSERT INTO redirects (wp_id, source_url, target_url, status_code) VALUES (%s, %s, %s, %s)"+
				" ON CONFLICT (wp_id) DO NOTHING",
			Int(r.ID), Quote(r.Source), Quote(r.Target), Int(r.StatusCode))))
	}
	return stmts, nil
}

// Snapshot transforms every entity type of the snapshot and returns the units
// in load order. The first transform error aborts: per the fail-fast policy a
// broken entity type never reaches the loader.
func Snapshot(snap *model.Snapshot, logger pipeline.Logger) ([]*pipeline.Unit, error) {
	ctx := NewContext(snap, logger)

	transforms := []struct {
		entity pipeline.EntityType
		run    func() ([]pipeline.Statement, error)
	}{
		{pipeline.Authors, func() ([]pipeline.Statement, error) { return TransformAuthors(snap.Authors) }},
		{pipeline.Categories, func() ([]pipeline.Statement, error) { return TransformCategories(snap.Categories) }},
		{pipeline.Tags, func() ([]pipeline.Statement, error) { return TransformTags(snap.Tags) }},
		{pipeline.Posts, func() ([]pipeline.Statement, error) { return TransformPosts(snap.Posts) }},
		{pipeline.Pages, func() ([]pipeline.Statement, error) { return TransformPages(snap.Pages) }},
		{pipeline.Comments, func() ([]pipeline.Statement, error) { return TransformComments(snap.Comments, ctx) }},
		{pipeline.Media, func() ([]pipeline.Statement, error) { return TransformMedia(snap.Media, ctx) }},
		{pipeline.SEOMetadata, func() ([]pipeline.Statement, error) { return TransformSEO(snap.SEO, ctx) }},
		{pipeline.CustomFields, func() ([]pipeline.Statement, error) { return TransformCustomFields(snap.CustomFields, ctx) }},
		{pipeline.Redirects, func() ([]pipeline.Statement, error) { return TransformRedirects(snap.Redirects) }},
	}

	units := make([]*pipeline.Unit, 0, len(transforms))
	for _, t := range transforms {
		stmts, err := t.run()
		if err != nil {
			return nil, err
		}
		units = append(units, &pipeline.Unit{Entity: t.entity, Statements: stmts})
	}
	return units, nil
}
