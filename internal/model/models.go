// Package model defines the snapshot record types as exported by the
// WordPress REST API. Field names and nesting match the source API's
// documented shape; rich-text fields arrive wrapped in a rendered envelope,
// and absent optional fields are omitted rather than null, so optional fields
// are pointers here.
package model

import "encoding/json"

// Rendered is the envelope WordPress wraps rich-text fields in.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// Author is a user record from /wp/v2/users.
type Author struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"` // login handle
	Email       *string           `json:"email,omitempty"`
	Description string            `json:"description"`
	AvatarURLs  map[string]string `json:"avatar_urls,omitempty"`
}

// Category is a taxonomy record from /wp/v2/categories.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Tag is a taxonomy record from /wp/v2/tags.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Post is a content record from /wp/v2/posts.
type Post struct {
	ID       int64    `json:"id"`
	Title    Rendered `json:"title"`
	Content  Rendered `json:"content"`
	Excerpt  Rendered `json:"excerpt"`
	Slug     string   `json:"slug"`
	Status   string   `json:"status"`
	Author   *int64   `json:"author,omitempty"`
	Date     string   `json:"date"`
	Modified string   `json:"modified"`
}

// Page is a content record from /wp/v2/pages. Pages share the post shape but
// are persisted to their own table.
type Page struct {
	ID       int64    `json:"id"`
	Title    Rendered `json:"title"`
	Content  Rendered `json:"content"`
	Slug     string   `json:"slug"`
	Status   string   `json:"status"`
	Author   *int64   `json:"author,omitempty"`
	Date     string   `json:"date"`
	Modified string   `json:"modified"`
}

// Comment is a record from /wp/v2/comments.
type Comment struct {
	ID          int64    `json:"id"`
	Post        int64    `json:"post"`
	AuthorName  string   `json:"author_name"`
	AuthorEmail string   `json:"author_email"`
	Content     Rendered `json:"content"`
	Status      string   `json:"status"`
	Date        string   `json:"date"`
}

// Media is an attachment record from /wp/v2/media.
type Media struct {
	ID        int64  `json:"id"`
	Post      *int64 `json:"post,omitempty"`
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text"`
	MimeType  string `json:"mime_type"`
}

// SEORecord is a Yoast indexable record from /wp/v2/yoast_indexable.
type SEORecord struct {
	ID                   int64           `json:"id"`
	ObjectID             int64           `json:"object_id"`
	ObjectSubType        string          `json:"object_sub_type"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	FocusKeyword         string          `json:"focus_keyword"`
	Canonical            string          `json:"canonical"`
	OpenGraphTitle       string          `json:"open_graph_title"`
	OpenGraphDescription string          `json:"open_graph_description"`
	TwitterTitle         string          `json:"twitter_title"`
	TwitterDescription   string          `json:"twitter_description"`
	Schema               json.RawMessage `json:"schema,omitempty"`
}

// CustomField is an ACF-style metadata record from /wp/v2/meta.
type CustomField struct {
	Post  *int64          `json:"post,omitempty"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Redirect is a record from the Redirection plugin API.
type Redirect struct {
	ID         int64  `json:"id"`
	Source     string `json:"source"`
	Target     string `json:"target"`
	StatusCode int64  `json:"code"`
}

// Snapshot is the full set of entity-type record collections captured from
// the source system at a point in time.
type Snapshot struct {
	Authors      []Author
	Categories   []Category
	Tags         []Tag
	Posts        []Post
	Pages        []Page
	Comments     []Comment
	Media        []Media
	SEO          []SEORecord
	CustomFields []CustomField
	Redirects    []Redirect
}
