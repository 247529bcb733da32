package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot file names, one JSON array per entity type. These match what the
// fetcher writes and what the transform stage reads back.
const (
	AuthorsFile      = "authors.json"
	CategoriesFile   = "categories.json"
	TagsFile         = "tags.json"
	PostsFile        = "posts.json"
	PagesFile        = "pages.json"
	CommentsFile     = "comments.json"
	MediaFile        = "media.json"
	SEOFile          = "seo_data.json"
	CustomFieldsFile = "custom_fields.json"
	RedirectsFile    = "redirects.json"
)

// SnapshotFiles lists every snapshot file name.
func SnapshotFiles() []string {
	return []string{
		AuthorsFile, CategoriesFile, TagsFile, PostsFile, PagesFile,
		CommentsFile, MediaFile, SEOFile, CustomFieldsFile, RedirectsFile,
	}
}

// LoadSnapshot reads all snapshot files from dir. A missing file is treated
// as an empty record sequence, matching the fetcher contract of "empty
// sequence on exhaustion"; a present but undecodable file is an error.
func LoadSnapshot(dir string) (*Snapshot, error) {
	snap := &Snapshot{}
	loads := []struct {
		file string
		dest any
	}{
		{AuthorsFile, &snap.Authors},
		{CategoriesFile, &snap.Categories},
		{TagsFile, &snap.Tags},
		{PostsFile, &snap.Posts},
		{PagesFile, &snap.Pages},
		{CommentsFile, &snap.Comments},
		{MediaFile, &snap.Media},
		{SEOFile, &snap.SEO},
		{CustomFieldsFile, &snap.CustomFields},
		{RedirectsFile, &snap.Redirects},
	}
	for _, l := range loads {
		if err := loadJSONFile(filepath.Join(dir, l.file), l.dest); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func loadJSONFile(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // empty sequence
		}
		return fmt.Errorf("reading snapshot file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decoding snapshot file %s: %w", path, err)
	}
	return nil
}

// SaveJSON writes records as an indented JSON array to dir/file.
func SaveJSON(dir, file string, records any) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", file, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, file), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}
	return nil
}
