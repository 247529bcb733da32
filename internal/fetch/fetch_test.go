package fetch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"wpmigrate/internal/model"
)

func TestFetchCollectionPagination(t *testing.T) {
	// Two full pages of 100, then a short page of 5.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if r.URL.Query().Get("per_page") != "100" {
			t.Errorf("per_page = %q, want 100", r.URL.Query().Get("per_page"))
		}

		var n int
		switch page {
		case 1, 2:
			n = 100
		case 3:
			n = 5
		default:
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"code":"rest_post_invalid_page_number"}`)
			return
		}

		records := make([]map[string]any, n)
		for i := range records {
			records[i] = map[string]any{"id": (page-1)*100 + i + 1}
		}
		json.NewEncoder(w).Encode(records)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 1, nil)
	records, err := c.fetchCollection("posts", false)
	if err != nil {
		t.Fatalf("fetchCollection failed: %v", err)
	}
	if len(records) != 205 {
		t.Errorf("record count = %d, want 205", len(records))
	}
}

func TestFetchCollectionPastEndReturns400(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page > 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		records := make([]map[string]any, 100)
		for i := range records {
			records[i] = map[string]any{"id": i + 1}
		}
		json.NewEncoder(w).Encode(records)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 1, nil)
	records, err := c.fetchCollection("posts", false)
	if err != nil {
		t.Fatalf("fetchCollection failed: %v", err)
	}
	if len(records) != 100 {
		t.Errorf("record count = %d, want 100", len(records))
	}
}

func TestFetchCollectionOptionalRouteMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 1, nil)

	records, err := c.fetchCollection("redirection/v1/redirects", true)
	if err != nil {
		t.Fatalf("optional missing route should not fail: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("record count = %d, want 0", len(records))
	}

	if _, err := c.fetchCollection("posts", false); err == nil {
		t.Error("404 on a required route should fail")
	}
}

func TestFetchCollectionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 1, nil)
	if _, err := c.fetchCollection("posts", false); err == nil {
		t.Error("500 should fail the fetch")
	}
}

func TestGetWithRetryTransportError(t *testing.T) {
	// A server that is immediately closed produces connection errors.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, 2, nil)
	_, _, err := c.getWithRetry(url + "/posts")
	if err == nil {
		t.Fatal("expected transport error")
	}
}

func TestFetchAllWritesSnapshotFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// One record for posts, empty everywhere else.
		if r.URL.Path == "/posts" && r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `[{"id": 1, "slug": "hello", "title": {"rendered": "Hello"}}]`)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := NewClient(srv.URL, 5*time.Second, 1, nil)
	if err := c.FetchAll(dir); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	for _, file := range model.SnapshotFiles() {
		if _, err := os.Stat(filepath.Join(dir, file)); err != nil {
			t.Errorf("snapshot file %s missing: %v", file, err)
		}
	}

	snap, err := model.LoadSnapshot(dir)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(snap.Posts) != 1 || snap.Posts[0].Slug != "hello" {
		t.Errorf("posts = %+v, want one post with slug hello", snap.Posts)
	}
}
