package ghapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChangedFilesFollowsPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/protocol/pulls/42/files" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer gh-token" {
			t.Errorf("unexpected auth header %q", got)
		}

		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "1":
			files := make([]map[string]string, perPage)
			for i := range files {
				files[i] = map[string]string{"filename": fmt.Sprintf("contracts/File%d.sol", i)}
			}
			json.NewEncoder(w).Encode(files)
		case "2":
			fmt.Fprint(w, `[{"filename": "docs/README.md"}]`)
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	defer server.Close()

	client := NewClient("gh-token")
	client.BaseURL = server.URL

	files, err := client.ChangedFiles(context.Background(), "acme", "protocol", 42)
	if err != nil {
		t.Fatalf("ChangedFiles failed: %v", err)
	}
	if len(files) != perPage+1 {
		t.Fatalf("expected %d files, got %d", perPage+1, len(files))
	}
	if files[0] != "contracts/File0.sol" || files[len(files)-1] != "docs/README.md" {
		t.Fatalf("files out of order: first=%q last=%q", files[0], files[len(files)-1])
	}
}

func TestChangedFilesEmptyPullRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := NewClient("")
	client.BaseURL = server.URL

	files, err := client.ChangedFiles(context.Background(), "acme", "protocol", 7)
	if err != nil {
		t.Fatalf("ChangedFiles failed: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %d", len(files))
	}
}

func TestChangedFilesSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("")
	client.BaseURL = server.URL

	if _, err := client.ChangedFiles(context.Background(), "acme", "protocol", 1); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
