package jira_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	trackerJira "jira-telegram-bridge/internal/tracker/repository/jira"
	pkgJira "jira-telegram-bridge/pkg/jira"
	"jira-telegram-bridge/pkg/log"
)

func TestJiraRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/issue/OPS-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","key":"OPS-1","fields":{"attachment":[
			{"id":"42","filename":"f.txt","mimeType":"text/plain","content":"https://x/content/42","created":"2024-03-01T10:15:30.000+0000"}
		]}}`))
	})
	mux.HandleFunc("/rest/api/2/issue/OPS-1/comment", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(pkgJira.Comment{ID: "9001"})
	})
	mux.HandleFunc("/rest/api/2/issue/OPS-1/attachments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]pkgJira.Attachment{{ID: "43", Filename: "up.png"}})
	})
	mux.HandleFunc("/rest/api/2/issue/OPS-404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client, err := pkgJira.NewClient(ts.URL, "bot@example.com", "token")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	repo := trackerJira.New(client, log.NewNop())
	ctx := context.Background()

	t.Run("IssueAttachments", func(t *testing.T) {
		atts, err := repo.IssueAttachments(ctx, "OPS-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(atts) != 1 || atts[0].ID != "42" || atts[0].ContentURL != "https://x/content/42" {
			t.Fatalf("got %+v", atts)
		}
		if atts[0].Created.IsZero() || atts[0].Created.Year() != 2024 {
			t.Errorf("Created = %v", atts[0].Created)
		}
	})

	t.Run("IssueAttachments error", func(t *testing.T) {
		if _, err := repo.IssueAttachments(ctx, "OPS-404"); err == nil {
			t.Error("expected error for missing issue")
		}
	})

	t.Run("AddComment", func(t *testing.T) {
		id, err := repo.AddComment(ctx, "OPS-1", "hello")
		if err != nil || id != "9001" {
			t.Errorf("AddComment = %q, %v", id, err)
		}
	})

	t.Run("AddAttachment", func(t *testing.T) {
		atts, err := repo.AddAttachment(ctx, "OPS-1", "up.png", []byte("png"))
		if err != nil || len(atts) != 1 || atts[0].ID != "43" {
			t.Errorf("AddAttachment = %+v, %v", atts, err)
		}
	})
}
