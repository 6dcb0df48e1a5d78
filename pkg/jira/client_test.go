package jira_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jira-telegram-bridge/pkg/jira"
)

func TestNewClient(t *testing.T) {
	t.Run("Missing domain", func(t *testing.T) {
		_, err := jira.NewClient("", "a@b.c", "tok")
		if !errors.Is(err, jira.ErrMissingDomain) {
			t.Errorf("expected ErrMissingDomain, got %v", err)
		}
	})

	t.Run("Missing credentials", func(t *testing.T) {
		_, err := jira.NewClient("acme.atlassian.net", "", "tok")
		if !errors.Is(err, jira.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Bare domain gets https", func(t *testing.T) {
		c, err := jira.NewClient("acme.atlassian.net/", "a@b.c", "tok")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.BaseURL() != "https://acme.atlassian.net" {
			t.Errorf("unexpected base url: %s", c.BaseURL())
		}
	})
}

func TestJiraClient(t *testing.T) {
	mux := http.NewServeMux()

	checkAuth := func(w http.ResponseWriter, r *http.Request) bool {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "bot@acme.io" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return false
		}
		return true
	}

	mux.HandleFunc("/rest/api/2/issue/PRJ-1", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		if r.URL.Query().Get("fields") != "attachment" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"10001","key":"PRJ-1","fields":{"attachment":[
			{"id":"42","filename":"f.txt","mimeType":"text/plain","content":"https://x/42","created":"2024-05-01T10:00:00.000+0000"}
		]}}`))
	})

	mux.HandleFunc("/rest/api/2/issue/PRJ-1/comment", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		var req jira.AddCommentRequest
		json.NewDecoder(r.Body).Decode(&req)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(jira.Comment{ID: "9", Body: req.Body})
	})

	mux.HandleFunc("/rest/api/2/issue/PRJ-1/attachments", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		if r.Header.Get("X-Atlassian-Token") != "no-check" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode([]jira.Attachment{{ID: "77", Filename: header.Filename, Size: int64(len(data))}})
	})

	mux.HandleFunc("/rest/api/2/issue/MISSING-1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errorMessages":["Issue does not exist"]}`))
	})

	mux.HandleFunc("/files/blob", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("binary"))
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	client, err := jira.NewClient(ts.URL, "bot@acme.io", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	t.Run("GetIssue", func(t *testing.T) {
		issue, err := client.GetIssue(ctx, "PRJ-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(issue.Fields.Attachment) != 1 || issue.Fields.Attachment[0].ID != "42" {
			t.Errorf("unexpected attachments: %+v", issue.Fields.Attachment)
		}
	})

	t.Run("GetIssue not found", func(t *testing.T) {
		_, err := client.GetIssue(ctx, "MISSING-1")
		if err == nil || !strings.Contains(err.Error(), "404") {
			t.Errorf("expected 404 error, got %v", err)
		}
	})

	t.Run("GetIssue empty key", func(t *testing.T) {
		_, err := client.GetIssue(ctx, "")
		if !errors.Is(err, jira.ErrEmptyIssueKey) {
			t.Errorf("expected ErrEmptyIssueKey, got %v", err)
		}
	})

	t.Run("AddComment", func(t *testing.T) {
		c, err := client.AddComment(ctx, "PRJ-1", "hello")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.ID != "9" || c.Body != "hello" {
			t.Errorf("unexpected comment: %+v", c)
		}
	})

	t.Run("AddAttachment", func(t *testing.T) {
		atts, err := client.AddAttachment(ctx, "PRJ-1", "report.pdf", []byte("%PDF-1.4"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(atts) != 1 || atts[0].Filename != "report.pdf" || atts[0].Size != 8 {
			t.Errorf("unexpected attachments: %+v", atts)
		}
	})

	t.Run("Get authenticated", func(t *testing.T) {
		resp, err := client.Get(ctx, ts.URL+"/files/blob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("Server Down", func(t *testing.T) {
		bad, _ := jira.NewClient("http://localhost:59999", "bot@acme.io", "secret")
		if _, err := bad.GetIssue(ctx, "PRJ-1"); err == nil {
			t.Errorf("expected connection refused error")
		}
	})
}
