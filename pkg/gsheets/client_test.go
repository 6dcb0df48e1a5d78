package gsheets_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"jira-telegram-bridge/pkg/gsheets"
)

type rewriteTransport struct {
	Transport http.RoundTripper
	Host      string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = t.Host
	return t.Transport.RoundTrip(req)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *gsheets.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	tsClient := ts.Client()
	tsClient.Transport = &rewriteTransport{
		Transport: tsClient.Transport,
		Host:      strings.TrimPrefix(ts.URL, "http://"),
	}

	client, err := gsheets.NewClientFromHTTP(context.Background(), tsClient)
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	return client
}

func TestSheetsClient(t *testing.T) {
	mockCreds := `{
		"installed": {
			"client_id": "test-client-id.apps.googleusercontent.com",
			"client_secret": "test-secret",
			"redirect_uris": ["http://localhost"]
		}
	}`

	t.Run("Initialize with broken credentials", func(t *testing.T) {
		_, err := gsheets.NewClientFromCredentialsJSON(context.Background(), []byte(`{"broken":true}`))
		if err == nil {
			t.Errorf("expected decoding failure")
		}
	})

	t.Run("Initialize from installed app config", func(t *testing.T) {
		os.WriteFile("token.json", []byte(`{"access_token": "dummy", "token_type": "Bearer", "expiry": "2030-01-01T00:00:00Z"}`), 0644)
		defer os.Remove("token.json")

		if _, err := gsheets.NewClientFromCredentialsJSON(context.Background(), []byte(mockCreds)); err != nil {
			t.Fatalf("expected parsing to succeed: %v", err)
		}
	})

	t.Run("Initialize from missing file", func(t *testing.T) {
		if _, err := gsheets.NewClientFromCredentialsFile(context.Background(), "non-existent-file-path-12345.json"); err == nil {
			t.Errorf("expected reading file error")
		}
	})

	t.Run("ReadRows", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sheet-1/values/") {
				w.Write([]byte(`{"range": "Directory!A1:B3", "values": [["OPS-1", "12345"], ["OPS-2"], [" OPS-3 ", 777]]}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		})

		rows, err := client.ReadRows(context.Background(), "sheet-1", "Directory!A:B")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		if rows[0].Cell(1) != "12345" || rows[1].Cell(1) != "" || rows[2].Cell(0) != "OPS-3" || rows[2].Cell(1) != "777" {
			t.Errorf("unexpected rows: %+v", rows)
		}
	})

	t.Run("ReadRows API error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		if _, err := client.ReadRows(context.Background(), "sheet-1", "A:B"); err == nil {
			t.Fatal("expected api error")
		}
	})

	t.Run("AppendRow", func(t *testing.T) {
		var got [][]string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append") {
				if r.URL.Query().Get("valueInputOption") != "RAW" {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				var body struct {
					Values [][]string `json:"values"`
				}
				json.NewDecoder(r.Body).Decode(&body)
				got = body.Values
				w.Write([]byte(`{"spreadsheetId": "sheet-1"}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		})

		if err := client.AppendRow(context.Background(), "sheet-1", "Directory!A:B", "OPS-9", "@ops"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || len(got[0]) != 2 || got[0][0] != "OPS-9" || got[0][1] != "@ops" {
			t.Errorf("appended values = %v", got)
		}
	})
}
