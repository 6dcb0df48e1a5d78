package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"jira-telegram-bridge/internal/directory"
	"jira-telegram-bridge/internal/metrics"
	"jira-telegram-bridge/internal/outbound"
	"jira-telegram-bridge/pkg/log"
)

type stubWebhook struct{ hits int }

func (s *stubWebhook) HandleJiraWebhook(c *gin.Context) {
	s.hits++
	c.Status(http.StatusOK)
}

type stubOutbound struct{}

func (stubOutbound) AddComment(ctx context.Context, in outbound.AddCommentInput) (outbound.AddCommentOutput, error) {
	return outbound.AddCommentOutput{CommentID: "1"}, nil
}

func (stubOutbound) AttachFile(ctx context.Context, in outbound.AttachFileInput) (outbound.AttachFileOutput, error) {
	return outbound.AttachFileOutput{}, nil
}

func newTestServer(t *testing.T, cfg Config) *HTTPServer {
	t.Helper()
	cfg.Port = 8080
	cfg.Mode = gin.TestMode
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	srv, err := New(log.NewNop(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func get(srv *HTTPServer, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.gin.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(`{}`)))
	return w
}

func TestSystemRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)
	metrics.EchoSuppressedTotal.Inc()
	srv := newTestServer(t, Config{Registry: reg})

	for _, path := range []string{"/health", "/ready", "/live"} {
		if w := get(srv, http.MethodGet, path); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, w.Code)
		}
	}

	w := get(srv, http.MethodGet, "/metrics")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "bridge_echo_suppressed_total") {
		t.Errorf("metrics endpoint: %d %s", w.Code, w.Body.String())
	}
}

func TestDomainRoutes(t *testing.T) {
	t.Run("webhook registered", func(t *testing.T) {
		hook := &stubWebhook{}
		srv := newTestServer(t, Config{WebhookHandler: hook})
		if w := get(srv, http.MethodPost, "/webhook/jira"); w.Code != http.StatusOK || hook.hits != 1 {
			t.Errorf("got %d, hits %d", w.Code, hook.hits)
		}
	})

	t.Run("outbound requires key", func(t *testing.T) {
		srv := newTestServer(t, Config{OutboundUC: stubOutbound{}, Directory: directory.NewStatic("1"), InternalKey: "k"})
		if w := get(srv, http.MethodPost, "/api/v1/issues/OPS-1/comments"); w.Code != http.StatusUnauthorized {
			t.Errorf("got %d, want 401", w.Code)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		srv := newTestServer(t, Config{})
		if w := get(srv, http.MethodPost, "/webhook/jira"); w.Code != http.StatusNotFound {
			t.Errorf("got %d, want 404", w.Code)
		}
	})
}

func TestValidate(t *testing.T) {
	if _, err := New(log.NewNop(), Config{Mode: gin.TestMode, Registry: prometheus.NewRegistry()}); err == nil {
		t.Error("expected error without port")
	}
	_, err := New(log.NewNop(), Config{Port: 1, Mode: gin.TestMode, Registry: prometheus.NewRegistry(), OutboundUC: stubOutbound{}})
	if err == nil {
		t.Error("expected error for outbound without directory")
	}
}
