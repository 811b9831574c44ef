package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewJSON_DebugOnlyLocally(t *testing.T) {
	var buf bytes.Buffer
	newJSON(&buf, "production").Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug must be suppressed in production")
	}
	newJSON(&buf, "local").Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected debug line locally, got %q", buf.String())
	}
}

func TestNewText_VerboseLevels(t *testing.T) {
	var buf bytes.Buffer
	newText(&buf, false).Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info must be suppressed without verbose")
	}
	newText(&buf, true).Info("loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Fatalf("expected info line with verbose")
	}
}

func TestFrom_FallsBackToDefault(t *testing.T) {
	if From(context.Background()) != slog.Default() {
		t.Fatalf("expected default logger")
	}
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	if From(With(context.Background(), l)) != l {
		t.Fatalf("expected stored logger")
	}
}

func TestMiddleware_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(Middleware(newJSON(&buf, "production")))
	r.GET("/ping", func(c *gin.Context) {
		if From(c.Request.Context()) != FromGin(c) {
			t.Errorf("context and gin loggers differ")
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	rid := w.Header().Get(headerRequestID)
	if rid == "" {
		t.Fatalf("expected generated request id")
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["request_id"] != rid || line["path"] != "/ping" {
		t.Fatalf("unexpected log line: %v", line)
	}
}
