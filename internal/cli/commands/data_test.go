package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"KVideo/internal/config"
)

func TestData_GetSet(t *testing.T) {
	withAuth(t)

	var putBody map[string]json.RawMessage
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/data" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			if r.URL.Query().Get("key") != "favorites" {
				http.Error(w, `{"error":"Invalid data key"}`, http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"data":{"ids":[1,2]}}`))
		case http.MethodPut:
			_ = json.NewDecoder(r.Body).Decode(&putBody)
			_, _ = w.Write([]byte(`{"success":true}`))
		}
	}))
	defer ts.Close()
	cfg := &config.Config{ServerURL: ts.URL}

	out := withStdoutCapture(t, func() {
		if err := (dataCmd{}).Run(context.Background(), cfg, []string{"get", "favorites"}); err != nil {
			t.Fatalf("data get: %v", err)
		}
	})
	if !strings.Contains(out, `"ids":[1,2]`) {
		t.Fatalf("unexpected output: %s", out)
	}

	if err := (dataCmd{}).Run(context.Background(), cfg, []string{"set", "favorites", `{"ids":[3]}`}); err != nil {
		t.Fatalf("data set: %v", err)
	}
	var key string
	_ = json.Unmarshal(putBody["key"], &key)
	if key != "favorites" || string(putBody["value"]) != `{"ids":[3]}` {
		t.Fatalf("unexpected payload: %v", putBody)
	}

	// неизвестный ключ
	if err := (dataCmd{}).Run(context.Background(), cfg, []string{"get", "nope"}); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	// невалидный JSON отклоняется локально
	if err := (dataCmd{}).Run(context.Background(), cfg, []string{"set", "favorites", "{broken"}); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
	// подкоманда обязательна
	if err := (dataCmd{}).Run(context.Background(), cfg, nil); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestBoot_Run(t *testing.T) {
	withAuth(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/auth/me"):
			_, _ = w.Write([]byte(`{"user":{"id":1,"username":"alice"}}`))
		case strings.HasSuffix(r.URL.Path, "/config"):
			_, _ = w.Write([]byte(`{"subscriptionSources":"","disablePremium":true}`))
		case strings.HasSuffix(r.URL.Path, "/user/data"):
			if r.URL.Query().Get("key") == "history" {
				_, _ = w.Write([]byte(`{"data":{"watched":["m1"]}}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":{}}`))
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer ts.Close()
	cfg := &config.Config{ServerURL: ts.URL}

	out := withStdoutCapture(t, func() {
		if err := (bootCmd{}).Run(context.Background(), cfg, nil); err != nil {
			t.Fatalf("boot: %v", err)
		}
	})
	if !strings.Contains(out, "Booted as alice") {
		t.Fatalf("unexpected output: %s", out)
	}
	if !strings.Contains(out, "history") || !strings.Contains(out, "bytes") {
		t.Fatalf("hydrated summary expected: %s", out)
	}
}
