package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nandoku-quiz-service/internal/domain"
)

func TestAPIListLevels(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/levels")
	if err != nil {
		t.Fatalf("get levels: %v", err)
	}
	defer resp.Body.Close()

	var levels []domain.Level
	if err := json.NewDecoder(resp.Body).Decode(&levels); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var ready []string
	for _, l := range levels {
		if l.Ready {
			ready = append(ready, l.ID)
		}
	}
	if len(levels) != 5 {
		t.Fatalf("expected 5 levels, got %d", len(levels))
	}
	if diff := cmp.Diff([]string{"1", "2"}, ready); diff != "" {
		t.Fatalf("ready levels mismatch (-want +got):\n%s", diff)
	}
}

func TestAPIListEntries(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
		keys   []string
	}{
		{name: "all", path: "/api/levels/1/entries", status: http.StatusOK, keys: []string{"1:0", "1:1"}},
		{name: "genre", path: "/api/levels/1/entries?tag=" + url.QueryEscape("植物・藻類"), status: http.StatusOK, keys: []string{"1:1"}},
		{name: "emphasis search", path: "/api/levels/1/entries?mode=reading&q=" + url.QueryEscape("びき"), status: http.StatusOK, keys: []string{"1:0"}},
		{name: "component search", path: "/api/levels/1/entries?mode=component&q=" + url.QueryEscape("花"), status: http.StatusOK, keys: []string{"1:1"}},
		{name: "not ready", path: "/api/levels/3/entries", status: http.StatusConflict},
		{name: "unknown", path: "/api/levels/9/entries", status: http.StatusNotFound},
		{name: "no data", path: "/api/levels/2/entries", status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(server.URL + tt.path)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.StatusCode)
			}
			if tt.status != http.StatusOK {
				return
			}
			var payload entriesPayload
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			var keys []string
			for _, e := range payload.Entries {
				keys = append(keys, e.Key)
			}
			if diff := cmp.Diff(tt.keys, keys); diff != "" {
				t.Fatalf("keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
