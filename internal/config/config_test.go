package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"straight memory", Config{PrefsBackend: "memory", RoutingBackend: "straight"}, ""},
		{"ors with key", Config{PrefsBackend: "sqlite", RoutingBackend: "ors", ORSAPIKey: "k"}, ""},
		{"ors without key", Config{PrefsBackend: "sqlite", RoutingBackend: "ors"}, "ORS_API_KEY"},
		{"postgres without url", Config{PrefsBackend: "postgres", RoutingBackend: "straight"}, "DATABASE_URL"},
		{"unknown prefs", Config{PrefsBackend: "etcd", RoutingBackend: "straight"}, "PREFS_BACKEND"},
		{"unknown routing", Config{PrefsBackend: "redis", RoutingBackend: "osrm"}, "ROUTING_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("RUNMAP_TEST_KEY", "set")
	if got := Get("RUNMAP_TEST_KEY", "fallback"); got != "set" {
		t.Fatalf("Get = %q", got)
	}
	if got := Get("RUNMAP_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("Get = %q", got)
	}
}
