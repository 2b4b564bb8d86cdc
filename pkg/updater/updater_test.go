package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"v0.1.0", "v0.1.0", 0},
		{"v0.1.1", "v0.1.0", 1},
		{"0.2.0", "v0.10.0", -1},
		{"v0.10.0", "v0.2.0", 1},
		{"v1.0", "v1.0.0", 0},
		{"v1.2.0-rc1", "v1.2.0", 0},
	}
	for _, tt := range tests {
		if got := CompareVersions(tt.v1, tt.v2); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.v1, tt.v2, got, tt.want)
		}
	}
}

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"v0.3.0","html_url":"https://example.test/v0.3.0"}`))
	}))
	defer srv.Close()

	c := &Checker{URL: srv.URL, Client: srv.Client(), Current: "v0.2.9"}
	tag, url, err := c.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if tag != "v0.3.0" || url != "https://example.test/v0.3.0" {
		t.Errorf("Check = %q, %q", tag, url)
	}

	c.Current = "v0.3.0"
	if tag, _, _ := c.Check(context.Background()); tag != "" {
		t.Errorf("expected no update, got %q", tag)
	}
}

func TestCheckBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	c := &Checker{URL: srv.URL, Client: srv.Client(), Current: "v0.1.0"}
	if _, _, err := c.Check(context.Background()); err == nil {
		t.Error("expected error for 403")
	}
}
