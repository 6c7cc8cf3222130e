package vault

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	vault "github.com/hashicorp/vault/api"
)

const kvResponse = `{
  "data": {
    "data": {"db_password": "s3cret", "port": 3306},
    "metadata": {"created_time": "2026-01-02T03:04:05Z", "deletion_time": "", "destroyed": false, "version": 1}
  }
}`

func testClient(t *testing.T, ttl time.Duration) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/secret/data/folio" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(kvResponse))
	}))
	t.Cleanup(srv.Close)

	cfg := vault.DefaultConfig()
	cfg.Address = srv.URL
	api, err := vault.NewClient(cfg)
	if err != nil {
		t.Fatal(err)
	}
	api.SetToken("test")
	return newClient(api, nil, ttl), &hits
}

func TestResolve(t *testing.T) {
	c, hits := testClient(t, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got, err := c.Resolve(ctx, "secret/folio#db_password")
		if err != nil || got != "s3cret" {
			t.Fatalf("Resolve = %q, %v", got, err)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("vault hit %d times, want 1 (cached)", hits.Load())
	}
}

func TestResolve_Errors(t *testing.T) {
	c, _ := testClient(t, 0)
	ctx := context.Background()

	for _, ref := range []string{
		"secret/folio",          // no key
		"secret/folio#missing",  // unknown key
		"secret/folio#port",     // not a string
		"secret/other#password", // 404
		"#key",                  // empty path
	} {
		if _, err := c.Resolve(ctx, ref); err == nil {
			t.Errorf("Resolve(%q) expected error", ref)
		}
	}
}

func TestSplitMount(t *testing.T) {
	m, r := splitMount("secret/apps/folio")
	if m != "secret" || r != "apps/folio" {
		t.Fatalf("splitMount = %q, %q", m, r)
	}
}
