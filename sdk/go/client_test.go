package verblinesdk

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"

	"verbline/internal/db"
	"verbline/internal/engine"
	"verbline/internal/migrate"
	"verbline/internal/server"
	"verbline/internal/sqlite"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	conn, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	handler, err := server.New(server.Config{Engine: engine.New(sqlite.New(conn))})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
		ln.Close()
		conn.Close()
	})
	return New("http://" + ln.Addr().String())
}

func TestNewClientIsReadyForConcurrentUse(t *testing.T) {
	c := New("http://127.0.0.1:1")
	if c.HTTPClient == nil {
		t.Fatal("HTTPClient not initialized")
	}
	if c.HTTPClient.Timeout != c.Timeout {
		t.Fatalf("timeout = %v, want %v", c.HTTPClient.Timeout, c.Timeout)
	}
}

func TestClientLifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	v, err := c.CreateVerb(ctx, "Write the report", "quarterly numbers")
	if err != nil {
		t.Fatal(err)
	}
	if v.State != "captured" {
		t.Fatalf("state = %s, want captured", v.State)
	}

	if _, err := c.SetState(ctx, v.ID, "active", ""); err != nil {
		t.Fatal(err)
	}
	dropped, err := c.Drop(ctx, v.ID, "plans changed")
	if err != nil {
		t.Fatal(err)
	}
	if dropped.State != "dropped" {
		t.Fatalf("state = %s, want dropped", dropped.State)
	}

	logs, err := c.Logs(ctx, v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 3 || logs[2].ActionType != "dropped" || logs[2].Reason != "plans changed" {
		t.Fatalf("logs = %+v", logs)
	}

	page, err := c.ListVerbs(ctx, "dropped", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || len(page.Verbs) != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestClientErrorEnvelope(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	v, err := c.CreateVerb(ctx, "Finish slides", "")
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.SetState(ctx, v.ID, "done", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Code != "CONFLICT" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
	if apiErr.Message != "Invalid state transition: captured -> done" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}
