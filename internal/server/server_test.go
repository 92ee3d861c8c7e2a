package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"verbline/internal/db"
	"verbline/internal/engine"
	"verbline/internal/migrate"
	"verbline/internal/repo"
	"verbline/internal/sqlite"
)

type testServer struct {
	URL    string
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	conn, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := engine.New(sqlite.New(conn))
	handler, err := New(Config{Engine: e})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	testSrv := &testServer{
		URL:    "http://" + ln.Addr().String(),
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			conn.Close()
		},
	}
	t.Cleanup(testSrv.Close)
	return testSrv
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

func decodeVerb(t *testing.T, data []byte) VerbResponse {
	t.Helper()
	var v VerbResponse
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("unmarshal verb: %v (%s)", err, data)
	}
	return v
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeError(t *testing.T, data []byte) errorBody {
	t.Helper()
	var e errorBody
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("unmarshal error: %v (%s)", err, data)
	}
	return e
}

func createVerb(t *testing.T, srv *testServer, title string) VerbResponse {
	t.Helper()
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/api/v1/verbs", map[string]any{"title": title})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d: %s", res.StatusCode, data)
	}
	return decodeVerb(t, data)
}

func setState(t *testing.T, srv *testServer, id string, body map[string]any) (*http.Response, []byte) {
	t.Helper()
	return doJSON(t, srv.Client(), http.MethodPut, srv.URL+"/api/v1/verbs/"+id+"/state", body)
}

func TestVerbLifecycle(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	created := createVerb(t, srv, "Write the report")
	if created.State != "captured" {
		t.Fatalf("state = %s, want captured", created.State)
	}
	if _, err := uuid.Parse(created.ID); err != nil {
		t.Fatalf("id %q is not a UUID: %v", created.ID, err)
	}

	res, data := setState(t, srv, created.ID, map[string]any{"state": "active"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("activate status %d: %s", res.StatusCode, data)
	}
	if v := decodeVerb(t, data); v.State != "active" {
		t.Fatalf("state = %s, want active", v.State)
	}

	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/verbs/"+created.ID+"/logs", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("logs status %d: %s", res.StatusCode, data)
	}
	var logs []ActionLogResponse
	if err := json.Unmarshal(data, &logs); err != nil {
		t.Fatalf("unmarshal logs: %v (%s)", err, data)
	}
	if len(logs) != 2 || logs[0].ActionType != "created" || logs[1].ActionType != "activated" {
		t.Fatalf("logs = %+v", logs)
	}
	first, err := time.Parse(time.RFC3339Nano, logs[0].Timestamp)
	if err != nil {
		t.Fatal(err)
	}
	second, err := time.Parse(time.RFC3339Nano, logs[1].Timestamp)
	if err != nil {
		t.Fatal(err)
	}
	if second.Before(first) {
		t.Fatalf("timestamps regressed: %s then %s", logs[0].Timestamp, logs[1].Timestamp)
	}
}

func TestInvalidTransitionConflict(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	v := createVerb(t, srv, "Finish slides")
	for _, next := range []string{"active", "done"} {
		res, data := setState(t, srv, v.ID, map[string]any{"state": next})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("to %s: status %d: %s", next, res.StatusCode, data)
		}
	}

	res, data := setState(t, srv, v.ID, map[string]any{"state": "dropped", "reason": "no longer needed"})
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	body := decodeError(t, data)
	if body.Code != "CONFLICT" || body.Message != "Invalid state transition: done -> dropped" {
		t.Fatalf("error = %+v", body)
	}

	// The rejected transition must leave no trace in the log.
	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/verbs/"+v.ID+"/logs", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("logs status %d: %s", res.StatusCode, data)
	}
	var logs []ActionLogResponse
	if err := json.Unmarshal(data, &logs); err != nil {
		t.Fatal(err)
	}
	if len(logs) != 3 {
		t.Fatalf("log count = %d, want 3", len(logs))
	}
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/verbs", map[string]any{"title": "   "})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty title status %d: %s", res.StatusCode, data)
	}
	if body := decodeError(t, data); body.Code != "VALIDATION_ERROR" {
		t.Fatalf("code = %s", body.Code)
	}

	v := createVerb(t, srv, "Plan sprint")
	res, data = setState(t, srv, v.ID, map[string]any{"state": "flying"})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad state status %d: %s", res.StatusCode, data)
	}
	if body := decodeError(t, data); body.Code != "VALIDATION_ERROR" {
		t.Fatalf("code = %s", body.Code)
	}

	// Dropping without a reason is rejected before any state change.
	res, data = doJSON(t, client, http.MethodDelete, srv.URL+"/api/v1/verbs/"+v.ID, map[string]any{})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("drop status %d: %s", res.StatusCode, data)
	}
	if body := decodeError(t, data); body.Code != "VALIDATION_ERROR" {
		t.Fatalf("code = %s", body.Code)
	}
}

func TestNotFoundAndBadID(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	res, data := doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/verbs/"+uuid.NewString(), nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	if body := decodeError(t, data); body.Code != "NOT_FOUND" {
		t.Fatalf("code = %s", body.Code)
	}

	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/verbs/not-a-uuid", nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	if body := decodeError(t, data); body.Code != "VALIDATION_ERROR" {
		t.Fatalf("code = %s", body.Code)
	}
}

func TestDropVerb(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	v := createVerb(t, srv, "Obsolete idea")
	res, data := doJSON(t, client, http.MethodDelete, srv.URL+"/api/v1/verbs/"+v.ID, map[string]any{"reason": "superseded"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	if got := decodeVerb(t, data); got.State != "dropped" {
		t.Fatalf("state = %s, want dropped", got.State)
	}
}

type failingDB struct {
	err error
}

func (d failingDB) Begin(ctx context.Context) (repo.Tx, error) { return nil, d.err }

func TestInternalErrorsAreOpaque(t *testing.T) {
	backendErr := errors.New("sqlite: disk I/O error at /var/lib/verbline/verbline.db")
	var logs bytes.Buffer
	handler, err := New(Config{
		Engine: engine.New(failingDB{err: backendErr}),
		Logger: log.New(&logs, "", 0),
	})
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
	})

	res, data := doJSON(t, &http.Client{}, http.MethodPost, "http://"+ln.Addr().String()+"/api/v1/verbs", map[string]any{"title": "x"})
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	body := decodeError(t, data)
	if body.Code != "INTERNAL_ERROR" || body.Message != "internal error" {
		t.Fatalf("error = %+v", body)
	}
	if strings.Contains(string(data), "disk I/O") {
		t.Fatalf("backend detail leaked: %s", data)
	}
	if !strings.Contains(logs.String(), "disk I/O") {
		t.Fatalf("backend error not logged, log = %q", logs.String())
	}
}

func TestListEnvelope(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	for _, title := range []string{"one", "two", "three"} {
		createVerb(t, srv, title)
	}
	res, data := doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/verbs?limit=2", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	var page VerbListResponse
	if err := json.Unmarshal(data, &page); err != nil {
		t.Fatalf("unmarshal page: %v (%s)", err, data)
	}
	if len(page.Verbs) != 2 || page.Total != 3 || page.Limit != 2 || page.Offset != 0 {
		t.Fatalf("page = %+v", page)
	}

	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/verbs?state=dropped", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	if err := json.Unmarshal(data, &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 || len(page.Verbs) != 0 {
		t.Fatalf("page = %+v", page)
	}

	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/health", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health status %d: %s", res.StatusCode, data)
	}
}
