package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/cubeql/internal/app"
	"github.com/OFFIS-RIT/cubeql/pkg/pipeline"
	"github.com/OFFIS-RIT/cubeql/pkg/sparql"
)

const testCube = "<https://ld.stadt-zuerich.ch/statistics/000001>"

type stubRunner struct {
	cube      string
	query     string
	selectErr error
	genErr    error

	gotQuestion string
	gotCube     string
}

func (s *stubRunner) SelectCube(_ context.Context, question string) (string, error) {
	s.gotQuestion = question
	if s.selectErr != nil {
		return "", s.selectErr
	}
	return s.cube, nil
}

func (s *stubRunner) GenerateQuery(_ context.Context, question, cubeID string) (string, error) {
	s.gotQuestion = question
	s.gotCube = cubeID
	if s.genErr != nil {
		return "", s.genErr
	}
	return s.query, nil
}

func (s *stubRunner) SelectAndGenerate(ctx context.Context, question string) (pipeline.Result, error) {
	return pipeline.SelectAndGenerate(ctx, s, question)
}

func serve(t *testing.T, r *stubRunner, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	e := New(&app.App{Pipeline: r})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	out := map[string]string{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestStatus(t *testing.T) {
	rec := serve(t, &stubRunner{}, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode(t, rec)["status"]; got != "Service is up and running" {
		t.Fatalf("status body = %q", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestJSONRoutes(t *testing.T) {
	upstream := &pipeline.UpstreamError{Service: pipeline.ServiceSPARQL, Op: "fetch", Err: &sparql.RequestError{Status: 503}}

	tests := []struct {
		name       string
		path       string
		body       string
		runner     *stubRunner
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{
			name:       "select cube",
			path:       "/cube",
			body:       `{"question":"Wie viele Hunde?"}`,
			runner:     &stubRunner{cube: testCube},
			wantStatus: http.StatusOK,
			wantKey:    "result",
			wantValue:  testCube,
		},
		{
			name:       "select cube missing question",
			path:       "/cube",
			body:       `{}`,
			runner:     &stubRunner{},
			wantStatus: http.StatusBadRequest,
			wantKey:    "detail",
			wantValue:  "Invalid request params",
		},
		{
			name:       "select cube malformed body",
			path:       "/cube",
			body:       `{"question":`,
			runner:     &stubRunner{},
			wantStatus: http.StatusBadRequest,
			wantKey:    "detail",
			wantValue:  "Invalid request params",
		},
		{
			name:       "no cube selected",
			path:       "/cube",
			body:       `{"question":"weather on mars"}`,
			runner:     &stubRunner{selectErr: &pipeline.NoCubeSelectedError{Response: "none fits"}},
			wantStatus: http.StatusNotFound,
			wantKey:    "detail",
			wantValue:  "Service was unable to select proper cube. Full response: none fits",
		},
		{
			name:       "generate query",
			path:       "/query",
			body:       `{"question":"Hunde 2020","cube":"` + testCube + `"}`,
			runner:     &stubRunner{query: "SELECT * WHERE {}"},
			wantStatus: http.StatusOK,
			wantKey:    "result",
			wantValue:  "SELECT * WHERE {}",
		},
		{
			name:       "generate query missing cube",
			path:       "/query",
			body:       `{"question":"Hunde 2020"}`,
			runner:     &stubRunner{},
			wantStatus: http.StatusBadRequest,
			wantKey:    "detail",
			wantValue:  "Invalid request params",
		},
		{
			name:       "upstream failure",
			path:       "/query",
			body:       `{"question":"Hunde 2020","cube":"` + testCube + `"}`,
			runner:     &stubRunner{genErr: upstream},
			wantStatus: http.StatusBadGateway,
			wantKey:    "detail",
			wantValue:  upstream.Error(),
		},
		{
			name:       "combined",
			path:       "/",
			body:       `{"question":"Hunde 2020"}`,
			runner:     &stubRunner{cube: testCube, query: "SELECT ?x WHERE {}"},
			wantStatus: http.StatusOK,
			wantKey:    "result",
			wantValue:  "SELECT ?x WHERE {}",
		},
		{
			name:       "internal failure",
			path:       "/",
			body:       `{"question":"Hunde 2020"}`,
			runner:     &stubRunner{selectErr: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
			wantKey:    "detail",
			wantValue:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.runner, jsonRequest(http.MethodPost, tt.path, tt.body))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := decode(t, rec)[tt.wantKey]; got != tt.wantValue {
				t.Fatalf("%s = %q, want %q", tt.wantKey, got, tt.wantValue)
			}
		})
	}
}

func TestCombinedPassesSelectedCube(t *testing.T) {
	r := &stubRunner{cube: testCube, query: "SELECT"}
	rec := serve(t, r, jsonRequest(http.MethodPost, "/", `{"question":"Hunde"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if r.gotCube != testCube {
		t.Fatalf("cube passed to generation = %q", r.gotCube)
	}
}

func TestFormUI(t *testing.T) {
	rec := serve(t, &stubRunner{}, httptest.NewRequest(http.MethodGet, "/ui", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `name="question"`) {
		t.Fatalf("GET /ui = %d %s", rec.Code, rec.Body.String())
	}

	form := url.Values{"question": {"Wie viele Hunde?"}}
	req := httptest.NewRequest(http.MethodPost, "/ui", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = serve(t, &stubRunner{cube: testCube, query: "SELECT ?hund WHERE {}"}, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /ui = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "https://ld.stadt-zuerich.ch/statistics/000001") {
		t.Fatalf("cube missing from page: %s", body)
	}
	if strings.Contains(body, "&lt;https://ld.stadt-zuerich.ch") {
		t.Fatal("cube rendered with brackets")
	}
	if !strings.Contains(body, "SELECT ?hund WHERE {}") {
		t.Fatal("query missing from page")
	}
}

func TestFormUINoCube(t *testing.T) {
	form := url.Values{"question": {"weather on mars"}}
	req := httptest.NewRequest(http.MethodPost, "/ui", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(t, &stubRunner{selectErr: &pipeline.NoCubeSelectedError{Response: "nothing"}}, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Service was unable to select proper cube") {
		t.Fatalf("error not rendered: %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(t, &stubRunner{}, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
