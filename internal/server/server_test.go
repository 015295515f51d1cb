package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/smarthire/internal/agents"
	"github.com/jonathan/smarthire/internal/kv"
	"github.com/jonathan/smarthire/internal/llm"
	"github.com/jonathan/smarthire/internal/notify"
	"github.com/jonathan/smarthire/internal/recruiting"
	"github.com/jonathan/smarthire/internal/server/ratelimit"
	"github.com/jonathan/smarthire/internal/store"
	"github.com/jonathan/smarthire/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient answers every schema with a fixed valid response.
type stubClient struct{}

var stubResponses = map[string]string{
	"ScreeningAnalysis": `{"skills_detected": ["Go"], "experience_years": 4, "fit_score": 72,
		"recommendation": "medium_fit", "strengths": ["Go"], "gaps": [], "summary": "Solid."}`,
	"InterviewQuestions": `{"technical": ["T"], "behavioral": ["B"], "culture": ["C"]}`,
	"OfferLetter":        `{"offer_letter": "Dear Ann", "email_copy": "Hi", "next_steps": ["Sign"]}`,
	"JobDescription":     `{"description": "A role."}`,
}

func (stubClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier, schema []byte) (string, error) {
	for title, resp := range stubResponses {
		if strings.Contains(string(schema), `"title": "`+title+`"`) {
			return resp, nil
		}
	}
	return `{}`, nil
}

func (stubClient) GetModel(llm.ModelTier) string { return "stub" }

func (stubClient) Close() error { return nil }

type testServer struct {
	*Server
	svc *recruiting.Service
}

func newTestServer(t *testing.T, client llm.Client, rl *ratelimit.Config) *testServer {
	t.Helper()
	st := store.Open(context.Background(), kv.NewMemoryStore(), store.Options{})
	em := notify.New(notify.Options{ToastTTL: time.Minute})
	t.Cleanup(em.Close)

	svc := recruiting.New(st, em, agents.New(client, agents.Options{}), recruiting.Options{})
	s := New(svc, Config{RateLimit: rl, KeepAlive: 50 * time.Millisecond})
	t.Cleanup(s.rateLimiter.Stop)
	return &testServer{Server: s, svc: svc}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) createJob(t *testing.T) types.Job {
	t.Helper()
	w := s.do(t, http.MethodPost, "/jobs", types.CreateJobRequest{
		Title:          "Backend Engineer",
		Location:       "Berlin",
		SkillsRequired: []string{"Go", "Postgres"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[types.Job](t, w)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decode[map[string]any](t, w)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, false, resp["agents_available"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(t, http.MethodOptions, "/candidates/c1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestJobLifecycle(t *testing.T) {
	s := newTestServer(t, nil, nil)
	job := s.createJob(t)
	assert.Equal(t, types.JobActive, job.Status)

	list := decode[ListJobsResponse](t, s.do(t, http.MethodGet, "/jobs", nil))
	assert.Equal(t, 1, list.Count)

	w := s.do(t, http.MethodPost, "/candidates", types.CreateCandidateRequest{JobID: job.ID, Name: "Ann Lee", Email: "ann@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	c := decode[types.Candidate](t, w)
	assert.Equal(t, types.StatusNew, c.Status)

	got := decode[ListCandidatesResponse](t, s.do(t, http.MethodGet, "/jobs/"+job.ID+"/candidates", nil))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, store.FilterAll, got.Filter)

	w = s.do(t, http.MethodGet, "/jobs/"+job.ID+"/candidates?status=offer", nil)
	assert.Equal(t, 0, decode[ListCandidatesResponse](t, w).Count)

	w = s.do(t, http.MethodGet, "/jobs/"+job.ID+"/candidates?status=hired", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/jobs/"+job.ID+"/candidates.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "job_Backend_Engineer_candidates.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Name,Status,Fit Score,Email,Phone,Added Date\n"))

	w = s.do(t, http.MethodDelete, "/jobs/"+job.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/jobs/"+job.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/candidates/"+c.ID, nil).Code)
}

func TestCreateJob_BadRequests(t *testing.T) {
	s := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/jobs", map[string]string{"location": "Remote"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "invalid input")
}

func TestCandidatePipelineEndpoints(t *testing.T) {
	s := newTestServer(t, nil, nil)
	job := s.createJob(t)
	c := decode[types.Candidate](t, s.do(t, http.MethodPost, "/candidates", types.CreateCandidateRequest{JobID: job.ID, Name: "Ann"}))

	w := s.do(t, http.MethodPost, "/candidates/"+c.ID+"/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.StatusScreened, decode[types.Candidate](t, w).Status)

	w = s.do(t, http.MethodPost, "/candidates/"+c.ID+"/status", types.StatusRequest{Status: types.StatusOffer})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/candidates/"+c.ID+"/advance", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/candidates/"+c.ID+"/reject", nil)
	assert.Equal(t, types.StatusRejected, decode[types.Candidate](t, w).Status)

	w = s.do(t, http.MethodPost, "/candidates/"+c.ID+"/restore", nil)
	assert.Equal(t, types.StatusNew, decode[types.Candidate](t, w).Status)

	w = s.do(t, http.MethodPatch, "/candidates/"+c.ID, map[string]string{"notes": "Call back Friday"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Call back Friday", decode[types.Candidate](t, w).Notes)

	actions := decode[CandidateActionsResponse](t, s.do(t, http.MethodGet, "/candidates/"+c.ID+"/actions", nil))
	assert.False(t, actions.InFlight[recruiting.ActionOffer])

	w = s.do(t, http.MethodGet, "/candidates/"+c.ID+"/export.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "candidate_Ann.csv")

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/candidates/"+c.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/candidates/"+c.ID, nil).Code)
}

func TestScreenAndAssist(t *testing.T) {
	s := newTestServer(t, stubClient{}, nil)
	job := s.createJob(t)

	w := s.do(t, http.MethodPost, "/candidates/screen", types.ScreenCandidateRequest{
		JobID: job.ID, Name: "Ann Lee", ResumeText: "Ann Lee\nGo developer, 4 years",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	c := decode[types.Candidate](t, w)
	assert.Equal(t, types.StatusScreened, c.Status)
	require.NotNil(t, c.AIAnalysis)
	assert.Equal(t, 72, c.AIAnalysis.FitScore)

	w = s.do(t, http.MethodPost, "/candidates/"+c.ID+"/interview-questions", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, decode[types.Candidate](t, w).InterviewQuestions)

	w = s.do(t, http.MethodPost, "/candidates/"+c.ID+"/offer", types.OfferRequest{Salary: "$120k", StartDate: "2025-07-01"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	offered := decode[types.Candidate](t, w)
	assert.Equal(t, types.StatusOffer, offered.Status)
	assert.Equal(t, "Dear Ann", offered.OfferData.OfferLetter)

	usage := decode[recruiting.UsageState](t, s.do(t, http.MethodGet, "/usage", nil))
	assert.Equal(t, 3, usage.Used)

	usage = decode[recruiting.UsageState](t, s.do(t, http.MethodPost, "/usage/reset", nil))
	assert.Zero(t, usage.Used)

	notes := decode[NotificationsResponse](t, s.do(t, http.MethodGet, "/notifications", nil))
	assert.Equal(t, 2, notes.Unread)
	assert.Equal(t, "Offer Ready", notes.Notifications[0].Title)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/notifications/read-all", nil).Code)
	notes = decode[NotificationsResponse](t, s.do(t, http.MethodGet, "/notifications", nil))
	assert.Zero(t, notes.Unread)
}

func TestScreenCandidate_MultipartUpload(t *testing.T) {
	s := newTestServer(t, stubClient{}, nil)
	job := s.createJob(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("job_id", job.ID))
	require.NoError(t, mw.WriteField("name", "Ann Lee"))
	part, err := mw.CreateFormFile("resume", "ann.html")
	require.NoError(t, err)
	_, err = part.Write([]byte("<html><body><h1>Ann Lee</h1><ul><li>Go</li></ul></body></html>"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/candidates/screen", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	c := decode[types.Candidate](t, w)
	assert.Equal(t, "Ann Lee\n- Go", c.ResumeText)
}

func TestAgentErrors(t *testing.T) {
	s := newTestServer(t, nil, nil)
	job := s.createJob(t)
	c := decode[types.Candidate](t, s.do(t, http.MethodPost, "/candidates", types.CreateCandidateRequest{JobID: job.ID, Name: "Ann"}))

	// unscreened candidates have no analysis to base questions on
	w := s.do(t, http.MethodPost, "/candidates/"+c.ID+"/interview-questions", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/candidates/"+c.ID+"/salary-estimate", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(t, http.MethodPost, "/candidates/missing/background-check", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/candidates/"+c.ID+"/offer", map[string]string{"salary": "$1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	toasts := decode[map[string][]types.Toast](t, s.do(t, http.MethodGet, "/toasts", nil))["toasts"]
	require.NotEmpty(t, toasts)
	assert.Equal(t, "Failed to estimate salary", toasts[len(toasts)-1].Message)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/toasts/"+toasts[0].ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/toasts/"+toasts[0].ID, nil).Code)
}

func TestSessionEndpoints(t *testing.T) {
	s := newTestServer(t, nil, nil)

	st := decode[store.OnboardingState](t, s.do(t, http.MethodGet, "/onboarding", nil))
	assert.Equal(t, store.StepCreateJob, st.Step)

	demo := decode[DemoResponse](t, s.do(t, http.MethodPost, "/demo", nil))
	assert.Positive(t, demo.JobsAdded)

	dash := decode[recruiting.Dashboard](t, s.do(t, http.MethodGet, "/dashboard", nil))
	assert.Equal(t, demo.CandidatesAdded, dash.Stats.TotalCandidates)

	res := decode[store.SearchResult](t, s.do(t, http.MethodGet, "/search?q=engineer", nil))
	assert.NotEmpty(t, res.Jobs)

	w := s.do(t, http.MethodPut, "/onboarding", types.OnboardingRequest{Step: 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/onboarding", types.OnboardingRequest{Step: store.StepReview})
	assert.Equal(t, store.StepReview, decode[store.OnboardingState](t, w).Step)

	w = s.do(t, http.MethodPost, "/onboarding/next", nil)
	assert.Equal(t, store.StepInterview, decode[store.OnboardingState](t, w).Step)

	w = s.do(t, http.MethodPost, "/onboarding/skip", nil)
	st = decode[store.OnboardingState](t, w)
	assert.Equal(t, store.StepInactive, st.Step)
	assert.True(t, st.Completed)
}

func TestRateLimit(t *testing.T) {
	rl := &ratelimit.Config{
		Enabled: true,
		Tiers: map[ratelimit.Tier]ratelimit.TierLimit{
			ratelimit.TierWrite: {Limit: 1, Window: time.Hour},
			ratelimit.TierAgent: {Limit: 1, Window: time.Hour},
		},
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(),
	}
	s := newTestServer(t, nil, rl)

	w := s.do(t, http.MethodPost, "/demo", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "write", w.Header().Get("X-RateLimit-Tier"))

	// job creation draws from the same write allowance
	w = s.do(t, http.MethodPost, "/jobs", types.CreateJobRequest{Title: "Backend Engineer"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	body := decode[map[string]any](t, w)
	assert.Equal(t, "rate_limit_exceeded", body["error"])
	assert.Equal(t, "write", body["tier"])

	// assistant calls have their own allowance
	w = s.do(t, http.MethodPost, "/sourcing", map[string]any{"job_id": "j1"})
	assert.NotEqual(t, http.StatusTooManyRequests, w.Code)
	w = s.do(t, http.MethodPost, "/candidates/c1/offer", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	body = decode[map[string]any](t, w)
	assert.Equal(t, "agent", body["tier"])
	assert.Contains(t, body["message"], "AI assistant quota")

	// reads are not configured and stay open
	w = s.do(t, http.MethodGet, "/jobs", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Tier"))
}

func TestRateLimit_BlacklistedClient(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	require.NoError(t, err)

	s := newTestServer(t, nil, &ratelimit.Config{
		Enabled:   true,
		Blacklist: map[string]bool{host: true},
	})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "client_blocked", decode[map[string]any](t, w)["error"])
}

func TestNotificationStream(t *testing.T) {
	s := newTestServer(t, nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/notifications/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		for lines.Scan() {
			if line := lines.Text(); strings.HasPrefix(line, "event: ") {
				return strings.TrimPrefix(line, "event: ")
			}
		}
		return ""
	}

	require.Equal(t, "snapshot", next())

	s.svc.Notifier().AddToast("hello", types.SeverityInfo)
	assert.Equal(t, notify.EventToast, next())

	s.closeStreams()
	assert.Empty(t, next())
}
