package testserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rpggio/feedback-widget/internal/domain/activity"
	"github.com/rpggio/feedback-widget/internal/domain/feedback"
	"github.com/rpggio/feedback-widget/internal/sqlite"
	"github.com/rpggio/feedback-widget/internal/transport"
	"github.com/stretchr/testify/require"
)

// Call is one request observed by the test server.
type Call struct {
	Method string
	Path   string
}

type fault struct {
	method  string
	status  int
	message string
}

// TestServer runs the feedback service over in-memory SQLite.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Feedback *feedback.Service

	mu     sync.Mutex
	calls  []Call
	faults []fault
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	feedbackRepo := sqlite.NewFeedbackRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	feedbackSvc := feedback.NewService(feedbackRepo, activityRepo, nil)
	activitySvc := activity.NewService(activityRepo, nil)

	ts := &TestServer{DB: db, Feedback: feedbackSvc}
	ts.Server = httptest.NewServer(ts.record(transport.NewServer(feedbackSvc, activitySvc, nil)))

	t.Cleanup(func() {
		ts.Server.Close()
		_ = db.Close()
	})

	return ts
}

// URL is the base URL clients should target.
func (ts *TestServer) URL() string {
	return ts.Server.URL
}

// Calls returns the requests seen so far.
func (ts *TestServer) Calls() []Call {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]Call(nil), ts.calls...)
}

// Count returns how many requests used method.
func (ts *TestServer) Count(method string) int {
	n := 0
	for _, c := range ts.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

// FailNext makes the next request with method answer status with an error body.
// An empty message produces an empty body.
func (ts *TestServer) FailNext(method string, status int, message string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.faults = append(ts.faults, fault{method: method, status: status, message: message})
}

func (ts *TestServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.calls = append(ts.calls, Call{Method: r.Method, Path: r.URL.Path})
		var injected *fault
		for i, f := range ts.faults {
			if f.method == r.Method {
				injected = &f
				ts.faults = append(ts.faults[:i], ts.faults[i+1:]...)
				break
			}
		}
		ts.mu.Unlock()

		if injected != nil {
			if injected.message == "" {
				w.WriteHeader(injected.status)
				return
			}
			transport.WriteError(w, injected.status, injected.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}
