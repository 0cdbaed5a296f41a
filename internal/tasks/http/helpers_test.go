package http_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	taskshttp "github.com/aussiebroadwan/tasktrack/internal/tasks/http"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/revocation"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/service"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store/drivers/sqlite"
	"github.com/aussiebroadwan/tasktrack/pkg/cryptox"
	"github.com/aussiebroadwan/tasktrack/pkg/httpx"
	"github.com/aussiebroadwan/tasktrack/pkg/jwtx"
	"github.com/aussiebroadwan/tasktrack/pkg/slogx"
	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
	"github.com/stretchr/testify/require"
)

const testIssuer = "http://tasks.test"

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper.key"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

var noLimit = httpx.RateLimitConfig{RequestsPerWindow: 100000, Window: time.Minute, Burst: 100000}

type server struct {
	URL    string
	client *tasksdk.Client
	store  *sqlite.Store
	loc    *time.Location
}

// newServer runs the API over a fresh in-memory store. configure runs on
// the router just before its routes are registered.
func newServer(t *testing.T, configure ...func(*taskshttp.Router)) *server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	keys, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer, NumKeys: 1})
	require.NoError(t, err)

	clock := domain.SystemClock{}
	loc := time.FixedZone("AEST", 10*60*60)

	r := taskshttp.NewRouter(keys.KeySet, keys.Verifier, "test", st, slogx.Discard())
	r.Location = loc
	r.Limits = taskshttp.RateLimits{Strict: noLimit, Moderate: noLimit, Lenient: noLimit, Public: noLimit}
	r.TaskService = &service.TaskService{Store: st, Clock: clock}
	r.QueryService = &service.TaskQueryService{Store: st}
	r.UserService = &service.UserService{Store: st, Clock: clock}
	r.SessionService = &service.SessionService{
		Store:      st,
		KeyManager: keys,
		Revoked:    revocation.NewMemory(),
		Clock:      clock,
		Issuer:     testIssuer,
		AccessTTL:  5 * time.Minute,
		RefreshTTL: time.Hour,
	}
	for _, fn := range configure {
		fn(r)
	}
	r.ApplyRoutes()

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return &server{URL: ts.URL, client: tasksdk.NewClient(ts.URL), store: st, loc: loc}
}

// user signs up and logs in.
func (s *server) user(t *testing.T, username, role string) *tasksdk.Session {
	t.Helper()
	ctx := context.Background()

	_, err := s.client.Signup(ctx, tasksdk.SignupRequest{Username: username, Password: "pw-" + username, Role: role})
	require.NoError(t, err)

	sess, err := s.client.Login(ctx, username, "pw-"+username)
	require.NoError(t, err)
	return sess
}

func (s *server) task(t *testing.T, sess *tasksdk.Session, title string) *tasksdk.Task {
	t.Helper()
	task, err := sess.CreateTask(context.Background(), tasksdk.CreateTaskRequest{Title: tasksdk.Some(title)})
	require.NoError(t, err)
	return task
}

// requireAPIError asserts err is an API error with the given status and
// message.
func requireAPIError(t *testing.T, err error, status int, msg string) *tasksdk.APIError {
	t.Helper()
	var apiErr *tasksdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	if msg != "" {
		require.Equal(t, msg, apiErr.Message)
	}
	return apiErr
}
