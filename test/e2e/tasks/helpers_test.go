//go:build e2e

package tasks_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testImageName = "tasktrack-test:latest"
	apiPort       = "8080/tcp"
)

// e2eEnv relaxes the rate limits, since the suite logs in far more often
// than production traffic does.
var e2eEnv = map[string]string{
	"TASKS_ISSUER":                "tasks-e2e",
	"TASKS_NUM_KEYS":              "1",
	"TASKS_TIMEZONE":              "UTC",
	"ENV":                         "test",
	"LOG_LEVEL":                   "info",
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
}

func TestMain(m *testing.M) {
	if out, err := docker("build", "-t", testImageName, "-f", "../../../cmd/tasks/Dockerfile", "../../../"); err != nil {
		fmt.Fprintf(os.Stderr, "docker build failed: %v\n%s\n", err, out)
		os.Exit(1)
	}

	code := m.Run()
	_, _ = docker("rmi", "-f", testImageName)
	os.Exit(code)
}

func docker(args ...string) ([]byte, error) {
	return exec.CommandContext(context.Background(), "docker", args...).CombinedOutput()
}

// setupContainer runs a fresh service with an empty database.
func setupContainer(t *testing.T) *tasksdk.Client {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{apiPort},
			Env:          e2eEnv,
			WaitingFor:   wait.ForHTTP("/readyz").WithPort(apiPort).WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, c)
	require.NoError(t, err)

	base, err := c.PortEndpoint(ctx, apiPort, "http")
	require.NoError(t, err)
	return tasksdk.NewClient(base)
}

func signupAndLogin(t *testing.T, client *tasksdk.Client, username, role string) *tasksdk.Session {
	t.Helper()
	_, err := client.Signup(t.Context(), tasksdk.SignupRequest{Username: username, Password: "Pw-" + username, Role: role})
	require.NoError(t, err)

	sess, err := client.Login(t.Context(), username, "Pw-"+username)
	require.NoError(t, err)
	return sess
}

func requireAPIError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	var apiErr *tasksdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, msg, apiErr.Message)
}
