package tasksdk_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
	"github.com/stretchr/testify/require"
)

func TestOptionalDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		set     bool
		null    bool
		present bool
	}{
		{"absent", `{}`, false, false, false},
		{"null", `{"description": null}`, true, true, false},
		{"value", `{"description": "hello"}`, true, false, true},
		{"empty string", `{"description": ""}`, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req tasksdk.UpdateTaskRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			require.Equal(t, tt.set, req.Description.Set)
			require.Equal(t, tt.null, req.Description.Null)
			require.Equal(t, tt.present, req.Description.Present())
			require.Equal(t, tt.present, req.Description.Get() != nil)
		})
	}

	var req tasksdk.UpdateTaskRequest
	require.Error(t, json.Unmarshal([]byte(`{"is_done": "yes"}`), &req))
}

func TestOptionalEncodeOmitsUnset(t *testing.T) {
	b, err := json.Marshal(tasksdk.UpdateTaskRequest{
		IsDone:      tasksdk.Some(true),
		Description: tasksdk.Null[string](),
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"is_done": true, "description": null}`, string(b))

	b, err = json.Marshal(tasksdk.CreateTaskRequest{})
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(b))
}

func TestAPIErrorRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := tasksdk.NewAPIError(http.StatusBadRequest, tasksdk.MsgInvalidInput)
		e.Fields = map[string][]string{"username": {"A user with that username already exists."}}
		e.WriteError(w)
	}))
	defer srv.Close()

	_, err := tasksdk.NewClient(srv.URL).Signup(t.Context(), tasksdk.SignupRequest{Username: "x"})
	var apiErr *tasksdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, tasksdk.MsgInvalidInput, apiErr.Message)
	require.Equal(t, []string{"A user with that username already exists."}, apiErr.Fields["username"])
}

func TestAPIErrorFromPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := tasksdk.NewClient(srv.URL).Livez(t.Context())
	var apiErr *tasksdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "upstream down", apiErr.Message)
}
