/*
Package tasksdk is the client SDK and wire format of the task tracking
service.

The request and response types in this package are the ones the server
encodes, so the SDK and the server cannot drift apart.

Unauthenticated calls go through a Client:

	client := tasksdk.NewClient("http://localhost:8080")

	_, err := client.Signup(ctx, tasksdk.SignupRequest{
		Username: "alice",
		Password: "s3cret",
		Role:     tasksdk.RoleDeveloper,
	})

	session, err := client.Login(ctx, "alice", "s3cret")

A Session carries the access and refresh tokens of one login and refreshes
the access token shortly before it expires:

	task, err := session.CreateTask(ctx, tasksdk.CreateTaskRequest{
		Title: tasksdk.Some("Write the report"),
	})

	page, err := session.ListTasks(ctx, tasksdk.ListTasksParams{IsDone: tasksdk.Ptr(true)})

	err = session.Logout(ctx)

# Errors

Every non-success response is returned as an *APIError holding the status
code, the "error" message and, for validation failures, the per-field
messages:

	var apiErr *tasksdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
		fmt.Println(apiErr.Message) // "Access denied"
	}

# Partial updates

Optional distinguishes a field that is absent from one that is explicitly
null. UpdateTask only sends the fields that were set:

	session.UpdateTask(ctx, id, tasksdk.UpdateTaskRequest{
		IsDone:      tasksdk.Some(true),
		Description: tasksdk.Null[string](),
	})

Sessions are safe for concurrent use.
*/
package tasksdk
