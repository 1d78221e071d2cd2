package smoke_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/smoke/internal/demoserver"
	"github.com/raysh454/smoke/internal/logging"
	"github.com/raysh454/smoke/internal/smoke"
	"github.com/raysh454/smoke/internal/suite"
	"github.com/raysh454/smoke/internal/testutil"
	"github.com/raysh454/smoke/internal/webclient"
)

func newClient(t *testing.T) webclient.WebClient {
	t.Helper()
	client, err := webclient.NewNetHTTPClient(webclient.Config{Timeout: 2 * time.Second}, logging.NopLogger{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func descriptions(s *suite.Summary) []string {
	out := make([]string, 0, len(s.Results))
	for _, r := range s.Results {
		out = append(out, r.Description)
	}
	return out
}

func passed(s *suite.Summary) []bool {
	out := make([]bool, 0, len(s.Results))
	for _, r := range s.Results {
		out = append(out, r.Passed)
	}
	return out
}

func TestRun_ServerUp_AllPass(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(demoserver.NewDemoServer(demoserver.DefaultConfig(), nil).Handler())
	defer ts.Close()

	summary, err := smoke.Run(context.Background(), ts.URL+"/", newClient(t), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"response status code 200",
		"response status code 404",
		"correct content-type",
	}, descriptions(summary))
	assert.Equal(t, []bool{true, true, true}, passed(summary))
	assert.Equal(t, smoke.PlannedAssertions, summary.Executed)
	assert.Equal(t, smoke.SuiteName, summary.Name)
	assert.True(t, summary.Success())
}

func TestRun_ServerDown_Fails(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close()

	summary, err := smoke.Run(context.Background(), base, newClient(t), nil)
	require.NoError(t, err)

	require.Len(t, summary.Results, 3)
	assert.False(t, summary.Results[0].Passed, "status 200 assertion must fail when the server is down")
	assert.Equal(t, 3, summary.FailedCount)
	assert.False(t, summary.Success())
}

func TestRun_PlainText404_FailsContentTypeOnly(t *testing.T) {
	t.Parallel()
	cfg := demoserver.DefaultConfig()
	cfg.NotFoundContentType = "text/plain"
	ts := httptest.NewServer(demoserver.NewDemoServer(cfg, nil).Handler())
	defer ts.Close()

	summary, err := smoke.Run(context.Background(), ts.URL, newClient(t), nil)
	require.NoError(t, err)

	assert.Equal(t, []bool{true, true, false}, passed(summary))
	assert.Equal(t, `"text/plain"`, summary.Results[2].Actual)
	assert.False(t, summary.Success())
}

func TestRun_MissingContentType_FailsWithoutPanic(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		// Suppress Go's content sniffing so no Content-Type is sent.
		w.Header()["Content-Type"] = nil
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	summary, err := smoke.Run(context.Background(), ts.URL, newClient(t), nil)
	require.NoError(t, err)

	assert.Equal(t, []bool{true, true, false}, passed(summary))
	assert.Empty(t, summary.Errors)
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(demoserver.NewDemoServer(demoserver.DefaultConfig(), nil).Handler())
	defer ts.Close()

	client := newClient(t)
	first, err := smoke.Run(context.Background(), ts.URL, client, nil)
	require.NoError(t, err)
	second, err := smoke.Run(context.Background(), ts.URL, client, nil)
	require.NoError(t, err)

	assert.Equal(t, passed(first), passed(second))
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_RequestsRootThenMissingPath(t *testing.T) {
	t.Parallel()
	client := &testutil.DummyWebClient{
		Responses: map[string]*webclient.Response{
			"http://localhost:9999/zapp": {
				StatusCode: http.StatusNotFound,
				Headers:    http.Header{"Content-Type": {"application/json"}},
			},
		},
	}

	summary, err := smoke.Run(context.Background(), smoke.DefaultBaseURL, client, &testutil.DummyLogger{})
	require.NoError(t, err)

	assert.Equal(t, []string{"http://localhost:9999/", "http://localhost:9999/zapp"}, client.RequestedURLs())
	assert.Equal(t, 1, client.MaxInFlight)
	assert.True(t, summary.Success())
}

func TestNewSuite_InvalidBaseURL(t *testing.T) {
	t.Parallel()
	_, err := smoke.NewSuite("ftp://localhost:9999/", &testutil.DummyWebClient{}, nil)
	assert.Error(t, err)

	_, err = smoke.Run(context.Background(), "", &testutil.DummyWebClient{}, nil)
	assert.Error(t, err)
}
