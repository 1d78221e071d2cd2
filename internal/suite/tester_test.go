package suite_test

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/smoke/internal/suite"
	"github.com/raysh454/smoke/internal/testutil"
	"github.com/raysh454/smoke/internal/webclient"
)

// runOne opens a single canned response and returns the results recorded by fn.
func runOne(t *testing.T, resp *webclient.Response, fn suite.StepFunc) *suite.Summary {
	t.Helper()
	client := &testutil.DummyWebClient{Responses: map[string]*webclient.Response{rootURL: resp}}
	summary, err := suite.Begin("one", 0, client, nil).Start(rootURL, fn).Run(context.Background(), nil)
	require.NoError(t, err)
	return summary
}

func TestAssertHTTPStatus(t *testing.T) {
	summary := runOne(t, &webclient.Response{StatusCode: 404}, func(tt *suite.Tester, _ *webclient.Response) {
		tt.AssertHTTPStatus(404, "response status code 404")
		tt.AssertHTTPStatus(200, "")
	})

	require.Len(t, summary.Results, 2)
	assert.True(t, summary.Results[0].Passed)
	assert.Equal(t, "response status code 404", summary.Results[0].Description)
	assert.Equal(t, rootURL, summary.Results[0].URL)
	assert.Equal(t, 1, summary.Results[0].Step)

	assert.False(t, summary.Results[1].Passed)
	assert.Equal(t, "HTTP status code is: 200", summary.Results[1].Description)
	assert.Equal(t, "200", summary.Results[1].Expected)
	assert.Equal(t, "404", summary.Results[1].Actual)
}

func TestAssertMatch_ContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType []string
		want        bool
	}{
		{"json", []string{"application/json"}, true},
		{"json with charset", []string{"application/json; charset=utf-8"}, true},
		{"problem json", []string{"application/problem+json"}, true},
		{"plain text", []string{"text/plain"}, false},
		{"upper case is not matched", []string{"application/JSON"}, false},
		{"missing header", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for _, v := range tt.contentType {
				h.Add("Content-Type", v)
			}
			summary := runOne(t, &webclient.Response{StatusCode: 404, Headers: h}, func(tester *suite.Tester, _ *webclient.Response) {
				tester.AssertMatch(tester.Header("Content-Type"), regexp.MustCompile("json"), "correct content-type")
			})
			require.Len(t, summary.Results, 1)
			assert.Equal(t, tt.want, summary.Results[0].Passed)
			assert.Equal(t, "/json/", summary.Results[0].Expected)
		})
	}
}

func TestAssertMatch_NilPatternAndInvalidPattern(t *testing.T) {
	summary := runOne(t, &webclient.Response{StatusCode: 200}, func(tt *suite.Tester, _ *webclient.Response) {
		tt.AssertMatch("anything", nil, "nil pattern")
		tt.AssertMatchString("anything", "(", "bad pattern")
		tt.AssertMatchString("application/json", "json$", "good pattern")
	})

	require.Len(t, summary.Results, 3)
	assert.False(t, summary.Results[0].Passed)
	assert.False(t, summary.Results[1].Passed)
	assert.Contains(t, summary.Results[1].Message, "invalid pattern")
	assert.True(t, summary.Results[2].Passed)
}

func TestAssertEqualsTitleAndHeader(t *testing.T) {
	resp := &webclient.Response{
		StatusCode: 200,
		Headers:    http.Header{"X-Served-By": {"demo"}},
		Body:       []byte("<html><head><title>Folk</title></head><body></body></html>"),
	}
	summary := runOne(t, resp, func(tt *suite.Tester, r *webclient.Response) {
		tt.AssertEquals(r.StatusCode, 200, "")
		tt.AssertTitle("Folk", "")
		tt.AssertTitle("Other", "wrong title")
		tt.AssertHeaderExists("X-Served-By", "")
		tt.AssertHeaderExists("X-Missing", "")
	})

	passed := make([]bool, 0, len(summary.Results))
	for _, r := range summary.Results {
		passed = append(passed, r.Passed)
	}
	assert.Equal(t, []bool{true, true, false, true, false}, passed)
}

func TestAssertionAfterDoneIsRecordedAsError(t *testing.T) {
	client := &testutil.DummyWebClient{}
	summary, err := suite.Begin("late", 2, client, nil).
		Start(rootURL, func(tt *suite.Tester, _ *webclient.Response) {
			tt.AssertHTTPStatus(200, "first")
		}).
		Run(context.Background(), func(tt *suite.Tester) {
			tt.Done()
			tt.AssertHTTPStatus(200, "late")
		})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Executed)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "late")
	assert.False(t, summary.Success())
}
