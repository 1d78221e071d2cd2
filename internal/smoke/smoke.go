// Package smoke holds the smoke sequence: the server's root page must answer
// 200 and an unknown path must answer 404 with a JSON content type.
package smoke

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/raysh454/smoke/internal/logging"
	"github.com/raysh454/smoke/internal/suite"
	"github.com/raysh454/smoke/internal/utils"
	"github.com/raysh454/smoke/internal/webclient"
)

const (
	SuiteName         = "Temp"
	PlannedAssertions = 3
	DefaultBaseURL    = "http://localhost:9999/"

	// MissingPath is a path the server under test is known not to serve.
	MissingPath = "/zapp"
)

var jsonContentType = regexp.MustCompile(`json`)

// NewSuite builds the sequence against baseURL.
func NewSuite(baseURL string, client webclient.WebClient, logger logging.Logger) (*suite.Suite, error) {
	rootURL, err := utils.JoinURL(baseURL, "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	missingURL, err := utils.JoinURL(baseURL, MissingPath)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	s := suite.Begin(SuiteName, PlannedAssertions, client, logger).
		Start(rootURL, func(t *suite.Tester, _ *webclient.Response) {
			t.AssertHTTPStatus(http.StatusOK, "response status code 200")
		}).
		ThenOpen(missingURL, func(t *suite.Tester, resp *webclient.Response) {
			t.AssertHTTPStatus(http.StatusNotFound, "response status code 404")
			t.AssertMatch(resp.ContentType(), jsonContentType, "correct content-type")
		})
	return s, nil
}

// Run builds the sequence and runs it once.
func Run(ctx context.Context, baseURL string, client webclient.WebClient, logger logging.Logger) (*suite.Summary, error) {
	s, err := NewSuite(baseURL, client, logger)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, func(t *suite.Tester) {
		t.Done()
	})
}
