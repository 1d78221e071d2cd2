package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientChromedp Client = "chromedp"
)

// Config selects and tunes a WebClient backend.
type Config struct {
	Client Client

	// Timeout bounds a single request, including reading the body or
	// waiting for the page load. Zero means DefaultTimeout.
	Timeout time.Duration

	// Headful shows the browser window of the chromedp backend.
	Headful bool

	// UserAgent overrides the backend's default user agent when non-empty.
	UserAgent string
}

const DefaultTimeout = 30 * time.Second

// DefaultConfig returns the nethttp backend with a 30s timeout.
func DefaultConfig() Config {
	return Config{
		Client:  ClientNetHTTP,
		Timeout: DefaultTimeout,
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
