package webclient

import (
	"github.com/raysh454/smoke/internal/logging"
)

func init() {
	RegisterDefaultBackends()
}

// RegisterDefaultBackends registers the nethttp and chromedp backends.
func RegisterDefaultBackends() {
	RegisterBackend(string(ClientNetHTTP), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewNetHTTPClient(cfg, logger, nil)
	})
	RegisterBackend(string(ClientChromedp), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewChromedpClient(cfg, logger)
	})
}
