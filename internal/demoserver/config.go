package demoserver

// Config holds configuration for the demo server.
type Config struct {
	// Port is the port on which the demo server listens.
	Port int

	// Title is the <title> of the index page.
	Title string

	// NotFoundContentType is sent with 404 responses. Changing it lets tests
	// exercise a server that answers unknown paths with a non-JSON type.
	NotFoundContentType string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:                9999,
		Title:               "Folk",
		NotFoundContentType: "application/json; charset=utf-8",
	}
}
