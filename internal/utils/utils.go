package utils

import (
	"errors"
	"net"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/idna"
)

var (
	ErrEmptyURL          = errors.New("empty url")
	ErrMissingHost       = errors.New("url has no host")
	ErrUnsupportedScheme = errors.New("url scheme must be http or https")
)

// CanonicalizeOptions controls optional canonicalization policies.
type CanonicalizeOptions struct {
	StripTrailingSlash bool   // treat /a and /a/ the same by removing trailing slash (except for root "/")
	DefaultScheme      string // if empty, require scheme in input; otherwise assume this scheme for schemeless URLs
}

// Canonicalize returns a deterministic canonical URL string or an error.
// Only http and https URLs are accepted. Query strings are kept as given;
// fragments and credentials are dropped.
func Canonicalize(raw string, opts CanonicalizeOptions) (string, error) {
	u, err := canonicalURL(raw, opts)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func canonicalURL(raw string, opts CanonicalizeOptions) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &url.Error{Op: "parse", URL: raw, Err: ErrEmptyURL}
	}

	if opts.DefaultScheme != "" && !strings.Contains(raw, "://") {
		raw = opts.DefaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &url.Error{Op: "parse", URL: raw, Err: ErrUnsupportedScheme}
	}
	if u.Host == "" {
		return nil, &url.Error{Op: "parse", URL: raw, Err: ErrMissingHost}
	}

	// Lowercase host and convert IDN -> punycode
	host := strings.ToLower(u.Hostname())
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}

	// Preserve non-default port only
	port := u.Port()
	switch {
	case (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443"):
		u.Host = host
	case port != "":
		u.Host = net.JoinHostPort(host, port)
	default:
		u.Host = host
	}

	u.User = nil
	u.Fragment = ""

	cleanPath := "/"
	if u.Path != "" {
		cleanPath = path.Clean(u.Path)
		if strings.HasSuffix(u.Path, "/") && cleanPath != "/" && !opts.StripTrailingSlash {
			cleanPath += "/"
		}
	}
	u.Path = cleanPath
	u.RawPath = ""

	return u, nil
}

// JoinURL resolves p below base. An empty p or "/" yields the base itself
// with a trailing slash, so both "http://h:1" and "http://h:1/" open the same
// root page. Base paths are kept: JoinURL("http://h/app/", "/zapp") is
// "http://h/app/zapp".
func JoinURL(base, p string) (string, error) {
	u, err := canonicalURL(base, CanonicalizeOptions{DefaultScheme: "http"})
	if err != nil {
		return "", err
	}
	u.RawQuery = ""

	p = strings.TrimLeft(p, "/")
	if p == "" {
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		return u.String(), nil
	}
	return u.JoinPath(p).String(), nil
}
