package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateSource validates a manifest source argument.
// It accepts either a local path or an http(s) URL and rejects empty values
// and values containing control characters.
func ValidateSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return New(ErrCodeInvalidInput, "manifest source cannot be empty")
	}
	for _, r := range source {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "manifest source contains invalid control characters")
		}
	}
	if IsRemote(source) {
		return ValidateURL(source)
	}
	return nil
}

// IsRemote reports whether source looks like an http or https URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !IsRemote(rawURL) {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "malformed URL %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	return nil
}
