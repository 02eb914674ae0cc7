package errors

import (
	"testing"
)

func TestValidateSource(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative path", "package.json", false},
		{"nested path", "web/app/package.json", false},
		{"absolute path", "/srv/app/package.json", false},
		{"https url", "https://example.com/package.json", false},
		{"http url", "http://localhost:8080/package.json", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"control char", "package\x01.json", true},
		{"url without host", "https:///package.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSource(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSource(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateSource(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com/package.json", true},
		{"http://example.com/package.json", true},
		{"package.json", false},
		{"httpfoo/package.json", false},
	}

	for _, tt := range tests {
		if got := IsRemote(tt.input); got != tt.want {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
