package fetch_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chriscorrea/cadence/internal/fetch"
)

func TestGetContent(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		setupFunc   func(t *testing.T) (source string, cleanup func())
		expectError bool
		expectData  string
	}{
		{
			name:   "http URL success",
			source: "",
			setupFunc: func(t *testing.T) (string, func()) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
					_, _ = w.Write([]byte("verse one\nverse two"))
				}))
				return server.URL, server.Close
			},
			expectData: "verse one\nverse two",
		},
		{
			name:   "http URL with error status",
			source: "",
			setupFunc: func(t *testing.T) (string, func()) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusNotFound)
				}))
				return server.URL, server.Close
			},
			expectError: true,
		},
		{
			name:   "local file success",
			source: "",
			setupFunc: func(t *testing.T) (string, func()) {
				path := filepath.Join(t.TempDir(), "lyrics.txt")
				if err := os.WriteFile(path, []byte("midnight rain on the window"), 0o644); err != nil {
					t.Fatalf("Failed to write temp file: %v", err)
				}
				return path, func() {}
			},
			expectData: "midnight rain on the window",
		},
		{
			name:        "non-existent file",
			source:      "/path/that/does/not/exist.txt",
			expectError: true,
		},
		{
			name:        "invalid URL",
			source:      "http://invalid-url-that-does-not-exist.example.com",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := tt.source
			if tt.setupFunc != nil {
				var cleanup func()
				source, cleanup = tt.setupFunc(t)
				defer cleanup()
			}

			reader, err := fetch.GetContent(context.Background(), source)

			if tt.expectError {
				if err == nil {
					t.Errorf("GetContent() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetContent() error = %v, expected no error", err)
			}
			defer reader.Close()

			data, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("Failed to read from reader: %v", err)
			}
			if string(data) != tt.expectData {
				t.Errorf("GetContent() data = %q, expected %q", string(data), tt.expectData)
			}
		})
	}
}

func TestGetContentStdin(t *testing.T) {
	// stdin should hand back a non-nil size-limited reader without error
	reader, err := fetch.GetContent(context.Background(), "-")
	if err != nil {
		t.Fatalf("GetContent() error = %v, expected no error for stdin", err)
	}
	if reader == nil {
		t.Fatal("GetContent() for stdin should return a non-nil reader")
	}
	reader.Close()
}

func TestGetText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyrics.txt")
	content := "city lights and empty streets"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	text, err := fetch.GetText(context.Background(), path)
	if err != nil {
		t.Fatalf("GetText() error = %v", err)
	}
	if text != content {
		t.Errorf("GetText() = %q, want %q", text, content)
	}

	if _, err := fetch.GetText(context.Background(), "/nope/nothing.txt"); err == nil {
		t.Error("GetText() expected error for missing file")
	}
}

func TestGetContentSourceRouting(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		errMatch string
	}{
		{
			name:     "http URL routes to HTTP fetch",
			source:   "http://invalid-domain-that-definitely-does-not-exist.local",
			errMatch: "failed to fetch URL",
		},
		{
			name:     "https URL routes to HTTP fetch",
			source:   "https://invalid-domain-that-definitely-does-not-exist.local",
			errMatch: "failed to fetch URL",
		},
		{
			name:     "bare path routes to file fetch",
			source:   "no-such-lyrics.txt",
			errMatch: "does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fetch.GetContent(context.Background(), tt.source)
			if err == nil {
				t.Fatalf("GetContent(%q) expected error", tt.source)
			}
			if !strings.Contains(err.Error(), tt.errMatch) {
				t.Errorf("GetContent(%q) error = %v, want it to contain %q", tt.source, err, tt.errMatch)
			}
		})
	}
}
