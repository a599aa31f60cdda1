// Package fetch retrieves lyric content from the sources the CLI accepts:
// local files, URLs of lyric pages, and standard input.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Size limits to prevent memory overload. Lyric documents are small; these
// bounds mainly guard against pointing the tool at the wrong file or URL.
const (
	MaxFileSizeBytes = 10 * 1024 * 1024 // 10MB limit for files
	MaxHTTPSizeBytes = 20 * 1024 * 1024 // 20MB limit for HTTP content (may not have Content-Length)
)

// HTTP client timeout configuration; currently set to reasonable defaults
const HTTPRequestTimeout = 30 * time.Second

// specific timeout thresholds (based on HTTPRequestTimeout)
var (
	HTTPDialTimeout           = HTTPRequestTimeout / 6 // ~17%, max time to wait for network connection
	HTTPTLSTimeout            = HTTPRequestTimeout / 6 // ~17%, max time to wait for TLS handshake
	HTTPResponseHeaderTimeout = HTTPRequestTimeout / 2 // 50%, max time for response headers (usually the longest phase)
)

// limitedReadCloser wraps an io.ReadCloser to enforce size limits
type limitedReadCloser struct {
	io.ReadCloser
	N      int64  // max bytes remaining
	source string // for error messages
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	if l.N <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.N {
		p = p[0:l.N]
	}
	n, err = l.ReadCloser.Read(p)
	l.N -= int64(n)
	return
}

// httpClient is a shared HTTP client with appropriate timeouts to prevent
// indefinite hangs. Safe for concurrent use across multiple goroutines.
var httpClient = &http.Client{
	Timeout: HTTPRequestTimeout,
	Transport: &http.Transport{
		Dial: (&net.Dialer{
			Timeout: HTTPDialTimeout,
		}).Dial,
		TLSHandshakeTimeout:   HTTPTLSTimeout,
		ResponseHeaderTimeout: HTTPResponseHeaderTimeout,
		// disable keep-alives to avoid connection reuse issues
		DisableKeepAlives: true,
	},
}

// GetContent retrieves lyric content from a source and returns an
// io.ReadCloser. Three source types are supported:
//   - "-" reads from standard input
//   - URLs starting with "http://" or "https://" are fetched via HTTP
//   - everything else is treated as a local file path
//
// ctx allows for cancellation and timeout control of fetch operations.
func GetContent(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "-":
		// wrap stdin with a size limit; useful for piping lyrics in
		return &limitedReadCloser{
			ReadCloser: os.Stdin,
			N:          MaxFileSizeBytes,
			source:     "stdin",
		}, nil
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return fetchURL(ctx, source)
	default:
		return fetchFile(source)
	}
}

// GetText retrieves a source and returns its full content as a string.
func GetText(ctx context.Context, source string) (string, error) {
	reader, err := GetContent(ctx, source)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read content from %q: %w", source, err)
	}
	return string(data), nil
}

// fetchURL retrieves content from an HTTP or HTTPS URL using a client with
// timeout configuration.
func fetchURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "cadence/0.1")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %d %s", url, resp.StatusCode, resp.Status)
	}

	// check content-length header if present to prevent memory overload
	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil {
			if size > MaxHTTPSizeBytes {
				resp.Body.Close()
				return nil, fmt.Errorf("HTTP content too large (%d bytes > %d bytes limit)",
					size, MaxHTTPSizeBytes)
			}
		}
	}

	// for HTTP content without Content-Length, enforce the limit while reading
	return &limitedReadCloser{
		ReadCloser: resp.Body,
		N:          MaxHTTPSizeBytes,
		source:     url,
	}, nil
}

// fetchFile opens a local file for reading with better error messages.
func fetchFile(path string) (io.ReadCloser, error) {
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}

	// check file size before opening to prevent memory overload
	if fileInfo.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)",
			path, fileInfo.Size(), MaxFileSizeBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	return file, nil
}
