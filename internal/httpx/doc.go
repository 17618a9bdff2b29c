// Package httpx provides the HTTP client shared by the catalog and download
// providers.
//
// The Client handles:
//   - A stable User-Agent header
//   - Timeout handling
//   - JSON decoding of API responses
//   - Streaming file downloads written atomically (temp file then rename)
//
// Non-2xx responses surface as *StatusError so callers can classify them
// without string matching.
package httpx
