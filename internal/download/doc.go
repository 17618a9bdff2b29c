// Package download fetches audio files from streaming providers.
//
// A Client streams one provider's copy of a recording, looked up by content
// identifier, to a destination path. A Chain tries configured providers in
// order and returns the first success.
//
// Errors carry a Transient flag so callers can decide whether a retry is
// worthwhile: server errors, rate limits, and network timeouts are transient;
// a missing identifier or a 4xx response is not.
package download
