package model

import (
	"errors"
	"fmt"
)

// ErrAlreadyResolved is returned by the Mark* methods when a track already
// has a terminal resolution state.
var ErrAlreadyResolved = errors.New("track resolution already set")

// Status identifies a track's resolution state.
type Status int

const (
	// StatusPending means the track has not been reconciled yet.
	StatusPending Status = iota

	// StatusFoundExact means a nonzero-size file exists at the expected path.
	StatusFoundExact

	// StatusFoundByIdentifier means a file with the track's content
	// identifier was found under a different name.
	StatusFoundByIdentifier

	// StatusDownloaded means the track was fetched from a download provider.
	StatusDownloaded

	// StatusMissing means a check-only run found no file for the track.
	StatusMissing

	// StatusFailed means every download attempt for the track failed.
	StatusFailed
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFoundExact:
		return "found"
	case StatusFoundByIdentifier:
		return "found by identifier"
	case StatusDownloaded:
		return "downloaded"
	case StatusMissing:
		return "missing"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether the status is a terminal resolution state.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// Resolution is the tagged resolution variant for a track. Path is set only
// for FoundExact, FoundByIdentifier, and Downloaded; Reason only for Failed.
type Resolution struct {
	Status Status
	Path   string
	Reason error
}

// Track is one requested recording from a catalog album or playlist.
type Track struct {
	// ID is the catalog identifier of the track.
	ID string

	// Title is the track title.
	Title string

	// Artists is the full artist string as the catalog reports it,
	// e.g. "DJ Shadow, Cut Chemist".
	Artists string

	// Album is the album title.
	Album string

	// Number is the 1-indexed track number within its album, or 0 when the
	// catalog does not report one.
	Number int

	// DurationMS is the track length in milliseconds (0 when unknown).
	DurationMS int

	// ReleaseDate is the release date as reported by the catalog,
	// typically "2006-01-02" or just "2006".
	ReleaseDate string

	// ISRC is the content identifier embedded in the recording's metadata,
	// empty when the catalog has none. It identifies the specific recording
	// independent of filename, but duplicate recordings (compilations,
	// re-releases) can carry the same code across a collection.
	ISRC string

	// Lyrics holds the song lyrics when fetched, empty otherwise.
	Lyrics string

	resolution Resolution
}

// Resolution returns the track's current resolution state.
func (t *Track) Resolution() Resolution {
	return t.resolution
}

// ResolvedPath returns the on-disk path for the track and true when the
// track reached a state that carries one.
func (t *Track) ResolvedPath() (string, bool) {
	switch t.resolution.Status {
	case StatusFoundExact, StatusFoundByIdentifier, StatusDownloaded:
		return t.resolution.Path, true
	default:
		return "", false
	}
}

// MarkFoundExact records that a file exists at the expected path.
func (t *Track) MarkFoundExact(path string) error {
	return t.resolve(Resolution{Status: StatusFoundExact, Path: path})
}

// MarkFoundByIdentifier records that a file carrying the track's content
// identifier was found at path.
func (t *Track) MarkFoundByIdentifier(path string) error {
	return t.resolve(Resolution{Status: StatusFoundByIdentifier, Path: path})
}

// MarkDownloaded records the path the download provider actually wrote.
func (t *Track) MarkDownloaded(path string) error {
	return t.resolve(Resolution{Status: StatusDownloaded, Path: path})
}

// MarkMissing records that no file was found during a check-only run.
func (t *Track) MarkMissing() error {
	return t.resolve(Resolution{Status: StatusMissing})
}

// MarkFailed records that every download attempt failed.
func (t *Track) MarkFailed(reason error) error {
	return t.resolve(Resolution{Status: StatusFailed, Reason: reason})
}

// resolve enforces the write-once invariant and the path/state coupling.
func (t *Track) resolve(r Resolution) error {
	if t.resolution.Status.Terminal() {
		return fmt.Errorf("%w: %s", ErrAlreadyResolved, t.resolution.Status)
	}
	switch r.Status {
	case StatusFoundExact, StatusFoundByIdentifier, StatusDownloaded:
		if r.Path == "" {
			return fmt.Errorf("state %s requires a resolved path", r.Status)
		}
	case StatusMissing, StatusFailed:
		if r.Path != "" {
			return fmt.Errorf("state %s must not carry a path", r.Status)
		}
	}
	t.resolution = r
	return nil
}
