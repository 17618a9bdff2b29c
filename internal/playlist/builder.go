package playlist

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/flacsync/internal/fsutil"
	"github.com/handiism/flacsync/internal/model"
)

// Policy decides what happens when some tracks never resolved to a file.
type Policy int

const (
	// Strict writes nothing unless every track resolved.
	Strict Policy = iota

	// Lenient writes the resolved subset and skips the rest.
	Lenient
)

// Options configure playlist output.
type Options struct {
	Policy Policy

	// Extended emits the #EXTM3U header and per-entry #EXTINF lines.
	Extended bool

	// Absolute keeps absolute entry paths instead of making them relative
	// to the playlist's directory.
	Absolute bool
}

// IncompleteError reports a strict build that found unresolved tracks.
type IncompleteError struct {
	Missing int
	Total   int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("playlist incomplete: %d of %d tracks unresolved", e.Missing, e.Total)
}

// Report describes what a build wrote.
type Report struct {
	Total   int
	Written int
	Missing int
	Path    string
}

// Builder renders playlists.
type Builder struct {
	opts Options
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Build writes a playlist for tracks to outputPath. Entries appear in input
// order. Under the strict policy any unresolved track aborts the build
// before anything touches disk.
func (b *Builder) Build(tracks []*model.Track, outputPath string) (Report, error) {
	report := Report{Total: len(tracks), Path: outputPath}

	type entry struct {
		path  string
		track *model.Track
	}
	entries := make([]entry, 0, len(tracks))
	for _, t := range tracks {
		path, ok := t.ResolvedPath()
		if !ok {
			report.Missing++
			continue
		}
		entries = append(entries, entry{path: path, track: t})
	}

	if b.opts.Policy == Strict && report.Missing > 0 {
		return report, &IncompleteError{Missing: report.Missing, Total: report.Total}
	}

	dir := filepath.Dir(outputPath)
	if err := fsutil.EnsureDir(dir); err != nil {
		return report, err
	}

	var sb strings.Builder
	if b.opts.Extended {
		sb.WriteString("#EXTM3U\n")
	}
	for _, e := range entries {
		p := e.path
		if !b.opts.Absolute {
			if rel, err := filepath.Rel(dir, e.path); err == nil {
				p = rel
			}
		}
		if b.opts.Extended {
			fmt.Fprintf(&sb, "#EXTINF:%d,%s - %s\n", e.track.DurationMS/1000, e.track.Artists, e.track.Title)
		}
		sb.WriteString(p)
		sb.WriteByte('\n')
	}

	if err := fsutil.WriteFileAtomic(outputPath, []byte(sb.String()), 0o644); err != nil {
		return report, err
	}
	report.Written = len(entries)
	return report, nil
}
