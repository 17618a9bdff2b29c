package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/handiism/flacsync/internal/model"
)

// Layout controls which subfolders are prepended to track filenames.
type Layout struct {
	// ArtistFolders places tracks under a folder derived from the artist.
	ArtistFolders bool

	// AlbumFolders places tracks under a folder named after the album.
	AlbumFolders bool
}

// Enabled reports whether any subfolder level is active.
func (l Layout) Enabled() bool {
	return l.ArtistFolders || l.AlbumFolders
}

// VariousArtistsFolder is the folder used for compilation albums when both
// subfolder levels are enabled.
const VariousArtistsFolder = "Various Artists"

// Formatter renders track metadata into a relative file path.
type Formatter struct {
	template     string
	ext          string
	layout       Layout
	compilations map[string]bool
}

// NewFormatter creates a Formatter. ext is appended when the rendered name
// does not already end with it ("" defaults to ".flac"). compilations maps
// album titles to whether they are compilation albums (see
// DetectCompilations); nil disables Various Artists folding.
func NewFormatter(template, ext string, layout Layout, compilations map[string]bool) *Formatter {
	if template == "" {
		template = "{title} - {artist}"
	}
	if ext == "" {
		ext = ".flac"
	}
	return &Formatter{
		template:     template,
		ext:          ext,
		layout:       layout,
		compilations: compilations,
	}
}

// Layout returns the formatter's subfolder configuration.
func (f *Formatter) Layout() Layout {
	return f.layout
}

// Format returns the expected relative path for the track. position is the
// 1-indexed position within the requested collection, used when the track
// carries no album track number. The result is deterministic: identical
// inputs yield byte-identical paths.
func (f *Formatter) Format(t *model.Track, position int) string {
	name := f.FileName(t, position)
	dir := f.Dir(t)
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// Dir returns the relative directory for a track given the layout, or ""
// for a flat layout.
func (f *Formatter) Dir(t *model.Track) string {
	var parts []string
	if f.layout.ArtistFolders {
		folder := ArtistFolder(t.Artists)
		if f.layout.AlbumFolders && f.compilations[t.Album] {
			folder = VariousArtistsFolder
		}
		parts = append(parts, SanitizeFileName(folder))
	}
	if f.layout.AlbumFolders {
		parts = append(parts, SanitizeFileName(t.Album))
	}
	return filepath.Join(parts...)
}

// FileName renders just the filename portion of the expected path.
func (f *Formatter) FileName(t *model.Track, position int) string {
	year := t.ReleaseDate
	if i := strings.Index(t.ReleaseDate, "-"); i >= 0 {
		year = t.ReleaseDate[:i]
	}

	duration := ""
	if t.DurationMS > 0 {
		total := t.DurationMS / 1000
		duration = fmt.Sprintf("%02d.%02d", total/60, total%60)
	}

	num := t.Number
	if num <= 0 {
		num = position
	}

	replacements := []struct{ key, value string }{
		{"title", SanitizeFileName(t.Title)},
		{"artist", SanitizeFileName(t.Artists)},
		{"album", SanitizeFileName(t.Album)},
		{"track_number", fmt.Sprintf("%02d", num)},
		{"track", fmt.Sprintf("%02d", num)},
		{"date", SanitizeFileName(t.ReleaseDate)},
		{"year", SanitizeFileName(year)},
		{"position", fmt.Sprintf("%02d", position)},
		{"isrc", SanitizeFileName(t.ISRC)},
		{"duration", duration},
	}

	name := f.template
	for _, r := range replacements {
		name = strings.ReplaceAll(name, "{"+r.key+"}", r.value)
	}

	if !strings.HasSuffix(strings.ToLower(name), f.ext) {
		name += f.ext
	}

	return collapseWhitespace(name)
}

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*` + "\x00-\x1f" + `]`)
	trailingDots = regexp.MustCompile(`\.+$`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// SanitizeFileName replaces characters that are invalid in file or folder
// names. Path separators, reserved punctuation and control characters become
// underscores, trailing dots are stripped, and whitespace runs collapse to a
// single space. The same logical name always sanitizes the same way.
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}
