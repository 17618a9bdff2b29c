package locator

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/handiism/flacsync/internal/model"
	"github.com/handiism/flacsync/internal/naming"
	"github.com/handiism/flacsync/internal/tags"
)

// MatchKind says how a track was matched to an existing file.
type MatchKind int

const (
	// MatchNone means no existing file represents the track.
	MatchNone MatchKind = iota

	// MatchExact means a nonzero-size file exists at the expected path.
	MatchExact

	// MatchByIdentifier means a file embedding the track's content
	// identifier exists under a different name.
	MatchByIdentifier
)

// Match is the locator result. Path is set unless Kind is MatchNone.
type Match struct {
	Kind MatchKind
	Path string
}

// audioExts are the file types the identifier scan inspects.
var audioExts = []string{".flac", ".mp3", ".m4a", ".ogg"}

// compilationFolders are well-known directory names for multi-artist
// releases, always included in the candidate set.
var compilationFolders = []string{"Various Artists", "Compilations", "VA", "Compilation"}

// Locator matches requested tracks against files under a base directory.
// One Locator is shared by all workers of a run; its directory-listing
// cache is safe for concurrent use.
type Locator struct {
	base      string
	formatter *naming.Formatter
	reader    tags.Reader
	cache     *dirCache
}

// New creates a Locator rooted at base.
func New(base string, formatter *naming.Formatter, reader tags.Reader) *Locator {
	return &Locator{
		base:      base,
		formatter: formatter,
		reader:    reader,
		cache:     newDirCache(),
	}
}

// ExpectedPath returns the absolute path the formatter predicts for the
// track.
func (l *Locator) ExpectedPath(t *model.Track, position int) string {
	return filepath.Join(l.base, l.formatter.Format(t, position))
}

// LocateExact checks the expected path. A file there with nonzero size is
// an exact match; anything else, including stat errors, is MatchNone.
func (l *Locator) LocateExact(t *model.Track, position int) Match {
	path := l.ExpectedPath(t, position)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return Match{Kind: MatchNone}
	}
	return Match{Kind: MatchExact, Path: path}
}

// LocateByIdentifier scans the candidate directories for an audio file
// whose embedded identifier equals the track's. The scan only runs when the
// track has an identifier and subfolder layout is enabled. The first match
// in directory-listing order wins.
func (l *Locator) LocateByIdentifier(t *model.Track) Match {
	if t.ISRC == "" || !l.formatter.Layout().Enabled() {
		return Match{Kind: MatchNone}
	}

	for _, dir := range l.candidateDirs(t) {
		for _, entry := range l.cache.list(dir) {
			if entry.IsDir() || !isAudioFile(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if isrc, ok := l.reader.ReadContentID(path); ok && isrc == t.ISRC {
				return Match{Kind: MatchByIdentifier, Path: path}
			}
		}
	}
	return Match{Kind: MatchNone}
}

// Locate runs the exact check then the identifier scan; callers that need
// the phases separately use LocateExact and LocateByIdentifier directly.
func (l *Locator) Locate(t *model.Track, position int) Match {
	if m := l.LocateExact(t, position); m.Kind != MatchNone {
		return m
	}
	return l.LocateByIdentifier(t)
}

// candidateDirs builds the bounded directory set for the identifier scan:
// the base directory, directories matching any artist-name variation plus
// their immediate subdirectories, and compilation folders with theirs.
func (l *Locator) candidateDirs(t *model.Track) []string {
	dirs := []string{l.base}
	seen := map[string]struct{}{l.base: {}}

	add := func(dir string) {
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}

	addWithChildren := func(dir string) {
		add(dir)
		for _, sub := range l.cache.list(dir) {
			if sub.IsDir() {
				add(filepath.Join(dir, sub.Name()))
			}
		}
	}

	variations := naming.ArtistVariations(t.Artists)
	for _, entry := range l.cache.list(l.base) {
		if !entry.IsDir() {
			continue
		}
		for _, variation := range variations {
			if dirNameMatches(entry.Name(), variation) {
				addWithChildren(filepath.Join(l.base, entry.Name()))
				break
			}
		}
	}

	for _, folder := range compilationFolders {
		dir := filepath.Join(l.base, folder)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			addWithChildren(dir)
		}
	}

	return dirs
}

// dirNameMatches reports whether a directory name refers to the artist
// variation: every word of the variation must appear as a whole word in the
// name, with dots, hyphens and underscores treated as interchangeable
// separators ("DJ Shadow" matches "dj_shadow", "R.A.D." matches "R-A-D").
func dirNameMatches(name, variation string) bool {
	varWords := foldWords(variation)
	if len(varWords) == 0 {
		return false
	}
	nameWords := foldWords(name)
	for _, word := range varWords {
		if !slices.Contains(nameWords, word) {
			return false
		}
	}
	return true
}

// foldWords normalizes a name for comparison: NFKC normalization,
// lowercasing, and separator characters collapsed to word breaks.
func foldWords(s string) []string {
	s = strings.ToLower(naming.Normalize(s))
	s = strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', '_':
			return ' '
		default:
			return r
		}
	}, s)
	return strings.Fields(s)
}

func isAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return slices.Contains(audioExts, ext)
}
