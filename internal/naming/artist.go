package naming

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/handiism/flacsync/internal/model"
)

// artistSeparators are the joiners catalogs use for multi-artist credits.
var artistSeparators = []string{", ", " feat. ", " ft. ", " featuring ", " & ", " and "}

var parenthetical = regexp.MustCompile(`\(([^)]+)\)`)

// Normalize applies NFKC normalization so visually equivalent Unicode
// spellings compare equal.
func Normalize(s string) string {
	return norm.NFKC.String(s)
}

// ArtistVariations returns the name variations to try when matching artist
// directories, most specific first:
//
//	[0] the full artist string
//	[1] parenthetical content when present ("Olly Alexander (Years & Years)"
//	    -> "Years & Years"), otherwise the first artist of a separator split
//	[2+] remaining variations (before-paren content, other split artists)
func ArtistVariations(artists string) []string {
	if artists == "" {
		return nil
	}
	artists = Normalize(artists)

	variations := []string{artists}

	if m := parenthetical.FindStringSubmatchIndex(artists); m != nil {
		inner := strings.TrimSpace(artists[m[2]:m[3]])
		if inner != "" {
			variations = append(variations, inner)
		}
		before := strings.TrimSpace(artists[:m[0]])
		if before != "" {
			variations = append(variations, before)
		}
	}

	// Separators inside parentheses ("(Years & Years)") are not credits,
	// so the split works on the string with parentheticals removed.
	base := strings.TrimSpace(parenthetical.ReplaceAllString(artists, ""))
	for _, sep := range artistSeparators {
		if !strings.Contains(base, sep) {
			continue
		}
		for _, part := range strings.Split(base, sep) {
			part = strings.TrimSpace(part)
			if part != "" && !slices.Contains(variations, part) {
				variations = append(variations, part)
			}
		}
		// Only the first matching separator is used.
		break
	}

	return variations
}

// ArtistFolder derives the folder name for a track's artist. Variation [1]
// gives the most natural folder ("Years & Years" for a parenthetical credit,
// the first artist for a multi-artist credit); single-name artists keep the
// full string.
func ArtistFolder(artists string) string {
	variations := ArtistVariations(artists)
	switch {
	case len(variations) > 1:
		return variations[1]
	case len(variations) == 1:
		return variations[0]
	default:
		return "Unknown Artist"
	}
}

// DetectCompilations reports, per album title, whether the album's tracks
// carry more than one distinct artist string — a compilation that belongs in
// the Various Artists folder rather than any single artist's.
func DetectCompilations(tracks []*model.Track) map[string]bool {
	artists := make(map[string]map[string]struct{})
	for _, t := range tracks {
		if t.Album == "" {
			continue
		}
		a := strings.TrimSpace(t.Artists)
		if a == "" {
			continue
		}
		set := artists[t.Album]
		if set == nil {
			set = make(map[string]struct{})
			artists[t.Album] = set
		}
		set[a] = struct{}{}
	}

	compilations := make(map[string]bool, len(artists))
	for album, set := range artists {
		compilations[album] = len(set) > 1
	}
	return compilations
}
