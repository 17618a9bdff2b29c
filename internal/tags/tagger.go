package tags

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/handiism/flacsync/internal/model"
)

// Tagger writes track metadata into downloaded files. Only MP3 files are
// modified; other formats are left as the provider delivered them.
type Tagger struct{}

// NewTagger creates a Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// WriteTrackTags updates the file's title, artist, album and track number
// frames from the track metadata. Non-MP3 files are a no-op.
func (tg *Tagger) WriteTrackTags(path string, t *model.Track) error {
	if !isMP3(path) {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags for %s: %w", filepath.Base(path), err)
	}
	defer tag.Close()

	tag.SetTitle(t.Title)
	tag.SetArtist(t.Artists)
	tag.SetAlbum(t.Album)
	if t.Number > 0 {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d", t.Number))
	}
	if year := releaseYear(t.ReleaseDate); year != "" {
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, year)
	}

	return tag.Save()
}

// EmbedLyrics writes lyrics into the file's unsynchronised lyrics frame.
// Non-MP3 files and empty lyrics are a no-op.
func (tg *Tagger) EmbedLyrics(path, lyrics string) error {
	if lyrics == "" || !isMP3(path) {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags for %s: %w", filepath.Base(path), err)
	}
	defer tag.Close()

	tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
		Encoding:          id3v2.EncodingUTF8,
		Language:          "eng",
		ContentDescriptor: "",
		Lyrics:            lyrics,
	})

	return tag.Save()
}

func isMP3(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}

func releaseYear(date string) string {
	if date == "" {
		return ""
	}
	if i := strings.Index(date, "-"); i >= 0 {
		return date[:i]
	}
	return date
}
