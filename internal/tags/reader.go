package tags

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// Reader reports the content identifier embedded in an audio file.
type Reader interface {
	// ReadContentID returns the embedded identifier and true when the file
	// carries one. Unreadable, malformed, and tag-less files all report
	// ("", false) — never an error.
	ReadContentID(path string) (string, bool)
}

// isrcKeys are the raw tag keys that carry an ISRC across formats: Vorbis
// comments (FLAC/Ogg), ID3v2 TSRC frames, and MP4 atoms.
var isrcKeys = []string{"ISRC", "isrc", "TSRC", "----:com.apple.iTunes:ISRC"}

// FileReader reads identifiers from real files.
type FileReader struct{}

// NewFileReader returns a Reader backed by the file's embedded metadata.
func NewFileReader() FileReader {
	return FileReader{}
}

// ReadContentID implements Reader.
func (FileReader) ReadContentID(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return "", false
	}

	raw := meta.Raw()
	for _, key := range isrcKeys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if isrc := stringValue(value); isrc != "" {
			return isrc, true
		}
	}
	return "", false
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []byte:
		return strings.TrimSpace(string(s))
	case fmt.Stringer:
		return strings.TrimSpace(s.String())
	default:
		return ""
	}
}
