package model

// Kind distinguishes the catalog reference a collection came from.
type Kind int

const (
	KindTrack Kind = iota
	KindAlbum
	KindPlaylist
)

// String returns the catalog path segment for the kind.
func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindAlbum:
		return "album"
	case KindPlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// Collection is an ordered set of tracks resolved from one catalog
// reference. Track order is the catalog order and must be preserved all the
// way into the playlist artifact.
type Collection struct {
	Kind   Kind
	Name   string
	Tracks []*Track
}
