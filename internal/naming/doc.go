// Package naming computes the expected on-disk layout for tracks.
//
// The Formatter is a pure function from (track, template, layout) to a
// relative file path: identical inputs always produce byte-identical output.
// Every substituted field is sanitized for filesystem safety, which also
// means the mapping is not injective — two titles differing only in
// punctuation can collapse to the same filename. The locator's content
// identifier scan exists precisely because of that.
//
// Templates use the placeholders {title}, {artist}, {album}, {track},
// {track_number}, {position}, {date}, {year}, {isrc} and {duration}, e.g.
//
//	f := naming.NewFormatter("{title} - {artist}", ".flac", layout, nil)
//	f.Format(track, 3) // "Artist/Album/Song Title - Artist.flac"
package naming
