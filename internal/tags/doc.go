// Package tags reads and writes embedded audio metadata.
//
// The Reader extracts the content identifier (ISRC) embedded in a file's
// metadata. It never fails on malformed or tag-less files — the identifier
// is simply reported as absent — because the locator treats unreadable
// candidates as non-matches, not errors.
//
// The Tagger writes metadata into downloaded MP3 files (title, artist,
// album, track number, lyrics) using the id3v2 library. Files in formats
// the tagger does not handle are left untouched.
package tags
