// Package playlist writes M3U/M3U8 playlists from reconciled tracks.
//
// Entries keep the input track order and reference the files tracks actually
// resolved to, not the paths a formatter would predict. The strict policy
// refuses to write anything when tracks are unresolved; lenient writes the
// resolved subset. Files are written atomically so a failed build never
// leaves a truncated playlist behind.
package playlist
