// Package catalog resolves track, album, and playlist references into
// ordered track lists.
//
// A reference is either a streaming-service URL ("https://open.spotify.com/
// album/1DFixLWuPkv3KT3TnV35m3") or a compact "kind:id" form ("album:1DFi...").
// Lookup fetches the metadata from a catalog proxy over HTTP and returns a
// Collection preserving the service's track order.
package catalog
