// Package locator finds files that already represent a requested track.
//
// Matching runs in a fixed order: first the exact expected path from the
// filename formatter, then — when the track carries a content identifier and
// subfolder layout is enabled — a scan of a bounded candidate directory set
// for a file embedding the same identifier. The candidate set is the base
// directory, directories whose names match the track's artist (including
// their immediate subdirectories), and well-known compilation folders; the
// locator never walks the whole filesystem.
//
// Content identifiers are unique per recording but not across a collection:
// duplicate recordings in one directory are resolved by taking the first
// match in directory-listing order. That tie-break is deliberate, documented
// behavior carried over from the upstream tool.
//
// I/O failures while listing a directory or reading a candidate's tags count
// as a non-match for that candidate only; they never abort the scan. "Not
// found" is a result value, not an error.
package locator
