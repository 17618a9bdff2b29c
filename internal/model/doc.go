// Package model defines the core data types shared across the application:
// tracks, their resolution states, and track collections.
//
// # Resolution states
//
// Every Track carries a single tagged resolution state instead of separate
// boolean flags and path strings. A track starts Pending and reaches exactly
// one terminal state per run:
//
//	Pending            -> not yet reconciled
//	FoundExact         -> file exists at the expected path
//	FoundByIdentifier  -> file found under a different name via its
//	                      embedded content identifier
//	Downloaded         -> file was fetched from a download provider
//	Missing            -> check-only run and no file was found
//	Failed             -> all download attempts failed
//
// A resolved path is present if and only if the state is FoundExact,
// FoundByIdentifier, or Downloaded. Terminal states are write-once: the
// Mark* methods return ErrAlreadyResolved on any second attempt.
package model
