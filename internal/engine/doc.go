// Package engine reconciles requested tracks against the local collection
// and downloads whatever is genuinely missing.
//
// Each track passes through a fixed sequence of phases:
//
//	ExactCheck -> IdentifierScan -> CheckOnlyGate -> Download -> Finalize
//
// The order is structural: phases live in a package-level ordered list
// evaluated by a single driver, so the identifier scan always runs before
// the check-only gate may declare a track missing. Reordering those two is
// exactly the regression that once made renamed-but-present files report as
// absent.
//
// Tracks reconcile independently on a bounded worker pool. Each worker owns
// its track's resolution state; a track that fails to download never stops
// the others. Progress is reported through a caller-supplied observer and
// is never fed back into the engine's decisions.
package engine
