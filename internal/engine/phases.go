package engine

import (
	"context"
	"path/filepath"

	"github.com/handiism/flacsync/internal/fsutil"
	"github.com/handiism/flacsync/internal/locator"
	"github.com/handiism/flacsync/internal/model"
)

// phase is one step of the per-track state machine. A phase returning
// terminal=true ends resolution; phases marked always still run afterwards.
type phase struct {
	name   string
	always bool
	run    func(*Engine, context.Context, *job) (terminal bool, err error)
}

// phaseOrder is the reconciliation state machine. The order is a correctness
// invariant, not a style choice: the identifier scan MUST run before the
// check-only gate, or tracks that exist under a different filename get
// reported as missing. Every track passes through this exact list.
var phaseOrder = []phase{
	{name: "exact-check", run: (*Engine).exactCheck},
	{name: "identifier-scan", run: (*Engine).identifierScan},
	{name: "check-only-gate", run: (*Engine).checkOnlyGate},
	{name: "download", run: (*Engine).download},
	{name: "finalize", always: true, run: (*Engine).finalize},
}

// reconcile drives one track through phaseOrder. Only context cancellation
// propagates as an error; everything else becomes a terminal track state.
func (e *Engine) reconcile(ctx context.Context, j *job) error {
	if e.opts.CheckOnly {
		e.event(j, LevelVerbose, "checking: %s - %s", j.track.Title, j.track.Artists)
	} else {
		e.event(j, LevelVerbose, "processing: %s - %s", j.track.Title, j.track.Artists)
	}

	terminal := false
	for _, p := range phaseOrder {
		if terminal && !p.always {
			continue
		}
		done, err := p.run(e, ctx, j)
		if err != nil {
			return err
		}
		if done {
			terminal = true
		}
	}
	return nil
}

func (e *Engine) exactCheck(_ context.Context, j *job) (bool, error) {
	m := e.locator.LocateExact(j.track, j.position)
	if m.Kind != locator.MatchExact {
		return false, nil
	}
	if err := j.track.MarkFoundExact(m.Path); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) identifierScan(_ context.Context, j *job) (bool, error) {
	m := e.locator.LocateByIdentifier(j.track)
	if m.Kind != locator.MatchByIdentifier {
		return false, nil
	}
	if err := j.track.MarkFoundByIdentifier(m.Path); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) checkOnlyGate(_ context.Context, j *job) (bool, error) {
	if !e.opts.CheckOnly {
		return false, nil
	}
	if err := j.track.MarkMissing(); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) download(ctx context.Context, j *job) (bool, error) {
	dest := e.locator.ExpectedPath(j.track, j.position)
	if err := fsutil.EnsureDir(filepath.Dir(dest)); err != nil {
		e.event(j, LevelError, "cannot create directory for %s: %v", j.track.Title, err)
		return true, j.track.MarkFailed(err)
	}

	var (
		written string
		err     error
	)
	for attempt := 0; ; attempt++ {
		written, _, err = e.downloader.Fetch(ctx, j.track, dest)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if !e.isTransient(err) || attempt+1 >= e.opts.MaxRetries {
			e.logger.Warn("download failed", "track", j.track.Title, "attempts", attempt+1, "err", err)
			e.event(j, LevelError, "download failed for %s: %v", j.track.Title, err)
			return true, j.track.MarkFailed(err)
		}
		e.event(j, LevelWarning, "retry %d/%d for %s: %v", attempt+1, e.opts.MaxRetries, j.track.Title, err)
		e.waitForRetry(ctx, attempt)
	}

	if err := j.track.MarkDownloaded(written); err != nil {
		return false, err
	}
	e.afterDownload(ctx, j, written)
	return true, nil
}

// afterDownload applies optional post-processing to a freshly downloaded
// file. Failures here are warnings; the track stays Downloaded.
func (e *Engine) afterDownload(ctx context.Context, j *job, path string) {
	if e.tagger == nil {
		return
	}

	if e.opts.WriteTags {
		if err := e.tagger.WriteTrackTags(path, j.track); err != nil {
			e.event(j, LevelWarning, "tagging failed for %s: %v", j.track.Title, err)
		}
	}

	if e.opts.EmbedLyrics && e.lyrics != nil {
		lyrics, err := e.lyrics.Lyrics(ctx, j.track.ID)
		if err != nil {
			e.event(j, LevelWarning, "no lyrics for %s: %v", j.track.Title, err)
			return
		}
		j.track.Lyrics = lyrics
		if err := e.tagger.EmbedLyrics(path, lyrics); err != nil {
			e.event(j, LevelWarning, "embedding lyrics failed for %s: %v", j.track.Title, err)
		}
	}
}

// finalize emits the per-track outcome event. It consumes the terminal
// state; nothing downstream reads the event stream.
func (e *Engine) finalize(_ context.Context, j *job) (bool, error) {
	r := j.track.Resolution()
	switch r.Status {
	case model.StatusFoundExact:
		e.event(j, LevelInfo, "found: %s", filepath.Base(r.Path))
	case model.StatusFoundByIdentifier:
		e.event(j, LevelInfo, "found by identifier: %s", filepath.Base(r.Path))
	case model.StatusDownloaded:
		e.event(j, LevelSuccess, "downloaded: %s", filepath.Base(r.Path))
	case model.StatusMissing:
		e.event(j, LevelWarning, "missing: %s - %s", j.track.Title, j.track.Artists)
	case model.StatusFailed:
		e.event(j, LevelError, "failed: %s - %s: %v", j.track.Title, j.track.Artists, r.Reason)
	default:
		e.event(j, LevelVerbose, "pending: %s - %s", j.track.Title, j.track.Artists)
	}
	return false, nil
}
