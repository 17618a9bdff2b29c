package engine

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/flacsync/internal/locator"
	"github.com/handiism/flacsync/internal/model"
)

// Level indicates the severity of a progress event.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// Event is one progress update: which track (1-indexed) out of how many,
// and a human-readable outcome. Events are observational only.
type Event struct {
	Index   int
	Total   int
	Message string
	Level   Level
}

// Observer receives progress events. Calls are serialized.
type Observer func(Event)

// Downloader fetches a track to the desired destination path, returning the
// path actually written and the byte count.
type Downloader interface {
	Fetch(ctx context.Context, t *model.Track, dest string) (string, int64, error)
}

// TransientChecker reports whether a download error is worth retrying.
// The download package's IsTransient satisfies this.
type TransientChecker func(error) bool

// LyricsSource fetches lyrics for a catalog track id.
type LyricsSource interface {
	Lyrics(ctx context.Context, trackID string) (string, error)
}

// Tagger writes metadata into downloaded files.
type Tagger interface {
	WriteTrackTags(path string, t *model.Track) error
	EmbedLyrics(path, lyrics string) error
}

// Options are the per-run knobs.
type Options struct {
	// CheckOnly reconciles and reports without ever invoking the downloader.
	CheckOnly bool

	// MaxRetries bounds download attempts per track.
	MaxRetries int

	// RetryCooldown is the base backoff in seconds; each retry waits
	// cooldown * exponent^attempt.
	RetryCooldown float64
	RetryExponent float64

	// Workers bounds concurrent track reconciliations.
	Workers int

	// WriteTags rewrites metadata frames on downloaded files.
	WriteTags bool

	// EmbedLyrics fetches and embeds lyrics after a successful download.
	EmbedLyrics bool
}

// Config wires an Engine.
type Config struct {
	Locator     *locator.Locator
	Downloader  Downloader
	IsTransient TransientChecker
	Lyrics      LyricsSource
	Tagger      Tagger
	Observer    Observer
	Logger      *log.Logger
	Options     Options
}

// Engine drives per-track reconciliation.
type Engine struct {
	locator     *locator.Locator
	downloader  Downloader
	isTransient TransientChecker
	lyrics      LyricsSource
	tagger      Tagger
	observer    Observer
	logger      *log.Logger
	opts        Options

	mu sync.Mutex // serializes observer calls
}

// New creates an Engine. Zero option values get the usual defaults.
func New(cfg Config) *Engine {
	opts := cfg.Options
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 7
	}
	if opts.RetryCooldown <= 0 {
		opts.RetryCooldown = 0.2
	}
	if opts.RetryExponent <= 0 {
		opts.RetryExponent = 4.0
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	isTransient := cfg.IsTransient
	if isTransient == nil {
		isTransient = func(error) bool { return false }
	}

	return &Engine{
		locator:     cfg.Locator,
		downloader:  cfg.Downloader,
		isTransient: isTransient,
		lyrics:      cfg.Lyrics,
		tagger:      cfg.Tagger,
		observer:    cfg.Observer,
		logger:      logger,
		opts:        opts,
	}
}

// Run reconciles every track to a terminal state. Tracks run on parallel
// workers; each worker owns its own track's state. The returned Summary
// counts tracks per terminal state. The error is non-nil only when the
// context was cancelled; per-track download failures are terminal states,
// not run errors.
func (e *Engine) Run(ctx context.Context, tracks []*model.Track) (Summary, error) {
	total := len(tracks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for i, t := range tracks {
		j := &job{track: t, index: i, position: i + 1, total: total}
		g.Go(func() error {
			return e.reconcile(gctx, j)
		})
	}

	err := g.Wait()
	summary := Summarize(tracks)
	e.logger.Info("run finished",
		"total", summary.Total,
		"found", summary.FoundExact,
		"found_by_identifier", summary.FoundByIdentifier,
		"downloaded", summary.Downloaded,
		"missing", summary.Missing,
		"failed", summary.Failed,
	)
	return summary, err
}

// job is the per-track unit of work. position is 1-indexed and doubles as
// the fallback track number for formatting.
type job struct {
	track    *model.Track
	index    int
	position int
	total    int
}

func (e *Engine) event(j *job, level Level, format string, args ...any) {
	if e.observer == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer(Event{
		Index:   j.position,
		Total:   j.total,
		Message: fmt.Sprintf(format, args...),
		Level:   level,
	})
}

func (e *Engine) waitForRetry(ctx context.Context, tries int) {
	cooldown := e.opts.RetryCooldown * math.Pow(e.opts.RetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

// Summary aggregates terminal states at the end of a run.
type Summary struct {
	Total             int
	FoundExact        int
	FoundByIdentifier int
	Downloaded        int
	Missing           int
	Failed            int
	Pending           int
}

// Resolved is the number of tracks with an on-disk file.
func (s Summary) Resolved() int {
	return s.FoundExact + s.FoundByIdentifier + s.Downloaded
}

// Summarize counts tracks per resolution state.
func Summarize(tracks []*model.Track) Summary {
	s := Summary{Total: len(tracks)}
	for _, t := range tracks {
		switch t.Resolution().Status {
		case model.StatusFoundExact:
			s.FoundExact++
		case model.StatusFoundByIdentifier:
			s.FoundByIdentifier++
		case model.StatusDownloaded:
			s.Downloaded++
		case model.StatusMissing:
			s.Missing++
		case model.StatusFailed:
			s.Failed++
		default:
			s.Pending++
		}
	}
	return s
}
