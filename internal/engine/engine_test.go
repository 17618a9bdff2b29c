package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/handiism/flacsync/internal/locator"
	"github.com/handiism/flacsync/internal/model"
	"github.com/handiism/flacsync/internal/naming"
)

type fakeDownloader struct {
	mu       sync.Mutex
	calls    int
	fetched  []string
	failures map[string][]error // per track ID, consumed in order
}

func (d *fakeDownloader) Fetch(_ context.Context, t *model.Track, dest string) (string, int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if errs := d.failures[t.ID]; len(errs) > 0 {
		err := errs[0]
		d.failures[t.ID] = errs[1:]
		return "", 0, err
	}
	if err := os.WriteFile(dest, []byte("audio"), 0o644); err != nil {
		return "", 0, err
	}
	d.fetched = append(d.fetched, t.ID)
	return dest, 5, nil
}

// fakeReader maps file paths to content identifiers.
type fakeReader struct {
	ids map[string]string
}

func (r fakeReader) ReadContentID(path string) (string, bool) {
	id, ok := r.ids[path]
	return id, ok
}

var errTransient = errors.New("temporarily unavailable")

func newTestEngine(t *testing.T, base string, layout naming.Layout, reader fakeReader, dl Downloader, opts Options) (*Engine, *locator.Locator) {
	t.Helper()
	f := naming.NewFormatter("{title}", ".flac", layout, nil)
	loc := locator.New(base, f, reader)
	opts.RetryCooldown = 0.001
	opts.RetryExponent = 1.0
	eng := New(Config{
		Locator:     loc,
		Downloader:  dl,
		IsTransient: func(err error) bool { return errors.Is(err, errTransient) },
		Options:     opts,
	})
	return eng, loc
}

func TestRunSkipsExistingFiles(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "Keep Me.flac"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	dl := &fakeDownloader{}
	eng, _ := newTestEngine(t, base, naming.Layout{}, fakeReader{}, dl, Options{})
	tracks := []*model.Track{{ID: "1", Title: "Keep Me", Artists: "A"}}

	summary, err := eng.Run(context.Background(), tracks)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if dl.calls != 0 {
		t.Fatalf("downloader invoked %d times for an existing file", dl.calls)
	}
	if summary.FoundExact != 1 {
		t.Fatalf("FoundExact = %d, want 1", summary.FoundExact)
	}
	if got, _ := tracks[0].ResolvedPath(); got != filepath.Join(base, "Keep Me.flac") {
		t.Fatalf("resolved path = %q", got)
	}
}

func TestRunFindsByIdentifierBeforeCheckOnlyGate(t *testing.T) {
	base := t.TempDir()
	// Same recording under a different filename, discoverable only through
	// its embedded identifier.
	other := filepath.Join(base, "01 - Old Rip.flac")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	dl := &fakeDownloader{}
	eng, _ := newTestEngine(t, base, naming.Layout{ArtistFolders: true}, fakeReader{ids: map[string]string{other: "USX11111111"}}, dl, Options{CheckOnly: true})
	tracks := []*model.Track{{ID: "1", Title: "Song", Artists: "A", ISRC: "USX11111111"}}

	summary, err := eng.Run(context.Background(), tracks)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Missing != 0 {
		t.Fatalf("track with identifier match reported missing")
	}
	if summary.FoundByIdentifier != 1 {
		t.Fatalf("FoundByIdentifier = %d, want 1", summary.FoundByIdentifier)
	}
	if got, _ := tracks[0].ResolvedPath(); got != other {
		t.Fatalf("resolved path = %q, want %q", got, other)
	}
	if dl.calls != 0 {
		t.Fatalf("downloader invoked in check-only mode")
	}
}

func TestRunCheckOnlyMarksMissing(t *testing.T) {
	dl := &fakeDownloader{}
	eng, _ := newTestEngine(t, t.TempDir(), naming.Layout{}, fakeReader{}, dl, Options{CheckOnly: true})
	tracks := []*model.Track{{ID: "1", Title: "Nowhere", Artists: "A"}}

	summary, err := eng.Run(context.Background(), tracks)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Missing != 1 {
		t.Fatalf("Missing = %d, want 1", summary.Missing)
	}
	if dl.calls != 0 {
		t.Fatalf("downloader invoked in check-only mode")
	}
}

func TestRunDownloadsMissingTracks(t *testing.T) {
	base := t.TempDir()
	dl := &fakeDownloader{}
	eng, loc := newTestEngine(t, base, naming.Layout{}, fakeReader{}, dl, Options{})
	tracks := []*model.Track{{ID: "1", Title: "New Song", Artists: "A"}}

	summary, err := eng.Run(context.Background(), tracks)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Downloaded != 1 {
		t.Fatalf("Downloaded = %d, want 1", summary.Downloaded)
	}
	want := loc.ExpectedPath(tracks[0], 1)
	if got, _ := tracks[0].ResolvedPath(); got != want {
		t.Fatalf("resolved path = %q, want %q", got, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
}

func TestRunRetriesTransientErrors(t *testing.T) {
	dl := &fakeDownloader{failures: map[string][]error{
		"1": {errTransient, errTransient},
	}}
	eng, _ := newTestEngine(t, t.TempDir(), naming.Layout{}, fakeReader{}, dl, Options{MaxRetries: 5})
	tracks := []*model.Track{{ID: "1", Title: "Flaky", Artists: "A"}}

	summary, err := eng.Run(context.Background(), tracks)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Downloaded != 1 {
		t.Fatalf("Downloaded = %d, want 1 after retries", summary.Downloaded)
	}
	if dl.calls != 3 {
		t.Fatalf("Fetch called %d times, want 3", dl.calls)
	}
}

func TestRunDoesNotRetryPermanentErrors(t *testing.T) {
	permanent := errors.New("no provider carries this track")
	dl := &fakeDownloader{failures: map[string][]error{
		"1": {permanent, permanent, permanent},
	}}
	eng, _ := newTestEngine(t, t.TempDir(), naming.Layout{}, fakeReader{}, dl, Options{MaxRetries: 5})
	tracks := []*model.Track{{ID: "1", Title: "Gone", Artists: "A"}}

	summary, err := eng.Run(context.Background(), tracks)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", summary.Failed)
	}
	if dl.calls != 1 {
		t.Fatalf("Fetch called %d times for a permanent error, want 1", dl.calls)
	}
	if r := tracks[0].Resolution(); !errors.Is(r.Reason, permanent) {
		t.Fatalf("failure reason = %v, want %v", r.Reason, permanent)
	}
}

func TestRunIsolatesPerTrackFailures(t *testing.T) {
	dl := &fakeDownloader{failures: map[string][]error{
		"2": {errors.New("boom")},
	}}
	eng, _ := newTestEngine(t, t.TempDir(), naming.Layout{}, fakeReader{}, dl, Options{Workers: 1})
	tracks := []*model.Track{
		{ID: "1", Title: "First", Artists: "A"},
		{ID: "2", Title: "Second", Artists: "A"},
		{ID: "3", Title: "Third", Artists: "A"},
	}

	summary, err := eng.Run(context.Background(), tracks)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Downloaded != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %+v, want 2 downloaded and 1 failed", summary)
	}
}

func TestRunEmitsOutcomeEvents(t *testing.T) {
	var (
		mu     sync.Mutex
		events []Event
	)
	dl := &fakeDownloader{}
	eng, _ := newTestEngine(t, t.TempDir(), naming.Layout{}, fakeReader{}, dl, Options{})
	eng.observer = func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	}
	tracks := []*model.Track{{ID: "1", Title: "Song", Artists: "A"}}

	if _, err := eng.Run(context.Background(), tracks); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var success bool
	for _, ev := range events {
		if ev.Total != 1 || ev.Index != 1 {
			t.Fatalf("event carries index %d/%d, want 1/1", ev.Index, ev.Total)
		}
		if ev.Level == LevelSuccess {
			success = true
		}
	}
	if !success {
		t.Fatalf("no success event for a downloaded track; events: %+v", events)
	}
}

func TestSummarizeCountsStates(t *testing.T) {
	tracks := []*model.Track{{}, {}, {}, {}}
	if err := tracks[0].MarkFoundExact("/a.flac"); err != nil {
		t.Fatal(err)
	}
	if err := tracks[1].MarkDownloaded("/b.flac"); err != nil {
		t.Fatal(err)
	}
	if err := tracks[2].MarkMissing(); err != nil {
		t.Fatal(err)
	}

	s := Summarize(tracks)
	if s.Total != 4 || s.FoundExact != 1 || s.Downloaded != 1 || s.Missing != 1 || s.Pending != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if s.Resolved() != 2 {
		t.Fatalf("Resolved() = %d, want 2", s.Resolved())
	}
}
