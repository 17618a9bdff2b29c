package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/handiism/flacsync/internal/catalog"
	"github.com/handiism/flacsync/internal/config"
	"github.com/handiism/flacsync/internal/download"
	"github.com/handiism/flacsync/internal/engine"
	"github.com/handiism/flacsync/internal/httpx"
	"github.com/handiism/flacsync/internal/locator"
	"github.com/handiism/flacsync/internal/model"
	"github.com/handiism/flacsync/internal/naming"
	"github.com/handiism/flacsync/internal/playlist"
	"github.com/handiism/flacsync/internal/tags"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})

	app := &cli.Command{
		Name:  "flacsync",
		Usage: "Reconcile a streaming album or playlist against local files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "Track, album, or playlist URL (or kind:id)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (overrides config)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.BoolFlag{
				Name:  "check-only",
				Usage: "Report what is missing without downloading",
			},
			&cli.BoolFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Write an M3U8 playlist referencing the resolved files",
			},
			&cli.BoolFlag{
				Name:  "lenient",
				Usage: "Write the playlist even when tracks are unresolved",
			},
			&cli.BoolFlag{
				Name:  "absolute",
				Usage: "Use absolute paths in the playlist",
			},
			&cli.BoolFlag{
				Name:  "artist-folders",
				Usage: "Place tracks under per-artist folders",
			},
			&cli.BoolFlag{
				Name:  "album-folders",
				Usage: "Place tracks under per-album folders",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Filename template, e.g. \"{track_number}. {title} - {artist}\"",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent track workers (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "lyrics",
				Usage: "Fetch and embed lyrics after download",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Show per-phase progress",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, logger)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command, logger *log.Logger) error {
	settings, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	applyFlags(cmd, settings)

	raw := cmd.String("url")
	if raw == "" && cmd.Args().Len() > 0 {
		raw = cmd.Args().First()
	}
	if raw == "" {
		return fmt.Errorf("no URL given; pass one as an argument or with --url")
	}

	verbose := cmd.Bool("verbose")
	checkOnly := cmd.Bool("check-only")

	hc := httpx.NewClient()
	cat := catalog.NewClient(settings.CatalogURL, hc)

	logger.Info("looking up", "ref", raw)
	col, err := cat.Lookup(ctx, raw)
	if err != nil {
		return err
	}
	logger.Info("resolved", "kind", col.Kind, "name", col.Name, "tracks", len(col.Tracks))

	layout := naming.Layout{
		ArtistFolders: settings.ArtistSubfolder,
		AlbumFolders:  settings.AlbumSubfolder,
	}
	compilations := naming.DetectCompilations(col.Tracks)
	formatter := naming.NewFormatter(settings.FilenameFormat, settings.FileExtension, layout, compilations)

	base := settings.OutputDir
	if !layout.Enabled() && col.Kind != model.KindTrack {
		base = filepath.Join(base, naming.SanitizeFileName(col.Name))
	}

	loc := locator.New(base, formatter, tags.NewFileReader())

	var services []download.Service
	for _, name := range settings.Providers {
		u := settings.ProviderURLs[name]
		if u == "" {
			logger.Warn("provider has no URL, skipping", "provider", name)
			continue
		}
		services = append(services, download.NewClient(name, u, hc))
	}

	eng := engine.New(engine.Config{
		Locator:     loc,
		Downloader:  download.NewChain(services...),
		IsTransient: download.IsTransient,
		Lyrics:      cat,
		Tagger:      tags.NewTagger(),
		Observer:    printEvent(verbose),
		Logger:      logger,
		Options: engine.Options{
			CheckOnly:     checkOnly,
			MaxRetries:    settings.MaxRetries,
			RetryCooldown: settings.RetryCooldown,
			RetryExponent: settings.RetryExponent,
			Workers:       settings.Workers,
			WriteTags:     settings.WriteTags,
			EmbedLyrics:   settings.EmbedLyrics,
		},
	})

	summary, err := eng.Run(ctx, col.Tracks)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%d tracks: %d found, %d found by identifier, %d downloaded, %d missing, %d failed\n",
		summary.Total, summary.FoundExact, summary.FoundByIdentifier,
		summary.Downloaded, summary.Missing, summary.Failed)

	if settings.CreatePlaylist {
		policy := playlist.Strict
		if !settings.PlaylistStrict {
			policy = playlist.Lenient
		}
		builder := playlist.NewBuilder(playlist.Options{
			Policy:   policy,
			Extended: settings.PlaylistExtended,
			Absolute: settings.PlaylistAbsolute,
		})
		out := filepath.Join(base, naming.SanitizeFileName(col.Name)+".m3u8")
		report, err := builder.Build(col.Tracks, out)
		if err != nil {
			return err
		}
		logger.Info("playlist written", "path", report.Path, "entries", report.Written)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d tracks failed", summary.Failed)
	}
	return nil
}

// applyFlags layers explicit CLI flags over the loaded settings.
func applyFlags(cmd *cli.Command, s *config.Settings) {
	if v := cmd.String("output"); v != "" {
		s.OutputDir = v
	}
	if v := cmd.String("format"); v != "" {
		s.FilenameFormat = v
	}
	if v := cmd.Int("workers"); v > 0 {
		s.Workers = int(v)
	}
	if cmd.Bool("artist-folders") {
		s.ArtistSubfolder = true
	}
	if cmd.Bool("album-folders") {
		s.AlbumSubfolder = true
	}
	if cmd.Bool("playlist") {
		s.CreatePlaylist = true
	}
	if cmd.Bool("lenient") {
		s.PlaylistStrict = false
	}
	if cmd.Bool("absolute") {
		s.PlaylistAbsolute = true
	}
	if cmd.Bool("lyrics") {
		s.EmbedLyrics = true
	}
}

// printEvent renders engine progress to stdout, one line per event.
func printEvent(verbose bool) engine.Observer {
	return func(ev engine.Event) {
		if ev.Level == engine.LevelVerbose && !verbose {
			return
		}
		prefix := "  "
		switch ev.Level {
		case engine.LevelError:
			prefix = "x "
		case engine.LevelWarning:
			prefix = "! "
		case engine.LevelSuccess:
			prefix = "+ "
		case engine.LevelInfo:
			prefix = "= "
		}
		fmt.Printf("%s[%d/%d] %s\n", prefix, ev.Index, ev.Total, ev.Message)
	}
}
