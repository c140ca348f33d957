package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cousins/internal/carousel"
	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
	"github.com/tartampluch/go-cousins/internal/roster"
	"github.com/tartampluch/go-cousins/internal/server"
	"github.com/tartampluch/go-cousins/internal/ui"
	"github.com/zalando/go-keyring"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   cmdServe,
		Short: config.CmdShortServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			logStartupInfo()

			svc, err := newService(s, engine.RealClock{}, engine.NewHTTPFetcher())
			if err != nil {
				return err
			}
			if err := svc.run(cmd.Context()); err != nil {
				return err
			}
			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}
}

// service wires the roster, the photo rotation, the announcements feed and
// the HTTP server for the serve command.
type service struct {
	settings config.Settings
	clock    engine.Clock

	store  *roster.Store
	slides *carousel.Scheduler
	server *server.Server
	feed   *engine.AnnouncementFeed
	gen    *engine.CalendarGenerator
}

func newService(s config.Settings, clock engine.Clock, fetcher engine.Fetcher) (*service, error) {
	translator := ui.NewTranslator()
	renderer, err := ui.NewRenderer(nil)
	if err != nil {
		return nil, err
	}

	store := roster.NewStore(s.DataFile)
	slides := carousel.NewScheduler(s.CarouselInterval)

	srv := server.New(store, slides, translator, renderer, clock, server.Options{
		ListenAddr:    s.ListenAddr,
		Port:          s.Port,
		Language:      s.Language,
		ShowDeceased:  s.DefaultShowDeceased(),
		OldestFirst:   s.DefaultOldestFirst(),
		UpcomingDays:  s.UpcomingDays,
		PhotoInterval: s.CarouselInterval,
	})

	return &service{
		settings: s,
		clock:    clock,
		store:    store,
		slides:   slides,
		server:   srv,
		feed: &engine.AnnouncementFeed{
			Fetcher:  fetcher,
			URL:      s.AnnouncementsURL,
			User:     s.AnnouncementsUser,
			Pass:     lookupPassword(s.AnnouncementsUser),
			File:     s.AnnouncementsFile,
			MaxItems: s.MaxAnnouncements,
		},
		gen: &engine.CalendarGenerator{
			Clock:         clock,
			FormatSummary: translator.Localizer(s.Language).EventSummary,
		},
	}, nil
}

// run loads the roster and blocks until ctx is cancelled or the server fails.
func (svc *service) run(ctx context.Context) error {
	defer svc.slides.Close()

	g, ctx := errgroup.WithContext(ctx)

	svc.load(ctx)

	g.Go(func() error {
		return svc.server.Start(ctx)
	})

	if svc.settings.RefreshInterval > config.DisabledInterval {
		g.Go(func() error {
			svc.backgroundWorker(ctx, svc.settings.RefreshInterval)
			return nil
		})
	}

	if svc.settings.WatchDataFile && svc.store.Path() != "" {
		w := roster.NewWatcher(svc.store)
		g.Go(func() error {
			// A broken watcher only loses live reloads.
			if err := w.Run(ctx); err != nil {
				slog.Warn(config.MsgWatchFailed,
					config.LogKeyComponent, config.CompWatcher,
					config.LogKeyError, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// load reads the data file, hooks the roster listeners and performs the first sync.
func (svc *service) load(ctx context.Context) {
	if err := svc.store.Load(); err != nil {
		slog.Warn(config.MsgDataLoadFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyFile, svc.store.Path(),
			config.LogKeyError, err)
	}

	svc.store.OnChange(func(people []engine.PersonRecord) {
		svc.rebuild(ctx, people)
	})
	svc.performSync(ctx)
}

// backgroundWorker re-runs performSync on every tick.
func (svc *service) backgroundWorker(ctx context.Context, interval time.Duration) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-ticker.C:
			svc.performSync(ctx)
		}
	}
}

// performSync reloads announcements and rebuilds everything derived from the roster.
func (svc *service) performSync(ctx context.Context) {
	slog.Info(config.MsgSyncReq, config.LogKeyComponent, config.CompWorker)

	svc.server.SetAnnouncements(svc.feed.Load(ctx))
	svc.rebuild(ctx, svc.store.People())
}

// rebuild restarts photo rotations and regenerates the calendar feed.
func (svc *service) rebuild(ctx context.Context, people []engine.PersonRecord) {
	rows := engine.ComputeRows(people, engine.Today(svc.clock))

	galleries := make(map[string][]string, len(rows))
	for _, row := range rows {
		galleries[row.ID] = row.Gallery
	}
	svc.slides.Sync(galleries)

	data, _, err := svc.gen.Generate(ctx, people)
	if err != nil {
		slog.Error(config.MsgSyncFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err)
		return
	}
	svc.server.Update(data)
}

// lookupPassword reads the announcements password from the OS keyring.
// A missing entry means no password.
func lookupPassword(user string) string {
	if user == "" {
		return ""
	}
	p, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyUser, user,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompMain)
		return ""
	}
	return p
}
