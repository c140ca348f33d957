package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
	"github.com/tartampluch/go-cousins/internal/ui"
)

// Roster is the record set behind the HTTP surface.
type Roster interface {
	Rows(today engine.CalendarDate) []engine.ComputedRow
	Import(filename string, r io.Reader) (int, error)
}

// PhotoSource reports the carousel photo currently shown for a card.
type PhotoSource interface {
	Current(target string) (string, bool)
}

// Options are the defaults applied when a request does not say otherwise.
type Options struct {
	ListenAddr    string
	Port          string
	Language      string
	ShowDeceased  bool
	OldestFirst   bool
	UpcomingDays  int
	PhotoInterval time.Duration
}

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// Server renders the roster page, its JSON API and the calendar feed.
type Server struct {
	// Both are read on every request and replaced rarely, so reads stay lock-free.
	cache         atomic.Pointer[cacheItem]
	announcements atomic.Pointer[[]engine.AnnouncementEntry]

	roster     Roster
	photos     PhotoSource
	translator *ui.Translator
	renderer   *ui.Renderer
	clock      engine.Clock
	opts       Options
}

// New wires a server. photos may be nil.
func New(roster Roster, photos PhotoSource, translator *ui.Translator, renderer *ui.Renderer, clock engine.Clock, opts Options) *Server {
	if clock == nil {
		clock = engine.RealClock{}
	}
	if opts.Language == "" {
		opts.Language = config.DefaultLanguage
	}
	return &Server{
		roster:     roster,
		photos:     photos,
		translator: translator,
		renderer:   renderer,
		clock:      clock,
		opts:       opts,
	}
}

// Handler returns the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteIndex, s.handleIndex)
	mux.HandleFunc(config.RoutePeople, s.handlePeople)
	mux.HandleFunc(config.RouteAnnouncements, s.handleAnnouncements)
	mux.HandleFunc(config.RouteUpcoming, s.handleUpcoming)
	mux.HandleFunc(config.RoutePhoto, s.handlePhoto)
	mux.HandleFunc(config.RouteImport, s.handleImport)
	mux.HandleFunc(config.RouteCalendar, s.handleCalendarRequest)
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.opts.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	addr := net.JoinHostPort(s.opts.ListenAddr, s.opts.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, addr,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served calendar.
func (s *Server) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	s.cache.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// SetAnnouncements replaces the announcements shown on the page.
func (s *Server) SetAnnouncements(entries []engine.AnnouncementEntry) {
	snapshot := slices.Clone(entries)
	s.announcements.Store(&snapshot)
}

func (s *Server) currentAnnouncements() []engine.AnnouncementEntry {
	if p := s.announcements.Load(); p != nil {
		return *p
	}
	return nil
}

// filterOptions reads q, deceased and order, falling back to the configured defaults.
func (s *Server) filterOptions(r *http.Request) engine.FilterOptions {
	q := r.URL.Query()
	opts := engine.FilterOptions{
		Query:        q.Get(config.QueryText),
		ShowDeceased: s.opts.ShowDeceased,
		OldestFirst:  s.opts.OldestFirst,
	}
	if v := q.Get(config.QueryDeceased); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.ShowDeceased = b
		}
	}
	switch strings.ToLower(q.Get(config.QueryOrder)) {
	case config.OrderOldest:
		opts.OldestFirst = true
	case config.OrderYoungest:
		opts.OldestFirst = false
	}
	return opts
}

func (s *Server) localizer(r *http.Request) *ui.Localizer {
	return s.translator.Localizer(
		r.URL.Query().Get(config.QueryLang),
		r.Header.Get(config.HeaderAcceptLanguage),
		s.opts.Language,
	)
}

func (s *Server) upcomingDays(r *http.Request) int {
	if v := r.URL.Query().Get(config.QueryDays); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return max(n, 0)
		}
	}
	return s.opts.UpcomingDays
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "", false)
}

// renderPage builds and writes the roster page with an optional notice.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, notice string, noticeErr bool) {
	start := time.Now()
	today := engine.Today(s.clock)
	opts := s.filterOptions(r)
	all := s.roster.Rows(today)
	rows := engine.FilterSort(all, opts)

	in := ui.PageInput{
		Today:         today,
		Rows:          rows,
		Total:         len(all),
		Options:       opts,
		Announcements: s.currentAnnouncements(),
		Upcoming:      engine.UpcomingBirthdays(all, today, s.upcomingDays(r)),
		Languages:     s.translator.Languages(),
		Notice:        notice,
		NoticeError:   noticeErr,
		PhotoInterval: s.opts.PhotoInterval,
	}
	if s.photos != nil {
		in.Photo = s.photos.Current
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, ui.BuildView(s.localizer(r), in)); err != nil {
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextHTML)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}

	slog.Debug(config.MsgRenderRequest,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyQuery, opts.Query,
		config.LogKeyShown, len(rows),
		config.LogKeyTotal, len(all),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
}

type peopleResponse struct {
	AsOf  engine.CalendarDate  `json:"asOf"`
	Total int                  `json:"total"`
	Rows  []engine.ComputedRow `json:"rows"`
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	today := engine.Today(s.clock)
	all := s.roster.Rows(today)
	writeJSON(w, http.StatusOK, peopleResponse{
		AsOf:  today,
		Total: len(all),
		Rows:  engine.FilterSort(all, s.filterOptions(r)),
	})
}

func (s *Server) handleAnnouncements(w http.ResponseWriter, _ *http.Request) {
	entries := s.currentAnnouncements()
	if entries == nil {
		entries = []engine.AnnouncementEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	today := engine.Today(s.clock)
	upcoming := engine.UpcomingBirthdays(s.roster.Rows(today), today, s.upcomingDays(r))
	if upcoming == nil {
		upcoming = []engine.UpcomingBirthday{}
	}
	writeJSON(w, http.StatusOK, upcoming)
}

type photoResponse struct {
	ID    string `json:"id"`
	Photo string `json:"photo"`
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue(config.PathValueID)
	if s.photos != nil {
		if p, ok := s.photos.Current(id); ok {
			writeJSON(w, http.StatusOK, photoResponse{ID: id, Photo: p})
			return
		}
	}
	http.Error(w, config.HTTPMsgPhotoMissing, http.StatusNotFound)
}

type importResponse struct {
	Imported int    `json:"imported,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleImport replaces the roster from an uploaded file. A rejected file
// leaves the current roster in place.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	l := s.localizer(r)
	wantsHTML := strings.Contains(r.Header.Get(config.HeaderAccept), config.MimeHTML)

	reject := func(msg string) {
		if wantsHTML {
			s.renderPage(w, r, http.StatusBadRequest, msg, true)
			return
		}
		writeJSON(w, http.StatusBadRequest, importResponse{Error: msg})
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	file, header, err := r.FormFile(config.FormFileField)
	if err != nil {
		reject(config.HTTPMsgNoFile)
		return
	}
	defer func() { _ = file.Close() }()

	n, err := s.roster.Import(header.Filename, file)
	if err != nil {
		reject(l.Msg(config.TKeyImportRejected))
		return
	}

	if wantsHTML {
		s.renderPage(w, r, http.StatusOK, l.Plural(config.TKeyImportDone, n), false)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: n})
}

// handleCalendarRequest serves the ICS content with HTTP caching support.
func (s *Server) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
