package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/tartampluch/go-cousins/internal/config"
)

// Fetcher defines the contract for retrieving a remote resource.
// This interface allows for mocking in tests and decoupling from the network layer.
type Fetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher implements Fetcher using the standard net/http library.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates a new instance of HTTPFetcher with configured timeouts.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch retrieves a remote resource.
// It sanitizes the URL for logging purposes to avoid leaking sensitive tokens
// and enforces a maximum response size limit.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}

	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	// Query parameters might contain tokens.
	safeURL := u.Scheme + "://" + u.Host + u.Path

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, safeURL),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRequestCreate, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeJSON)

	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgAnnounceBadStatus,
			slog.Int(config.LogKeyStatus, resp.StatusCode),
		)
		return nil, fmt.Errorf(config.FormatBadStatus, config.ErrBadStatus, resp.Status)
	}

	log.Debug(config.MsgAnnounceDownload,
		slog.Int64(config.LogKeyContentLen, resp.ContentLength),
	)

	return &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// limitedReadCloser wraps a size-limited reader and the original body closer.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}

// AnnouncementFeed loads announcements from a URL or a local file.
// URL takes precedence when both are set; neither set means no announcements.
type AnnouncementFeed struct {
	Fetcher Fetcher
	URL     string
	User    string
	Pass    string
	File    string
	// MaxItems caps the normalized list; 0 means no cap.
	MaxItems int
}

// Load fetches and normalizes the feed. Any failure degrades to an empty list.
func (a *AnnouncementFeed) Load(ctx context.Context) []AnnouncementEntry {
	log := slog.With(config.LogKeyComponent, config.CompFetcher)

	entries, err := a.load(ctx)
	if err != nil {
		log.WarnContext(ctx, config.MsgAnnounceFailed, config.LogKeyError, err)
		return nil
	}

	log.InfoContext(ctx, config.MsgAnnounceLoaded, config.LogKeyCount, len(entries))
	return entries
}

func (a *AnnouncementFeed) load(ctx context.Context) ([]AnnouncementEntry, error) {
	if a.URL == "" && a.File == "" {
		return nil, nil
	}

	reader, err := a.acquireStream(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	raw, err := DecodeAnnouncements(reader)
	if err != nil {
		return nil, err
	}
	return NormalizeAnnouncements(raw, a.MaxItems), nil
}

func (a *AnnouncementFeed) acquireStream(ctx context.Context) (io.ReadCloser, error) {
	if a.URL == "" {
		return os.Open(a.File)
	}
	if a.Fetcher == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}
	return a.Fetcher.Fetch(ctx, a.URL, a.User, a.Pass)
}
