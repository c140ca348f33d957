// Package carousel rotates the photo shown on each card.
package carousel

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-cousins/internal/config"
)

// Scheduler owns at most one rotation per target. Starting a target always
// stops its previous rotation first.
type Scheduler struct {
	interval time.Duration

	mu     sync.Mutex
	slides map[string]*slide
	closed bool
}

type slide struct {
	photos []string
	index  atomic.Int64

	// nil when the slide has a single photo and no timer.
	stop chan struct{}
	done chan struct{}
}

// NewScheduler creates a scheduler advancing every interval. A non-positive
// interval disables rotation; the first photo is always shown.
func NewScheduler(interval time.Duration) *Scheduler {
	return &Scheduler{
		interval: interval,
		slides:   make(map[string]*slide),
	}
}

// Start shows photos on target, rotating when there are at least two.
func (s *Scheduler) Start(target string, photos []string) {
	s.Stop(target)

	photos = clean(photos)
	if len(photos) == 0 {
		return
	}

	sl := &slide{photos: photos}
	if len(photos) > 1 && s.interval > 0 {
		sl.stop = make(chan struct{})
		sl.done = make(chan struct{})
		go sl.run(s.interval)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sl.halt()
		return
	}
	prev := s.slides[target]
	s.slides[target] = sl
	s.mu.Unlock()

	// A concurrent Start may have slipped in between Stop and Lock.
	prev.halt()

	if sl.stop != nil {
		slog.Debug(config.MsgCarouselStart,
			config.LogKeyComponent, config.CompCarousel,
			config.LogKeyTarget, target,
			config.LogKeyPhotos, len(photos),
			config.LogKeyInterval, s.interval.String())
	}
}

// Stop ends the rotation for target, waiting for its goroutine to exit.
func (s *Scheduler) Stop(target string) {
	s.mu.Lock()
	sl := s.slides[target]
	delete(s.slides, target)
	s.mu.Unlock()

	if sl != nil && sl.stop != nil {
		sl.halt()
		slog.Debug(config.MsgCarouselStop,
			config.LogKeyComponent, config.CompCarousel,
			config.LogKeyTarget, target)
	}
}

// Sync makes the scheduler match galleries: vanished targets are stopped and
// every remaining target is restarted.
func (s *Scheduler) Sync(galleries map[string][]string) {
	s.mu.Lock()
	var stale []string
	for target := range s.slides {
		if _, ok := galleries[target]; !ok {
			stale = append(stale, target)
		}
	}
	s.mu.Unlock()

	for _, target := range stale {
		s.Stop(target)
	}
	for target, photos := range galleries {
		s.Start(target, photos)
	}
}

// Current returns the photo currently shown on target.
func (s *Scheduler) Current(target string) (string, bool) {
	s.mu.Lock()
	sl := s.slides[target]
	s.mu.Unlock()

	if sl == nil {
		return "", false
	}
	i := sl.index.Load() % int64(len(sl.photos))
	return sl.photos[i], true
}

// Active returns the number of running rotation timers.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, sl := range s.slides {
		if sl.stop != nil {
			n++
		}
	}
	return n
}

// Close stops every rotation. Later Starts are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	slides := s.slides
	s.slides = make(map[string]*slide)
	s.mu.Unlock()

	for _, sl := range slides {
		sl.halt()
	}
}

func (sl *slide) run(interval time.Duration) {
	defer close(sl.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sl.stop:
			return
		case <-ticker.C:
			sl.index.Add(1)
		}
	}
}

// halt is safe on nil and timer-less slides.
func (sl *slide) halt() {
	if sl == nil || sl.stop == nil {
		return
	}
	close(sl.stop)
	<-sl.done
}

func clean(photos []string) []string {
	out := slices.Clone(photos)
	out = slices.DeleteFunc(out, func(p string) bool { return strings.TrimSpace(p) == "" })
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}
