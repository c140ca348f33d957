package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the runtime configuration of the roster service.
// Zero-valued fields are replaced by defaults in LoadSettings.
type Settings struct {
	ListenAddr string `yaml:"listen_addr"`
	Port       string `yaml:"port"`
	DataFile   string `yaml:"data_file"`

	// Announcements come from a URL or a local JSON file; URL wins when both are set.
	AnnouncementsURL  string `yaml:"announcements_url"`
	AnnouncementsUser string `yaml:"announcements_user"`
	AnnouncementsFile string `yaml:"announcements_file"`
	MaxAnnouncements  int    `yaml:"max_announcements"`

	CarouselInterval time.Duration `yaml:"carousel_interval"`
	// RefreshInterval re-fetches announcements and rebuilds the calendar; 0 means startup only.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	Language      string `yaml:"language"`
	ShowDeceased  *bool  `yaml:"show_deceased"`
	OldestFirst   *bool  `yaml:"oldest_first"`
	UpcomingDays  int    `yaml:"upcoming_days"`
	WatchDataFile bool   `yaml:"watch_data_file"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	s := Settings{}
	s.applyDefaults()
	return s
}

// LoadSettings reads a YAML settings file. An empty path yields the defaults.
func LoadSettings(path string) (Settings, error) {
	log := slog.With(LogKeyComponent, CompConfig)
	if path == "" {
		log.Debug(MsgSettingsDefaulted)
		return DefaultSettings(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	var s Settings
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}
	s.applyDefaults()

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	log.Info(MsgSettingsLoaded, LogKeyFile, path)
	return s, nil
}

func (s *Settings) applyDefaults() {
	if s.ListenAddr == "" {
		s.ListenAddr = DefaultListenAddr
	}
	if s.Port == "" {
		s.Port = DefaultPort
	}
	if s.DataFile == "" {
		s.DataFile = DefaultDataFile
	}
	if s.MaxAnnouncements == 0 {
		s.MaxAnnouncements = DefaultMaxAnnouncements
	}
	if s.CarouselInterval == 0 {
		s.CarouselInterval = DefaultCarouselInterval
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.ShowDeceased == nil {
		v := true
		s.ShowDeceased = &v
	}
	if s.OldestFirst == nil {
		v := true
		s.OldestFirst = &v
	}
	if s.UpcomingDays == 0 {
		s.UpcomingDays = DefaultUpcomingDays
	}
}

// Validate reports the first invalid setting.
func (s Settings) Validate() error {
	if err := ValidatePort(s.Port); err != nil {
		return err
	}
	if s.MaxAnnouncements < 0 || s.UpcomingDays < 0 {
		return errors.New(ErrNegativeSetting)
	}
	if s.CarouselInterval < 0 || s.RefreshInterval < 0 {
		return errors.New(ErrNegativeSetting)
	}
	return nil
}

// ValidatePort checks that port is a number in the TCP range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// DefaultShowDeceased dereferences ShowDeceased, defaulting to true.
func (s Settings) DefaultShowDeceased() bool {
	return s.ShowDeceased == nil || *s.ShowDeceased
}

// DefaultOldestFirst dereferences OldestFirst, defaulting to true.
func (s Settings) DefaultOldestFirst() bool {
	return s.OldestFirst == nil || *s.OldestFirst
}
