package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cousins/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"PlaceholderUnknown", config.PlaceholderUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Cousins/"))
}

func TestSpreadsheetEpoch(t *testing.T) {
	epoch := time.Date(config.SpreadsheetEpochYear, config.SpreadsheetEpochMonth, config.SpreadsheetEpochDay, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "1899-12-30", epoch.Format(config.DateFormatISO))
}

func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second)
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute)
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second)
	assert.Greater(t, config.MaxHTTPResponseSize, 0)
	assert.Greater(t, config.MaxUploadSize, 0)
}

func TestDefaultSettings(t *testing.T) {
	s := config.DefaultSettings()

	assert.Equal(t, config.DefaultPort, s.Port)
	assert.Equal(t, config.DefaultDataFile, s.DataFile)
	assert.Equal(t, config.DefaultLanguage, s.Language)
	assert.Equal(t, config.DefaultCarouselInterval, s.CarouselInterval)
	assert.Equal(t, time.Duration(config.DisabledInterval), s.RefreshInterval, "Refresh is startup-only by default")
	assert.True(t, s.DefaultShowDeceased())
	assert.True(t, s.DefaultOldestFirst())
	assert.Equal(t, config.DefaultListenAddr, s.ListenAddr)
	assert.NoError(t, s.Validate())
}

func TestLoadSettings_EmptyPath(t *testing.T) {
	s, err := config.LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), s)
}

func TestLoadSettings_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `port: "9090"
data_file: /srv/cousins/people.json
announcements_url: https://example.com/news.json
max_announcements: 3
carousel_interval: 2s
refresh_interval: 15m
language: fr
show_deceased: false
watch_data_file: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), config.FilePermUserRW))

	s, err := config.LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", s.Port)
	assert.Equal(t, "/srv/cousins/people.json", s.DataFile)
	assert.Equal(t, "https://example.com/news.json", s.AnnouncementsURL)
	assert.Equal(t, 3, s.MaxAnnouncements)
	assert.Equal(t, 2*time.Second, s.CarouselInterval)
	assert.Equal(t, 15*time.Minute, s.RefreshInterval)
	assert.Equal(t, "fr", s.Language)
	assert.False(t, s.DefaultShowDeceased())
	assert.True(t, s.DefaultOldestFirst(), "Unset booleans keep their defaults")
	assert.True(t, s.WatchDataFile)
}

func TestLoadSettings_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := config.LoadSettings(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSettingsRead)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("port: [1, 2"), config.FilePermUserRW))
	_, err = config.LoadSettings(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSettingsParse)

	negative := filepath.Join(dir, "negative.yaml")
	require.NoError(t, os.WriteFile(negative, []byte("upcoming_days: -1\n"), config.FilePermUserRW))
	_, err = config.LoadSettings(negative)
	assert.EqualError(t, err, config.ErrNegativeSetting)
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		port    string
		wantErr string
	}{
		{"18080", ""},
		{"1", ""},
		{"65535", ""},
		{"", config.ErrPortRequired},
		{"http", config.ErrPortNumber},
		{"0", config.ErrPortRange},
		{"70000", config.ErrPortRange},
	}

	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			err := config.ValidatePort(tt.port)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
