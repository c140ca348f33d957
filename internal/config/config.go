package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Cousins/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go Cousins"
	AppID          = "com.github.tartampluch.go-cousins"
	KeyringService = "com.github.tartampluch.go-cousins"
	CommandName    = "go-cousins"
	LogFileName    = "app.log"
	RowIDNamespace = "https://github.com/tartampluch/go-cousins/people"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs.
	FilePermUserRW fs.FileMode = 0600

	// FilePermShared represents -rw-r--r--, used for exported people files.
	FilePermShared fs.FileMode = 0644

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagConfig        = "config"
	FlagDebug         = "debug"
	FlagData          = "data"
	FlagPort          = "port"
	FlagLang          = "lang"
	FlagQuery         = "q"
	FlagHideDeceased  = "hide-deceased"
	FlagYoungestFirst = "youngest-first"
	FlagJSON          = "json"
	FlagOut           = "out"
	FlagDays          = "days"

	FlagDescConfig        = "Path to a YAML settings file"
	FlagDescDebug         = "Enable debug logging"
	FlagDescData          = "Path to the people JSON file"
	FlagDescPort          = "HTTP port to listen on"
	FlagDescLang          = "Display language (ISO 639-1)"
	FlagDescQuery         = "Only show people whose name contains this text"
	FlagDescHideDeceased  = "Hide people who have passed"
	FlagDescYoungestFirst = "Sort youngest to oldest"
	FlagDescJSON          = "Print computed rows as JSON"
	FlagDescOut           = "Write the imported people to this JSON file"
	FlagDescDays          = "Number of days to look ahead"

	CmdShortRoot     = "Family roster with ages, memorials and upcoming birthdays"
	CmdShortServe    = "Serve the roster page, JSON API and calendar feed"
	CmdShortList     = "Print the roster"
	CmdShortImport   = "Convert a spreadsheet or vCard file to people JSON"
	CmdShortUpcoming = "Print upcoming birthdays"
	CmdShortVersion  = "Show application version"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgUpcomingLine  = "%s  %-24s turns %d (%s)\n"
	MsgUpcomingNone  = "No birthdays in the next %d days\n"
	MsgListFooter    = "Shown: %d / %d\n"
	MsgImportOutput  = "Imported %d people into %s\n"

	ColName   = "NAME"
	ColBorn   = "BORN"
	ColPassed = "PASSED"
	ColAge    = "AGE"
	ColStatus = "STATUS"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultListenAddr       = "127.0.0.1"
	DefaultPort             = "18080"
	DefaultDataFile         = "people.json"
	DefaultLanguage         = "en"
	DefaultMaxAnnouncements = 5
	DefaultCarouselInterval = 6 * time.Second
	DefaultUpcomingDays     = 30
	DisabledInterval        = 0

	MinPort = 1
	MaxPort = 65535

	// SpreadsheetEpoch is day zero of spreadsheet serial dates (1899-12-30),
	// which absorbs the historical 1900 leap-year quirk.
	SpreadsheetEpochYear  = 1899
	SpreadsheetEpochMonth = time.December
	SpreadsheetEpochDay   = 30

	// MaxSerialDays bounds accepted serial values to a sane calendar range.
	MaxSerialDays = 3_000_000
)

// SupportedLanguages lists the embedded UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Display Formats & Placeholders
// -----------------------------------------------------------------------------

const (
	DateFormatISO     = "2006-01-02"
	DateFormatDisplay = "Jan 2, 2006"

	// PlaceholderUnknown is rendered wherever a date or age is not known.
	PlaceholderUnknown = "—"
	FallbackName       = "Unnamed"

	UnitYear  = "year"
	UnitMonth = "month"
	UnitDay   = "day"
	SpanSep   = ", "
)

// -----------------------------------------------------------------------------
// Translation Keys (go-i18n)
// -----------------------------------------------------------------------------

const (
	TKeyPageTitle      = "page_title"
	TKeyAsOf           = "lbl_as_of" // Requires Date
	TKeyShown          = "lbl_shown" // Requires Shown, Total
	TKeyLblSearch      = "lbl_search"
	TKeyLblDeceased    = "lbl_show_deceased"
	TKeyLblOrder       = "lbl_order"
	TKeyOrderOldest    = "order_oldest"
	TKeyOrderYoungest  = "order_youngest"
	TKeyBtnApply       = "btn_apply"
	TKeyLblImport      = "lbl_import"
	TKeyHelpImport     = "help_import"
	TKeyBtnImport      = "btn_import"
	TKeyImportDone     = "msg_import_done" // Plural, requires Count
	TKeyImportRejected = "msg_import_rejected"
	TKeyLblLanguage    = "lbl_language"
	TKeyAnnouncements  = "lbl_announcements"
	TKeyPinned         = "lbl_pinned"
	TKeyUpcoming       = "lbl_upcoming"
	TKeyUpcomingEntry  = "upcoming_entry" // Requires Name, Age, Date
	TKeyUpcomingToday  = "upcoming_today"
	TKeyUpcomingIn     = "upcoming_in" // Plural, requires Count
	TKeyEmpty          = "lbl_empty"
	TKeyLblBorn        = "lbl_born"
	TKeyLblPassed      = "lbl_passed"
	TKeyCurrentAge     = "lbl_current_age"
	TKeyAgeAtDeath     = "lbl_age_at_death"
	TKeyLblPhone       = "lbl_phone"
	TKeyLblEmail       = "lbl_email"
	TKeyStatusAlive    = "status_alive"
	TKeyStatusDeceased = "status_deceased"
	TKeyBanner         = "banner_birthday" // Requires Name
	TKeyWouldHave      = "memorial_turned" // Requires Age
	TKeyUnnamed        = "lbl_unnamed"
	TKeyUnitYear       = "unit_year"              // Plural, requires Count
	TKeyUnitMonth      = "unit_month"             // Plural, requires Count
	TKeyUnitDay        = "unit_day"               // Plural, requires Count
	TKeyFormatDate     = "format_date"            // Go layout for display dates
	TKeyEvtSummaryAge  = "event_summary_age"      // Requires Name, Age
	TKeyEvtBirth       = "event_summary_birth"    // Requires Name
	TKeyEvtMemorial    = "event_summary_memorial" // Requires Name, Age
)

// -----------------------------------------------------------------------------
// Embedded Assets
// -----------------------------------------------------------------------------

const (
	LocalesDir     = "locales"
	LocalePrefix   = "active."
	LocaleExt      = ".json"
	TemplateGlob   = "templates/*.html"
	TemplatePage   = "page.html"
	PluralCountKey = "Count"
)

// -----------------------------------------------------------------------------
// Input Field Names (people files, spreadsheets, announcements)
// -----------------------------------------------------------------------------

const (
	FieldName      = "name"
	FieldBirthdate = "birthdate"
	FieldPassed    = "passed"
	FieldPhoto     = "photo"
	FieldPhotos    = "photos"
	FieldTribute   = "tribute"
	FieldPhone     = "phone"
	FieldEmail     = "email"

	FieldText     = "text"
	FieldMessage  = "message"
	FieldTitle    = "title"
	FieldDate     = "date"
	FieldLocation = "location"
	FieldPinned   = "pinned"

	// PhotoSeparators splits a multi-photo cell.
	PhotoSeparators = ",;\n"

	ExtJSON  = ".json"
	ExtXLSX  = ".xlsx"
	ExtXLSM  = ".xlsm"
	ExtCSV   = ".csv"
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Cousins//Roster//EN"
	ICalCalName = "Family Birthdays"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "gocousins"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	VCardDeathDate     = "DEATHDATE"
	VCardParamEncoding = "ENCODING"
	DefaultPhotoType   = "image/jpeg"
	FormatDataURI      = "data:%s;base64,%s"
	DataImagePrefix    = "data:image/"

	DefaultICalRefresh = 24 * time.Hour
	FormatUID          = "%s-%d@%s"

	FallbackSummaryAge      = "Birthday: %s (%d)"
	FallbackSummaryBirth    = "Birthday: %s (birth)"
	FallbackSummaryMemorial = "Remembering %s (would have turned %d)"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	WatchDebounce       = 250 * time.Millisecond
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 4 * 1024 * 1024  // 4MB of announcements is already absurd
	MaxUploadSize       = 32 * 1024 * 1024 // 32MB spreadsheets
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"

	RouteIndex         = "GET /{$}"
	RoutePeople        = "GET /api/people"
	RouteAnnouncements = "GET /api/announcements"
	RouteUpcoming      = "GET /api/upcoming"
	RoutePhoto         = "GET /api/photos/{id}"
	RouteImport        = "POST /import"
	RouteCalendar      = "/calendar.ics"
	PathValueID        = "id"

	QueryText     = "q"
	QueryDeceased = "deceased"
	QueryOrder    = "order"
	QueryLang     = "lang"
	QueryDays     = "days"
	OrderOldest   = "oldest"
	OrderYoungest = "youngest"
	FormFileField = "file"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderAccept          = "Accept"
	HeaderAcceptLanguage  = "Accept-Language"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextHTML        = "text/html; charset=utf-8"
	MimeHTML            = "text/html"
	MimeJSON            = "application/json"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrFetcherMissing    = "internal error: network fetcher is not initialized"
	ErrServerStartup     = "server startup failed"
	ErrServerShutdown    = "server shutdown failed"
	ErrPortRequired      = "server port is required"
	ErrPortNumber        = "server port must be a number"
	ErrPortRange         = "server port must be between 1 and 65535"
	ErrNegativeSetting   = "setting must not be negative"
	ErrSettingsRead      = "failed to read settings file"
	ErrSettingsParse     = "failed to parse settings file"
	ErrInvalidURL        = "invalid URL structure"
	ErrProtocol          = "unsupported protocol scheme (http/https only)"
	ErrICalEncode        = "failed to encode iCalendar data"
	ErrLogFile           = "failed to open log file"
	ErrCacheDir          = "could not determine user cache dir"
	ErrCreateDir         = "could not create app cache dir"
	ErrAppFailed         = "application failed unexpectedly"
	ErrWriteResp         = "failed to write response body"
	ErrLocalesAccess     = "failed to access embedded locales"
	ErrLocaleLoad        = "failed to load locale file"
	ErrTemplateParse     = "failed to parse page template"
	ErrTemplateMissing   = "page template missing"
	ErrRender            = "page render aborted"
	ErrPeopleRead        = "failed to read people file"
	ErrPeopleWrite       = "failed to write people file"
	ErrMalformedFile     = "malformed import file"
	ErrUnsupportedFormat = "unsupported import format"
	ErrMissingColumns    = "no NAME, BIRTHDATE or PASSED column found"
	ErrEmptySheet        = "spreadsheet has no sheets"
	ErrEmptyAddressBook  = "address book has no cards"
	ErrAnnouncementsRead = "failed to read announcements"
	ErrWatcher           = "data file watcher failed"
	ErrRequestCreate     = "failed to create request"
	ErrNetwork           = "network error during fetch"
	ErrBadStatus         = "server returned unexpected status"

	// FormatBadStatus expects ErrBadStatus and the response status line.
	FormatBadStatus = "%s: %s"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgNoFile       = "Please choose a file to import."
	HTTPMsgPhotoMissing = "No photo for this card."

	// MsgImportRejected is shown to the user when an uploaded file cannot be read.
	MsgImportRejected = "Could not read that file. Please confirm it has columns like NAME, BIRTHDATE, PASSED."
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStop            = "Application stopped gracefully"
	MsgAppStarting        = "Starting application"
	MsgServerListen       = "HTTP server listening"
	MsgServerStop         = "Shutting down HTTP server..."
	MsgCacheUpdated       = "Calendar cache updated"
	MsgLocaleSkip         = "Skipping non-locale file"
	MsgLocaleBadName      = "Skipping malformed locale filename"
	MsgLocaleLoaded       = "Locale loaded successfully"
	MsgTransMissing       = "Missing translation key"
	MsgPassFail           = "Password retrieval failed (might be empty)"
	MsgLogWarning         = "Warning: %s at %s: %v\n"
	MsgBdayToday          = "Birthday found today"
	MsgGenSuccess         = "Calendar generation successful"
	MsgSkippedCard        = "Skipping malformed vCard"
	MsgSkippedRow         = "Skipping empty row"
	MsgImported           = "People imported"
	MsgImportFailed       = "Import rejected, keeping current roster"
	MsgRosterReplaced     = "Roster replaced"
	MsgAnnounceLoaded     = "Announcements loaded"
	MsgAnnounceFailed     = "Announcements unavailable, continuing without them"
	MsgAnnounceDownload   = "Downloading announcements"
	MsgAnnounceBadStatus  = "Server returned error status"
	MsgCarouselStart      = "Photo rotation started"
	MsgCarouselStop       = "Photo rotation stopped"
	MsgWatchStart         = "Watching data file"
	MsgWatchReload        = "Data file changed, reloading"
	MsgWatchReloadFailed  = "Data file reload failed, keeping current roster"
	MsgWatchStop          = "Data file watcher stopped"
	MsgWorkerStart        = "Refresh worker started"
	MsgWorkerStop         = "Refresh worker stopping due to context cancellation"
	MsgRenderRequest      = "Rendering roster page"
	MsgSettingsLoaded     = "Settings loaded"
	MsgSettingsDefaulted  = "No settings file, using defaults"
	MsgDataLoadFailed     = "Data file unavailable, starting with an empty roster"
	MsgSyncReq            = "Refreshing announcements and calendar"
	MsgSyncFailed         = "Calendar rebuild failed"
	MsgWatchFailed        = "Data file watcher unavailable"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyAddr      = "addr"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyTotal     = "total"
	LogKeyShown     = "shown"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyTarget    = "target"
	LogKeyPhotos    = "photos"
	LogKeyRow       = "row"
	LogKeyQuery     = "query"
	LogKeyDuration  = "duration_ms"

	LogKeyContentLen = "content_length"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain     = "main"
	CompConfig   = "config"
	CompEngine   = "engine"
	CompFetcher  = "fetcher"
	CompImporter = "importer"
	CompRoster   = "roster"
	CompWatcher  = "watcher"
	CompCarousel = "carousel"
	CompServer   = "server"
	CompUI       = "ui"
	CompI18n     = "i18n"
	CompWorker   = "worker"
)
