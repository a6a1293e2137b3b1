package constants

// Manifest Files
const (
	GamelistFile       = "gamelist.xml"
	GamelistBackupFile = "gamelist.backup.xml"
)

// Remote Namespace
const (
	RemoteSeparator = "\\"
	SMBPort         = "445"
)

// Event Names
const (
	EventDownloadProgress = "download-progress"
	EventScrapProgress    = "scrap-progress"
	EventSourceChanged    = "source-changed"
)

// Path Components
const (
	AppDir      = ".go-gamelist-sync"
	CacheDir    = "cache"
	ConfigDir   = "config"
	CoversDir   = "covers"
	StagingDir  = "staging"
	DownloadDir = "downloads"
)

// ScreenScraper API
const (
	ScreenScraperBaseURL = "https://api.screenscraper.fr/api2"
	ScreenScraperSource  = "ScreenScraper.fr"

	// Developer credential pair registered for this application. Sent with
	// every request; end-user credentials come from the config and are
	// omitted entirely when blank.
	ScreenScraperDevID = "gamelistsync"
	ScreenScraperDevPW = "hUpymAs3qNIggt7z"
)

// Localization Defaults
const (
	DefaultLanguage = "en"
	DefaultRegion   = "wor"
)

// Media Types
const (
	MediaBox2D = "box-2D"
)
