package types

// ScrapStatus classifies the outcome of a metadata lookup for one game.
type ScrapStatus int

const (
	ScrapSuccess ScrapStatus = iota
	ScrapTooManyRequests
	ScrapUnknownGame
	ScrapBadCRC
)

func (s ScrapStatus) String() string {
	switch s {
	case ScrapSuccess:
		return "success"
	case ScrapTooManyRequests:
		return "too-many-requests"
	case ScrapUnknownGame:
		return "unknown-game"
	case ScrapBadCRC:
		return "bad-crc"
	default:
		return "unknown"
	}
}

// ScrapResult is the outcome of one lookup: the possibly updated game plus
// its status. Batch scrapes aggregate these instead of aborting on the
// first failure.
type ScrapResult struct {
	Game   Game        `json:"game"`
	Status ScrapStatus `json:"status"`
}

// ScrapFailure records one non-success outcome of a batch scrape for the
// user-facing summary.
type ScrapFailure struct {
	GameName string      `json:"game_name"`
	Status   ScrapStatus `json:"status"`
}
