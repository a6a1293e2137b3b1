package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"go-gamelist-sync/constants"
)

// Lookup failure kinds. These are the only error channels a lookup
// surfaces; raw transport errors stay inside the client.
var (
	ErrRateLimited = errors.New("scraper: too many requests")
	ErrUnknownGame = errors.New("scraper: unknown game")
	ErrBadCRC      = errors.New("scraper: crc rejected by provider")
)

// Client talks to the ScreenScraper JSON API. Every request carries the
// application's developer credential pair; the end-user account pair is
// sent only when both halves are configured.
type Client struct {
	BaseURL string

	httpClient *http.Client
	limiter    *rate.Limiter
	userID     string
	userPW     string
}

// NewClient creates a client for the given endpoint. The limiter stays
// under the provider's anonymous quota; a 429 still surfaces as
// ErrRateLimited for the caller to handle, the client never retries.
func NewClient(baseURL, userID, userPW string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(1200*time.Millisecond), 3),
		userID:  userID,
		userPW:  userPW,
	}
}

// SetUserCredentials replaces the end-user account pair. Blank halves put
// the client back on the anonymous quota.
func (c *Client) SetUserCredentials(userID, userPW string) {
	c.userID = userID
	c.userPW = userPW
}

// GetSystems fetches the provider's system registry.
func (c *Client) GetSystems(ctx context.Context) ([]System, error) {
	body, err := c.get(ctx, "/systemesListe.php", url.Values{})
	if err != nil {
		return nil, err
	}

	var parsed systemsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("scraper: decoding system list: %w", err)
	}
	return parsed.Response.Systems, nil
}

// GetGameInfo looks up one game by CRC, system id, rom name and byte size.
// 400/404/429 map to ErrBadCRC/ErrUnknownGame/ErrRateLimited; a payload
// flagged notgame yields ErrUnknownGame even on HTTP success.
func (c *Client) GetGameInfo(ctx context.Context, crc uint32, systemID int, romName string, romSize int64) (*GameInfo, error) {
	params := url.Values{}
	params.Set("crc", fmt.Sprintf("%08X", crc))
	params.Set("systemeid", strconv.Itoa(systemID))
	params.Set("romnom", romName)
	params.Set("romtaille", strconv.FormatInt(romSize, 10))
	params.Set("romtype", "rom")

	body, err := c.get(ctx, "/jeuInfos.php", params)
	if err != nil {
		return nil, err
	}

	var parsed gameInfoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("scraper: decoding game info: %w", err)
	}

	game := parsed.Response.Game
	if bool(game.NotGame) {
		return nil, fmt.Errorf("%w: provider flagged notgame", ErrUnknownGame)
	}
	return &game, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("scraper: waiting for rate limiter: %w", err)
	}

	params.Set("devid", constants.ScreenScraperDevID)
	params.Set("devpassword", constants.ScreenScraperDevPW)
	params.Set("softname", "go-gamelist-sync")
	params.Set("output", "json")
	if c.userID != "" && c.userPW != "" {
		params.Set("ssid", c.userID)
		params.Set("sspassword", c.userPW)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("scraper: building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, ErrBadCRC
	case http.StatusNotFound:
		return nil, ErrUnknownGame
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("scraper: lookup failed with status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
