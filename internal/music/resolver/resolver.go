package resolver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNoResults means the title search came back empty.
	ErrNoResults = errors.New("no results found for the given query")

	videoPattern = regexp.MustCompile(`"url":"/watch\?v=([a-zA-Z0-9_-]{11})`)
)

// Resolver normalizes a user-supplied string into a playable URL. Direct
// links pass through unchanged; anything else is treated as a title search
// restricted to the top result.
type Resolver struct {
	BaseURL string
	Client  *http.Client

	yt     youtube.Client
	cookie string
}

func New() *Resolver {
	client := &http.Client{Timeout: 10 * time.Second}
	return &Resolver{
		BaseURL: "https://www.youtube.com",
		Client:  client,
		yt:      youtube.Client{HTTPClient: client},
	}
}

// LoadCookies attaches site cookies to search requests for better results.
// Accepts a JSON array of {name, value} objects or a raw Cookie header line.
// Failures here are non-fatal: resolution proceeds without credentials.
func (r *Resolver) LoadCookies(path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read cookies file: %w", err)
	}

	var pairs []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &pairs); err == nil && len(pairs) > 0 {
		parts := make([]string, 0, len(pairs))
		for _, p := range pairs {
			parts = append(parts, p.Name+"="+p.Value)
		}
		r.cookie = strings.Join(parts, "; ")
		return nil
	}

	r.cookie = strings.TrimSpace(string(raw))
	return nil
}

// Resolve returns a playable URL for the input, or ErrNoResults.
func (r *Resolver) Resolve(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrNoResults
	}
	if isURL(input) {
		return input, nil
	}
	return r.searchFirst(input)
}

// searchFirst scrapes the results page and takes the first watch link.
func (r *Resolver) searchFirst(query string) (string, error) {
	searchURL := fmt.Sprintf("%s/results?search_query=%s", r.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequest(http.MethodGet, searchURL, nil)
	if err != nil {
		return "", err
	}
	if r.cookie != "" {
		req.Header.Set("Cookie", r.cookie)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	matches := videoPattern.FindStringSubmatch(string(body))
	if len(matches) < 2 {
		return "", ErrNoResults
	}
	return fmt.Sprintf("%s/watch?v=%s", r.BaseURL, matches[1]), nil
}

// Metadata fetches title and thumbnail for a resolved URL. Best effort: the
// caller falls back to bare-URL display on error.
func (r *Resolver) Metadata(rawURL string) (title, thumbnail string, err error) {
	video, err := r.yt.GetVideo(rawURL)
	if err != nil {
		log.Debug().Err(err).Str("url", rawURL).Msg("metadata lookup failed")
		return "", "", err
	}
	title = video.Title
	if len(video.Thumbnails) > 0 {
		thumbnail = video.Thumbnails[0].URL
	}
	return title, thumbnail, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
