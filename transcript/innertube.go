package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/VishalRathod21/yt-transcript/netctx"
	"github.com/sirupsen/logrus"
)

const (
	ytPlayerURL = "https://www.youtube.com/youtubei/v1/player?prettyPrint=false"

	ytClientName    = "WEB"
	ytClientVersion = "2.20250925.01.00"

	maxResponseBytes = 6 * 1024 * 1024
)

type playerRequest struct {
	Context   playerContext `json:"context"`
	VideoID   string        `json:"videoId"`
	ContentOK bool          `json:"contentCheckOk"`
	RacyOK    bool          `json:"racyCheckOk"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName       string `json:"clientName"`
	ClientVersion    string `json:"clientVersion"`
	UserAgent        string `json:"userAgent"`
	HL               string `json:"hl"`
	TimeZone         string `json:"timeZone"`
	UTCOffsetMinutes int    `json:"utcOffsetMinutes"`
}

type playerResponse struct {
	PlayabilityStatus *playabilityStatus `json:"playabilityStatus"`
	Captions          *captions          `json:"captions"`
}

type playabilityStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type captions struct {
	PlayerCaptionsTracklistRenderer struct {
		CaptionTracks []captionTrack `json:"captionTracks"`
	} `json:"playerCaptionsTracklistRenderer"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// json3 caption payload.
type captionEvents struct {
	Events []captionEvent `json:"events"`
}

type captionEvent struct {
	StartMs    int               `json:"tStartMs"`
	DurationMs int               `json:"dDurationMs"`
	Segs       []captionEventSeg `json:"segs,omitempty"`
}

type captionEventSeg struct {
	UTF8 string `json:"utf8"`
}

// InnertubeClient talks to the YouTube Innertube player API. One instance
// serves a single logical request: it owns that request's proxy route and
// client identity.
type InnertubeClient struct {
	httpClient *http.Client
	userAgents netctx.UserAgentProvider
}

func NewInnertubeClient(httpClient *http.Client, userAgents netctx.UserAgentProvider) *InnertubeClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if userAgents == nil {
		userAgents = netctx.FixedUserAgent(netctx.DefaultUserAgent)
	}
	return &InnertubeClient{httpClient: httpClient, userAgents: userAgents}
}

// Languages lists the caption language codes the video advertises, in the
// order the upstream reports them.
func (c *InnertubeClient) Languages(ctx context.Context, videoID string) ([]string, error) {
	tracks, err := c.captionTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	langs := make([]string, 0, len(tracks))
	for _, track := range tracks {
		langs = append(langs, track.LanguageCode)
	}
	return langs, nil
}

// Fetch retrieves the raw timed segments for the first language in langs
// the video has a caption track for. Empty langs means the upstream's
// first track wins.
func (c *InnertubeClient) Fetch(ctx context.Context, videoID string, langs []string) ([]Segment, error) {
	tracks, err := c.captionTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	track, ok := pickTrack(tracks, langs)
	if !ok {
		return nil, fmt.Errorf("no caption track for languages %v: %w", langs, ErrNoTranscript)
	}

	return c.fetchTrack(ctx, track)
}

// captionTracks calls the player endpoint and classifies the playability
// status into the sentinel condition errors before handing back tracks.
func (c *InnertubeClient) captionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	userAgent := c.userAgents.UserAgent()

	reqBody, err := json.Marshal(playerRequest{
		Context: playerContext{
			Client: playerClient{
				ClientName:       ytClientName,
				ClientVersion:    ytClientVersion,
				UserAgent:        userAgent,
				HL:               "en",
				TimeZone:         "UTC",
				UTCOffsetMinutes: 0,
			},
		},
		VideoID:   videoID,
		ContentOK: true,
		RacyOK:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal player request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ytPlayerURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("player request: %w", err)
	}
	defer resp.Body.Close()

	if err := classifyStatusCode(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read player response: %w", err)
	}

	var playerResp playerResponse
	if err := json.Unmarshal(body, &playerResp); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}

	if err := classifyPlayability(playerResp.PlayabilityStatus); err != nil {
		return nil, err
	}

	if playerResp.Captions == nil {
		return nil, ErrNoTranscript
	}
	tracks := playerResp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, ErrNoTranscript
	}

	logrus.WithFields(logrus.Fields{
		"video_id": videoID,
		"tracks":   len(tracks),
	}).Debug("Caption tracks listed")
	return tracks, nil
}

// fetchTrack downloads and decodes one caption track as json3.
func (c *InnertubeClient) fetchTrack(ctx context.Context, track captionTrack) ([]Segment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL+"&fmt=json3", nil)
	if err != nil {
		return nil, fmt.Errorf("build caption request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgents.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("caption request: %w", err)
	}
	defer resp.Body.Close()

	if err := classifyStatusCode(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read caption response: %w", err)
	}

	var events captionEvents
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decode caption response: %w", err)
	}

	var segments []Segment
	for _, event := range events.Events {
		if len(event.Segs) == 0 {
			continue
		}
		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := sb.String()
		if strings.TrimSpace(text) == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Start:    float64(event.StartMs) / 1000.0,
			Duration: float64(event.DurationMs) / 1000.0,
		})
	}

	return segments, nil
}

// pickTrack selects the first track matching langs in preference order.
// Empty langs means no constraint: the first reported track wins.
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	if len(langs) == 0 {
		if len(tracks) == 0 {
			return captionTrack{}, false
		}
		return tracks[0], true
	}

	for _, lang := range langs {
		for _, track := range tracks {
			if track.LanguageCode == lang {
				return track, true
			}
		}
	}
	return captionTrack{}, false
}

// classifyStatusCode maps blocking status codes onto the sentinel errors.
func classifyStatusCode(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("HTTP %d: %w", code, ErrRequestBlocked)
	case code == http.StatusForbidden:
		return fmt.Errorf("HTTP %d: %w", code, ErrIPBlocked)
	default:
		return fmt.Errorf("HTTP %d: %s", code, http.StatusText(code))
	}
}

// classifyPlayability maps the player API's playability verdict onto the
// sentinel errors. The reason text is kept for diagnostics.
func classifyPlayability(status *playabilityStatus) error {
	if status == nil || status.Status == "" || status.Status == "OK" {
		return nil
	}

	reason := strings.ToLower(status.Reason)
	switch status.Status {
	case "ERROR":
		return fmt.Errorf("%s: %w", status.Reason, ErrVideoUnavailable)
	case "LOGIN_REQUIRED":
		if strings.Contains(reason, "age") {
			return fmt.Errorf("%s: %w", status.Reason, ErrAgeRestricted)
		}
		return fmt.Errorf("%s: %w", status.Reason, ErrRequestBlocked)
	case "AGE_CHECK_REQUIRED":
		return fmt.Errorf("%s: %w", status.Reason, ErrAgeRestricted)
	case "UNPLAYABLE":
		if strings.Contains(reason, "age") {
			return fmt.Errorf("%s: %w", status.Reason, ErrAgeRestricted)
		}
		return fmt.Errorf("%s: %w", status.Reason, ErrVideoUnavailable)
	}

	return fmt.Errorf("playability %s: %s", status.Status, status.Reason)
}
