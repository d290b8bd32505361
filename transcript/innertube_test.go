package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/VishalRathod21/yt-transcript/netctx"
)

// roundTripFunc serves canned responses so the client can be exercised
// without touching the network.
type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newStubbedClient(roundTrip roundTripFunc) *InnertubeClient {
	return NewInnertubeClient(
		&http.Client{Transport: roundTrip},
		netctx.FixedUserAgent("test-agent/1.0"),
	)
}

func playerBody(status, reason string, langs ...string) string {
	type track struct {
		BaseURL      string `json:"baseUrl"`
		LanguageCode string `json:"languageCode"`
	}
	resp := map[string]any{}
	if status != "" {
		resp["playabilityStatus"] = map[string]string{"status": status, "reason": reason}
	}
	if len(langs) > 0 {
		tracks := make([]track, 0, len(langs))
		for _, lang := range langs {
			tracks = append(tracks, track{
				BaseURL:      "https://captions.example.com/track?lang=" + lang,
				LanguageCode: lang,
			})
		}
		resp["captions"] = map[string]any{
			"playerCaptionsTracklistRenderer": map[string]any{"captionTracks": tracks},
		}
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestLanguagesListsAdvertisedTracks(t *testing.T) {
	var gotReq playerRequest
	client := newStubbedClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost {
			t.Errorf("got method %s", req.Method)
		}
		if req.Header.Get("User-Agent") != "test-agent/1.0" {
			t.Errorf("got user agent %q", req.Header.Get("User-Agent"))
		}
		body, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Errorf("invalid request body: %v", err)
		}
		return jsonResponse(http.StatusOK, playerBody("OK", "", "en", "fr", "de")), nil
	})

	langs, err := client.Languages(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(langs) != 3 || langs[0] != "en" || langs[1] != "fr" || langs[2] != "de" {
		t.Errorf("got languages %v", langs)
	}
	if gotReq.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("got video ID %q in player request", gotReq.VideoID)
	}
	if gotReq.Context.Client.ClientName != "WEB" {
		t.Errorf("got client name %q", gotReq.Context.Client.ClientName)
	}
}

func TestCaptionTracksClassifiesStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"too many requests", http.StatusTooManyRequests, ErrRequestBlocked},
		{"forbidden", http.StatusForbidden, ErrIPBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newStubbedClient(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(tt.status, "{}"), nil
			})

			_, err := client.Languages(context.Background(), "dQw4w9WgXcQ")
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("got %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestCaptionTracksClassifiesPlayability(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		reason   string
		sentinel error
	}{
		{"error status", "ERROR", "Video unavailable", ErrVideoUnavailable},
		{"login required age", "LOGIN_REQUIRED", "Sign in to confirm your age", ErrAgeRestricted},
		{"login required other", "LOGIN_REQUIRED", "Sign in to view this video", ErrRequestBlocked},
		{"age check required", "AGE_CHECK_REQUIRED", "", ErrAgeRestricted},
		{"unplayable age", "UNPLAYABLE", "Age-restricted content", ErrAgeRestricted},
		{"unplayable other", "UNPLAYABLE", "This video is not available", ErrVideoUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newStubbedClient(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, playerBody(tt.status, tt.reason)), nil
			})

			_, err := client.Languages(context.Background(), "dQw4w9WgXcQ")
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("got %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestCaptionTracksNoCaptions(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no captions object", playerBody("OK", "")},
		{"empty track list", `{"playabilityStatus":{"status":"OK"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newStubbedClient(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, tt.body), nil
			})

			_, err := client.Languages(context.Background(), "dQw4w9WgXcQ")
			if !errors.Is(err, ErrNoTranscript) {
				t.Errorf("got %v, want ErrNoTranscript", err)
			}
		})
	}
}

func TestFetchDecodesJSON3(t *testing.T) {
	captionPayload := `{"events":[
		{"tStartMs":0,"dDurationMs":1500,"segs":[{"utf8":"Never gonna "},{"utf8":"give you up"}]},
		{"tStartMs":1500,"dDurationMs":2000},
		{"tStartMs":3500,"dDurationMs":500,"segs":[{"utf8":"\n"}]},
		{"tStartMs":4000,"dDurationMs":1250,"segs":[{"utf8":"Never gonna let you down"}]}
	]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fmt") != "json3" {
			t.Errorf("expected fmt=json3, got query %q", r.URL.RawQuery)
		}
		io.WriteString(w, captionPayload)
	}))
	defer server.Close()

	client := NewInnertubeClient(server.Client(), netctx.FixedUserAgent("test-agent/1.0"))
	segments, err := client.fetchTrack(context.Background(), captionTrack{
		BaseURL:      server.URL + "/track?lang=en",
		LanguageCode: "en",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Events without segs and whitespace-only events are dropped.
	want := []Segment{
		{Text: "Never gonna give you up", Start: 0, Duration: 1.5},
		{Text: "Never gonna let you down", Start: 4, Duration: 1.25},
	}
	if len(segments) != len(want) {
		t.Fatalf("got %d segments: %v", len(segments), segments)
	}
	for i := range want {
		if segments[i] != want[i] {
			t.Errorf("segment %d: got %+v, want %+v", i, segments[i], want[i])
		}
	}
}

func TestFetchPicksPreferredLanguage(t *testing.T) {
	trackServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := r.URL.Query().Get("lang")
		io.WriteString(w, `{"events":[{"tStartMs":0,"dDurationMs":1000,"segs":[{"utf8":"`+lang+`"}]}]}`)
	}))
	defer trackServer.Close()

	playerResp := `{"playabilityStatus":{"status":"OK"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[
		{"baseUrl":"` + trackServer.URL + `/track?lang=en","languageCode":"en"},
		{"baseUrl":"` + trackServer.URL + `/track?lang=fr","languageCode":"fr"}
	]}}}`

	client := NewInnertubeClient(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Host == "www.youtube.com" {
			return jsonResponse(http.StatusOK, playerResp), nil
		}
		return http.DefaultTransport.RoundTrip(req)
	})}, netctx.FixedUserAgent("test-agent/1.0"))

	segments, err := client.Fetch(context.Background(), "dQw4w9WgXcQ", []string{"fr", "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 1 || segments[0].Text != "fr" {
		t.Errorf("expected the fr track, got %v", segments)
	}
}

func TestFetchNoMatchingTrack(t *testing.T) {
	client := newStubbedClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, playerBody("OK", "", "en")), nil
	})

	_, err := client.Fetch(context.Background(), "dQw4w9WgXcQ", []string{"xx"})
	if !errors.Is(err, ErrNoTranscript) {
		t.Errorf("got %v, want ErrNoTranscript", err)
	}
}

func TestPickTrack(t *testing.T) {
	tracks := []captionTrack{
		{BaseURL: "a", LanguageCode: "en"},
		{BaseURL: "b", LanguageCode: "fr"},
	}

	tests := []struct {
		name     string
		langs    []string
		wantURL  string
		wantFind bool
	}{
		{"preference order wins", []string{"fr", "en"}, "b", true},
		{"second preference", []string{"xx", "en"}, "a", true},
		{"no constraint takes first", nil, "a", true},
		{"no match", []string{"xx"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, ok := pickTrack(tracks, tt.langs)
			if ok != tt.wantFind {
				t.Fatalf("got ok=%v", ok)
			}
			if ok && track.BaseURL != tt.wantURL {
				t.Errorf("got track %q", track.BaseURL)
			}
		})
	}
}
