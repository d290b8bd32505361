package transcript

import (
	"context"
	"errors"
)

// Upstream condition errors. The fetcher's retry decision table keys off
// these: conditions that are structurally permanent for the request fail
// fast, everything else is retried.
var (
	ErrVideoUnavailable = errors.New("video unavailable")
	ErrNoTranscript     = errors.New("no transcript available")
	ErrRequestBlocked   = errors.New("request blocked by youtube")
	ErrIPBlocked        = errors.New("ip blocked by youtube")
	ErrAgeRestricted    = errors.New("video is age restricted")
	ErrEmptyPayload     = errors.New("no transcript data returned")
)

// Client is the upstream transcript service. Implementations translate the
// wire-level failure modes into the sentinel errors above where they can.
type Client interface {
	// Languages lists the language codes the video advertises captions
	// for, in the order the upstream reports them.
	Languages(ctx context.Context, videoID string) ([]string, error)

	// Fetch retrieves the raw timed segments for the first language in
	// langs that the video has captions for. An empty langs means no
	// language constraint: the upstream's first track wins.
	Fetch(ctx context.Context, videoID string, langs []string) ([]Segment, error)
}
