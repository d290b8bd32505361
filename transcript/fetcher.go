package transcript

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/VishalRathod21/yt-transcript/errors"
	"github.com/sirupsen/logrus"
)

// DefaultMaxRetries bounds the attempt loop when the caller does not say
// otherwise.
const DefaultMaxRetries = 3

// outcome tags the result of classifying one attempt's failure.
type outcome int

const (
	outcomeRetryable outcome = iota
	outcomeNotAvailable
	outcomeRateLimited
	outcomeAccessDenied
)

// decisionTable maps upstream condition errors to their outcome. Conditions
// that are structurally permanent for the request fail fast: retrying cannot
// change video availability, and retrying into a block makes it worse.
var decisionTable = []struct {
	condition error
	outcome   outcome
}{
	{ErrVideoUnavailable, outcomeNotAvailable},
	{ErrNoTranscript, outcomeNotAvailable},
	{ErrRequestBlocked, outcomeRateLimited},
	{ErrIPBlocked, outcomeRateLimited},
	{ErrAgeRestricted, outcomeAccessDenied},
}

func classify(err error) outcome {
	for _, row := range decisionTable {
		if errors.Is(err, row.condition) {
			return row.outcome
		}
	}
	return outcomeRetryable
}

// Fetcher performs remote retrievals with bounded retries, exponential
// backoff, and jitter. Request-scoped: each logical request owns its own
// fetcher, so no locking is needed.
type Fetcher struct {
	client Client

	// Injectable for deterministic tests.
	sleep  func(time.Duration)
	jitter func() float64
}

func NewFetcher(client Client) *Fetcher {
	return &Fetcher{client: client, jitter: rand.Float64}
}

// Fetch retrieves the raw segment sequence for the given language
// candidates, retrying transient failures up to maxRetries attempts.
func (f *Fetcher) Fetch(ctx context.Context, videoID string, langs []string, maxRetries int) ([]Segment, error) {
	const op = "Fetcher.Fetch"
	return retryDo(ctx, f, op, videoID, maxRetries, func() ([]Segment, error) {
		segments, err := f.client.Fetch(ctx, videoID, langs)
		if err != nil {
			return nil, err
		}
		if len(segments) == 0 {
			return nil, ErrEmptyPayload
		}
		return segments, nil
	})
}

// Languages lists the video's advertised caption languages. Listing is a
// remote call too, so it runs under the same retry discipline.
func (f *Fetcher) Languages(ctx context.Context, videoID string, maxRetries int) ([]string, error) {
	const op = "Fetcher.Languages"
	return retryDo(ctx, f, op, videoID, maxRetries, func() ([]string, error) {
		return f.client.Languages(ctx, videoID)
	})
}

// retryDo is the attempt loop shared by fetching and listing. Terminal
// outcomes short-circuit with the mapped category; retryable ones sleep
// 2^attempt + uniform(0,1) seconds between attempts, then surface the last
// cause as an internal error once the bound is reached.
func retryDo[T any](ctx context.Context, f *Fetcher, op, videoID string, maxRetries int, fn func() (T, error)) (T, error) {
	var zero T
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	logger := logrus.WithFields(logrus.Fields{
		"video_id":  videoID,
		"operation": op,
	})

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		logger.WithField("attempt", attempt+1).Debug("Attempting remote call")

		result, err := fn()
		if err == nil {
			return result, nil
		}

		switch classify(err) {
		case outcomeNotAvailable:
			logger.WithError(err).Info("Transcript not available")
			return zero, errors.NotAvailable(op, err, "No transcript is available for this video. Please try another video with captions.")
		case outcomeRateLimited:
			logger.WithError(err).Warn("Request blocked by upstream")
			return zero, errors.RateLimited(op, err, "YouTube request blocked. Please try again later or use a proxy.")
		case outcomeAccessDenied:
			logger.WithError(err).Info("Video access restricted")
			return zero, errors.AccessDenied(op, err, "Age-restricted video. Cannot fetch transcript.")
		}

		lastErr = err
		if attempt < maxRetries-1 {
			backoff := f.backoff(attempt)
			logger.WithFields(logrus.Fields{
				"error":   err,
				"backoff": backoff,
			}).Warn("Attempt failed, retrying")

			if err := f.wait(ctx, backoff); err != nil {
				return zero, err
			}
		}
	}

	logger.WithError(lastErr).Error("All attempts failed")
	return zero, errors.Internal(op, lastErr, "Could not fetch transcript after multiple attempts")
}

// backoff computes 2^attempt seconds plus uniform(0,1) seconds of jitter.
// The jitter spreads out concurrent retries so they do not re-hit the
// upstream in lockstep.
func (f *Fetcher) backoff(attempt int) time.Duration {
	seconds := math.Pow(2, float64(attempt)) + f.jitter()
	return time.Duration(seconds * float64(time.Second))
}

// wait blocks for the backoff duration or until the context is done.
func (f *Fetcher) wait(ctx context.Context, d time.Duration) error {
	if f.sleep != nil {
		f.sleep(d)
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
