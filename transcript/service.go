package transcript

import (
	"context"
	"encoding/json"
	"time"

	"github.com/VishalRathod21/yt-transcript/errors"
	"github.com/VishalRathod21/yt-transcript/models"
	"github.com/VishalRathod21/yt-transcript/netctx"
	"github.com/VishalRathod21/yt-transcript/repository"
	"github.com/VishalRathod21/yt-transcript/videoid"
	"github.com/sirupsen/logrus"
)

// Config holds the service defaults applied when a request leaves them
// unset.
type Config struct {
	DefaultLanguage string
	MaxRetries      int
	RequestTimeout  time.Duration
}

// Service orchestrates a transcript request: resolve the identifier, build
// the network context, narrow the language cascade, fetch with retries, and
// assemble the result. Requests are processed synchronously; each owns its
// own network context and fetcher, so concurrent requests share nothing.
type Service struct {
	repo   repository.TranscriptRepository
	config Config

	// Injectable for deterministic tests.
	newClient  func(proxy *netctx.ProxyConfig, userAgents netctx.UserAgentProvider) Client
	userAgents netctx.UserAgentProvider
	proxy      func() *netctx.ProxyConfig
	sleep      func(time.Duration)
	jitter     func() float64
}

// NewService builds a service backed by the real Innertube client. repo may
// be nil to disable caching.
func NewService(repo repository.TranscriptRepository, config Config) *Service {
	if config.DefaultLanguage == "" {
		config.DefaultLanguage = "en"
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}

	s := &Service{
		repo:       repo,
		config:     config,
		userAgents: netctx.NewRandomUserAgent(),
		proxy:      netctx.ProxyFromEnv,
	}
	s.newClient = func(proxy *netctx.ProxyConfig, userAgents netctx.UserAgentProvider) Client {
		return NewInnertubeClient(netctx.NewHTTPClient(proxy, config.RequestTimeout), userAgents)
	}
	return s
}

// GetTranscript is the single exposed operation of the acquisition layer.
// It returns the assembled transcript or a categorized error.
func (s *Service) GetTranscript(ctx context.Context, req Request) (Result, error) {
	const op = "TranscriptService.GetTranscript"

	id := videoid.Extract(req.Input)
	if !videoid.Valid(id) {
		return Result{}, errors.InvalidInput(op, nil, "Invalid YouTube video ID. Please check the URL or ID and try again.")
	}

	language := req.Language
	if language == "" {
		language = s.config.DefaultLanguage
	}
	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = s.config.MaxRetries
	}
	format := req.Format
	if format == "" {
		format = FormatText
	}

	logger := logrus.WithFields(logrus.Fields{
		"video_id": id,
		"language": language,
		"format":   format,
	})
	logger.Info("Processing transcript request")

	if segments, ok := s.fromCache(ctx, id, language); ok {
		logger.Info("Using cached transcript")
		return Assemble(segments, format), nil
	}

	segments, err := s.acquire(ctx, id, language, maxRetries, logger)
	if err != nil {
		return Result{}, errors.Translate(op, err)
	}

	s.toCache(ctx, id, language, segments, logger)
	logger.Info("Transcript fetched successfully")
	return Assemble(segments, format), nil
}

// strategy is one fallback step: a fetcher (bound to a network context) and
// the language constraint to fetch under. Strategies are evaluated in order
// until one yields segments.
type strategy struct {
	name    string
	fetcher *Fetcher
	langs   []string
}

// acquire runs the fallback cascade. Terminal categories abort the whole
// cascade immediately; only retry-exhaustion advances to the next step.
func (s *Service) acquire(ctx context.Context, id, language string, maxRetries int, logger *logrus.Entry) ([]Segment, error) {
	const op = "TranscriptService.acquire"

	proxy := s.proxy()
	fetcher := s.newFetcher(s.newClient(proxy, s.userAgents))

	available, listErr := fetcher.Languages(ctx, id, maxRetries)
	if listErr != nil && terminal(listErr) {
		return nil, listErr
	}

	var strategies []strategy
	listed := listErr == nil
	if listed {
		logger.WithField("available", available).Info("Available transcript languages")
		narrowed := Refine(available, Cascade(language))
		for _, candidate := range narrowed {
			strategies = append(strategies, strategy{
				name:    "language " + candidate,
				fetcher: fetcher,
				langs:   []string{candidate},
			})
		}
		strategies = append(strategies, strategy{
			name:    "any available language",
			fetcher: fetcher,
			langs:   available,
		})
	} else {
		logger.WithError(listErr).Warn("Listing transcripts failed, falling back to direct fetch")
	}

	// Last resorts: fetch with no language constraint, then retry that
	// without the proxy in case the proxy itself is the problem.
	strategies = append(strategies, strategy{name: "direct", fetcher: fetcher})
	if proxy != nil {
		direct := s.newFetcher(s.newClient(nil, s.userAgents))
		strategies = append(strategies, strategy{name: "direct without proxy", fetcher: direct})
	}

	var lastErr error
	for _, st := range strategies {
		logger.WithField("strategy", st.name).Debug("Trying fetch strategy")
		segments, err := st.fetcher.Fetch(ctx, id, st.langs, maxRetries)
		if err == nil {
			return segments, nil
		}
		if terminal(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	if listed {
		return nil, errors.NotAvailable(op, lastErr, "No transcript data available in any supported language")
	}
	return nil, errors.Internal(op, lastErr, "Could not fetch transcript after multiple attempts")
}

// terminal reports whether err carries a category that retrying or falling
// back cannot fix.
func terminal(err error) bool {
	return errors.IsNotAvailable(err) || errors.IsRateLimited(err) || errors.IsAccessDenied(err)
}

func (s *Service) newFetcher(client Client) *Fetcher {
	f := NewFetcher(client)
	if s.sleep != nil {
		f.sleep = s.sleep
	}
	if s.jitter != nil {
		f.jitter = s.jitter
	}
	return f
}

func (s *Service) fromCache(ctx context.Context, id, language string) ([]Segment, bool) {
	if s.repo == nil {
		return nil, false
	}

	cached, err := s.repo.Find(ctx, id, language)
	if err != nil {
		return nil, false
	}

	var segments []Segment
	if err := json.Unmarshal(cached.Segments, &segments); err != nil || len(segments) == 0 {
		return nil, false
	}
	return segments, true
}

func (s *Service) toCache(ctx context.Context, id, language string, segments []Segment, logger *logrus.Entry) {
	if s.repo == nil {
		return
	}

	data, err := json.Marshal(segments)
	if err != nil {
		logger.WithError(err).Warn("Failed to encode transcript for cache")
		return
	}
	if err := s.repo.Save(ctx, &models.Transcript{
		VideoID:  id,
		Language: language,
		Segments: data,
	}); err != nil {
		logger.WithError(err).Warn("Failed to cache transcript")
	}
}
