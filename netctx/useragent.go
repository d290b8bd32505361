package netctx

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// DefaultUserAgent is the fixed fallback identity used when randomized
// generation is unavailable.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/91.0.4472.124 Safari/537.36"

// UserAgentProvider supplies a client identity per fetch attempt.
type UserAgentProvider interface {
	UserAgent() string
}

// FixedUserAgent always returns the same string. Used as the degraded
// fallback and for deterministic tests.
type FixedUserAgent string

func (f FixedUserAgent) UserAgent() string { return string(f) }

// RandomUserAgent generates a plausible browser user-agent per call. It
// never fails outward: any generation problem degrades to DefaultUserAgent
// with a log line.
type RandomUserAgent struct {
	rand func(n int) int
}

func NewRandomUserAgent() *RandomUserAgent {
	return &RandomUserAgent{rand: rand.Intn}
}

var uaTemplates = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:%d.0) Gecko/20100101 Firefox/%[1]d.0",
}

func (r *RandomUserAgent) UserAgent() (ua string) {
	defer func() {
		if rec := recover(); rec != nil {
			logrus.WithField("panic", rec).Warn("User agent generation failed, using default")
			ua = DefaultUserAgent
		}
	}()

	if r.rand == nil {
		logrus.Warn("User agent source not configured, using default")
		return DefaultUserAgent
	}

	tmpl := uaTemplates[r.rand(len(uaTemplates))]
	version := 110 + r.rand(20)
	ua = fmt.Sprintf(tmpl, version)
	logrus.WithField("user_agent", ua).Debug("Generated random user agent")
	return ua
}
