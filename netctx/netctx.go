package netctx

import (
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// ProxyConfig holds the optional proxy routes for a request. A nil config
// means direct connection.
type ProxyConfig struct {
	HTTPURL  string
	HTTPSURL string
}

// ProxyFromEnv reads HTTP_PROXY and HTTPS_PROXY. Returns nil when neither
// is set.
func ProxyFromEnv() *ProxyConfig {
	httpProxy := os.Getenv("HTTP_PROXY")
	httpsProxy := os.Getenv("HTTPS_PROXY")

	if httpProxy == "" && httpsProxy == "" {
		logrus.Debug("No proxy configuration found in environment")
		return nil
	}

	cfg := &ProxyConfig{HTTPURL: httpProxy, HTTPSURL: httpsProxy}
	logrus.WithFields(logrus.Fields{
		"http_proxy":  httpProxy,
		"https_proxy": httpsProxy,
	}).Debug("Using proxy configuration")
	return cfg
}

// proxyFunc routes requests by scheme, matching how the upstream proxies
// were configured.
func (p *ProxyConfig) proxyFunc() func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		raw := p.HTTPURL
		if req.URL.Scheme == "https" && p.HTTPSURL != "" {
			raw = p.HTTPSURL
		}
		if raw == "" {
			return nil, nil
		}
		return url.Parse(raw)
	}
}

// NewHTTPClient builds the client used for a single transcript request.
// A nil proxy means direct connection.
func NewHTTPClient(proxy *ProxyConfig, timeout time.Duration) *http.Client {
	// Proxy selection is owned by this layer; the transport deliberately
	// ignores the environment so the proxy-disabled fallback actually
	// bypasses a configured proxy.
	transport := &http.Transport{}
	if proxy != nil {
		transport.Proxy = proxy.proxyFunc()
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
