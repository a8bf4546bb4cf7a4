package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"candle-chart/src/helpers"
	"candle-chart/src/interfaces"
	"candle-chart/src/logger"
	"candle-chart/src/models"
)

const maxBodyBytes = 32 << 20

type NetworkManager struct {
	Config       *models.MConfig
	ProxyManager interfaces.IProxyManager
	Logger       *logger.Logger
	BaseDelay    time.Duration

	client *http.Client
	slots  chan struct{}
	mu     sync.Mutex
}

// -----------------------------------------------------------------------------

func NewNetworkManager(cfg *models.MConfig, log *logger.Logger) *NetworkManager {
	if log == nil {
		log = logger.NewLogger(nil, "NetworkManager")
	}
	var proxies []string
	if cfg.Network.Enabled {
		proxies = cfg.Network.Proxies
	}
	concurrency := cfg.Network.ConcurrentRequests
	if concurrency <= 0 {
		concurrency = 1
	}

	nm := &NetworkManager{
		Config:       cfg,
		ProxyManager: helpers.NewProxyManager(proxies, cfg.Network.UserAgent),
		Logger:       log,
		BaseDelay:    time.Second,
		slots:        make(chan struct{}, concurrency),
	}
	nm.client = nm.createClient()
	return nm
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) createClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if nm.ProxyManager.HasProxies() {
		proxyStr, err := nm.ProxyManager.GetCurrentProxy()
		if err == nil && proxyStr != "" {
			if proxyURL, err := url.Parse(proxyStr); err == nil {
				transport.Proxy = http.ProxyURL(proxyURL)
			}
		}
	}

	timeout := time.Duration(nm.Config.Network.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

func (nm *NetworkManager) currentClient() *http.Client {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	return nm.client
}

func (nm *NetworkManager) rotateProxy() {
	if !nm.ProxyManager.HasProxies() {
		return
	}
	nm.ProxyManager.RotateProxy()

	nm.mu.Lock()
	nm.client = nm.createClient()
	nm.mu.Unlock()
}

// -----------------------------------------------------------------------------

// Get performs a GET request with retries and proxy rotation. At most
// concurrent_requests calls are in flight at once.
func (nm *NetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, helpers.WrapNetworkError(err, "parse url %s", urlStr)
	}
	q := reqURL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	reqURL.RawQuery = q.Encode()
	target := reqURL.String()

	select {
	case nm.slots <- struct{}{}:
		defer func() { <-nm.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var body []byte
	attempts := nm.Config.Network.MaxRetries + 1
	err = helpers.RetryWithBackoff(ctx, "GET "+reqURL.Host+reqURL.Path, attempts, nm.BaseDelay, func() error {
		b, err := nm.do(ctx, target)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, helpers.WrapNetworkError(err, "GET %s", reqURL.Host+reqURL.Path)
	}
	return body, nil
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) do(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", nm.ProxyManager.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := nm.currentClient().Do(req)
	if err != nil {
		nm.rotateProxy()
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		nm.Logger.Warning("Request blocked (%d). Rotating proxy.", resp.StatusCode)
		nm.rotateProxy()
		return nil, fmt.Errorf("blocked (status %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
