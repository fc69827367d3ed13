package httpclient

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"portal/pkg/config"
)

const defaultUserAgent = "portal/webhook"

// HTTPClient доставка вебхуков подписчикам шины
type HTTPClient interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client http клиент вебхуков с общим пулом соединений на все адреса
type Client struct {
	http *http.Client
	tr   *http.Transport
	ua   string
}

func NewClient(cfg config.HTTPClient) *Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   orDefault(cfg.ConnectTimeout, 5*time.Second),
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   orDefault(cfg.TLSHandshakeTimeout, 5*time.Second),
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		ExpectContinueTimeout: cfg.ExpectContinueTimeout,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       orDefault(cfg.IdleConnTimeout, 90*time.Second),
		DisableKeepAlives:     !cfg.KeepAlives,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			// только для тестовых приемников с самоподписанным сертификатом
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	// 0 - дедлайн задает context вызова
	return &Client{
		http: &http.Client{Transport: tr, Timeout: cfg.ClientTimeout},
		tr:   tr,
		ua:   ua,
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Do отправляет запрос; User-Agent клиента ставится, если вызывающий его не задал
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req = req.WithContext(ctx)
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.ua)
	}
	return c.http.Do(req)
}

// CloseIdle закрывает простаивающие соединения при остановке сервиса
func (c *Client) CloseIdle() { c.tr.CloseIdleConnections() }
