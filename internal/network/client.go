package network

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// ClientFactory creates HTTP clients for the remote API with proxy configuration.
type ClientFactory struct {
	transport *http.Transport // nil means direct connections
}

// NewClientFactory builds the proxy transport once. An empty proxyURL means
// direct connections; a proxy that cannot be used is an error, never a silent
// fallback to direct.
func NewClientFactory(proxyURL string) (*ClientFactory, error) {
	proxyURL = strings.TrimSpace(proxyURL)
	if proxyURL == "" {
		return &ClientFactory{}, nil
	}
	transport, err := newTransportWithProxy(proxyURL)
	if err != nil {
		return nil, err
	}
	return &ClientFactory{transport: transport}, nil
}

// NewHTTPClient creates an http.Client with proxy configuration.
func (f *ClientFactory) NewHTTPClient(timeout time.Duration) *http.Client {
	client := &http.Client{Timeout: timeout}
	if f.transport != nil {
		client.Transport = f.transport
	}
	return client
}

// ValidateProxyURL accepts empty, http, https, socks5 and socks5h URLs with a host.
func ValidateProxyURL(raw string) error {
	_, err := parseProxyURL(raw)
	return err
}

func parseProxyURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}
	switch parsed.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("proxy url %q has no host", raw)
	}
	return parsed, nil
}

// newTransportWithProxy creates an http.Transport with proper proxy support.
// SOCKS proxies go through golang.org/x/net/proxy; HTTP(S) proxies use http.ProxyURL.
func newTransportWithProxy(proxyURL string) (*http.Transport, error) {
	parsed, err := parseProxyURL(proxyURL)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(parsed.Scheme, "socks") {
		var auth *proxy.Auth
		if parsed.User != nil {
			auth = &proxy.Auth{
				User: parsed.User.Username(),
			}
			if password, ok := parsed.User.Password(); ok {
				auth.Password = password
			}
		}

		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("build socks5 dialer: %w", err)
		}

		if cd, ok := dialer.(proxy.ContextDialer); ok {
			return &http.Transport{DialContext: cd.DialContext}, nil
		}
		return &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}, nil
	}

	return &http.Transport{
		Proxy: http.ProxyURL(parsed),
	}, nil
}
