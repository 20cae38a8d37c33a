// Package httpclient builds the HTTP client used to fetch remote tables.
// Requests to loopback, private and other non-public addresses are refused
// unless explicitly allowed, both for the initial URL and every redirect.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/teranos/typeinfer/errors"
)

const (
	DefaultTimeout      = 60 * time.Second
	DefaultMaxRedirects = 10
)

type options struct {
	timeout      time.Duration
	maxRedirects int
	allowPrivate bool
}

// Option configures New
type Option func(*options)

// WithTimeout sets the overall request timeout
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMaxRedirects caps how many redirects are followed
func WithMaxRedirects(n int) Option {
	return func(o *options) { o.maxRedirects = n }
}

// AllowPrivateHosts permits localhost and private network addresses
func AllowPrivateHosts() Option {
	return func(o *options) { o.allowPrivate = true }
}

// New returns an http.Client that validates every request URL and, unless
// private hosts are allowed, every resolved address before dialing.
func New(opts ...Option) *http.Client {
	o := options{timeout: DefaultTimeout, maxRedirects: DefaultMaxRedirects}
	for _, opt := range opts {
		opt(&o)
	}

	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if !o.allowPrivate {
		base.Proxy = nil
		base.DialContext = publicOnly(dialer)
	}

	return &http.Client{
		Timeout:   o.timeout,
		Transport: &guard{base: base, allowPrivate: o.allowPrivate},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= o.maxRedirects {
				return errors.Newf("stopped after %d redirects", o.maxRedirects)
			}
			if err := validate(req.URL, o.allowPrivate); err != nil {
				return errors.Wrap(err, "redirect blocked")
			}
			return nil
		},
	}
}

// guard validates the URL of every request before it is sent
type guard struct {
	base         http.RoundTripper
	allowPrivate bool
}

func (g *guard) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := validate(req.URL, g.allowPrivate); err != nil {
		return nil, err
	}
	return g.base.RoundTrip(req)
}

// publicOnly resolves the host itself so a DNS answer pointing at a private
// address is refused at dial time.
func publicOnly(dialer *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, errors.Wrap(err, "invalid address")
		}

		ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve host %q", host)
		}
		for _, ip := range ips {
			if !IsPublic(ip) {
				return nil, errors.NewInvalidInputError("address %s of %s is not public", ip, host)
			}
		}
		return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].String(), port))
	}
}

// ValidateURL parses raw and checks it would be fetched
func ValidateURL(raw string, allowPrivate bool) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidInput), "invalid URL")
	}
	if err := validate(u, allowPrivate); err != nil {
		return nil, err
	}
	return u, nil
}

func validate(u *url.URL, allowPrivate bool) error {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return errors.NewInvalidInputError("scheme %q not allowed (allowed: http, https)", u.Scheme)
	}

	// http://public.example@10.0.0.1/ reads as the first host to a human
	if u.User != nil {
		return errors.NewInvalidInputError("URL %s carries credentials", u.Redacted())
	}

	host := u.Hostname()
	if host == "" {
		return errors.NewInvalidInputError("URL %s has no host", u.Redacted())
	}
	if allowPrivate {
		return nil
	}

	if isLocalhost(host) {
		return errors.NewInvalidInputError("localhost access blocked")
	}
	if ip := net.ParseIP(host); ip != nil && !IsPublic(ip) {
		return errors.NewInvalidInputError("private address %s blocked", host)
	}
	return nil
}

var reservedV4 = []*net.IPNet{
	mustCIDR("0.0.0.0/8"),
	mustCIDR("100.64.0.0/10"), // carrier-grade NAT
	mustCIDR("192.0.2.0/24"),
	mustCIDR("198.18.0.0/15"),
	mustCIDR("198.51.100.0/24"),
	mustCIDR("203.0.113.0/24"),
	mustCIDR("240.0.0.0/4"),
}

var documentationV6 = mustCIDR("2001:db8::/32")

// IsPublic reports whether ip is a routable public unicast address
func IsPublic(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return false
	}
	if ip4 := ip.To4(); ip4 != nil {
		for _, block := range reservedV4 {
			if block.Contains(ip4) {
				return false
			}
		}
		return true
	}
	if len(ip) != net.IPv6len {
		return false
	}
	// fec0::/10 site-local is deprecated but still not public
	if ip[0] == 0xfe && ip[1]&0xc0 == 0xc0 {
		return false
	}
	return !documentationV6.Contains(ip)
}

func isLocalhost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	return host == "localhost" ||
		host == "localhost.localdomain" ||
		strings.HasSuffix(host, ".localhost")
}

func mustCIDR(s string) *net.IPNet {
	_, n, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return n
}
