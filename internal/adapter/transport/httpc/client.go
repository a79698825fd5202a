package httpc

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"

	"github.com/dayanaadylkhanova/pow-miner/internal/entity"
)

type Protocol string

const (
	ProtoH2 Protocol = "h2"
	ProtoH3 Protocol = "h3"
)

// maxBodySize caps a decoded response body.
const maxBodySize = 10 << 20

type Options struct {
	Protocol Protocol
	ProxyURL string
	// Timeout of zero means no timeout.
	Timeout time.Duration
}

// Client performs requests for the mining session. Compression is
// negotiated by the caller's Accept-Encoding and undone here.
type Client struct {
	hc     *http.Client
	closer io.Closer
}

func New(opts Options) (*Client, error) {
	switch opts.Protocol {
	case "", ProtoH2:
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.ForceAttemptHTTP2 = true
		tr.DisableCompression = true
		if opts.ProxyURL != "" {
			u, err := url.Parse(opts.ProxyURL)
			if err != nil {
				return nil, fmt.Errorf("proxy url: %w", err)
			}
			tr.Proxy = http.ProxyURL(u)
		}
		return &Client{hc: &http.Client{Transport: tr, Timeout: opts.Timeout}}, nil

	case ProtoH3:
		if opts.ProxyURL != "" {
			return nil, errors.New("proxy is not supported over http3")
		}
		tr := &http3.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion:         tls.VersionTLS13,
				ClientSessionCache: tls.NewLRUClientSessionCache(128),
				NextProtos:         []string{http3.NextProtoH3},
			},
			QUICConfig: &quic.Config{
				KeepAlivePeriod: 10 * time.Second,
				MaxIdleTimeout:  5 * time.Minute,
			},
			DisableCompression: true,
		}
		return &Client{hc: &http.Client{Transport: tr, Timeout: opts.Timeout}, closer: tr}, nil

	default:
		return nil, fmt.Errorf("unknown http protocol %q", opts.Protocol)
	}
}

func (c *Client) Send(ctx context.Context, r entity.Request) (entity.Response, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return entity.Response{}, fmt.Errorf("build request: %w", err)
	}
	if r.Header != nil {
		req.Header = r.Header.Clone()
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return entity.Response{}, err
	}
	defer resp.Body.Close()

	b, err := readBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		// the exchange happened; callers still need status and cookies
		return entity.Response{Status: resp.StatusCode, Header: resp.Header},
			fmt.Errorf("%w: %w", entity.ErrBodyUnreadable, err)
	}
	return entity.Response{Status: resp.StatusCode, Header: resp.Header, Body: b}, nil
}

func (c *Client) Close() error {
	c.hc.CloseIdleConnections()
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
