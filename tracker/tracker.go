// Package tracker announces a torrent to its HTTP tracker.
package tracker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/torrent-meta/bencode"
	"github.com/torrent-meta/torrent"
)

const (
	DefaultPort    = 26644
	DefaultTimeout = 15 * time.Second
)

type Config struct {
	// Port is the port this client listens on for peers.
	Port    uint16
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

func DefaultConfig() Config {
	return Config{Port: DefaultPort, Timeout: DefaultTimeout}
}

// Tracker holds one prepared "started" announce request.
type Tracker struct {
	RawURL   *url.URL
	Params   url.Values
	InfoHash [20]byte

	client *http.Client
}

func New(tr *torrent.Torrent, peerID string, cfg Config) (*Tracker, error) {
	base, err := url.Parse(tr.Announce)
	if err != nil {
		return nil, fmt.Errorf("invalid announce url: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	params := url.Values{
		"peer_id":    []string{peerID},
		"port":       []string{strconv.Itoa(int(cfg.Port))},
		"uploaded":   []string{"0"},
		"downloaded": []string{"0"},
		"left":       []string{strconv.FormatInt(tr.TotalLength(), 10)},
		"compact":    []string{"1"},
		"event":      []string{"started"},
	}

	return &Tracker{
		RawURL:   base,
		Params:   params,
		InfoHash: tr.InfoHash,
		client:   client,
	}, nil
}

// URL returns the announce URL with the query attached. Parameters
// already present on the announce URL are kept.
func (t *Tracker) URL() string {
	query := t.RawURL.Query()
	for k, v := range t.Params {
		query[k] = v
	}
	u := *t.RawURL
	u.RawQuery = query.Encode() + "&info_hash=" + escapeBytes(t.InfoHash[:])
	return u.String()
}

// escapeBytes percent-encodes every byte of b.
func escapeBytes(b []byte) string {
	const hexDigits = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for _, c := range b {
		sb.WriteByte('%')
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0x0f])
	}
	return sb.String()
}

// Announce sends the request and returns the decoded response body.
// Failures are returned as *Error and never retried.
func (t *Tracker) Announce(ctx context.Context) (bencode.Value, error) {
	target := t.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return bencode.Value{}, &Error{Kind: Transport, URL: t.RawURL.Redacted(), Err: err}
	}

	log.WithField("url", t.RawURL.Redacted()).Debug("announcing to tracker")
	resp, err := t.client.Do(req)
	if err != nil {
		return bencode.Value{}, &Error{Kind: Transport, URL: t.RawURL.Redacted(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return bencode.Value{}, &Error{Kind: Status, URL: t.RawURL.Redacted(), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return bencode.Value{}, &Error{Kind: Transport, URL: t.RawURL.Redacted(), Err: err}
	}
	log.WithFields(log.Fields{
		"status": resp.StatusCode,
		"bytes":  len(body),
	}).Debug("tracker responded")

	v, err := bencode.Decode(body)
	if err != nil {
		return bencode.Value{}, &Error{Kind: InvalidResponse, URL: t.RawURL.Redacted(), Err: err}
	}
	return v, nil
}

// Announce sends a "started" announce for tr with the default config.
func Announce(ctx context.Context, peerID string, tr *torrent.Torrent) (bencode.Value, error) {
	t, err := New(tr, peerID, DefaultConfig())
	if err != nil {
		return bencode.Value{}, err
	}
	return t.Announce(ctx)
}
