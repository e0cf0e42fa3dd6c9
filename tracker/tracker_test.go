package tracker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torrent-meta/bencode"
	"github.com/torrent-meta/torrent"
)

const testPeerID = "-TM0001-0123456789ab"

func newTorrent(t *testing.T, announce string) *torrent.Torrent {
	t.Helper()
	info := "d6:lengthi1000e4:name4:test12:piece lengthi512e6:pieces40:" + strings.Repeat("x", 40) + "e"
	data := fmt.Sprintf("d8:announce%d:%s4:info%se", len(announce), announce, info)
	tr, err := torrent.Parse([]byte(data))
	require.NoError(t, err)
	return tr
}

func TestURLQuery(t *testing.T) {
	tr := newTorrent(t, "http://tracker.example/announce")
	tk, err := New(tr, testPeerID, DefaultConfig())
	require.NoError(t, err)

	raw := tk.URL()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "tracker.example", u.Host)
	assert.Equal(t, "/announce", u.Path)

	assert.Contains(t, raw, "left=1000")
	assert.Contains(t, raw, "port=26644")
	assert.Contains(t, raw, "compact=1")
	assert.Contains(t, raw, "event=started")

	q := u.Query()
	assert.Equal(t, testPeerID, q.Get("peer_id"))
	assert.Equal(t, "0", q.Get("uploaded"))
	assert.Equal(t, "0", q.Get("downloaded"))
	assert.Equal(t, string(tr.InfoHash[:]), q.Get("info_hash"))
}

func TestURLEscapesEveryInfoHashByte(t *testing.T) {
	tr := newTorrent(t, "http://tracker.example/announce")
	tk, err := New(tr, testPeerID, DefaultConfig())
	require.NoError(t, err)

	raw := tk.URL()
	i := strings.Index(raw, "info_hash=")
	require.NotEqual(t, -1, i)
	escaped := raw[i+len("info_hash="):]
	assert.Len(t, escaped, 60)
	for j := 0; j < len(escaped); j += 3 {
		assert.Equal(t, byte('%'), escaped[j])
	}
	decoded, err := url.QueryUnescape(escaped)
	require.NoError(t, err)
	assert.Equal(t, tr.InfoHash[:], []byte(decoded))
}

func TestEscapeBytes(t *testing.T) {
	assert.Equal(t, "%00%41%FF", escapeBytes([]byte{0x00, 'A', 0xff}))
	assert.Equal(t, "", escapeBytes(nil))
}

func TestURLKeepsExistingQuery(t *testing.T) {
	tr := newTorrent(t, "http://tracker.example/announce?passkey=secret")
	tk, err := New(tr, testPeerID, Config{Port: 6881})
	require.NoError(t, err)

	u, err := url.Parse(tk.URL())
	require.NoError(t, err)
	assert.Equal(t, "secret", u.Query().Get("passkey"))
	assert.Equal(t, "6881", u.Query().Get("port"))
}

func TestNewInvalidAnnounce(t *testing.T) {
	tr := newTorrent(t, "http://[::1")
	_, err := New(tr, testPeerID, DefaultConfig())
	assert.Error(t, err)
}

func TestAnnounce(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/announce", r.URL.Path)
		got = r.URL.Query()
		fmt.Fprint(w, "d8:intervali1800e5:peers6:\x7f\x00\x00\x01\x1a\xe1e")
	}))
	defer srv.Close()

	tr := newTorrent(t, srv.URL+"/announce")
	tk, err := New(tr, testPeerID, Config{Port: 6881, HTTPClient: srv.Client()})
	require.NoError(t, err)

	v, err := tk.Announce(context.Background())
	require.NoError(t, err)

	d, ok := v.Dict()
	require.True(t, ok)
	assert.Equal(t, []string{"interval", "peers"}, d.Keys())
	assert.Equal(t, "1000", got.Get("left"))
	assert.Equal(t, "6881", got.Get("port"))
	assert.Equal(t, "started", got.Get("event"))
	assert.Equal(t, string(tr.InfoHash[:]), got.Get("info_hash"))

	resp, err := ParseResponse(v)
	require.NoError(t, err)
	assert.Equal(t, int64(1800), resp.Interval)
	require.Len(t, resp.Peers, 1)
	assert.Equal(t, "127.0.0.1:6881", resp.Peers[0].String())
}

func TestAnnounceErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    ErrorKind
		target  error
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusNotFound)
			},
			kind:   Status,
			target: ErrStatus,
		},
		{
			name: "invalid body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "<html>not bencode</html>")
			},
			kind:   InvalidResponse,
			target: ErrInvalidResponse,
		},
		{
			name: "trailing data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "de extra")
			},
			kind:   InvalidResponse,
			target: ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			tk, err := New(newTorrent(t, srv.URL), testPeerID, Config{HTTPClient: srv.Client()})
			require.NoError(t, err)

			_, err = tk.Announce(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var te *Error
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.kind, te.Kind)
			if tt.kind == Status {
				assert.Equal(t, http.StatusNotFound, te.StatusCode)
				assert.Contains(t, te.Error(), "404")
			}
		})
	}
}

func TestAnnounceTransportFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	tk, err := New(newTorrent(t, "http://"+addr+"/announce"), testPeerID, Config{Timeout: time.Second})
	require.NoError(t, err)

	_, err = tk.Announce(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestAnnounceContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "de")
	}))
	defer srv.Close()

	tk, err := New(newTorrent(t, srv.URL), testPeerID, Config{HTTPClient: srv.Client()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tk.Announce(ctx)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnnounceDefaultConfig(t *testing.T) {
	var port string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		port = r.URL.Query().Get("port")
		fmt.Fprint(w, "d14:failure reason6:bannede")
	}))
	defer srv.Close()

	v, err := Announce(context.Background(), testPeerID, newTorrent(t, srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "26644", port)

	_, err = ParseResponse(v)
	assert.ErrorIs(t, err, ErrFailure)
	assert.Contains(t, err.Error(), "banned")
}

func TestParseResponse(t *testing.T) {
	body := "d8:completei3e10:incompletei1e8:intervali900e12:min intervali60e" +
		"5:peersld2:ip8:10.0.0.27:peer id20:abcdefghijklmnopqrst4:porti51413eee" +
		"10:tracker id3:abc15:warning message4:slowe"
	v, err := bencode.Decode([]byte(body))
	require.NoError(t, err)

	resp, err := ParseResponse(v)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Complete)
	assert.Equal(t, int64(1), resp.Incomplete)
	assert.Equal(t, int64(900), resp.Interval)
	assert.Equal(t, int64(60), resp.MinInterval)
	assert.Equal(t, "abc", resp.TrackerID)
	assert.Equal(t, "slow", resp.WarningMessage)
	require.Len(t, resp.Peers, 1)
	assert.Equal(t, "10.0.0.2:51413", resp.Peers[0].String())
	assert.Equal(t, "abcdefghijklmnopqrst", resp.Peers[0].ID)
}

func TestParseResponseConstructed(t *testing.T) {
	d := bencode.NewDict().
		Set("interval", bencode.Int(30)).
		Set("peers", bencode.Bytes([]byte{10, 0, 0, 1, 0x1a, 0xe1, 10, 0, 0, 2, 0x1a, 0xe2}))

	resp, err := ParseResponse(bencode.DictValue(d))
	require.NoError(t, err)
	assert.Equal(t, int64(30), resp.Interval)
	require.Len(t, resp.Peers, 2)
	assert.Equal(t, uint16(6882), resp.Peers[1].Port)
}

func TestParseResponseInvalid(t *testing.T) {
	tests := []struct {
		name string
		v    bencode.Value
	}{
		{"not a dict", bencode.Int(1)},
		{"bad compact peers", bencode.DictValue(bencode.NewDict().Set("peers", bencode.String("12345")))},
		{"peers integer", bencode.DictValue(bencode.NewDict().Set("peers", bencode.Int(1)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.v)
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestNewPeerID(t *testing.T) {
	a, b := NewPeerID(), NewPeerID()
	assert.Len(t, a, 20)
	assert.True(t, strings.HasPrefix(a, "-TM0001-"))
	assert.NotEqual(t, a, b)
}
