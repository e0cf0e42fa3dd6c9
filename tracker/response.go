package tracker

import (
	"fmt"

	zeebo "github.com/zeebo/bencode"

	"github.com/torrent-meta/bencode"
	"github.com/torrent-meta/peers"
)

// Response is the typed view of an announce response.
type Response struct {
	WarningMessage string
	Interval       int64
	MinInterval    int64
	TrackerID      string
	Complete       int64
	Incomplete     int64
	Peers          []peers.Peer
}

type wireResponse struct {
	FailureReason  string        `bencode:"failure reason"`
	WarningMessage string        `bencode:"warning message"`
	Interval       int64         `bencode:"interval"`
	MinInterval    int64         `bencode:"min interval"`
	TrackerID      string        `bencode:"tracker id"`
	Complete       int64         `bencode:"complete"`
	Incomplete     int64         `bencode:"incomplete"`
	Peers          bencode.Value `bencode:"peers"`
}

// ParseResponse interprets a decoded announce response. A "failure
// reason" from the tracker is returned as an error wrapping ErrFailure.
func ParseResponse(v bencode.Value) (*Response, error) {
	if v.Kind() != bencode.KindDict {
		return nil, &Error{Kind: InvalidResponse, Err: fmt.Errorf("expected dictionary, got %s", v.Kind())}
	}
	raw := v.Raw()
	if raw == nil {
		var err error
		if raw, err = bencode.Encode(v); err != nil {
			return nil, &Error{Kind: InvalidResponse, Err: err}
		}
	}

	var wire wireResponse
	if err := zeebo.DecodeBytes(raw, &wire); err != nil {
		return nil, &Error{Kind: InvalidResponse, Err: err}
	}
	if wire.FailureReason != "" {
		return nil, fmt.Errorf("%w: %s", ErrFailure, wire.FailureReason)
	}

	resp := &Response{
		WarningMessage: wire.WarningMessage,
		Interval:       wire.Interval,
		MinInterval:    wire.MinInterval,
		TrackerID:      wire.TrackerID,
		Complete:       wire.Complete,
		Incomplete:     wire.Incomplete,
	}

	var err error
	switch wire.Peers.Kind() {
	case bencode.KindInvalid:
	case bencode.KindString:
		compact, _ := wire.Peers.Bytes()
		resp.Peers, err = peers.Unmarshal(compact)
	case bencode.KindList:
		resp.Peers, err = peers.FromList(wire.Peers)
	default:
		err = fmt.Errorf("peers: unexpected %s", wire.Peers.Kind())
	}
	if err != nil {
		return nil, &Error{Kind: InvalidResponse, Err: err}
	}
	return resp, nil
}
