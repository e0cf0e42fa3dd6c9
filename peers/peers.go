// Package peers decodes the peer lists returned by trackers.
package peers

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"

	"github.com/torrent-meta/bencode"
)

const peerSize = 6

type Peer struct {
	IP   net.IP
	Port uint16
	// ID is only known from the dictionary form of the list.
	ID string
}

// Unmarshal decodes the compact form: 4 bytes of IPv4 address followed by
// a big-endian port, per peer.
func Unmarshal(resp []byte) ([]Peer, error) {
	if len(resp)%peerSize != 0 {
		return nil, fmt.Errorf("malformed compact peers: length %d is not a multiple of %d", len(resp), peerSize)
	}
	numPeers := len(resp) / peerSize
	peers := make([]Peer, numPeers)
	for i := 0; i < numPeers; i++ {
		offset := i * peerSize
		peers[i].IP = net.IPv4(resp[offset], resp[offset+1], resp[offset+2], resp[offset+3])
		peers[i].Port = binary.BigEndian.Uint16(resp[offset+4 : offset+6])
	}
	return peers, nil
}

// FromList decodes the dictionary form: a list of {"peer id", "ip", "port"}.
func FromList(v bencode.Value) ([]Peer, error) {
	items, ok := v.List()
	if !ok {
		return nil, fmt.Errorf("peers: expected list, got %s", v.Kind())
	}
	peers := make([]Peer, len(items))
	for i, item := range items {
		d, ok := item.Dict()
		if !ok {
			return nil, fmt.Errorf("peer %d is not a dictionary", i)
		}

		ipVal, _ := d.Get("ip")
		ipStr, ok := ipVal.Text()
		if !ok {
			return nil, fmt.Errorf("peer %d has no ip", i)
		}
		peers[i].IP = net.ParseIP(ipStr)
		if peers[i].IP == nil {
			return nil, fmt.Errorf("peer %d has invalid ip address: %q", i, ipStr)
		}

		portVal, _ := d.Get("port")
		port, ok := portVal.Int()
		if !ok || port < 0 || port > 65535 {
			return nil, fmt.Errorf("peer %d has invalid port", i)
		}
		peers[i].Port = uint16(port)

		if idVal, ok := d.Get("peer id"); ok {
			if peers[i].ID, ok = idVal.Text(); !ok {
				return nil, fmt.Errorf("peer %d has invalid peer id", i)
			}
		}
	}
	return peers, nil
}

func (p Peer) String() string {
	return net.JoinHostPort(p.IP.String(), strconv.Itoa(int(p.Port)))
}
