package tracker

import "github.com/thanhpk/randstr"

const (
	peerIDPrefix = "-TM0001-"
	peerIDLen    = 20
)

// NewPeerID returns a 20 character client identity: a fixed client
// prefix followed by random hex digits.
func NewPeerID() string {
	id := peerIDPrefix + randstr.Hex(peerIDLen-len(peerIDPrefix))
	return id[:peerIDLen]
}
