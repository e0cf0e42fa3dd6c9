package torrent

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"golang.org/x/exp/slices"

	"github.com/torrent-meta/bencode"
)

// Torrent is the typed view of a metainfo file. It is built once by
// FromValue and not modified afterwards.
type Torrent struct {
	Announce     string
	AnnounceList [][]string
	// CreationDate is in UTC; zero when the file has none.
	CreationDate time.Time
	Comment      string
	CreatedBy    string
	Encoding     string
	Info         Info
	InfoHash     [20]byte

	info bencode.Value
	// extra holds root entries not modelled above, in source order.
	extra []bencode.Entry
}

var knownRootKeys = map[string]bool{
	"announce":      true,
	"announce-list": true,
	"creation date": true,
	"comment":       true,
	"created by":    true,
	"encoding":      true,
	"info":          true,
}

// shuffle permutes announce tiers. Replaced in tests.
var shuffle = rand.Shuffle

// Open reads and parses the .torrent file at path.
func Open(path string) (*Torrent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func New(r io.Reader) (*Torrent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes data and maps it into a Torrent.
func Parse(data []byte) (*Torrent, error) {
	v, err := bencode.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode torrent: %w", err)
	}
	return FromValue(v)
}

// FromValue maps a decoded metainfo dictionary into a Torrent and
// derives its info hash.
func FromValue(v bencode.Value) (*Torrent, error) {
	root, ok := v.Dict()
	if !ok {
		return nil, &SchemaError{Kind: RootNotDictionary, Expected: bencode.KindDict, Actual: v.Kind()}
	}

	t := &Torrent{}
	var info bencode.Value
	err := resolve(root, "", []rule{
		{"announce", true, text(&t.Announce)},
		{"announce-list", false, announceList(&t.AnnounceList)},
		{"creation date", false, timestamp(&t.CreationDate)},
		{"comment", false, text(&t.Comment)},
		{"created by", false, text(&t.CreatedBy)},
		{"encoding", false, text(&t.Encoding)},
		{"info", true, ofKind(bencode.KindDict, &info)},
	})
	if err != nil {
		return nil, err
	}

	for _, e := range root.Entries() {
		if !knownRootKeys[e.Key] {
			t.extra = append(t.extra, e)
		}
	}

	if t.Info, err = infoFromValue(info); err != nil {
		return nil, err
	}
	raw, err := rawInfo(info)
	if err != nil {
		return nil, err
	}
	t.info = info
	t.InfoHash = ComputeInfoHash(raw)
	return t, nil
}

// announceList converts tiers of tracker URLs. URLs within a tier are
// shuffled; the order of tiers is kept.
func announceList(dst *[][]string) converter {
	return func(v bencode.Value) error {
		tiers, ok := v.List()
		if !ok {
			return mismatch(bencode.KindList, v)
		}
		out := make([][]string, 0, len(tiers))
		for i, tier := range tiers {
			var urls []string
			if err := textList(&urls)(tier); err != nil {
				var se *SchemaError
				if !errors.As(err, &se) {
					return fmt.Errorf("tier %d: %w", i, err)
				}
				if se.Detail == "" {
					se.Detail = fmt.Sprintf("tier %d", i)
				} else {
					se.Detail = fmt.Sprintf("tier %d %s", i, se.Detail)
				}
				return err
			}
			shuffle(len(urls), func(a, b int) {
				urls[a], urls[b] = urls[b], urls[a]
			})
			out = append(out, urls)
		}
		*dst = out
		return nil
	}
}

func timestamp(dst *time.Time) converter {
	return func(v bencode.Value) error {
		var secs int64
		if err := integer(&secs)(v); err != nil {
			return err
		}
		*dst = time.Unix(secs, 0).UTC()
		return nil
	}
}

// TotalLength is the sum of all file lengths, the amount left to
// download for a fresh client.
func (t *Torrent) TotalLength() int64 {
	var n int64
	for _, f := range t.Info.Files {
		n += f.Length
	}
	return n
}

func (t *Torrent) PieceCount() int {
	return len(t.Info.Pieces)
}

// PieceBounds returns the byte range [begin, end) covered by piece index.
// The last piece is cut short at TotalLength; pieces past the data are
// empty.
func (t *Torrent) PieceBounds(index int) (int64, int64) {
	if index < 0 || index >= t.PieceCount() {
		return 0, 0
	}
	total := t.TotalLength()
	if t.Info.PieceLength <= 0 || int64(index) > total/t.Info.PieceLength {
		return total, total
	}
	begin := int64(index) * t.Info.PieceLength
	end := total
	if t.Info.PieceLength < total-begin {
		end = begin + t.Info.PieceLength
	}
	return begin, end
}

func (t *Torrent) PieceSize(index int) int64 {
	begin, end := t.PieceBounds(index)
	return end - begin
}

func (t *Torrent) InfoHashHex() string {
	return hex.EncodeToString(t.InfoHash[:])
}

// RawInfo returns the bytes the info hash was computed from.
func (t *Torrent) RawInfo() []byte {
	raw, _ := rawInfo(t.info)
	return raw
}

// Trackers lists every distinct tracker URL, announce first, then the
// tiers in order.
func (t *Torrent) Trackers() []string {
	out := []string{t.Announce}
	for _, tier := range t.AnnounceList {
		for _, u := range tier {
			if !slices.Contains(out, u) {
				out = append(out, u)
			}
		}
	}
	return out
}
