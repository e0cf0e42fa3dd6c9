package torrent

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/torrent-meta/bencode"
)

// Marshal writes t as a .torrent file with sorted root keys. A parsed
// torrent keeps its original info dictionary byte for byte, so the output
// has the same info hash, and root keys this package does not model are
// carried through unchanged. Announce tiers are written in their stored,
// shuffled order, so the file as a whole is not a byte-exact copy of
// the input.
func (t *Torrent) Marshal() ([]byte, error) {
	entries := []bencode.Entry{{Key: "announce", Value: bencode.String(t.Announce)}}
	if len(t.AnnounceList) > 0 {
		tiers := make([]bencode.Value, len(t.AnnounceList))
		for i, tier := range t.AnnounceList {
			tiers[i] = stringList(tier)
		}
		entries = append(entries, bencode.Entry{Key: "announce-list", Value: bencode.NewList(tiers...)})
	}
	if t.Comment != "" {
		entries = append(entries, bencode.Entry{Key: "comment", Value: bencode.String(t.Comment)})
	}
	if t.CreatedBy != "" {
		entries = append(entries, bencode.Entry{Key: "created by", Value: bencode.String(t.CreatedBy)})
	}
	if !t.CreationDate.IsZero() {
		entries = append(entries, bencode.Entry{Key: "creation date", Value: bencode.Int(t.CreationDate.Unix())})
	}
	if t.Encoding != "" {
		entries = append(entries, bencode.Entry{Key: "encoding", Value: bencode.String(t.Encoding)})
	}

	info := t.info
	if !info.IsValid() {
		info = t.Info.value()
	}
	entries = append(entries, bencode.Entry{Key: "info", Value: info})
	entries = append(entries, t.extra...)

	slices.SortStableFunc(entries, func(a, b bencode.Entry) int {
		return strings.Compare(a.Key, b.Key)
	})
	root := bencode.NewDict()
	for _, e := range entries {
		root.Set(e.Key, e.Value)
	}
	return bencode.Encode(bencode.DictValue(root))
}

// value builds an info dictionary with sorted keys.
func (i *Info) value() bencode.Value {
	d := bencode.NewDict()
	if i.MultiFile {
		files := make([]bencode.Value, len(i.Files))
		for n, f := range i.Files {
			fd := bencode.NewDict().Set("length", bencode.Int(f.Length))
			if f.MD5Sum != "" {
				fd.Set("md5sum", bencode.String(f.MD5Sum))
			}
			fd.Set("path", stringList(f.Path))
			files[n] = bencode.DictValue(fd)
		}
		d.Set("files", bencode.NewList(files...))
	} else if len(i.Files) > 0 {
		d.Set("length", bencode.Int(i.Files[0].Length))
		if i.Files[0].MD5Sum != "" {
			d.Set("md5sum", bencode.String(i.Files[0].MD5Sum))
		}
	}
	d.Set("name", bencode.String(i.Name))
	d.Set("piece length", bencode.Int(i.PieceLength))

	pieces := make([]byte, 0, len(i.Pieces)*hashSize)
	for _, p := range i.Pieces {
		pieces = append(pieces, p[:]...)
	}
	d.Set("pieces", bencode.Bytes(pieces))
	if i.Private != nil {
		var flag int64
		if *i.Private {
			flag = 1
		}
		d.Set("private", bencode.Int(flag))
	}
	return bencode.DictValue(d)
}

func stringList(items []string) bencode.Value {
	values := make([]bencode.Value, len(items))
	for i, s := range items {
		values[i] = bencode.String(s)
	}
	return bencode.NewList(values...)
}
