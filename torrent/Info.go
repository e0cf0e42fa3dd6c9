package torrent

import (
	"crypto/sha1"
	"fmt"

	"github.com/torrent-meta/bencode"
)

const hashSize = sha1.Size

// Info is the content of the "info" dictionary.
type Info struct {
	PieceLength int64
	Pieces      [][hashSize]byte
	// Private is nil when the key is absent.
	Private *bool
	Name    string
	// MultiFile is set when the dictionary has a "files" list. A
	// single-file torrent still has exactly one entry in Files.
	MultiFile bool
	Files     []File
}

type File struct {
	Length int64
	MD5Sum string
	// Path holds the path components below Name; empty for single-file
	// torrents.
	Path []string
}

func (i *Info) IsPrivate() bool {
	return i.Private != nil && *i.Private
}

func infoFromValue(v bencode.Value) (Info, error) {
	d, _ := v.Dict()
	info := Info{}
	err := resolve(d, "info", []rule{
		{"piece length", true, positive(&info.PieceLength)},
		{"pieces", true, pieceHashes(&info.Pieces)},
		{"private", false, privateFlag(&info.Private)},
		{"name", true, text(&info.Name)},
	})
	if err != nil {
		return Info{}, err
	}

	if d.Has("files") {
		info.MultiFile = true
		err = resolve(d, "info", []rule{
			{"files", true, files(&info.Files)},
		})
		if err != nil {
			return Info{}, err
		}
		return info, nil
	}

	f := File{Path: []string{}}
	err = resolve(d, "info", []rule{
		{"length", true, nonNegative(&f.Length)},
		{"md5sum", false, text(&f.MD5Sum)},
	})
	if err != nil {
		return Info{}, err
	}
	info.Files = []File{f}
	return info, nil
}

func pieceHashes(dst *[][hashSize]byte) converter {
	return func(v bencode.Value) error {
		b, ok := v.Bytes()
		if !ok {
			return mismatch(bencode.KindString, v)
		}
		hashes, err := splitPieces(b)
		if err != nil {
			return err
		}
		*dst = hashes
		return nil
	}
}

func splitPieces(buf []byte) ([][hashSize]byte, error) {
	if len(buf)%hashSize != 0 {
		return nil, &SchemaError{
			Kind:   InvalidPieceData,
			Detail: fmt.Sprintf("length %d is not a multiple of %d", len(buf), hashSize),
		}
	}
	pieceCount := len(buf) / hashSize
	hashes := make([][hashSize]byte, pieceCount)
	for i := 0; i < pieceCount; i++ {
		copy(hashes[i][:], buf[i*hashSize:(i+1)*hashSize])
	}
	return hashes, nil
}

// privateFlag accepts only 0 and 1.
func privateFlag(dst **bool) converter {
	return func(v bencode.Value) error {
		var n int64
		if err := integer(&n)(v); err != nil {
			return err
		}
		if n != 0 && n != 1 {
			return invalid("must be 0 or 1, got %d", n)
		}
		private := n == 1
		*dst = &private
		return nil
	}
}

func files(dst *[]File) converter {
	return func(v bencode.Value) error {
		items, ok := v.List()
		if !ok {
			return mismatch(bencode.KindList, v)
		}
		out := make([]File, len(items))
		for i, item := range items {
			path := fmt.Sprintf("info.files[%d]", i)
			fd, ok := item.Dict()
			if !ok {
				se := mismatch(bencode.KindDict, item)
				se.Path = path
				return se
			}
			f := &out[i]
			err := resolve(fd, path, []rule{
				{"length", true, nonNegative(&f.Length)},
				{"md5sum", false, text(&f.MD5Sum)},
				{"path", true, filePath(&f.Path)},
			})
			if err != nil {
				return err
			}
		}
		*dst = out
		return nil
	}
}

func filePath(dst *[]string) converter {
	return func(v bencode.Value) error {
		var segments []string
		if err := textList(&segments)(v); err != nil {
			return err
		}
		if len(segments) == 0 {
			return invalid("path has no components")
		}
		*dst = segments
		return nil
	}
}

// ComputeInfoHash returns the SHA-1 digest identifying a torrent, taken
// over the bencoded info dictionary.
func ComputeInfoHash(rawInfo []byte) [hashSize]byte {
	return sha1.Sum(rawInfo)
}

// rawInfo returns the source bytes of a decoded info dictionary, or its
// encoding when it was built in code.
func rawInfo(info bencode.Value) ([]byte, error) {
	if raw := info.Raw(); raw != nil {
		return raw, nil
	}
	if !info.IsValid() {
		return nil, nil
	}
	return bencode.Encode(info)
}
