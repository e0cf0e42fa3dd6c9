package torrent

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
)

var (
	ErrPieceIndex  = errors.New("piece index out of range")
	ErrPieceLength = errors.New("piece has wrong length")
	ErrPieceHash   = errors.New("piece failed integrity check")
)

// VerifyPiece checks data against the SHA-1 digest of piece index.
func (t *Torrent) VerifyPiece(index int, data []byte) error {
	if index < 0 || index >= t.PieceCount() {
		return fmt.Errorf("%w: %d of %d", ErrPieceIndex, index, t.PieceCount())
	}
	if size := t.PieceSize(index); int64(len(data)) != size {
		return fmt.Errorf("%w: piece %d is %d bytes, got %d", ErrPieceLength, index, size, len(data))
	}
	hash := sha1.Sum(data)
	if !bytes.Equal(hash[:], t.Info.Pieces[index][:]) {
		return fmt.Errorf("%w: piece %d", ErrPieceHash, index)
	}
	return nil
}
