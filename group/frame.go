package group

import (
	"encoding/binary"
	"io"
)

// Frame writes each part prefixed with its 8-byte big-endian length to w.
// Framing keeps hash transcripts injective when parts have variable length.
// Writes to hash.Hash values never fail, so errors are not reported.
func Frame(w io.Writer, parts ...[]byte) {
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		w.Write(n[:])
		w.Write(p)
	}
}
