package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"
)

// Digests holds the SHA-256 and BLAKE3 digests of one byte string.
type Digests struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
	Size   int64  `json:"size"`
}

// Sum computes both digests of data.
func Sum(data []byte) Digests {
	return Digests{
		SHA256: Hash(data),
		BLAKE3: Blake3Hash(data),
		Size:   int64(len(data)),
	}
}

// SumReader computes both digests of everything read from r in one pass.
func SumReader(r io.Reader) (Digests, error) {
	s2 := sha256.New()
	b3 := blake3.New()
	n, err := io.Copy(io.MultiWriter(s2, b3), r)
	if err != nil {
		return Digests{}, err
	}
	return Digests{
		SHA256: hex.EncodeToString(s2.Sum(nil)),
		BLAKE3: hex.EncodeToString(b3.Sum(nil)),
		Size:   n,
	}, nil
}

// Hash computes the SHA-256 hash of data.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Blake3Hash computes the BLAKE3 hash of data.
func Blake3Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}
