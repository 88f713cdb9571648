package formats

import (
	"bytes"
	"fmt"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	"github.com/FocuswithJustin/gutenkjv/internal/archive"
	"github.com/FocuswithJustin/gutenkjv/internal/validation"
)

// EncodeBytes encodes doc with c into memory.
func EncodeBytes(c Codec, doc *scripture.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf, doc); err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.Info().Name, err)
	}
	return buf.Bytes(), nil
}

// DecodeBytes decodes data with c.
func DecodeBytes(c Codec, data []byte) (*scripture.Document, error) {
	d, err := AsDecoder(c)
	if err != nil {
		return nil, err
	}
	return d.Decode(bytes.NewReader(data))
}

// WriteFile encodes doc with c and writes it to path atomically, compressing
// according to the path suffix. It returns the number of encoded bytes.
func WriteFile(path string, c Codec, doc *scripture.Document) (int64, error) {
	data, err := EncodeBytes(c, doc)
	if err != nil {
		return 0, err
	}
	if err := archive.WriteFile(path, data); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// ReadFile decodes the file at path with c, decompressing according to the
// path suffix.
func ReadFile(path string, c Codec) (*scripture.Document, error) {
	d, err := AsDecoder(c)
	if err != nil {
		return nil, err
	}
	rc, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := validation.ReadAllLimited(rc, validation.MaxSourceSize)
	if err != nil {
		return nil, gkerrors.NewIO("read", path, err)
	}
	doc, err := d.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
