// Package keyed is the object-of-objects JSON codec:
// testament → book → chapter → verse → text. Keys are written in canonical
// book order and numeric chapter and verse order.
package keyed

import (
	"bytes"
	"encoding/json"
	"io"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	"github.com/FocuswithJustin/gutenkjv/internal/formats"
)

// Codec implements formats.Codec and formats.Decoder.
type Codec struct{}

// Register registers this codec with the format registry.
func Register() {
	formats.Register(Codec{})
}

func init() {
	Register()
}

// Info implements formats.Codec.
func (Codec) Info() formats.Info {
	return formats.Info{
		Name:        "json-keyed",
		Extensions:  []string{".keyed.json"},
		Description: "pretty-printed JSON, nested objects keyed by book, chapter and verse",
		CanDecode:   true,
	}
}

// Encode implements formats.Codec. encoding/json sorts map keys as strings,
// which would put chapter 10 before chapter 2, so the object is written by
// hand and indented afterwards.
func (Codec) Encode(w io.Writer, doc *scripture.Document) error {
	k := scripture.ToKeyed(doc)

	var compact bytes.Buffer
	compact.WriteByte('{')
	if len(k.OldContents) > 0 {
		writeKey(&compact, "old_contents")
		writeValue(&compact, k.OldContents)
		compact.WriteByte(',')
	}
	writeKey(&compact, "old_testament")
	writeTestament(&compact, k.OldTestament)
	if len(k.NewContents) > 0 {
		compact.WriteByte(',')
		writeKey(&compact, "new_contents")
		writeValue(&compact, k.NewContents)
	}
	compact.WriteByte(',')
	writeKey(&compact, "new_testament")
	writeTestament(&compact, k.NewTestament)
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

func writeTestament(buf *bytes.Buffer, kt scripture.KeyedTestament) {
	buf.WriteByte('{')
	for i, name := range scripture.BookKeys(kt) {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(buf, name)
		kb := kt[name]
		buf.WriteByte('{')
		for j, chNum := range scripture.NumericKeys(kb) {
			if j > 0 {
				buf.WriteByte(',')
			}
			writeKey(buf, chNum)
			kc := kb[chNum]
			buf.WriteByte('{')
			for n, vNum := range scripture.NumericKeys(kc) {
				if n > 0 {
					buf.WriteByte(',')
				}
				writeKey(buf, vNum)
				writeValue(buf, kc[vNum])
			}
			buf.WriteByte('}')
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
}

func writeKey(buf *bytes.Buffer, key string) {
	writeValue(buf, key)
	buf.WriteByte(':')
}

// writeValue writes v as JSON without HTML escaping. Strings and string
// slices cannot fail to marshal.
func writeValue(buf *bytes.Buffer, v any) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
}

// Decode implements formats.Decoder. The list form is rebuilt in canonical
// order.
func (Codec) Decode(r io.Reader) (*scripture.Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var k scripture.Keyed
	if err := dec.Decode(&k); err != nil {
		return nil, gkerrors.NewParse("json-keyed", "", "", err)
	}
	return k.Document(), nil
}
