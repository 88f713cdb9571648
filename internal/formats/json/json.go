// Package json is the array-of-records JSON codec: books, chapters and
// verses are lists in source order.
package json

import (
	"encoding/json"
	"fmt"
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
		Name:        "json",
		Extensions:  []string{".json"},
		Description: "pretty-printed JSON, lists in source order",
		CanDecode:   true,
	}
}

// Encode implements formats.Codec.
func (Codec) Encode(w io.Writer, doc *scripture.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

// Decode implements formats.Decoder.
func (Codec) Decode(r io.Reader) (*scripture.Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc scripture.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, gkerrors.NewParse("json", "", "", err)
	}
	if err := checkNames(&doc); err != nil {
		return nil, gkerrors.NewParse("json", "", err.Error(), nil)
	}
	return &doc, nil
}

// checkNames rejects records that decoded without their identifying field.
func checkNames(doc *scripture.Document) error {
	var err error
	doc.Each(func(_ scripture.Testament, b *scripture.Book) bool {
		if b.Name == "" {
			err = fmt.Errorf("book without a name")
			return false
		}
		for _, ch := range b.Chapters {
			if ch.Number == "" {
				err = fmt.Errorf("%s: chapter without a number", b.Name)
				return false
			}
			for _, v := range ch.Verses {
				if v.Number == "" {
					err = fmt.Errorf("%s %s: verse without a number", b.Name, ch.Number)
					return false
				}
			}
		}
		return true
	})
	return err
}
