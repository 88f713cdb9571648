// Package bin is the compact binary codec. A file is the magic "GKJV", a
// format version varint, then protobuf-wire records:
//
//	Document: 1 old contents entry, 2 old book, 3 new contents entry, 4 new book
//	Book:     1 name, 2 chapter
//	Chapter:  1 number, 2 verse
//	Verse:    1 number, 2 text
//
// Strings and messages are length-delimited; repeated fields repeat the tag.
// Encoding is deterministic, so equal documents encode to equal bytes.
package bin

import (
	"bytes"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	"github.com/FocuswithJustin/gutenkjv/internal/formats"
)

// Magic starts every encoded file.
const Magic = "GKJV"

// Version is the current format version.
const Version = 1

// Document field numbers.
const (
	fieldOldContents protowire.Number = 1
	fieldOldBook     protowire.Number = 2
	fieldNewContents protowire.Number = 3
	fieldNewBook     protowire.Number = 4
)

// Book, chapter and verse messages share this layout.
const (
	fieldName     protowire.Number = 1 // book name, chapter or verse number
	fieldChildren protowire.Number = 2 // chapters, verses, or verse text
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
		Name:        "bin",
		Extensions:  []string{".bin", ".gkjv"},
		Description: "compact binary (protobuf wire records)",
		CanDecode:   true,
	}
}

// Encode implements formats.Codec.
func (Codec) Encode(w io.Writer, doc *scripture.Document) error {
	_, err := w.Write(Marshal(doc))
	return err
}

// Decode implements formats.Decoder.
func (Codec) Decode(r io.Reader) (*scripture.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Marshal encodes doc.
func Marshal(doc *scripture.Document) []byte {
	b := []byte(Magic)
	b = protowire.AppendVarint(b, Version)
	for _, name := range doc.OldContents {
		b = appendString(b, fieldOldContents, name)
	}
	for i := range doc.OldTestament {
		b = appendMessage(b, fieldOldBook, appendBook(nil, &doc.OldTestament[i]))
	}
	for _, name := range doc.NewContents {
		b = appendString(b, fieldNewContents, name)
	}
	for i := range doc.NewTestament {
		b = appendMessage(b, fieldNewBook, appendBook(nil, &doc.NewTestament[i]))
	}
	return b
}

func appendBook(b []byte, book *scripture.Book) []byte {
	b = appendString(b, fieldName, book.Name)
	for i := range book.Chapters {
		b = appendMessage(b, fieldChildren, appendChapter(nil, &book.Chapters[i]))
	}
	return b
}

func appendChapter(b []byte, ch *scripture.Chapter) []byte {
	b = appendString(b, fieldName, ch.Number)
	for _, v := range ch.Verses {
		var vb []byte
		vb = appendString(vb, fieldName, v.Number)
		vb = appendString(vb, fieldChildren, v.Text)
		b = appendMessage(b, fieldChildren, vb)
	}
	return b
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// Unmarshal decodes data produced by Marshal. Unknown fields are skipped.
func Unmarshal(data []byte) (*scripture.Document, error) {
	if !bytes.HasPrefix(data, []byte(Magic)) {
		return nil, gkerrors.NewParse("bin", "", "missing GKJV magic", nil)
	}
	data = data[len(Magic):]

	version, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return nil, gkerrors.NewParse("bin", "", "bad version", protowire.ParseError(n))
	}
	if version != Version {
		return nil, gkerrors.NewParse("bin", "", fmt.Sprintf("unsupported version %d", version), nil)
	}
	data = data[n:]

	doc := &scripture.Document{}
	err := eachField(data, func(num protowire.Number, v []byte) error {
		switch num {
		case fieldOldContents:
			doc.OldContents = append(doc.OldContents, string(v))
		case fieldNewContents:
			doc.NewContents = append(doc.NewContents, string(v))
		case fieldOldBook, fieldNewBook:
			book, err := unmarshalBook(v)
			if err != nil {
				return err
			}
			if num == fieldOldBook {
				doc.OldTestament = append(doc.OldTestament, book)
			} else {
				doc.NewTestament = append(doc.NewTestament, book)
			}
		}
		return nil
	})
	if err != nil {
		return nil, gkerrors.NewParse("bin", "", "corrupt record", err)
	}
	return doc, nil
}

func unmarshalBook(data []byte) (scripture.Book, error) {
	var book scripture.Book
	err := eachField(data, func(num protowire.Number, v []byte) error {
		switch num {
		case fieldName:
			book.Name = string(v)
		case fieldChildren:
			ch, err := unmarshalChapter(v)
			if err != nil {
				return fmt.Errorf("book %s: %w", book.Name, err)
			}
			book.Chapters = append(book.Chapters, ch)
		}
		return nil
	})
	return book, err
}

func unmarshalChapter(data []byte) (scripture.Chapter, error) {
	var ch scripture.Chapter
	err := eachField(data, func(num protowire.Number, v []byte) error {
		switch num {
		case fieldName:
			ch.Number = string(v)
		case fieldChildren:
			var verse scripture.Verse
			err := eachField(v, func(num protowire.Number, v []byte) error {
				switch num {
				case fieldName:
					verse.Number = string(v)
				case fieldChildren:
					verse.Text = string(v)
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("chapter %s: %w", ch.Number, err)
			}
			ch.Verses = append(ch.Verses, verse)
		}
		return nil
	})
	return ch, err
}

// eachField calls fn for every length-delimited field in data. Fields of
// other wire types are skipped.
func eachField(data []byte, fn func(num protowire.Number, v []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		if err := fn(num, v); err != nil {
			return err
		}
	}
	return nil
}
