package formats

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
)

// textCodec writes one line per verse and reads nothing back.
type textCodec struct {
	name string
	exts []string
}

func (c textCodec) Info() Info {
	return Info{Name: c.name, Extensions: c.exts}
}

func (c textCodec) Encode(w io.Writer, doc *scripture.Document) error {
	var err error
	doc.Each(func(_ scripture.Testament, b *scripture.Book) bool {
		for _, ch := range b.Chapters {
			for _, v := range ch.Verses {
				if _, err = io.WriteString(w, b.Name+" "+ch.Number+":"+v.Number+" "+v.Text+"\n"); err != nil {
					return false
				}
			}
		}
		return true
	})
	return err
}

// lineCodec can also decode, as a single verse.
type lineCodec struct{ textCodec }

func (c lineCodec) Info() Info {
	info := c.textCodec.Info()
	info.CanDecode = true
	return info
}

func (lineCodec) Decode(r io.Reader) (*scripture.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &scripture.Document{OldTestament: []scripture.Book{{Name: "Genesis", Chapters: []scripture.Chapter{
		{Number: "1", Verses: []scripture.Verse{{Number: "1", Text: string(data)}}},
	}}}}, nil
}

func withCodecs(t *testing.T, codecs ...Codec) {
	t.Helper()
	saved := registry
	registry = make(map[string]Codec)
	for _, c := range codecs {
		Register(c)
	}
	t.Cleanup(func() { registry = saved })
}

func TestLookup(t *testing.T) {
	withCodecs(t, textCodec{name: "text", exts: []string{".txt"}}, textCodec{name: "lines", exts: []string{".lines"}})

	if c, err := Lookup("TEXT"); err != nil || c.Info().Name != "text" {
		t.Errorf("Lookup(TEXT) = %v, %v", c, err)
	}
	_, err := Lookup("pdf")
	if !errors.Is(err, gkerrors.ErrUnsupported) {
		t.Errorf("Lookup(pdf) error = %v, want ErrUnsupported", err)
	}

	names := Names()
	if len(names) != 2 || names[0] != "lines" || names[1] != "text" {
		t.Errorf("Names() = %v, want [lines text]", names)
	}
	if got := List(); len(got) != 2 || got[0].Info().Name != "lines" {
		t.Errorf("List() = %v", got)
	}

	Unregister("lines")
	if _, err := Lookup("lines"); err == nil {
		t.Error("Lookup() after Unregister() should fail")
	}
}

func TestRegisterIgnoresUnnamed(t *testing.T) {
	withCodecs(t, textCodec{})
	if len(Names()) != 0 {
		t.Errorf("Names() = %v, want none", Names())
	}
}

func TestByPath(t *testing.T) {
	withCodecs(t,
		textCodec{name: "json", exts: []string{".json"}},
		textCodec{name: "json-keyed", exts: []string{".keyed.json"}},
		textCodec{name: "osis", exts: []string{".osis.xml", ".xml"}},
	)

	tests := []struct {
		path string
		want string
	}{
		{"kjv.json", "json"},
		{"kjv.keyed.json", "json-keyed"},
		{"out/KJV.Keyed.JSON.xz", "json-keyed"},
		{"kjv.json.gz", "json"},
		{"kjv.osis.xml", "osis"},
		{"kjv.xml", "osis"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c, err := ByPath(tt.path)
			if err != nil {
				t.Fatalf("ByPath(%q) error = %v", tt.path, err)
			}
			if c.Info().Name != tt.want {
				t.Errorf("ByPath(%q) = %q, want %q", tt.path, c.Info().Name, tt.want)
			}
		})
	}

	if _, err := ByPath("kjv.pdf"); !errors.Is(err, gkerrors.ErrUnsupported) {
		t.Errorf("ByPath(kjv.pdf) error = %v, want ErrUnsupported", err)
	}
}

func TestResolve(t *testing.T) {
	withCodecs(t, textCodec{name: "json", exts: []string{".json"}}, textCodec{name: "text", exts: []string{".txt"}})

	if c, err := Resolve("text", "kjv.json"); err != nil || c.Info().Name != "text" {
		t.Errorf("Resolve(text, kjv.json) = %v, %v", c, err)
	}
	if c, err := Resolve("", "kjv.json"); err != nil || c.Info().Name != "json" {
		t.Errorf("Resolve(\"\", kjv.json) = %v, %v", c, err)
	}
}

func TestAsDecoder(t *testing.T) {
	if _, err := AsDecoder(textCodec{name: "text"}); !errors.Is(err, gkerrors.ErrUnsupported) {
		t.Errorf("AsDecoder(encode-only) error = %v, want ErrUnsupported", err)
	}
	if _, err := AsDecoder(lineCodec{textCodec{name: "lines"}}); err != nil {
		t.Errorf("AsDecoder(lineCodec) error = %v", err)
	}
}

func TestWriteFileReadFile(t *testing.T) {
	c := lineCodec{textCodec{name: "lines", exts: []string{".lines"}}}
	doc := &scripture.Document{NewTestament: []scripture.Book{{Name: "John", Chapters: []scripture.Chapter{
		{Number: "11", Verses: []scripture.Verse{{Number: "35", Text: "Jesus wept."}}},
	}}}}

	path := filepath.Join(t.TempDir(), "out.lines.xz")
	n, err := WriteFile(path, c, doc)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	want := "John 11:35 Jesus wept.\n"
	if n != int64(len(want)) {
		t.Errorf("WriteFile() = %d bytes, want %d", n, len(want))
	}

	got, err := ReadFile(path, c)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if text := got.OldTestament[0].Chapters[0].Verses[0].Text; text != want {
		t.Errorf("ReadFile() text = %q, want %q", text, want)
	}

	if _, err := ReadFile(path, textCodec{name: "text"}); !errors.Is(err, gkerrors.ErrUnsupported) {
		t.Errorf("ReadFile(encode-only) error = %v, want ErrUnsupported", err)
	}
}

func TestEncodeBytesDecodeBytes(t *testing.T) {
	c := lineCodec{textCodec{name: "lines"}}
	data, err := EncodeBytes(c, &scripture.Document{})
	if err != nil || len(data) != 0 {
		t.Errorf("EncodeBytes(empty) = %q, %v", data, err)
	}
	doc, err := DecodeBytes(c, []byte("x"))
	if err != nil || doc.Stats().Verses != 1 {
		t.Errorf("DecodeBytes() = %+v, %v", doc, err)
	}
}
