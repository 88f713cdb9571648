// Package osis is the OSIS XML codec. Books are container divs inside one
// bookGroup div per testament; chapters and verses are container elements
// carrying osisID references.
package osis

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	"github.com/FocuswithJustin/gutenkjv/internal/formats"
)

// Namespace is the OSIS 2.1 namespace.
const Namespace = "http://www.bibletechnologies.net/2003/OSIS/namespace"

// Work identifies the text in osisIDWork and refSystem.
const Work = "KJV"

// OSIS XML types
type osisDoc struct {
	XMLName  xml.Name `xml:"osis"`
	Xmlns    string   `xml:"xmlns,attr"`
	OsisText osisText `xml:"osisText"`
}

type osisText struct {
	OsisIDWork  string      `xml:"osisIDWork,attr"`
	OsisRefWork string      `xml:"osisRefWork,attr"`
	Lang        string      `xml:"xml:lang,attr"`
	Header      osisHeader  `xml:"header"`
	Groups      []osisGroup `xml:"div"`
}

type osisHeader struct {
	Work osisWork `xml:"work"`
}

type osisWork struct {
	OsisWork  string `xml:"osisWork,attr"`
	Title     string `xml:"title"`
	Type      string `xml:"type"`
	Language  string `xml:"language"`
	RefSystem string `xml:"refSystem"`
}

type osisGroup struct {
	Type     string     `xml:"type,attr"`
	N        string     `xml:"n,attr"`
	Title    string     `xml:"title"`
	Contents *osisList  `xml:"list,omitempty"`
	Books    []osisBook `xml:"div"`
}

type osisList struct {
	Type  string   `xml:"type,attr"`
	Items []string `xml:"item"`
}

type osisBook struct {
	Type     string        `xml:"type,attr"`
	OsisID   string        `xml:"osisID,attr"`
	N        string        `xml:"n,attr"`
	Chapters []osisChapter `xml:"chapter"`
}

type osisChapter struct {
	OsisID string      `xml:"osisID,attr"`
	N      string      `xml:"n,attr"`
	Verses []osisVerse `xml:"verse"`
}

type osisVerse struct {
	OsisID string `xml:"osisID,attr"`
	N      string `xml:"n,attr"`
	Text   string `xml:",chardata"`
}

// Element names are matched by local name so documents with or without the
// OSIS namespace decode the same way.
var (
	groupsExpr   = xpath.MustCompile(`/*[local-name()='osis']/*[local-name()='osisText']/*[local-name()='div'][@type='bookGroup']`)
	contentsExpr = xpath.MustCompile(`*[local-name()='list'][@type='x-contents']/*[local-name()='item']`)
	booksExpr    = xpath.MustCompile(`*[local-name()='div'][@type='book']`)
	chaptersExpr = xpath.MustCompile(`*[local-name()='chapter']`)
	versesExpr   = xpath.MustCompile(`*[local-name()='verse']`)
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
		Name:        "osis",
		Extensions:  []string{".osis.xml", ".osis", ".xml"},
		Description: "OSIS 2.1 XML",
		CanDecode:   true,
	}
}

// Encode implements formats.Codec.
func (Codec) Encode(w io.Writer, doc *scripture.Document) error {
	out := osisDoc{
		Xmlns: Namespace,
		OsisText: osisText{
			OsisIDWork:  Work,
			OsisRefWork: "Bible",
			Lang:        "en",
			Header: osisHeader{Work: osisWork{
				OsisWork:  Work,
				Title:     "The King James Version of the Bible",
				Type:      "Bible",
				Language:  "en",
				RefSystem: "Bible." + Work,
			}},
		},
	}
	for _, t := range []scripture.Testament{scripture.TestamentOld, scripture.TestamentNew} {
		out.OsisText.Groups = append(out.OsisText.Groups, buildGroup(t, doc.Contents(t), doc.Testament(t)))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode OSIS: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func buildGroup(t scripture.Testament, contents []string, books []scripture.Book) osisGroup {
	g := osisGroup{Type: "bookGroup", N: string(t), Title: t.String()}
	if len(contents) > 0 {
		g.Contents = &osisList{Type: "x-contents", Items: contents}
	}
	for _, b := range books {
		id := bookID(b.Name)
		ob := osisBook{Type: "book", OsisID: id, N: b.Name}
		for _, ch := range b.Chapters {
			chID := id + "." + ch.Number
			oc := osisChapter{OsisID: chID, N: ch.Number}
			for _, v := range ch.Verses {
				oc.Verses = append(oc.Verses, osisVerse{OsisID: chID + "." + v.Number, N: v.Number, Text: v.Text})
			}
			ob.Chapters = append(ob.Chapters, oc)
		}
		g.Books = append(g.Books, ob)
	}
	return g
}

// bookID returns the OSIS identifier for a canonical name. Unknown names
// are used with spaces removed.
func bookID(name string) string {
	if cb, ok := scripture.LookupCanon(name); ok {
		return cb.OSIS
	}
	return strings.ReplaceAll(name, " ", "")
}

// Decode implements formats.Decoder.
func (Codec) Decode(r io.Reader) (*scripture.Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, gkerrors.NewParse("osis", "", "", err)
	}

	groups := xmlquery.QuerySelectorAll(root, groupsExpr)
	if len(groups) == 0 {
		return nil, gkerrors.NewParse("osis", "", "no bookGroup divisions under osis/osisText", nil)
	}

	doc := &scripture.Document{}
	for i, g := range groups {
		t := groupTestament(g, i)
		for _, item := range xmlquery.QuerySelectorAll(g, contentsExpr) {
			name := strings.TrimSpace(item.InnerText())
			if t == scripture.TestamentNew {
				doc.NewContents = append(doc.NewContents, name)
			} else {
				doc.OldContents = append(doc.OldContents, name)
			}
		}
		for _, bn := range xmlquery.QuerySelectorAll(g, booksExpr) {
			b, err := decodeBook(bn)
			if err != nil {
				return nil, gkerrors.NewParse("osis", "", err.Error(), nil)
			}
			doc.Append(t, b)
		}
	}
	return doc, nil
}

// groupTestament reads n="old|new", falling back to position.
func groupTestament(g *xmlquery.Node, index int) scripture.Testament {
	switch t := scripture.Testament(g.SelectAttr("n")); {
	case t.IsValid():
		return t
	case index == 0:
		return scripture.TestamentOld
	default:
		return scripture.TestamentNew
	}
}

func decodeBook(n *xmlquery.Node) (scripture.Book, error) {
	id := n.SelectAttr("osisID")
	name := n.SelectAttr("n")
	if name == "" {
		if cb, ok := scripture.LookupOSIS(id); ok {
			name = cb.Name
		}
	}
	if name == "" {
		return scripture.Book{}, fmt.Errorf("book %q has no name", id)
	}

	b := scripture.Book{Name: name}
	for _, cn := range xmlquery.QuerySelectorAll(n, chaptersExpr) {
		ch := scripture.Chapter{Number: number(cn)}
		if ch.Number == "" {
			return scripture.Book{}, fmt.Errorf("%s: chapter without a number", name)
		}
		for _, vn := range xmlquery.QuerySelectorAll(cn, versesExpr) {
			v := scripture.Verse{Number: number(vn), Text: vn.InnerText()}
			if v.Number == "" {
				return scripture.Book{}, fmt.Errorf("%s %s: verse without a number", name, ch.Number)
			}
			ch.Verses = append(ch.Verses, v)
		}
		b.Chapters = append(b.Chapters, ch)
	}
	return b, nil
}

// number returns the n attribute, or the last segment of osisID.
func number(n *xmlquery.Node) string {
	if v := n.SelectAttr("n"); v != "" {
		return v
	}
	id := n.SelectAttr("osisID")
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[i+1:]
	}
	return ""
}
