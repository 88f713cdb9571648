// Package xlsx writes a document as an Excel workbook: one sheet per
// testament with Book, Chapter, Verse and Text columns, plus a Contents
// sheet. The codec is encode-only.
package xlsx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	"github.com/FocuswithJustin/gutenkjv/internal/formats"
)

// Sheet names.
const (
	SheetOld      = "Old Testament"
	SheetNew      = "New Testament"
	SheetContents = "Contents"
)

var header = []any{"Book", "Chapter", "Verse", "Text"}

// Codec implements formats.Codec.
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
		Name:        "xlsx",
		Extensions:  []string{".xlsx"},
		Description: "Excel workbook, one row per verse (encode only)",
		CanDecode:   false,
	}
}

// Encode implements formats.Codec.
func (Codec) Encode(w io.Writer, doc *scripture.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the Old Testament sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SheetOld); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetNew); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetContents); err != nil {
		return err
	}

	if err := writeVerses(f, SheetOld, doc.OldTestament); err != nil {
		return err
	}
	if err := writeVerses(f, SheetNew, doc.NewTestament); err != nil {
		return err
	}
	if err := writeContents(f, doc); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeVerses(f *excelize.File, sheet string, books []scripture.Book) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetColWidth(4, 4, 100); err != nil {
		return err
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	row := 2
	for _, b := range books {
		for _, ch := range b.Chapters {
			for _, v := range ch.Verses {
				cell, err := excelize.CoordinatesToCellName(1, row)
				if err != nil {
					return err
				}
				if err := sw.SetRow(cell, []any{b.Name, cellNumber(ch.Number), cellNumber(v.Number), v.Text}); err != nil {
					return fmt.Errorf("%s %s:%s: %w", b.Name, ch.Number, v.Number, err)
				}
				row++
			}
		}
	}
	return sw.Flush()
}

func writeContents(f *excelize.File, doc *scripture.Document) error {
	sw, err := f.NewStreamWriter(SheetContents)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", []any{"Testament", "Position", "Name"}); err != nil {
		return err
	}
	row := 2
	for _, t := range []scripture.Testament{scripture.TestamentOld, scripture.TestamentNew} {
		for i, name := range doc.Contents(t) {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := sw.SetRow(cell, []any{t.String(), i + 1, name}); err != nil {
				return err
			}
			row++
		}
	}
	return sw.Flush()
}

// cellNumber stores numeric chapter and verse numbers as numbers so the
// sheet sorts correctly.
func cellNumber(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}
