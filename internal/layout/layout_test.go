package layout

import (
	"errors"
	"testing"
)

func TestNormalizeLine_MergesRuns(t *testing.T) {
	raw := RawLine{Runs: []TextRun{
		{Text: " 1. ", Size: 12, Flags: FlagBold, BBox: BBox{Left: 10, Top: 20, Right: 20, Bottom: 32}},
		{Text: "Introduction", Size: 16, Flags: FlagSerif, BBox: BBox{Left: 22, Top: 18, Right: 90, Bottom: 34}},
	}}

	line, ok := NormalizeLine(raw)
	if !ok {
		t.Fatal("expected line to be kept")
	}
	if line.Text != "1. Introduction" {
		t.Errorf("expected text %q, got %q", "1. Introduction", line.Text)
	}
	if line.Size != 16 {
		t.Errorf("expected max size 16, got %v", line.Size)
	}
	if line.Flags != FlagBold|FlagSerif {
		t.Errorf("expected flags %d, got %d", FlagBold|FlagSerif, line.Flags)
	}
	if !line.Bold() {
		t.Error("expected bold line")
	}
	if line.BBox.Left != 10 || line.BBox.Top != 20 {
		t.Errorf("expected first run bbox, got %+v", line.BBox)
	}
}

func TestNormalizeLine_SkipsEmptyRuns(t *testing.T) {
	raw := RawLine{Runs: []TextRun{
		{Text: "   ", Size: 30, Flags: FlagBold, BBox: BBox{Left: 1}},
		{Text: "Body", Size: 10, BBox: BBox{Left: 5}},
	}}
	line, ok := NormalizeLine(raw)
	if !ok {
		t.Fatal("expected line to be kept")
	}
	// Blank runs must not influence size, flags or box.
	if line.Size != 10 || line.Flags != 0 || line.BBox.Left != 5 {
		t.Errorf("blank run leaked into line: %+v", line)
	}
}

func TestNormalizeLine_DropsBlankLine(t *testing.T) {
	if _, ok := NormalizeLine(RawLine{Runs: []TextRun{{Text: " \t"}, {Text: ""}}}); ok {
		t.Error("expected blank line to be dropped")
	}
	if _, ok := NormalizeLine(RawLine{}); ok {
		t.Error("expected line without runs to be dropped")
	}
}

func TestNormalize_PreservesOrder(t *testing.T) {
	raw := []RawPage{
		{Number: 1, Lines: []RawLine{
			{Runs: []TextRun{{Text: "Bottom first", Size: 10, BBox: BBox{Top: 700}}}},
			{Runs: []TextRun{{Text: " "}}},
			{Runs: []TextRun{{Text: "Top second", Size: 10, BBox: BBox{Top: 50}}}},
		}},
		{Number: 2},
	}

	pages, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if len(pages[0].Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(pages[0].Lines))
	}
	if pages[0].Lines[0].Text != "Bottom first" || pages[0].Lines[1].Text != "Top second" {
		t.Errorf("lines were re-ordered: %+v", pages[0].Lines)
	}
	if pages[1].Number != 2 || len(pages[1].Lines) != 0 {
		t.Errorf("unexpected second page: %+v", pages[1])
	}
}

func TestNormalize_ReportsPageErrors(t *testing.T) {
	boom := errors.New("bad content stream")
	raw := []RawPage{
		{Number: 1, Lines: []RawLine{{Runs: []TextRun{{Text: "Kept", Size: 10}}}}},
		{Number: 2, Err: boom},
		{Number: 3, Lines: []RawLine{{Runs: []TextRun{{Text: "Also kept", Size: 10}}}}},
	}

	pages, err := Normalize(raw)
	if err == nil {
		t.Fatal("expected page error")
	}
	var pe *PageError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PageError, got %T", err)
	}
	if pe.Page != 2 {
		t.Errorf("expected page 2, got %d", pe.Page)
	}
	if !errors.Is(err, boom) {
		t.Error("expected wrapped cause")
	}
	if len(pages) != 2 || pages[0].Number != 1 || pages[1].Number != 3 {
		t.Errorf("expected pages 1 and 3, got %+v", pages)
	}
}
