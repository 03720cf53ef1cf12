package textutil

import (
	"strings"
	"testing"
)

func TestReadLinesStripsBOMAndCRLF(t *testing.T) {
	input := "\xef\xbb\xbfAphex Twin\r\nBjörk\r\n\r\nCan"
	lines, err := ReadLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	want := []string{"Aphex Twin", "Björk", "", "Can"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %q, want %q", len(lines), lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, lines[i], want[i])
		}
	}
}

func TestReadLinesReplacesInvalidUTF8(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("Mot\xffrhead\n"))
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if len(lines) != 1 || lines[0] != "Mot�rhead" {
		t.Fatalf("expected replacement character, got %q", lines)
	}
}

func TestReadLinesEmptyInput(t *testing.T) {
	lines, err := ReadLines(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %q", lines)
	}
}
