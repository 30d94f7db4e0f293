package analyze

import (
	"reflect"
	"strings"
	"testing"
)

func TestSegment_BlankLines(t *testing.T) {
	got := Segment("first paragraph\n\nsecond paragraph\n   \nthird")
	want := []string{"first paragraph", "second paragraph", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment = %q, want %q", got, want)
	}
}

func TestSegment_CRLF(t *testing.T) {
	got := Segment("one\r\n\r\ntwo")
	if len(got) != 2 {
		t.Fatalf("Expected 2 sections, got %d: %q", len(got), got)
	}
	if strings.TrimSpace(got[0]) != "one" || strings.TrimSpace(got[1]) != "two" {
		t.Errorf("Segment = %q", got)
	}
}

func TestSegment_SingleNewlineKeepsParagraph(t *testing.T) {
	got := Segment("line one\nline two")
	if len(got) != 1 || got[0] != "line one\nline two" {
		t.Errorf("Segment = %q, want one section", got)
	}
}

func TestSegment_WhitespaceOnly(t *testing.T) {
	for _, in := range []string{"", "   ", "  \n\n\n\n  ", "\t\n \n"} {
		if got := Segment(in); len(got) != 0 {
			t.Errorf("Segment(%q) = %q, want none", in, got)
		}
	}
}

func TestSegment_LongParagraphSplitsSentences(t *testing.T) {
	para := strings.Repeat("Short sentence here. ", 30)
	got := Segment(para)
	if len(got) != 30 {
		t.Fatalf("Expected 30 sections, got %d", len(got))
	}
	for i, s := range got {
		if s != "Short sentence here." {
			t.Errorf("Section %d = %q", i, s)
		}
	}
}

func TestSegment_LongParagraphMixedPunctuation(t *testing.T) {
	filler := strings.Repeat("x", 480)
	para := "Is it done? Yes! " + filler + ". End"
	got := Segment(para)
	want := []string{"Is it done?", "Yes!", filler + ".", "End"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment = %q, want %q", got, want)
	}
}

func TestSegment_ShortParagraphNotSplit(t *testing.T) {
	para := "One. Two. Three."
	got := Segment(para)
	if len(got) != 1 || got[0] != para {
		t.Errorf("Segment = %q, want single section", got)
	}
}

func TestSegment_Deterministic(t *testing.T) {
	text := "alpha\n\nbeta gamma. delta!\n\n" + strings.Repeat("Words and more words. ", 40)
	a := Segment(text)
	b := Segment(text)
	if !reflect.DeepEqual(a, b) {
		t.Error("Segment is not deterministic")
	}
	for i, s := range a {
		if strings.TrimSpace(s) == "" {
			t.Errorf("Section %d is whitespace-only", i)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Hello, World! It's 2024_v2 — naïve café")
	want := []string{"hello", "world", "it", "s", "2024_v2", "naïve", "café"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %q, want %q", got, want)
	}
	if got := Tokenize("  ...  "); len(got) != 0 {
		t.Errorf("Tokenize(punctuation) = %q, want none", got)
	}
}
