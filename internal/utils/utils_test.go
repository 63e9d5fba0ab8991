package utils

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatWithCommas(t *testing.T) {
	testCases := []struct {
		in       int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{65536, "65,536"},
		{1234567, "1,234,567"},
		{-48000, "-48,000"},
		{-999, "-999"},
		{math.MinInt32, "-2,147,483,648"},
	}
	for _, tc := range testCases {
		if got := FormatWithCommas(tc.in); got != tc.expected {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", tc.in, got, tc.expected)
		}
	}
}

func TestFormatWithCommasMinInt(t *testing.T) {
	got := FormatWithCommas(math.MinInt)
	want := "-2,147,483,648"
	if strconv.IntSize == 64 {
		want = "-9,223,372,036,854,775,808"
	}
	if got != want {
		t.Errorf("FormatWithCommas(math.MinInt) = %q, want %q", got, want)
	}
}

func TestParseChoice(t *testing.T) {
	testCases := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"3", 3, true},
		{"  12\n", 12, true},
		{"-1", -1, true},
		{"", 0, false},
		{"two", 0, false},
		{"1.5", 0, false},
	}
	for _, tc := range testCases {
		got, ok := ParseChoice(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ParseChoice(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("ethique.txt", 20); got != "ethique.txt" {
		t.Errorf("short strings should be kept, got %q", got)
	}
	if got := Truncate("books/éthique.txt", 12); got != "…éthique.txt" {
		t.Errorf("Truncate() = %q, want %q", got, "…éthique.txt")
	}
}

func TestCreateRankList(t *testing.T) {
	if diff := cmp.Diff([]int{1, 2, 3}, CreateRankList(3)); diff != "" {
		t.Errorf("CreateRankList(3) mismatch (-want +got):\n%s", diff)
	}
	if got := CreateRankList(0); len(got) != 0 {
		t.Errorf("CreateRankList(0) = %v, want empty", got)
	}
}

func TestTOMLRoundTrip(t *testing.T) {
	type section struct {
		Name  string   `toml:"name"`
		Size  int      `toml:"size"`
		Exts  []string `toml:"exts"`
		Quiet bool     `toml:"quiet"`
	}
	type document struct {
		Section section `toml:"section"`
	}

	path := filepath.Join(t.TempDir(), "doc.toml")
	in := document{Section: section{Name: "books", Size: 3, Exts: []string{".txt"}, Quiet: true}}
	if err := SaveTOMLFile(in, path); err != nil {
		t.Fatalf("SaveTOMLFile() returned error: %v", err)
	}
	if !FileExists(path) {
		t.Fatal("expected file to exist after save")
	}

	data, err := ParseTOMLWithRecovery(path)
	if err != nil {
		t.Fatalf("ParseTOMLWithRecovery() returned error: %v", err)
	}
	sec, ok := ExtractSection(data, "section")
	if !ok {
		t.Fatal("expected section to be present")
	}
	if v, ok := ExtractString(sec, "name"); !ok || v != "books" {
		t.Errorf("ExtractString(name) = %q, %v", v, ok)
	}
	if v, ok := ExtractInt64(sec, "size"); !ok || v != 3 {
		t.Errorf("ExtractInt64(size) = %d, %v", v, ok)
	}
	if v, ok := ExtractStrings(sec, "exts"); !ok || !cmp.Equal(v, []string{".txt"}) {
		t.Errorf("ExtractStrings(exts) = %v, %v", v, ok)
	}
	if v, ok := ExtractBool(sec, "quiet"); !ok || !v {
		t.Errorf("ExtractBool(quiet) = %v, %v", v, ok)
	}
	if _, ok := ExtractInt64(sec, "name"); ok {
		t.Error("ExtractInt64 should reject a string value")
	}

	var out document
	if err := LoadTOMLFile(path, &out); err != nil {
		t.Fatalf("LoadTOMLFile() returned error: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractStringsRejectsMixedArrays(t *testing.T) {
	data := map[string]any{"exts": []any{".txt", int64(3)}}
	if _, ok := ExtractStrings(data, "exts"); ok {
		t.Error("mixed array should be rejected")
	}
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	result := CheckDirStatus(dir)
	if !result.Exists || !result.Writable || result.Error != nil {
		t.Errorf("CheckDirStatus(%q) = %+v", dir, result)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("write probe should be cleaned up, found %d entries", len(entries))
	}
}
