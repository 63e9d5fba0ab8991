package frequency

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckSource(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "ethique.txt")
	upper := filepath.Join(dir, "TRAITE.TXT")
	markdown := filepath.Join(dir, "notes.md")
	for _, path := range []string{book, upper, markdown} {
		if err := os.WriteFile(path, []byte("le\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	testCases := []struct {
		description string
		path        string
		extensions  []string
		wantErr     error
	}{
		{"valid book", book, DefaultExtensions, nil},
		{"extension is case insensitive", upper, DefaultExtensions, nil},
		{"any extension when unrestricted", markdown, nil, nil},
		{"rejected extension", markdown, DefaultExtensions, ErrBadExtension},
		{"directory", dir, nil, ErrNotRegular},
		{"missing file", filepath.Join(dir, "missing.txt"), nil, os.ErrNotExist},
		{"empty path", "  ", nil, os.ErrNotExist},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			err := CheckSource(tc.path, tc.extensions)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("CheckSource(%q) unexpected error: %v", tc.path, err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("CheckSource(%q) = %v, want %v", tc.path, err, tc.wantErr)
			}
		})
	}
}
