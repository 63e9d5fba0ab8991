package frequency

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultExtensions are the book file extensions accepted when none are configured.
var DefaultExtensions = []string{".txt"}

var (
	ErrNotRegular   = errors.New("not a regular file")
	ErrBadExtension = errors.New("unsupported book extension")
)

// CheckSource verifies that path names a readable book before it is handed to
// an Index. An empty extensions list accepts any extension.
func CheckSource(path string, extensions []string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty book path: %w", os.ErrNotExist)
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if !fileInfo.Mode().IsRegular() {
		return fmt.Errorf("book %s: %w", path, ErrNotRegular)
	}

	if len(extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		validExt := false
		for _, validExtension := range extensions {
			if ext == strings.ToLower(validExtension) {
				validExt = true
				break
			}
		}
		if !validExt {
			return fmt.Errorf("file %s has extension %q (expected: %v): %w", path, ext, extensions, ErrBadExtension)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	log.Debugf("Book file %s validated (%d bytes)", path, fileInfo.Size())
	return nil
}
