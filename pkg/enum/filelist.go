package enum

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadFileList reads a file list: one path per line, surrounding whitespace
// trimmed, empty lines skipped.
func ReadFileList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file list `%s`: %w", path, err)
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if trimmed := strings.TrimSpace(scanner.Text()); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file list `%s`: %w", path, err)
	}
	return paths, nil
}
