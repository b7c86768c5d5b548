package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InputKind says how a listing file should be decoded.
type InputKind string

const (
	InputJSON InputKind = "json"
	InputHTML InputKind = "html"
	InputText InputKind = "text"
)

// ValidateInputFile checks that filename exists, is a regular file, is
// readable and, when maxSize is positive, is no larger than maxSize bytes.
func ValidateInputFile(filename string, maxSize int64) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filename)
		}
		return fmt.Errorf("cannot access file %s: %w", filename, err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filename)
	}

	if maxSize > 0 && info.Size() > maxSize {
		return fmt.Errorf("file %s is %s, larger than the %s limit",
			filename, FormatFileSize(info.Size()), FormatFileSize(maxSize))
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot read file %s: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", filename, err)
	}

	return nil
}

// ValidateOutputFile checks if the output file path is valid
func ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}

// GetFileExtension returns the file extension in lowercase
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	return strings.ToLower(ext)
}

// DetectInputKind maps a file extension to a decoder. Unknown extensions
// are treated as plain text.
func DetectInputKind(filename string) InputKind {
	switch GetFileExtension(filename) {
	case ".json":
		return InputJSON
	case ".html", ".htm", ".xhtml":
		return InputHTML
	default:
		return InputText
	}
}

// IsTextFile checks if the file has a text-based extension
func IsTextFile(filename string) bool {
	switch GetFileExtension(filename) {
	case ".txt", ".md", ".markdown", ".text", ".json", ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// FormatFileSize returns a human-readable file size
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
