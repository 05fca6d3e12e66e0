// Package ioutils provides file system utilities for the poster-downloader.
//
// This package contains functions for:
//   - Filename sanitization
//   - Atomic file writing
//   - Directory creation
package ioutils

import (
	"os"
	"path/filepath"
	"regexp"
)

// DefaultMaxFileNameLength is used when SanitizeFileName gets a non-positive limit.
const DefaultMaxFileNameLength = 100

// ImageExtension is appended to every sanitized file name.
const ImageExtension = ".jpg"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFileName turns a title into a safe image file name.
//
// The following transformations are applied:
//   - Every run of characters outside [A-Za-z0-9._-] → one underscore
//   - The result is clipped to maxLen bytes
//   - ".jpg" is appended
//
// The output is always ASCII, so its length never exceeds maxLen+4.
//
// Example:
//
//	SanitizeFileName("Toy Story (1995)", 100) // Returns "Toy_Story_1995_.jpg"
//	SanitizeFileName("Amélie", 100)           // Returns "Am_lie.jpg"
//	SanitizeFileName("abcdef", 3)             // Returns "abc.jpg"
func SanitizeFileName(title string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxFileNameLength
	}
	name := unsafeChars.ReplaceAllString(title, "_")
	if len(name) > maxLen {
		name = name[:maxLen]
	}
	return name + ImageExtension
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFileAtomic writes data to path through a temporary file in the same
// directory followed by a rename, so readers never observe a partial file.
//
// An existing file at path is replaced. The parent directory is created
// if needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
