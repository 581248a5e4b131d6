// Package ioutils provides file system utilities for spddl.
package ioutils

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// ErrExists is returned by WriteNew when the destination is already present.
var ErrExists = fs.ErrExist

var reservedChars = regexp.MustCompile(`[<>:"/\\|?*']`)

// Normalize strips characters that are unsafe in file and folder names and
// tidies whitespace.
//
// The following transformations are applied:
//   - Reserved characters (< > : " / \ | ? * and the single quote) are removed
//   - Any run of Unicode whitespace (including NBSP and em space) becomes
//     a single space
//   - Leading and trailing whitespace is trimmed
//
// Normalize is total and idempotent: Normalize(Normalize(s)) == Normalize(s).
//
// Example:
//
//	Normalize("Song: Part 1/2")       // Returns "Song Part 12"
//	Normalize("Don't   Stop")         // Returns "Dont Stop"
//	Normalize(`<>:"/\|?*'`)           // Returns ""
func Normalize(name string) string {
	name = reservedChars.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// Exists reports whether something is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteNew writes data to a file that must not exist yet.
//
// The file is opened with O_EXCL, so a file that appears between an
// existence check and this call is never overwritten; ErrExists is returned
// instead. The whole buffer is written in one call. A failed write leaves
// whatever was written on disk.
func WriteNew(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrExists
		}
		return err
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteFile writes data to a file, creating or truncating it.
//
// Example:
//
//	playlistContent := []byte("#EXTM3U\n...")
//	err := WriteFile("/music/Album/Album.m3u", playlistContent)
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}
