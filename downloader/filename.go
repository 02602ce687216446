package downloader

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

var ErrEmptyFileParams = errors.New("empty parameters provided, can't create a filename")

const (
	ExtensionMP4  = ".mp4"
	ExtensionWebP = ".webp"
	ExtensionGIF  = ".gif"
)

// Extension returns the extension of the file behind the url.
// Anything that is not a video or a webp is saved as a gif.
func Extension(surl string) string {
	p := surl
	if u, err := url.Parse(surl); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.ToLower(p)

	switch {
	case strings.HasSuffix(p, ExtensionMP4):
		return ExtensionMP4
	case strings.HasSuffix(p, ExtensionWebP):
		return ExtensionWebP
	default:
		return ExtensionGIF
	}
}

// Filename returns the name of the file an item is saved to: {id}{extension}.
//
// The same id and url always produce the same name, existing files are overwritten.
func Filename(id, surl string) (string, error) {
	id = removeForbiddenChars(strings.TrimSpace(id))
	if id == "" {
		return "", fmt.Errorf("%w: id can not be empty", ErrEmptyFileParams)
	}
	if surl == "" {
		return "", fmt.Errorf("%w: url can not be empty", ErrEmptyFileParams)
	}

	const MaxFilenameLength = 255 // This really only accounts for NTFS.

	ext := Extension(surl)
	if len(id)+len(ext) > MaxFilenameLength {
		id = id[:MaxFilenameLength-len(ext)]
	}

	return id + ext, nil
}

// EnsureDir creates the directory and its parents if necessary.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("%w: couldn't create directory(name=%s)", err, dir)
	}

	return nil
}

// removeForbiddenChars removes invalid characters for Linux/Windows filenames.
func removeForbiddenChars(name string) string {
	// Most of the characters are forbidden on Windows only.
	const forbiddenChars = "/<>\":\\|?*"
	for _, c := range forbiddenChars {
		name = strings.ReplaceAll(name, string(c), "")
	}

	return name
}
