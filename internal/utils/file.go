package utils

import (
	"fmt"
	"mime"
	"mime/multipart"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

func SanitizeFilename(original string) string {
	return unsafeFileChars.ReplaceAllString(original, "_")
}

// UniqueFilename returns name, or name with a "-N" suffix before the
// extension when seen already holds it. seen is updated.
func UniqueFilename(name string, seen map[string]int) string {
	seen[name]++
	if seen[name] == 1 {
		return name
	}
	ext := filepath.Ext(name)
	for {
		candidate := fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), seen[name], ext)
		if _, taken := seen[candidate]; !taken {
			seen[candidate] = 1
			return candidate
		}
		seen[name]++
	}
}

// BuildObjectPath names an uploaded object "<prefix>/<unix millis>_<name>".
func BuildObjectPath(prefix, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d_%s", prefix, now.UnixMilli(), filename)
}

// FileContentType prefers the part's declared Content-Type and falls back to
// the extension.
func FileContentType(fileHeader *multipart.FileHeader) string {
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			return mediaType
		}
		return ct
	}
	if byExt := mime.TypeByExtension(filepath.Ext(fileHeader.Filename)); byExt != "" {
		mediaType, _, _ := mime.ParseMediaType(byExt)
		return mediaType
	}
	return "application/octet-stream"
}

func ValidateFile(fileHeader *multipart.FileHeader, allowedTypes []string, maxMB int64) error {
	if fileHeader.Size > maxMB*1024*1024 {
		return fmt.Errorf("file too large: %s", fileHeader.Filename)
	}

	contentType := FileContentType(fileHeader)
	if !slices.Contains(allowedTypes, contentType) {
		return fmt.Errorf("file type not allowed: %s (%s)", fileHeader.Filename, contentType)
	}

	return nil
}

func BuildResourceURL(baseURL, bucketName, resourceName string) string {
	return baseURL + path.Join(bucketName, resourceName)
}
