package storage

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
)

var errEmptyPayload = errors.New("empty payload")

// objectKey builds "<category>/<yyyy>/<mm>/<hhmmss>-<nanos>-<file>" under an
// optional prefix. Two saves of the same file never collide.
func objectKey(prefix, category, fileName string, now time.Time) string {
	now = now.UTC()
	category = sanitizeSegment(category)
	if category == "" {
		category = "misc"
	}
	name := sanitizeFileName(fileName)
	if name == "" {
		name = "export.bin"
	}
	stamp := fmt.Sprintf("%s-%09d", now.Format("150405"), now.Nanosecond())
	key := path.Join(category, now.Format("2006"), now.Format("01"), stamp+"-"+name)

	if cleanPrefix := strings.Trim(strings.TrimSpace(prefix), "/"); cleanPrefix != "" {
		return path.Join(cleanPrefix, key)
	}
	return key
}

// sanitizeSegment lowercases value and keeps [a-z0-9_-].
func sanitizeSegment(value string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// sanitizeFileName keeps case, turns spaces into underscores and drops
// anything outside [A-Za-z0-9._-].
func sanitizeFileName(value string) string {
	var b strings.Builder
	for _, ch := range strings.TrimSpace(value) {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9',
			ch == '-', ch == '_', ch == '.':
			b.WriteRune(ch)
		case ch == ' ':
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "._-")
}

func contentTypeFor(opts SaveOptions) string {
	if ct := strings.TrimSpace(opts.ContentType); ct != "" {
		return ct
	}
	if ext := path.Ext(opts.FileName); ext != "" {
		if ct := mime.TypeByExtension(strings.ToLower(ext)); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}
