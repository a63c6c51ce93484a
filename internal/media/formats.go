package media

import (
	"path/filepath"
	"sort"
	"strings"
)

var supportedExtensions = map[string]bool{
	// video
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true, ".m4v": true, ".flv": true,
	// audio
	".wav": true, ".mp3": true, ".m4a": true, ".flac": true, ".ogg": true, ".aac": true,
}

// IsSupported reports whether path has a video or audio extension the
// pipeline accepts.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// SupportedExtensions lists the accepted extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
