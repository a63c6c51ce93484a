//go:build !whisper

package transcriber

import (
	"errors"

	"github.com/nguyentantai21042004/video-recap/internal/logger"
)

// NewWhisper reports that the in-process engine was not compiled in.
func NewWhisper(log logger.Logger, opts Options) (Transcriber, error) {
	return nil, errors.New("whisper engine unavailable: build with '-tags whisper'")
}
