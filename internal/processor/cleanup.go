package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// moveToArchived moves a processed source video into the archive folder,
// suffixing a timestamp when the name is taken.
func (p *implProcessor) moveToArchived(ctx context.Context, videoPath string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	filename := filepath.Base(videoPath)
	destPath := filepath.Join(p.cfg.Paths.Archived, filename)
	if _, err := os.Stat(destPath); err == nil {
		ext := filepath.Ext(filename)
		destPath = filepath.Join(p.cfg.Paths.Archived,
			fmt.Sprintf("%s_%s%s", strings.TrimSuffix(filename, ext), time.Now().Format("20060102-150405"), ext))
	}

	p.logger.Info(ctx, "Archiving: %s -> %s", videoPath, destPath)

	if err := os.Rename(videoPath, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}

// removeWorkDir deletes a request's scratch directory, logs warning if fails
func (p *implProcessor) removeWorkDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup work dir %s: %v", dir, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up work dir: %s", dir)
	}
}
