// Package logging wires the standard logger to stderr plus a rotating file.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"

	"ridgecompare/internal/config"
)

// Setup points the standard logger at stderr and a rotating file under dir.
// The returned closer flushes the file writer; callers defer it from main.
// On file setup failure logging continues on stderr alone.
func Setup(cfg config.LogConfig) (io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	dir := cfg.Dir
	if dir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			cacheDir = os.TempDir()
		}
		dir = filepath.Join(cacheDir, "ridgecompare", "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	maxAge := time.Duration(cfg.MaxAgeDays) * 24 * time.Hour
	if maxAge <= 0 {
		maxAge = 14 * 24 * time.Hour
	}
	rotate := time.Duration(cfg.RotateHours) * time.Hour
	if rotate <= 0 {
		rotate = 24 * time.Hour
	}

	writer, err := rotatelogs.New(
		filepath.Join(dir, "ridgecompare.%Y%m%d.log"),
		rotatelogs.WithLinkName(filepath.Join(dir, "ridgecompare.log")),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(rotate),
	)
	if err != nil {
		return nil, err
	}

	log.SetOutput(io.MultiWriter(os.Stderr, writer))
	return writer, nil
}
