package parallelexecutor

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// LogFileName returns the name of the log file saved for a run.
func LogFileName(runName string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, runName)
	return fmt.Sprintf("gridflow-run-%s.log", clean)
}

// runLog is the logger of one run plus the file it is saved to, if any.
type runLog struct {
	logger *slog.Logger
	path   string
	file   *os.File
}

func (l *runLog) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// openRunLog derives the logger of a run from base. When dir is set every
// record is also written to the run's own file, filtered by level.
func openRunLog(base *slog.Logger, dir, runName string, runIndex int, level slog.Level) (*runLog, error) {
	attrs := []any{"run", runName, "run_index", runIndex}
	if dir == "" {
		return &runLog{logger: base.With(attrs...)}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}
	path := filepath.Join(dir, LogFileName(runName))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating run log: %w", err)
	}

	fileHandler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	logger := slog.New(slogmulti.Fanout(base.Handler(), fileHandler)).With(attrs...)
	return &runLog{logger: logger, path: path, file: f}, nil
}
