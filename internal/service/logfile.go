package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"tunestatus/internal/config"
)

// LogFileService gives the admin UI tail/clear access to the daemon log and
// keeps the file bounded with a tail-truncate.
type LogFileService struct {
	cfg func() config.Config
}

func NewLogFileService(store *config.Store) *LogFileService {
	return &LogFileService{cfg: store.Config}
}

func (s *LogFileService) path() string { return s.cfg().Log.File }

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log %q: %w", path, err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	return lines, nil
}

// Tail returns up to the last n lines of the log file. A missing file reads
// as empty.
func (s *LogFileService) Tail(n int) ([]string, error) {
	lines, err := readLines(s.path())
	if err != nil {
		return nil, err
	}
	if n <= 0 || n >= len(lines) {
		return lines, nil
	}
	return lines[len(lines)-n:], nil
}

// Clear truncates the log file.
func (s *LogFileService) Clear() error {
	err := os.Truncate(s.path(), 0)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// TrimToLast rewrites the file keeping only the last max lines. No-op when
// the file is already within bounds.
func (s *LogFileService) TrimToLast(max int) error {
	if max <= 0 {
		return nil
	}
	path := s.path()
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	if len(lines) <= max {
		return nil
	}
	kept := strings.Join(lines[len(lines)-max:], "\n") + "\n"
	return os.WriteFile(path, []byte(kept), 0o644)
}
