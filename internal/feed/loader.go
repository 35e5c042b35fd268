package feed

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped feeds from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based feed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "feed-loader").Logger(),
	}
}

// Load reads a gzipped feed file.
func (l *fileLoader) Load(ctx context.Context, path string) (*Feed, error) {
	l.logger.Info().Str("file", path).Msg("loading price feed")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open feed file")
		return nil, fmt.Errorf("failed to open feed file %s: %w", path, err)
	}
	defer file.Close()

	feed, err := Decode(ctx, file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read feed file")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("updates", len(feed.Updates)).
		Int("skipped", feed.Skipped).
		Msg("price feed loaded")

	return feed, nil
}
