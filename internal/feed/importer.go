package feed

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"pricehunt/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLoads bounds how many feeds are downloaded at once.
const maxConcurrentLoads = 4

// Recorder persists price updates.
type Recorder interface {
	RecordPrices(ctx context.Context, updates []model.PriceUpdate) (int, error)
}

// Importer loads feeds concurrently and records each one in its own transaction.
type Importer struct {
	loader   Loader
	recorder Recorder
	logger   zerolog.Logger
}

// NewImporter creates a feed importer.
func NewImporter(loader Loader, recorder Recorder, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:   loader,
		recorder: recorder,
		logger:   logger.With().Str("component", "feed-importer").Logger(),
	}
}

// Import loads and records every feed. A failing feed does not stop the
// others; its error is reported in the result and joined into the returned
// error.
func (im *Importer) Import(ctx context.Context, paths []string) (*model.ImportResult, error) {
	feeds := make([]*Feed, len(paths))
	loadErrs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, p := range paths {
		g.Go(func() error {
			if err := validatePath(p); err != nil {
				loadErrs[i] = err
				return nil
			}
			feeds[i], loadErrs[i] = im.loader.Load(gctx, p)
			return nil
		})
	}
	_ = g.Wait()

	result := &model.ImportResult{Feeds: make([]model.FeedResult, len(paths))}
	var errs []error

	for i, p := range paths {
		fr := &result.Feeds[i]
		fr.Path = p

		if err := loadErrs[i]; err != nil {
			fr.Error = err.Error()
			errs = append(errs, err)
			continue
		}

		f := feeds[i]
		fr.Rows = f.Rows
		fr.Skipped = f.Skipped
		if len(f.Updates) == 0 {
			continue
		}

		recorded, err := im.recorder.RecordPrices(ctx, f.Updates)
		if err != nil {
			im.logger.Error().Err(err).Str("feed", p).Msg("failed to record feed")
			fr.Error = err.Error()
			errs = append(errs, fmt.Errorf("feed %s: %w", p, err))
			continue
		}
		fr.Recorded = recorded
		result.Recorded += recorded
	}

	result.Failed = len(errs)

	im.logger.Info().
		Int("feeds", len(paths)).
		Int("recorded", result.Recorded).
		Int("failed", result.Failed).
		Msg("feed import finished")

	return result, errors.Join(errs...)
}

// validatePath rejects empty paths and paths that climb out of their base
// directory or bucket prefix.
func validatePath(p string) error {
	if p == "" || slices.Contains(strings.Split(path.Clean(p), "/"), "..") {
		return model.NewDomainError(model.ErrCodeInvalidParameter, fmt.Sprintf("invalid feed path %q", p))
	}
	return nil
}
