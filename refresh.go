package ipsync

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/edgewatch/ipsync/internal/sources"
	"github.com/edgewatch/ipsync/pkg/errors"
	"github.com/edgewatch/ipsync/pkg/logging"
	"github.com/edgewatch/ipsync/pkg/reconcile"
	"github.com/edgewatch/ipsync/pkg/records"
)

// Refresh runs every configured source and folds the results into the
// category files: new records are unioned with the existing contents,
// never replacing them. The combined list of everything this run produced
// is written to the combined file, unknown-country records included;
// unknown-country records are kept out of the category files.
func (c *Client) Refresh(ctx context.Context) (*reconcile.Result, error) {
	cfg := c.config

	locator := cfg.locator
	if locator == nil {
		dbPath := filepath.Join(cfg.repoDir, cfg.geoDBPath)
		if err := sources.EnsureDatabase(ctx, dbPath, cfg.forceGeoDB, cfg.triggerHour, cfg.now); err != nil {
			// The locator falls back to online lookups without it.
			logging.Warn().Err(err).Msg("Could not update GeoLite2 database")
		}
		geo, err := sources.OpenLocator(dbPath)
		if err != nil {
			return nil, err
		}
		defer func() { _ = geo.Close() }()
		locator = geo
	}

	manifest, err := sources.LoadManifest(filepath.Join(cfg.repoDir, cfg.manifestPath))
	if err != nil {
		return nil, err
	}
	manifest.ApplyEnv()

	srcs := manifest.Sources(locator, nil)
	if len(srcs) == 0 {
		logging.Warn().Msg("No sources configured, nothing to refresh")
		return reconcile.NewResult(), nil
	}

	all := records.NewSet()
	for _, src := range srcs {
		lines, err := src.Records(ctx)
		if err != nil {
			// One failing source must not starve the others.
			logging.Error().Err(errors.WrapSource(src.Name(), "", err)).Msg("Source failed")
			continue
		}
		all = all.Union(records.Validate(lines))
	}

	listDir := c.ListDir()
	if err := os.MkdirAll(listDir, 0o755); err != nil {
		return nil, errors.WrapIO("create", listDir, err)
	}

	result := reconcile.NewResult()
	for category, set := range records.Partition(all) {
		if strings.EqualFold(category, sources.UnknownCountry) {
			continue
		}
		name := records.FileName(category)
		path := filepath.Join(listDir, name)

		existing, err := records.Load(path)
		if err != nil {
			result.Record(errors.NewMergeError(category, path, err))
			continue
		}
		merged := existing.Union(set)
		if err := records.WriteFile(path, merged); err != nil {
			result.Record(errors.NewMergeError(category, path, err))
			continue
		}
		result.Written(name, merged.Len())
	}

	if all.Len() > 0 {
		combined := filepath.Join(listDir, records.CombinedFileName)
		if err := records.WriteFile(combined, all); err != nil {
			result.Record(err)
		}
	}

	logging.Info().
		Int("records", all.Len()).
		Int("categories", len(result.Categories)).
		Msg("Refresh complete")

	return result, result.Err()
}
