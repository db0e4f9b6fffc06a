package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ecfrdash/ecfr-dashboard/internal/config"
	"github.com/ecfrdash/ecfr-dashboard/internal/freshcache"
	"github.com/ecfrdash/ecfr-dashboard/internal/localstate"
	"github.com/ecfrdash/ecfr-dashboard/internal/services"
)

// cacheResources are the upstream payloads the service caches on disk.
var cacheResources = []string{services.AgenciesResource}

func init() {
	var dataDir string
	var staleAfter time.Duration

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or purge the local upstream cache",
	}
	cacheCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory (defaults to the service configuration)")
	cacheCmd.PersistentFlags().DurationVar(&staleAfter, "stale-after", 0, "Freshness window (defaults to the service configuration)")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show age and freshness of cached files",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openCache(dataDir, staleAfter)
			if err != nil {
				return err
			}
			return runCacheStatus(f, os.Stdout)
		},
	}
	cacheCmd.AddCommand(statusCmd)

	var olderThan time.Duration
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove cached files so the next request refetches them",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openCache(dataDir, staleAfter)
			if err != nil {
				return err
			}
			return runCachePurge(f, olderThan, os.Stdout)
		},
	}
	purgeCmd.Flags().DurationVar(&olderThan, "older-than", 0, "Only remove files older than this (0 removes all)")
	cacheCmd.AddCommand(purgeCmd)

	rootCmd.AddCommand(cacheCmd)
}

// openCache builds a fetcher over the data directory. It never contacts the
// upstream API, so no remote is attached.
func openCache(dataDir string, staleAfter time.Duration) (*freshcache.Fetcher, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if err := applyCacheFlags(cfg, dataDir, staleAfter); err != nil {
		return nil, err
	}
	layout := localstate.New(cfg.DataDir, cfg.ImageDir)
	return freshcache.New(layout, cfg.StaleAfter, nil, zerolog.Nop()), nil
}

// applyCacheFlags overrides cfg with the cache flags. A relative data dir is
// resolved against cfg.BaseDir, like the service does.
func applyCacheFlags(cfg *config.Config, dataDir string, staleAfter time.Duration) error {
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if staleAfter > 0 {
		cfg.StaleAfter = staleAfter
	}
	return cfg.ResolveDefaults()
}

func runCacheStatus(f *freshcache.Fetcher, out io.Writer) error {
	statuses := make([]freshcache.Status, 0, len(cacheResources))
	for _, r := range cacheResources {
		s, err := f.Status(r)
		if err != nil {
			return err
		}
		statuses = append(statuses, s)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(statuses)
}

func runCachePurge(f *freshcache.Fetcher, olderThan time.Duration, out io.Writer) error {
	removed, err := f.Purge(olderThan, cacheResources...)
	for _, p := range removed {
		_, _ = fmt.Fprintf(out, "removed %s\n", p)
	}
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		_, _ = fmt.Fprintln(out, "nothing to purge")
	}
	return nil
}
