// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package atlas

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pdxcore/atlas/internal/orchestrator"
)

var argsLoad struct {
	basePath string
	mods     string
	cacheDir string
	noCache  bool
	ttlDays  int
	workers  int
	validate bool
	quiet    bool
}

var cmdLoad = &cobra.Command{
	Use:   "load",
	Short: "load a game data tree into memory",
	Long:  `Resolve the mod overlay, parse province and country history plus map metadata, and report what was found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := orchestrator.DefaultOptions()
		opts.CacheDir = argsLoad.cacheDir
		opts.UseCache = !argsLoad.noCache
		opts.TtlDays = argsLoad.ttlDays
		opts.MaxWorkers = argsLoad.workers
		opts.Validate = argsLoad.validate
		opts.ContinueOnError = globalConfig.ContinueOnError
		opts.EncodingHint = globalConfig.EncodingHint

		isTerminal := isatty.IsTerminal(os.Stdout.Fd())
		if !argsLoad.quiet {
			opts.Progress = func(done, total int, path string, stage orchestrator.Stage) {
				if isTerminal && total > 0 {
					fmt.Printf("\r%-14s %d/%d %s", stage, done, total, path)
				} else if total == 0 {
					log.Printf("[load] %-14s %s\n", stage, path)
				}
			}
		}

		var mods []string
		if argsLoad.mods != "" {
			mods = strings.Split(argsLoad.mods, ",")
		}

		start := time.Now()
		result, err := orchestrator.Load(argsLoad.basePath, mods, opts)
		if isTerminal && !argsLoad.quiet {
			fmt.Println()
		}
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		if argsLoad.quiet {
			return nil
		}

		log.Printf("[load] %d provinces, %d countries in %s (cache hit: %v)\n",
			result.Stats.ProvinceCount, result.Stats.CountryCount, elapsed, result.CacheHit)
		for _, issue := range result.Issues {
			log.Printf("[load] %s\n", issue.String())
		}
		if result.Stats.RgbMatched+result.Stats.RgbUnmatched > 0 {
			log.Printf("[load] province bitmap: %s matched, %s unmatched\n",
				humanize.Comma(int64(result.Stats.RgbMatched)), humanize.Comma(int64(result.Stats.RgbUnmatched)))
		}
		return nil
	},
}

func bindLoadFlags() {
	cmdLoad.Flags().StringVar(&argsLoad.basePath, "path", "", "path to the base game directory")
	if err := cmdLoad.MarkFlagRequired("path"); err != nil {
		log.Fatalf("path: %v\n", err)
	}
	cmdLoad.Flags().StringVar(&argsLoad.mods, "mods", "", "comma-separated list of .mod descriptor files, in activation order")
	cmdLoad.Flags().StringVar(&argsLoad.cacheDir, "cache-dir", "", "directory for the binary cache (defaults to <path>/.atlas-cache)")
	cmdLoad.Flags().BoolVar(&argsLoad.noCache, "no-cache", false, "skip the binary cache entirely")
	cmdLoad.Flags().IntVar(&argsLoad.ttlDays, "ttl-days", 7, "cache entry lifetime in days (0 disables expiry)")
	cmdLoad.Flags().IntVar(&argsLoad.workers, "workers", 0, "worker pool size (0 selects min(cpu_count, 16))")
	cmdLoad.Flags().BoolVar(&argsLoad.validate, "validate", true, "run the structural/cross-reference validator")
	cmdLoad.Flags().BoolVar(&argsLoad.quiet, "quiet", false, "suppress progress and summary output")
}
