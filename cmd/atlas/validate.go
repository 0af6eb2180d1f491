// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package atlas

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdxcore/atlas/internal/orchestrator"
)

var argsValidate struct {
	basePath string
	mods     string
}

var cmdValidate = &cobra.Command{
	Use:   "validate",
	Short: "load a game data tree and report validation issues only",
	Long:  `Runs the same pipeline as "load" but skips the binary cache and prints every issue the load collected (mod compatibility, file, parse, CSV, bitmap and validator findings), followed by error and warning counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := orchestrator.DefaultOptions()
		opts.UseCache = false
		opts.Validate = true
		opts.ContinueOnError = true

		var mods []string
		if argsValidate.mods != "" {
			mods = strings.Split(argsValidate.mods, ",")
		}

		result, err := orchestrator.Load(argsValidate.basePath, mods, opts)
		if err != nil {
			return err
		}
		var errs, warnings int
		for _, issue := range result.Issues {
			fmt.Println(issue.String())
			if issue.Severity.String() == "error" {
				errs++
			} else if issue.Severity.String() == "warning" {
				warnings++
			}
		}
		fmt.Printf("%d errors, %d warnings\n", errs, warnings)
		return nil
	},
}

func init() {
	cmdValidate.Flags().StringVar(&argsValidate.basePath, "path", "", "path to the base game directory")
	cmdValidate.Flags().StringVar(&argsValidate.mods, "mods", "", "comma-separated list of .mod descriptor files, in activation order")
}
