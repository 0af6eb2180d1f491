// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package atlas implements the atlas command line application.
package atlas

import (
	"log"
	"os"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"

	"github.com/pdxcore/atlas/internal/config"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 1,
		Patch: 0,
		Build: semver.Commit(),
	}
	globalConfig *config.Config
)

var argsRoot struct {
	logFile struct {
		name string
		fd   *os.File
	}
	showVersion bool
}

var cmdRoot = &cobra.Command{
	Use:   "atlas",
	Short: "Root command for the atlas application",
	Long:  `Ingest a Paradox-style game data tree into a queryable in-memory model.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if argsRoot.logFile.name != "" {
			fd, err := os.OpenFile(argsRoot.logFile.name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
			if err != nil {
				return err
			}
			argsRoot.logFile.fd = fd
			log.SetOutput(fd)
			argsRoot.showVersion = true
		}
		if argsRoot.showVersion {
			log.Printf("version: %s\n", version)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if argsRoot.logFile.fd != nil {
			return argsRoot.logFile.fd.Close()
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute wires up every subcommand and runs the one the caller
// invoked. cfg is the configuration read from atlas.json (defaults when
// the file is missing); it is used only when cfg.Experimental.AllowConfig
// is set, otherwise (or when cfg is nil) config.Default() is used.
func Execute(cfg *config.Config) error {
	cmdRoot.PersistentFlags().BoolVar(&argsRoot.showVersion, "show-version", false, "show version")
	cmdRoot.PersistentFlags().StringVar(&argsRoot.logFile.name, "log-file", "", "set log file")

	cmdRoot.AddCommand(cmdLoad)
	bindLoadFlags()

	cmdRoot.AddCommand(cmdValidate)

	cmdRoot.AddCommand(cmdVersion)

	if cfg == nil || !cfg.Experimental.AllowConfig {
		globalConfig = config.Default()
	} else {
		globalConfig = cfg
	}

	return cmdRoot.Execute()
}
