// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package main wires up and runs the atlas command line application.
package main

import (
	"log"
	"os"

	atlascmd "github.com/pdxcore/atlas/cmd/atlas"
	"github.com/pdxcore/atlas/internal/config"
)

func main() {
	log.SetFlags(log.Lshortfile | log.Ltime)

	const configFileName = "atlas.json"
	debugConfigFile := false
	if sb, err := os.Stat(configFileName); err == nil && sb.Mode().IsRegular() {
		debugConfigFile = true
	}
	cfg, err := config.Load(configFileName, debugConfigFile)
	if err != nil && debugConfigFile {
		log.Printf("[config] %q: %v\n", configFileName, err)
	}

	if err := atlascmd.Execute(cfg); err != nil {
		log.Fatal(err)
	}
}
