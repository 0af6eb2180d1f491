// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"reflect"

	"github.com/pdxcore/atlas/cerrs"
)

// Config is the orchestrator's load-options bag (spec §6 "options"),
// loadable from a JSON file so a player or CI job can pin cache behavior
// without touching code.
type Config struct {
	CacheDir         string       `json:"CacheDir,omitempty"`
	UseCache         bool         `json:"UseCache,omitempty"`
	TtlDays          int          `json:"TtlDays,omitempty"`
	MaxWorkers       int          `json:"MaxWorkers,omitempty"`
	ContinueOnError  bool         `json:"ContinueOnError,omitempty"`
	Validate         bool         `json:"Validate,omitempty"`
	EncodingHint     string       `json:"EncodingHint,omitempty"`
	Experimental     Experimental_t `json:"Experimental"`
	DebugFlags       DebugFlags_t   `json:"DebugFlags"`
}

type Experimental_t struct {
	AllowConfig bool `json:"AllowConfig,omitempty"`
}

type DebugFlags_t struct {
	Lexer      bool `json:"Lexer,omitempty"`
	Parser     bool `json:"Parser,omitempty"`
	Extractors bool `json:"Extractors,omitempty"`
	ModOverlay bool `json:"ModOverlay,omitempty"`
	Cache      bool `json:"Cache,omitempty"`
}

const (
	ErrIsDirectory = cerrs.Error("is directory")
	ErrIsNotAFile  = cerrs.Error("is not a file")
)

// Default returns the configuration the orchestrator uses when no
// atlas.json is present or AllowConfig is false.
func Default() *Config {
	return &Config{
		UseCache:        true,
		TtlDays:         7,
		MaxWorkers:      0, // 0 means "min(cpu_count, 16)"; resolved by the orchestrator
		ContinueOnError: true,
		Validate:        true,
	}
}

// Load reads name as JSON and merges its non-zero fields onto Default().
// A missing file, an unreadable file, or invalid JSON are all tolerated:
// Load never fails the caller's startup over a bad config file, it just
// falls back to defaults (optionally logging why, when debug is set).
func Load(name string, debug bool) (*Config, error) {
	if debug {
		log.Printf("[config] %q: loading configuration...\n", name)
	}
	cfg := Default()
	if sb, err := os.Stat(name); errors.Is(err, os.ErrNotExist) || os.IsNotExist(err) {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if sb.Mode().IsDir() {
		return cfg, ErrIsDirectory
	} else if !sb.Mode().IsRegular() {
		return cfg, ErrIsNotAFile
	}

	var tmp Config
	if data, err := os.ReadFile(name); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if err = json.Unmarshal(data, &tmp); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if debug {
		if nice, err := json.MarshalIndent(tmp, "", "  "); err == nil {
			log.Printf("[config] %s\n", nice)
		} else {
			log.Printf("[config] %q: loaded %s\n", name, string(data))
		}
	}

	copyNonZeroFields(&tmp, cfg)
	return cfg, nil
}

// copyNonZeroFields recursively copies non-zero fields from src to dst using reflection.
func copyNonZeroFields(src, dst interface{}) {
	srcVal := reflect.ValueOf(src)
	dstVal := reflect.ValueOf(dst)

	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}
	if dstVal.Kind() == reflect.Ptr {
		dstVal = dstVal.Elem()
	}

	if srcVal.Kind() != reflect.Struct || dstVal.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < srcVal.NumField(); i++ {
		srcField := srcVal.Field(i)
		dstField := dstVal.Field(i)

		if !srcField.CanInterface() || !dstField.CanSet() {
			continue
		}
		if srcField.IsZero() {
			continue
		}

		switch srcField.Kind() {
		case reflect.Struct:
			copyNonZeroFields(srcField.Interface(), dstField.Addr().Interface())
		default:
			dstField.Set(srcField)
		}
	}
}
