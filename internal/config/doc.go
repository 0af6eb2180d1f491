// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package config manages JSON configuration loading for the loader. It
// models the orchestrator's options bag (cache directory, worker count,
// TTL, encoding hint, debug flags) with sensible defaults, and loads an
// optional atlas.json that overrides only the fields it sets.
package config
