// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package cerrs defines constant error types using a custom Error string type.
// It centralizes the sentinel errors raised by the script lexer and parser,
// the CSV and BMP engines, the mod overlay, the binary cache, the model
// store, and the orchestrator. The Error type supports comparison via
// errors.Is().
package cerrs
