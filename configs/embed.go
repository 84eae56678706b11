// Package configs provides the embedded configuration template for
// preinstall.
//
// The template is written by `preinstall config init`, either as the project
// config (.preinstall.yaml in the workspace root) or, with --user, as the
// user config (~/.config/preinstall/config.yaml). Every value in it is
// commented out, so a fresh file changes nothing until edited.
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults (internal/config NewConfig)
//  2. User config
//  3. Project config
//  4. Environment variables (PREINSTALL_*)
package configs

import _ "embed"

// ConfigTemplate is the commented configuration file.
//
//go:embed config.example.yaml
var ConfigTemplate string
