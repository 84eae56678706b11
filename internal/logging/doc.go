// Package logging provides opt-in file-based logging with rotation. When the
// --debug flag is set, JSON logs are written to ~/.preinstall/logs/ so a
// failed install can be diagnosed after the fact.
//
// Without --debug only warnings reach stderr, keeping the install output
// readable.
package logging
