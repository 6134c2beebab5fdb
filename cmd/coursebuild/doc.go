// Package main hosts the coursebuild CLI entrypoint and command graph.
//
// The Cobra-based command tree drives the lesson pipeline, the validation
// suite, the transliteration audit, status management, and export rebuilds.
// It centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
