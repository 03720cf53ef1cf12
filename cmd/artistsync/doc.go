// Package main hosts the artistsync CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes the three pipeline stages (scan,
// resolve, import) as separate commands that hand off through plain text
// files, plus a run command chaining all three, a roster listing and
// configuration scaffolding. It centralizes configuration resolution and
// logger setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
