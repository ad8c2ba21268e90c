// Package main is the single-binary entrypoint for Prody.
// Prody is a local-first daily wisdom and reflection tracker.
package main

import "github.com/prody-app/prody/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
