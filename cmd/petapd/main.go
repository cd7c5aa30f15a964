// Package main is the single-binary entrypoint for petapd.
package main

import "github.com/apukou/petapd/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
