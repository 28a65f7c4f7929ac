// Package main is the entry point for the promptlab server.
//
// The main package stays minimal: it parses the command line, loads
// configuration and hands off to internal/server. Commands live in
// root.go, serve.go and version.go.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
