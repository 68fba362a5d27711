// Package main provides the entry point for the apicontract CLI.
package main

import (
	"os"

	"github.com/GabrielNunesIT/apicontract/internal/cli"
	"github.com/GabrielNunesIT/go-libs/logger"
)

func main() {
	// Stdout carries rendered documents and validated bodies.
	log := logger.NewConsoleLogger(os.Stderr)

	app := cli.New(log)
	if err := app.Execute(); err != nil {
		log.Errorf("Error: %v", err)
		os.Exit(1)
	}
}
