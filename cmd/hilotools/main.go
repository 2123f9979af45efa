//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package main is the entry point for hilotools.
package main

import (
	"fmt"
	"os"

	"github.com/rafamarinsys/hilotools/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
