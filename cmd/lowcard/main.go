// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"log"
	"os"

	"github.com/colscan/lowcard/tool"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lowcard [command] (flags)",
	Short: "global dictionary recoding tools for low-cardinality string columns",
	Long:  ``,
	// Errors are printed by main.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(tool.New().Commands...)

	if err := rootCmd.Execute(); err != nil {
		log.Printf("lowcard: %v", err)
		os.Exit(1)
	}
}
