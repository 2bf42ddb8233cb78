package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of shelf",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(stdout(cmd), "shelf version %s\n", shelf.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
