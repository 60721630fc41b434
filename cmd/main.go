package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	workload string
)

var rootCmd = &cobra.Command{
	Use:           "mongoarchitect",
	Short:         "MongoDB schema design service",
	Long:          "Generates and refines MongoDB schema designs from plain-language requirements.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.AddCommand(serveCmd, generateCmd, refineCmd)
}

func main() {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
