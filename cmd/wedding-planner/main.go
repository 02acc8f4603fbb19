package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wedding-planner",
	Short: "Wedding questionnaire API, guest list tools and WhatsApp RSVP bot",
	Long: `wedding-planner serves the multi-step wedding questionnaire over HTTP,
imports and exports guest lists and runs a WhatsApp bot that collects RSVPs.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(botCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
