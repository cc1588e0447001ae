// planctl is a CLI client for the planner REST API, aimed at operators:
// role grants, broadcasts, and moderation-report handling.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag   string
	tokenFlag string
	rootCmd   = &cobra.Command{
		Use:   "planctl",
		Short: "CLI client for the planner REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Planner service base URL")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", os.Getenv("PLANCTL_TOKEN"), "Bearer token (or PLANCTL_TOKEN)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
