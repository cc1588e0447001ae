package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	reportsStatus     string
	reportsResolution string
	reportsNote       string
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Review moderation reports (admin token required)",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports, optionally filtered by status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/api/admin/reports"
		if reportsStatus != "" {
			path += "?status=" + reportsStatus
		}
		body, err := doGet(path)
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

var reportsResolveCmd = &cobra.Command{
	Use:   "resolve REPORT_ID",
	Short: "Resolve or dismiss a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := doPostJSON("/api/admin/reports/"+args[0]+"/resolve", map[string]string{
			"status":     reportsResolution,
			"resolution": reportsNote,
		})
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

func init() {
	reportsListCmd.Flags().StringVar(&reportsStatus, "status", "", "Filter by status (open, resolved, dismissed)")
	reportsResolveCmd.Flags().StringVar(&reportsResolution, "resolution", "resolved", "Final status (resolved or dismissed)")
	reportsResolveCmd.Flags().StringVar(&reportsNote, "note", "", "Resolution note")
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsResolveCmd)
	rootCmd.AddCommand(reportsCmd)
}
