package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	notifyTitle   string
	notifyType    string
	notifyExpires string
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send notifications (admin token required)",
}

var notifyBroadcastCmd = &cobra.Command{
	Use:   "broadcast MESSAGE",
	Short: "Broadcast a notification to all users",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := map[string]string{
			"title":   notifyTitle,
			"message": args[0],
			"type":    notifyType,
		}
		if notifyExpires != "" {
			payload["expiresAt"] = notifyExpires
		}
		body, err := doPostJSON("/api/admin/notifications", payload)
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

func init() {
	notifyBroadcastCmd.Flags().StringVar(&notifyTitle, "title", "Announcement", "Notification title")
	notifyBroadcastCmd.Flags().StringVar(&notifyType, "type", "announcement", "Notification type (info, warning, success, error, announcement)")
	notifyBroadcastCmd.Flags().StringVar(&notifyExpires, "expires", "", "Expiration time (RFC3339)")
	notifyCmd.AddCommand(notifyBroadcastCmd)
	rootCmd.AddCommand(notifyCmd)
}
