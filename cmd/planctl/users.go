package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect planner users",
}

var usersGetCmd = &cobra.Command{
	Use:   "get USER_ID",
	Short: "Fetch a user profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := doGet("/api/users/" + args[0])
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

var usersRoleCmd = &cobra.Command{
	Use:   "role USER_ID",
	Short: "Show a user's role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := doGet("/api/users/" + args[0] + "/role")
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersGetCmd)
	usersCmd.AddCommand(usersRoleCmd)
	rootCmd.AddCommand(usersCmd)
}
