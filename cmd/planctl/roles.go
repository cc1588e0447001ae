package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Manage user roles (admin token required)",
}

var rolesSetCmd = &cobra.Command{
	Use:   "set USER_ID ROLE",
	Short: "Grant a role (user, admin, super_admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := doPutJSON("/api/admin/users/"+args[0]+"/role", map[string]string{
			"role": args[1],
		})
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

func init() {
	rolesCmd.AddCommand(rolesSetCmd)
	rootCmd.AddCommand(rolesCmd)
}
