package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Bootstrap the first admin account",
	Long: `Create the initial administrator. The server refuses this once any
admin exists, so it only works on a fresh deployment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := newClient().CreateAdmin(cmd.Context(), adminUsername, adminPassword)
		if err != nil {
			return err
		}
		fmt.Printf("Created admin %q (id %d)\n", user.Username, user.ID)
		return nil
	},
}

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and print an access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().SignIn(cmd.Context(), adminUsername, adminPassword)
		if err != nil {
			return err
		}
		fmt.Println(resp.AccessToken)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{adminCmd, signinCmd} {
		c.Flags().StringVarP(&adminUsername, "username", "u", "", "username")
		c.Flags().StringVarP(&adminPassword, "password", "p", "", "password")
		c.MarkFlagRequired("username")
		c.MarkFlagRequired("password")
	}
	rootCmd.AddCommand(adminCmd, signinCmd)
}
