package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/gyaan-apps/portal/cmd/portal/config"
)

var resetLinkCmd = &cobra.Command{
	Use:   "reset-link <username-or-email>",
	Short: "Mint a single-use password reset link for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := storages.Users.GetByUsernameOrEmail(args[0])
		if err != nil {
			return err
		}
		token, err := storages.ResetTokens.Generate(user.Username)
		if err != nil {
			return err
		}
		link, _ := url.JoinPath(config.Get().Server.PortalURL, "reset")
		fmt.Printf("%s?token=%s\n", link, url.QueryEscape(token))
		return nil
	},
}
