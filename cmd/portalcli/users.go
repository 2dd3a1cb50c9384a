package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage portal users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := storages.Users.List()
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Printf("%s\t%s\t%s\t%s\n", u.Username, u.Email, u.Role, u.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create <username> <email> <password>",
	Short: "Create a new user",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := storages.Users.Create(args[0], args[2], args[1])
		if err != nil {
			return err
		}
		log.Printf("created user '%s'", u.Username)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storages.Users.Delete(args[0]); err != nil {
			return err
		}
		log.Printf("deleted user '%s'", args[0])
		return nil
	},
}

var usersSetPasswordCmd = &cobra.Command{
	Use:   "set-password <username> <password>",
	Short: "Set a user's password",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storages.Users.UpdatePassword(args[0], args[1]); err != nil {
			return err
		}
		log.Printf("updated password for user '%s'", args[0])
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersDeleteCmd)
	usersCmd.AddCommand(usersSetPasswordCmd)
}
