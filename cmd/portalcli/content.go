package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyaan-apps/portal/storage/model"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage the portal's FAQ/About content",
}

var contentGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current content as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := storages.Content.Get()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(content, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var contentSetCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Replace the content from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var content model.Content
		if err = json.Unmarshal(data, &content); err != nil {
			return err
		}
		return storages.Content.Set(content)
	},
}

func init() {
	contentCmd.AddCommand(contentGetCmd)
	contentCmd.AddCommand(contentSetCmd)
}
