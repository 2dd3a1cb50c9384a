package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/gyaan-apps/portal/cmd/portal/config"
	"github.com/gyaan-apps/portal/storage/model"
)

var rootCmd = &cobra.Command{
	Use:   "portalcli",
	Short: "portalcli can help you manage your Gyaan Apps portal",
	Long:  "portalcli can help you manage your Gyaan Apps portal",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

var configFile string
var storages model.Backends

func loadConfig() error {
	config.Load(configFile)
	c := config.Get()

	var err error
	storages, err = config.LoadStorageBackends(c.Storage, c.Auth)
	if err != nil {
		log.Fatal(err)
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "the config file to use")
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(resetLinkCmd)
	rootCmd.AddCommand(contentCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
