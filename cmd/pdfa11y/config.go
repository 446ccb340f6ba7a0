package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/internal/config"
	"github.com/jackzampolin/pdfa11y/internal/home"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Local configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file holding every key with its default value.

The file is written to --config when given, otherwise to the home
directory (~/.pdfa11y/config.yaml).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		path := cfgFile
		if path == "" {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.ConfigPath()
			if h.ConfigExists() && !configForce {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := localConfig()
		if err != nil {
			return err
		}
		return api.Output(cm.Settings())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show the effective value of one key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := localConfig()
		if err != nil {
			return err
		}
		setting, err := cm.Setting(args[0])
		if err != nil {
			return err
		}
		return api.Output(setting)
	},
}

// localConfig loads configuration the same way serve does.
func localConfig() (*config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	return loadConfig(h)
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}
