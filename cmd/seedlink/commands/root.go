package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"seedlink/internal/app"
)

var (
	cfgFile    string
	passphrase string
	wire       *app.Wire
)

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"api-url":     "api_url",
	"api-version": "api_version",
	"link-scheme": "link_scheme",
	"app-name":    "app_name",
	"home":        "home",
	"log-level":   "log_level",
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:           "seedlink",
		Short:         "Pair a wallet with an owner device and hand over a seed phrase",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := app.LoadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			wire, err = app.NewWire(cfg, "seedlink", cmd.ErrOrStderr())
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the owner device key")
	pf.String("api-url", "", "relay API URL (default https://api.censo.co)")
	pf.String("api-version", "", "relay API version (default v1)")
	pf.String("link-scheme", "", "pairing link scheme (default censo-main)")
	pf.String("app-name", "", "wallet name shown to the owner")
	pf.String("home", "", "owner key directory (default ~/.seedlink)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(importCmd(), acceptCmd(), deviceKeyCmd(), versionCmd())
	return root
}

// bindFlags lets explicitly set flags override file and environment values.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
