package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"seedlink/internal/crypto"
)

func deviceKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "device-key",
		Short: "Print the owner device public key, creating it if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return errors.New("passphrase required (-p)")
			}
			key, err := wire.Keys.LoadOrCreate(passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Device key: %s\n", crypto.PublicKeyBase58(key.Public()))
			return nil
		},
	}
}
