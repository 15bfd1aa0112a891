package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func acceptCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "accept <link>",
		Short: "Accept a pairing link as the owner and print the received phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return errors.New("passphrase required (-p)")
			}
			svc, err := wire.OwnerService(passphrase)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, wire.Config.SessionTTL)
			defer cancel()

			l, err := svc.Accept(ctx, args[0])
			if err != nil {
				return fmt.Errorf("accepting link: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Accepted pairing from %q, waiting for the phrase...\n", l.AppName)

			export, err := svc.AwaitPhrase(ctx, l.Channel(), wire.Config.PollInterval)
			if err != nil {
				return fmt.Errorf("waiting for phrase: %w", err)
			}
			b, err := json.MarshalIndent(export, "", "  ")
			if err != nil {
				return err
			}
			if out != "" {
				return os.WriteFile(out, append(b, '\n'), 0o600)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the phrase export to this file instead of stdout")
	return cmd
}
