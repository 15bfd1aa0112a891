package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"seedlink/internal/domain"
	"seedlink/internal/services/session"
)

func importCmd() *cobra.Command {
	var (
		phrase   string
		language string
		label    string
		showQR   bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Show a pairing link and send the phrase once an owner accepts it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := hex.DecodeString(phrase); err != nil || phrase == "" {
				return errors.New("--phrase must be the hex encoded binary phrase")
			}
			lang, err := parseLanguage(language)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s, err := wire.NewSession(nil)
			if err != nil {
				return err
			}
			defer s.Wait()

			submitErr := make(chan error, 1)
			link, err := s.Connect(func() {
				fmt.Fprintln(cmd.OutOrStdout(), "Owner connected, sending phrase.")
				err := s.Phrase(phrase, session.WithLanguage(lang), session.WithLabel(label))
				if err != nil {
					s.Cancel()
				}
				submitErr <- err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pairing link:\n%s\n", link)
			if showQR {
				qr, err := qrcode.New(link, qrcode.Medium)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, qr.ToSmallString(false))
			}
			fmt.Fprintf(out, "Waiting for the owner (expires in %s)...\n", wire.Config.SessionTTL)

			select {
			case <-s.Done():
			case <-ctx.Done():
				s.Cancel()
			}
			select {
			case err := <-submitErr:
				if err != nil {
					return err
				}
			default:
			}
			if !s.Succeeded() {
				return errors.New("import did not complete")
			}
			fmt.Fprintln(out, "Phrase delivered.")
			return nil
		},
	}
	cmd.Flags().StringVar(&phrase, "phrase", "", "hex encoded binary phrase")
	cmd.Flags().StringVar(&language, "language", "English", "word list language, by name or id (1-10)")
	cmd.Flags().StringVar(&label, "label", "", "label shown to the owner")
	cmd.Flags().BoolVar(&showQR, "qr", true, "also print the link as a QR code")
	_ = cmd.MarkFlagRequired("phrase")
	return cmd
}

func parseLanguage(s string) (domain.Language, error) {
	if id, err := strconv.ParseUint(s, 10, 8); err == nil {
		return domain.LanguageFromID(uint8(id))
	}
	return domain.ParseLanguage(s)
}
