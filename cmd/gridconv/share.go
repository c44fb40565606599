package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/share"
)

func (a *app) shareCmd() *cobra.Command {
	var from, to, base string
	cmd := &cobra.Command{
		Use:   "share [file]",
		Short: "Print share links for a table",
		Long: `Share converts a table and prints an email link and a WhatsApp link that
carry the converted text. With --base, a share link and an embed snippet
for a hosted copy are printed too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			src, err := resolveFormat(from, name, a.cfg.Convert.From)
			if err != nil {
				return err
			}
			g, err := decodeGrid(data, src, "")
			if err != nil {
				return err
			}
			if g.Empty() {
				return errors.New("no table data to share")
			}
			dst, err := gridconv.ParseFormat(to)
			if err != nil {
				return err
			}

			msg := share.Message(gridconv.Generate(dst, g))
			rows := [][]string{
				{"KIND", "VALUE"},
				{"email", share.EmailURL("", msg)},
				{"whatsapp", share.WhatsAppURL(msg)},
			}
			if base != "" {
				id := share.NewID()
				rows = append(rows,
					[]string{"link", share.Link(base, id)},
					[]string{"embed", share.Embed(base, id)},
				)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), columns(rows))
			return err
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", "", "input format")
	cmd.Flags().StringVarP(&to, "to", "t", string(gridconv.CSV), "format of the shared text")
	cmd.Flags().StringVar(&base, "base", "", "base URL of a hosted gridconv server")
	return cmd
}
