package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/bjaus/gridconv"
)

func (a *app) previewCmd() *cobra.Command {
	var (
		from     string
		sheet    string
		border   string
		markdown bool
		width    int
	)
	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Show a table in the terminal",
		Long: `Preview parses a table and draws it as a bordered text table.

With --markdown the table is rendered as styled markdown instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			f, err := resolveFormat(from, name, a.cfg.Convert.From)
			if err != nil {
				return err
			}
			g, err := decodeGrid(data, f, sheet)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if markdown {
				rendered, err := renderMarkdown(gridconv.Generate(gridconv.Markdown, g), width)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(out, rendered)
				return err
			}

			style, err := gridconv.ParseBorderStyle(border)
			if err != nil {
				return err
			}
			if err := gridconv.WriteTable(out, g, style); err != nil {
				return err
			}
			st := g.Stats()
			_, err = fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d rows, %d columns, %d cells", st.Rows, st.Columns, st.Cells)))
			return err
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", "", "input format")
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet to read for xlsx")
	cmd.Flags().StringVarP(&border, "border", "b", "rounded", "border style: rounded, none, ascii, heavy, double")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render as styled markdown")
	cmd.Flags().IntVar(&width, "width", 100, "word wrap width for --markdown")
	return cmd
}

func renderMarkdown(md string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return renderer.Render(md)
}
