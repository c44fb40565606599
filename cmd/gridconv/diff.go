package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/diff"
)

func (a *app) diffCmd() *cobra.Command {
	var (
		from   string
		format string
		cells  bool
		plain  bool
		width  int
	)
	cmd := &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two tables",
		Long: `Diff parses two tables, which may be in different formats, renders both
in one format and prints their unified diff. With --cells the differing
cells are listed instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			grids := make([]gridconv.Grid, 2)
			for i, path := range args {
				data, err := readFile(path)
				if err != nil {
					return err
				}
				f, err := resolveFormat(from, path, a.cfg.Convert.From)
				if err != nil {
					return err
				}
				if grids[i], err = decodeGrid(data, f, ""); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()

			if cells {
				changes := diff.Cells(grids[0], grids[1])
				if len(changes) == 0 {
					_, err := fmt.Fprintln(out, okStyle.Render("no differences"))
					return err
				}
				rows := [][]string{{"ROW", "COL", "OLD", "NEW"}}
				for _, c := range changes {
					rows = append(rows, []string{fmt.Sprint(c.Row), fmt.Sprint(c.Column), c.Old, c.New})
				}
				_, err := fmt.Fprintln(out, columns(rows))
				return err
			}

			f, err := gridconv.ParseFormat(format)
			if err != nil {
				return err
			}
			unified := diff.Unified(args[0], args[1], grids[0], grids[1], f)
			if unified == "" {
				_, err := fmt.Fprintln(out, okStyle.Render("no differences"))
				return err
			}
			if !plain {
				unified = diff.Render(unified, width)
			}
			_, err = fmt.Fprint(out, unified)
			return err
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", "", "input format of both files (default: by extension)")
	cmd.Flags().StringVar(&format, "format", string(gridconv.CSV), "format the tables are compared in")
	cmd.Flags().BoolVar(&cells, "cells", false, "list changed cells")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the diff without styling")
	cmd.Flags().IntVar(&width, "width", 120, "word wrap width")
	return cmd
}
