package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/templates"
)

func (a *app) templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Browse the starter table gallery",
	}

	var (
		popular  bool
		category string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all := templates.All()
			if popular {
				all = templates.Popular()
			}
			rows := [][]string{{"ID", "NAME", "CATEGORY", "DESCRIPTION"}}
			for _, t := range all {
				if category != "" && !strings.EqualFold(t.Category, category) {
					continue
				}
				name := t.Name
				if t.Popular {
					name += " " + okStyle.Render("*")
				}
				rows = append(rows, []string{t.ID, name, t.Category, t.Description})
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), columns(rows))
			return err
		},
	}
	list.Flags().BoolVar(&popular, "popular", false, "only popular templates")
	list.Flags().StringVar(&category, "category", "", "only templates in this category")

	var to string
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a template in a format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := templates.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown template %q", args[0])
			}
			f, err := gridconv.ParseFormat(to)
			if err != nil {
				return err
			}
			return gridconv.Write(cmd.OutOrStdout(), f, t.Data)
		},
	}
	show.Flags().StringVarP(&to, "to", "t", string(gridconv.CSV), "output format")

	cmd.AddCommand(list, show)
	return cmd
}

func (a *app) sampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample <format>",
		Short: "Print example input for a format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := gridconv.ParseFormat(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), templates.Sample(f))
			return err
		},
	}
}
