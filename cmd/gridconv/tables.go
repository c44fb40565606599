package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/store"
)

// openTables opens the configured backend. The caller closes the store.
func (a *app) openTables(ctx context.Context) (*store.Tables, store.Store, error) {
	s, err := store.Open(ctx, store.Options{
		Driver:     a.cfg.Store.Driver,
		Path:       a.cfg.Store.Path,
		DSN:        a.cfg.Store.DSN,
		Collection: a.cfg.Store.Collection,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return store.NewTables(s), s, nil
}

// withTables runs fn against the configured store.
func (a *app) withTables(cmd *cobra.Command, fn func(context.Context, *store.Tables) error) error {
	ctx := cmd.Context()
	tables, s, err := a.openTables(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, tables)
}

func (a *app) tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Manage saved tables",
	}

	list := &cobra.Command{
		Use:   "list [query]",
		Short: "List saved tables, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}
			return a.withTables(cmd, func(ctx context.Context, tables *store.Tables) error {
				saved, err := tables.List(ctx, query)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(saved) == 0 {
					_, err := fmt.Fprintln(out, dimStyle.Render("no saved tables"))
					return err
				}
				rows := [][]string{{"ID", "NAME", "FORMAT", "SIZE", "UPDATED"}}
				for _, t := range saved {
					st := t.Data.Stats()
					rows = append(rows, []string{
						t.ID,
						t.Name,
						string(t.Format),
						fmt.Sprintf("%dx%d", st.Rows, st.Columns),
						time.UnixMilli(t.UpdatedAt).Format(time.DateTime),
					})
				}
				_, err = fmt.Fprintln(out, columns(rows))
				return err
			})
		},
	}

	var from, sheet string
	save := &cobra.Command{
		Use:   "save <name> [file]",
		Short: "Save a table read from a file or stdin",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := readInput(cmd, args[1:])
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
			if f == xlsxFormat {
				f = gridconv.CSV
			}
			return a.withTables(cmd, func(ctx context.Context, tables *store.Tables) error {
				t, err := tables.Add(ctx, args[0], g, f)
				if err != nil {
					return err
				}
				a.log.TableSaved(t.ID, t.Name)
				_, err = fmt.Fprintln(cmd.OutOrStdout(), t.ID)
				return err
			})
		},
	}
	save.Flags().StringVarP(&from, "from", "f", "", "input format")
	save.Flags().StringVar(&sheet, "sheet", "", "worksheet to read for xlsx")

	var to string
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTables(cmd, func(ctx context.Context, tables *store.Tables) error {
				t, err := tables.Get(ctx, args[0])
				if err != nil {
					return err
				}
				f := t.Format
				if to != "" {
					if f, err = gridconv.ParseFormat(to); err != nil {
						return err
					}
				}
				return gridconv.Write(cmd.OutOrStdout(), f, t.Data)
			})
		},
	}
	show.Flags().StringVarP(&to, "to", "t", "", "output format (default: the saved format)")

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved table",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTables(cmd, func(ctx context.Context, tables *store.Tables) error {
				t, err := tables.Delete(ctx, args[0])
				if err != nil {
					return err
				}
				a.log.TableDeleted(t.ID)
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", titleStyle.Render(t.Name))
				return err
			})
		},
	}

	cmd.AddCommand(list, save, show, del)
	return cmd
}
