package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func (a *app) watchCmd() *cobra.Command {
	var fl convertFlags
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Convert a file again whenever it changes",
		Long: `Watch converts a file once and then again after every change until
interrupted. Conversion errors are logged and watching continues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd.Context(), cmd, args[0], fl)
		},
	}
	cmd.Flags().StringVarP(&fl.from, "from", "f", "", "input format")
	cmd.Flags().StringVarP(&fl.to, "to", "t", "", "output format")
	cmd.Flags().StringVarP(&fl.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&fl.sheet, "sheet", "", "worksheet to read or write for xlsx")
	return cmd
}

// watch follows the file's directory rather than the file so that editors
// which replace the file on save are still seen.
func (a *app) watch(ctx context.Context, cmd *cobra.Command, path string, fl convertFlags) error {
	path = filepath.Clean(path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	from, to := fl.from, fl.to
	if from == "" {
		from = "auto"
	}
	if to == "" {
		to = a.cfg.Convert.To
	}
	a.log.Watching(path, from, to)

	run := func() {
		data, err := readFile(path)
		if err == nil {
			err = a.convert(cmd, data, path, fl)
		}
		if err != nil {
			a.log.Warn("conversion failed", "path", path, "error", err)
		}
	}
	run()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				a.log.Debug("file changed", "path", path, "op", event.Op.String())
				run()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watch error", "error", err)
		}
	}
}
