package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/xlsx"
)

type convertFlags struct {
	from   string
	to     string
	output string
	sheet  string
}

func (a *app) convertCmd() *cobra.Command {
	var fl convertFlags
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a table to another format",
		Long: `Convert reads a table from a file or stdin and writes it in another format.

The input format comes from --from, the file extension, or the configured
default. The output format comes from --to, the extension of --output, or
the configured default.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return a.convert(cmd, data, name, fl)
		},
	}
	cmd.Flags().StringVarP(&fl.from, "from", "f", "", "input format")
	cmd.Flags().StringVarP(&fl.to, "to", "t", "", "output format")
	cmd.Flags().StringVarP(&fl.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&fl.sheet, "sheet", "", "worksheet to read or write for xlsx")
	return cmd
}

func (a *app) convert(cmd *cobra.Command, data []byte, name string, fl convertFlags) error {
	from, err := resolveFormat(fl.from, name, a.cfg.Convert.From)
	if err != nil {
		return err
	}
	to, err := resolveFormat(fl.to, fl.output, a.cfg.Convert.To)
	if err != nil {
		return err
	}
	start := time.Now()
	g, err := decodeGrid(data, from, fl.sheet)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, fl.output, func(w io.Writer) error {
		return encodeGrid(w, g, to, fl.sheet)
	}); err != nil {
		return err
	}
	a.log.Converted(string(from), string(to), g.Len(), time.Since(start))
	return nil
}

func (a *app) formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := [][]string{{"ID", "NAME", "EXT", "MIME TYPE"}}
			for _, info := range gridconv.Infos() {
				rows = append(rows, []string{string(info.ID), info.Label, info.Extension, info.MIMEType})
			}
			rows = append(rows, []string{string(xlsxFormat), "Excel Workbook", "xlsx", xlsx.MIMEType})
			_, err := fmt.Fprintln(cmd.OutOrStdout(), columns(rows))
			return err
		},
	}
}

// readFile is the watch and diff counterpart of readInput.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
