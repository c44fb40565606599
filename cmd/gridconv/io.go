package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/xlsx"
)

// xlsxFormat names binary workbooks, which the text registry does not cover.
const xlsxFormat gridconv.Format = "xlsx"

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, "", err
	}
	data, err := os.ReadFile(args[0])
	return data, args[0], err
}

// resolveFormat picks the explicit id, then the extension of name, then def.
func resolveFormat(id, name, def string) (gridconv.Format, error) {
	if id == "" {
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			return xlsxFormat, nil
		}
		if f, ok := gridconv.ForFilename(name); ok {
			return f, nil
		}
		id = def
	}
	if strings.EqualFold(strings.TrimSpace(id), string(xlsxFormat)) {
		return xlsxFormat, nil
	}
	return gridconv.ParseFormat(id)
}

func decodeGrid(data []byte, f gridconv.Format, sheet string) (gridconv.Grid, error) {
	if f == xlsxFormat {
		return xlsx.ReadGrid(bytes.NewReader(data), sheet)
	}
	return gridconv.Parse(string(data), f)
}

func encodeGrid(w io.Writer, g gridconv.Grid, f gridconv.Format, sheet string) error {
	if f == xlsxFormat {
		return xlsx.WriteGrid(w, g, sheet)
	}
	return gridconv.Write(w, f, g)
}

// writeOutput sends write's output to path, or to stdout when path is empty
// or "-". Files are only created once write succeeds.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
