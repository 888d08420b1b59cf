package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/uframe"
	uslog "github.com/fwojciec/uframe/slog"
)

func (deps *Dependencies) logger() *slog.Logger {
	if deps.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return deps.Logger
}

// fail prints err the way every command reports errors and returns it.
func (deps *Dependencies) fail(err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", uframe.ErrorMessage(err))
	return err
}

// lookup loads the catalog and wraps it for searching.
func (deps *Dependencies) lookup() (*uframe.Catalog, uframe.Lookup, error) {
	if deps.Catalogs == nil {
		return nil, nil, deps.fail(uframe.Errorf(uframe.ECONFIG, "no catalog source. Use --base-url, --toc-file or --snapshot"))
	}
	cat, err := deps.Catalogs.LoadCatalog(deps.Ctx)
	if err != nil {
		return nil, nil, deps.fail(err)
	}
	return cat, uslog.NewLoggingLookup(cat, deps.logger()), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func writeLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
