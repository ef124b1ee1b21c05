// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gocolly/colly/v2"
	"github.com/spf13/cobra"

	"github.com/curioswitch/hamatcon/common/importer"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var file string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "import [url...]",
		Short: "Import recipes from pages with schema.org Recipe data",
		Long: "Imports recipes owned by seed from the given URLs, or one URL per line\n" +
			"of --file. Already imported pages are skipped. Run backfill afterwards\n" +
			"to infer cook time and difficulty.",
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := args
			if file != "" {
				fromFile, err := readLines(file)
				if err != nil {
					return err
				}
				urls = append(urls, fromFile...)
			}
			if len(urls) == 0 {
				return errors.New("no URLs to import")
			}

			store, closeStore, err := ctx.store(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			imp := importer.NewImporter(ctx.collector, store)
			created, skipped, failed := 0, 0, 0
			for _, res := range imp.ImportAll(cmd.Context(), urls, concurrency) {
				switch {
				case res.Err != nil:
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.URL, res.Err)
				case res.Created:
					created++
				default:
					skipped++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d recipes, %d already imported, %d failed\n", created, skipped, failed)
			if failed > 0 {
				return fmt.Errorf("%d imports failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "File with one URL per line")
	cmd.Flags().IntVar(&concurrency, "concurrency", importer.DefaultConcurrency, "Pages fetched at once")

	return cmd
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

func newCollector() *colly.Collector {
	return colly.NewCollector(
		colly.UserAgent("CurioBot/0.1"),
	)
}
