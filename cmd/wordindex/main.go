package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gz/Index/wordindex"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "wordindex <query>",
		Short: "wordindex - single-word frequency queries over a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments were valid; later failures should not dump usage.
			cmd.SilenceUsage = true
			return run(file, args[0])
		},
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&file, "file", "f", "lear.txt", "text file to index")

	return cmd
}

func run(filename, query string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	f, err := os.Open(filename)
	if err != nil {
		log.Error("opening file", "file", filename, "err", err)
		return fmt.Errorf("opening %s: %w", filename, err)
	}
	defer f.Close()

	start := time.Now()
	ix, lines, err := wordindex.Build(f, filename)
	if err != nil {
		log.Error("indexing file", "file", filename, "err", err)
		return err
	}
	log.Info("index built",
		"file", filename,
		"lines", lines,
		"words", ix.Len(),
		"capacity", ix.Capacity(),
		"elapsed", time.Since(start))

	if n, ok := wordindex.Count(ix, query); ok {
		fmt.Printf("the word %q appears %d times in %q\n", query, n, filename)
	} else {
		fmt.Printf("the word %q doesn't appear in %q\n", query, filename)
	}
	return nil
}
