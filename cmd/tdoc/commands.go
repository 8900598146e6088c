package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vidyasagar/tdoc/internal/launch"
	"github.com/vidyasagar/tdoc/internal/lookup"
)

func newLookupCmd(f *rootFlags) *cobra.Command {
	var showURL bool
	cmd := &cobra.Command{
		Use:   "lookup <symbol>",
		Short: "Print the documentation for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := f.newLogger(cmd.ErrOrStderr(), slog.LevelWarn)
			cfg, err := f.loadConfig(logger)
			if err != nil {
				return err
			}

			fetcher := lookup.NewFetcher(cfg.UserAgent,
				lookup.WithTimeout(cfg.Timeout()),
				lookup.WithLogger(logger),
			)
			resolver := lookup.NewResolver(fetcher, cfg.Settings(), logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
			defer cancel()
			res, err := resolver.Resolve(ctx, args[0])
			if err != nil {
				return fmt.Errorf("lookup interrupted: %w", err)
			}

			out := cmd.OutOrStdout()
			if showURL {
				fmt.Fprintf(out, "search: %s\n", lookup.Printable(res.SearchURL))
				if res.FinalURL != "" && res.FinalURL != res.SearchURL {
					fmt.Fprintf(out, "page:   %s\n", lookup.Printable(res.FinalURL))
				}
			}
			text := strings.TrimRight(res.Content.Display(), "\n") + "\n"
			if res.Content.Kind == lookup.KindError {
				fmt.Fprint(cmd.ErrOrStderr(), text)
				return errReported
			}
			fmt.Fprint(out, text)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showURL, "url", "u", false, "also print the search and documentation URLs")
	return cmd
}

func newOpenCmd(f *rootFlags, opener launch.Opener) *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "open <symbol>",
		Short: "Open the documentation search for a symbol in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := f.newLogger(cmd.ErrOrStderr(), slog.LevelWarn)
			cfg, err := f.loadConfig(logger)
			if err != nil {
				return err
			}
			u := lookup.BuildURL(cfg.SearchURL, args[0])
			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), u)
				return nil
			}
			return opener.Open(u)
		},
	}
	cmd.Flags().BoolVarP(&printOnly, "print", "p", false, "print the URL instead of opening it")
	return cmd
}

func newConfigCmd(f *rootFlags) *cobra.Command {
	var pathOnly bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := f.newLogger(cmd.ErrOrStderr(), slog.LevelWarn)
			cfg, err := f.loadConfig(logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if pathOnly {
				fmt.Fprintln(out, cfg.Path())
				return nil
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "# %s\n%s", cfg.Path(), data)
			return nil
		},
	}
	cmd.Flags().BoolVar(&pathOnly, "path", false, "print only the config file location")
	return cmd
}
