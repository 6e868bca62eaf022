// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wavefunc/stationmerge/internal/config"
	"github.com/wavefunc/stationmerge/internal/persistence/sqlite"
)

func newVerifyCmd(root *rootFlags) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "verify [db-path]",
		Short: "Check the output database for corruption",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(cmd, root, "")

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				// Only the store path is needed; the rest may be incomplete.
				cfg, err := config.NewLoader(root.configPath).Load()
				if err != nil && !errors.Is(err, config.ErrInvalidConfig) {
					return err
				}
				path = cfg.Store.Path
			}
			if path == "" {
				return errors.New("no database given: pass a path or set store.path")
			}

			mode := sqlite.ModeQuick
			if full {
				mode = sqlite.ModeFull
			}
			issues, err := sqlite.VerifyIntegrity(cmd.Context(), path, mode)
			if err != nil {
				return err
			}
			if len(issues) > 0 {
				for _, issue := range issues {
					fmt.Fprintln(cmd.OutOrStdout(), issue)
				}
				return fmt.Errorf("%s: %d integrity problems", path, len(issues))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s check)\n", path, mode)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "run PRAGMA integrity_check instead of quick_check")
	return cmd
}
