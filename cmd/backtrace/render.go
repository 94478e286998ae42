package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Expand a saved stack trace",
	Long: `Read a stack trace (or any log containing one) from a file or stdin and print it
with source context under every remappable frame.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("since", "", "treat sources modified after this RFC 3339 time as stale (default: now)")
}

func runRender(cmd *cobra.Command, args []string) error {
	since, err := cmd.Flags().GetString("since")
	if err != nil {
		return fmt.Errorf("failed to get since flag: %w", err)
	}
	start := time.Now()
	if since != "" {
		if start, err = time.Parse(time.RFC3339, since); err != nil {
			return fmt.Errorf("invalid --since value %q: %w", since, err)
		}
	}

	timer, err := newTimer(cmd)
	if err != nil {
		return err
	}
	defer printTimings(cmd, timer)

	done := timer.Start("config")
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	done(cfg.Path)

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open trace: %w", err)
		}
		defer f.Close()
		in = f
	}

	done = timer.Start("renderer")
	r, err := newRenderer(cmd, cfg, os.Stdout, start)
	if err != nil {
		return err
	}
	done("")

	done = timer.Start("filter")
	err = r.Filter(cmd.Context(), in, cmd.OutOrStdout())
	done(fmt.Sprintf("%d sources", r.Cached()))
	return err
}
