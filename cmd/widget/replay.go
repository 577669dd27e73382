package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pthm/widget"
	"github.com/pthm/widget/lib/dom"
	"github.com/pthm/widget/lib/scenario"
)

type replayOptions struct {
	*rootOptions
	pretty      bool
	quiet       bool
	activeClass string
	maxDepth    int
}

func newReplayCmd(root *rootOptions) *cobra.Command {
	opts := &replayOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Replay a scenario and print the trace and resulting page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the resulting page")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "print the trace only")
	cmd.Flags().StringVar(&opts.activeClass, "active-class", widget.DefaultActiveClass, "class toggled by activate/deactivate")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", widget.DefaultMaxBroadcastDepth, "maximum nesting of broadcasts")
	return cmd
}

func runReplay(w io.Writer, path string, opts *replayOptions) error {
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}

	logger, err := opts.logger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	res, err := s.Replay(
		widget.WithLogger(logger),
		widget.WithActiveClass(opts.activeClass),
		widget.WithMaxBroadcastDepth(opts.maxDepth),
	)
	if err != nil {
		return err
	}

	for _, line := range res.Trace {
		fmt.Fprintln(w, line)
	}
	if !opts.quiet {
		fmt.Fprintln(w)
		if opts.pretty {
			fmt.Fprintln(w, dom.Format(res.Doc.Body()))
		} else {
			fmt.Fprintln(w, dom.OuterHTML(res.Doc.Body()))
		}
	}
	return res.Err()
}
