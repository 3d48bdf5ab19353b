package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/internal/journal"
	"github.com/weftlabs/weft/internal/rules"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	Session string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{}

	cmd := &cobra.Command{
		Use:   "trace <journal.db>",
		Short: "Print engine journal events",
		Long: `Read a weft engine journal and print its events in append order.
Use --session to restrict output to one engine session.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Session, "session", "", "filter events by engine session")

	return cmd
}

func runTrace(rootOpts *RootOptions, opts *TraceOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	if _, err := os.Stat(path); err != nil {
		formatter.Error(rules.ErrCodeNotFound, fmt.Sprintf("journal not found: %s", path), nil)
		return NewExitError(ExitCommandError, "journal not found")
	}

	j, err := journal.Open(path)
	if err != nil {
		formatter.Error(rules.ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	defer j.Close()

	events, err := j.Events(cmd.Context(), opts.Session)
	if err != nil {
		formatter.Error(rules.ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if rootOpts.Format == "json" {
		return formatter.Success(events)
	}

	fmt.Fprint(cmd.OutOrStdout(), renderEvents(events))
	return nil
}

func renderEvents(events []journal.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d event(s)\n", len(events))
	for _, ev := range events {
		fmt.Fprintf(&b, "%6d  %-16s  module=%d", ev.ID, ev.Kind, ev.Module)
		if ev.Assembly != "" {
			fmt.Fprintf(&b, "  assembly=%s", ev.Assembly)
		}
		switch ev.Kind {
		case journal.KindCallRewritten:
			fmt.Fprintf(&b, "  %s: %s -> %s [%s]", ev.Caller, ev.Target, ev.Wrapper, ev.Integration)
		default:
			if ev.Detail != "" {
				fmt.Fprintf(&b, "  %s", ev.Detail)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
