package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Database string
	Name     string
	Session  string
}

// SessionsReport lists ledger sessions.
type SessionsReport struct {
	Sessions []store.Session `json:"sessions"`
}

// WriteText implements textWriter.
func (r SessionsReport) WriteText(w io.Writer, _ bool) error {
	if len(r.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found in ledger.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tRECORDS\tSEQ")
	for _, s := range r.Sessions {
		fmt.Fprintf(tw, "%s\t%d\t%d-%d\n", s.ID, s.Records, s.FirstSeq, s.LastSeq)
	}
	return tw.Flush()
}

// RecordsReport lists ledger records.
type RecordsReport struct {
	Records []store.Record `json:"records"`
}

// WriteText implements textWriter.
func (r RecordsReport) WriteText(w io.Writer, verbose bool) error {
	if len(r.Records) == 0 {
		_, err := fmt.Fprintln(w, "No records found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tNAME\tSESSION\tSCHEMA\tVALUE")
	for _, rec := range r.Records {
		vh, sh := rec.ValueHash, rec.SchemaHash
		if !verbose {
			vh, sh = vh[:12], sh[:12]
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", rec.Seq, rec.Name, rec.Session, sh, vh)
	}
	return tw.Flush()
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List ledger sessions or records",
		Long: `Without filters, list the recording sessions in a ledger. With --name,
list every record of that name; with --session, every record of that
session. Records are ordered by sequence number.

Examples:
  driftprint log --db ./drift.db
  driftprint log --db ./drift.db --name "GET /users"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "list records of this name")
	cmd.Flags().StringVar(&opts.Session, "session", "", "list records of this session")
	cmd.MarkFlagsMutuallyExclusive("name", "session")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	switch {
	case opts.Name != "":
		recs, err := st.ListByName(ctx, opts.Name)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to list records", err)
		}
		return f.Success(RecordsReport{Records: recs})
	case opts.Session != "":
		recs, err := st.ListSession(ctx, opts.Session)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to list records", err)
		}
		return f.Success(RecordsReport{Records: recs})
	}

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to list sessions", err)
	}
	return f.Success(SessionsReport{Sessions: sessions})
}
