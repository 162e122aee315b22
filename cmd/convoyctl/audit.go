package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/convoyrelief/convoyd/pkg/audit"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect persisted audit events",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return fmt.Errorf("command 'audit' requires a subcommand (recent)")
	},
}

// auditRecentCmd represents the audit recent command
var auditRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the latest persisted audit events",
	Long: `List the latest audit events stored in the audit database.

Events are only persisted when CONVOYD_AUDIT_DATABASE_URL is set for the server.

Example:
  convoyctl audit recent
  convoyctl audit recent --msgid authn --limit 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		msgid, _ := cmd.Flags().GetString("msgid")
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := audit.NewStore()
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%s is not set", audit.EnvDatabaseURL)
		}
		messages, err := s.Recent(msgid, limit)
		if err != nil {
			return err
		}
		return printAuditMessages(os.Stdout, messages)
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditRecentCmd)
	auditRecentCmd.Flags().String("msgid", "resource", "message ID to list (authn, check, resource, ...)")
	auditRecentCmd.Flags().Int("limit", 20, "maximum number of events")
}

func printAuditMessages(out io.Writer, messages []audit.Message) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tMSGID\tSEVERITY\tMESSAGE")
	for _, m := range messages {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", m.Timestamp.UTC().Format(time.RFC3339), m.Msgid, m.Severity, m.Message)
	}
	return w.Flush()
}
