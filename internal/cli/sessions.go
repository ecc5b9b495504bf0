package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/varunhm/honeynet/internal/store"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect stored sessions",
	}
	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsShowCmd())
	return cmd
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known session ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, db, err := openSessionStore()
			if err != nil {
				return err
			}
			defer db.Close()

			ids, err := sessions.List()
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(os.Stdout, "no sessions")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(os.Stdout, id)
			}
			return nil
		},
	}
}

func newSessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the completion payload for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, db, err := openSessionStore()
			if err != nil {
				return err
			}
			defer db.Close()

			sess, err := sessions.Load(args[0])
			if err != nil {
				return err
			}
			if sess == nil {
				return fmt.Errorf("no session %q", args[0])
			}
			out, err := json.MarshalIndent(sess.Payload(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(out))
			return nil
		},
	}
}

func openSessionStore() (*store.SQLiteSessionStore, *store.DB, error) {
	db, err := store.Open(filepath.Join(paths.Data, "honeynet.db"), log)
	if err != nil {
		return nil, nil, fmt.Errorf("opening session store: %w", err)
	}
	return store.NewSQLiteSessionStore(db), db, nil
}
