package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/convoyrelief/convoyd/pkg/db"
)

// dbWaitCmd represents the db wait command
var dbWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the database to accept connections",
	Long: `Wait for the database named by DATABASE_URL to accept connections.

Useful before 'convoyctl db migrate' when the database starts alongside
the server.

Example:
  convoyctl db wait --retries 30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		retries, _ := cmd.Flags().GetInt("retries")
		dbURL := db.URL()
		if dbURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
		if err := waitForDatabase(cmd.Context(), dbURL, retries, time.Second); err != nil {
			return err
		}
		fmt.Println("Database is ready")
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbWaitCmd)
	dbWaitCmd.Flags().IntP("retries", "r", 90, "Number of retries")
}

func waitForDatabase(ctx context.Context, dbURL string, retries int, interval time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("invalid database URL: %w", err)
	}
	defer func() { _ = conn.Close() }()

	var lastErr error
	for i := 0; i < retries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		lastErr = conn.PingContext(pingCtx)
		cancel()
		if lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("database not ready after %d attempts: %w", retries, lastErr)
}
