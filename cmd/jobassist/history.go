package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyLimit       int
	historyCleanupDays int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent application sessions",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of sessions to show")
	historyCmd.Flags().IntVar(&historyCleanupDays, "cleanup-days", 0, "delete sessions older than this many days before listing")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sessionStore, err := buildStore(cfg, false, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sessionStore.Close()

	if historyCleanupDays > 0 {
		olderThan := time.Duration(historyCleanupDays) * 24 * time.Hour
		if err := sessionStore.Cleanup(olderThan); err != nil {
			logger.Error("cleanup failed", "error", err)
			os.Exit(1)
		}
		logger.Info("cleaned up old sessions", "older_than_days", historyCleanupDays)
	}

	sessions, err := sessionStore.RecentSessions(historyLimit)
	if err != nil {
		logger.Error("listing sessions failed", "error", err)
		os.Exit(1)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions yet.")
		return nil
	}

	for _, sess := range sessions {
		fmt.Printf("%s  %s at %s  (%d documents)\n",
			sess.CreatedAt.Format("2006-01-02 15:04"),
			sess.Posting.Title, sess.Posting.Company, len(sess.Documents))
	}
	return nil
}
