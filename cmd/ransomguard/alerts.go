package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ransomguard/internal/journal"
)

var alertsLimit int

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show recent alerts from the local journal",
	RunE:  runAlerts,
}

func init() {
	alertsCmd.Flags().IntVar(&alertsLimit, "limit", 20, "maximum number of alerts to show")
}

func runAlerts(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Close()

	if !cfg.Journal.Enabled {
		return fmt.Errorf("alert journal is disabled in the configuration")
	}

	jnl, err := journal.Open(cfg.Journal.Path, log)
	if err != nil {
		return err
	}
	defer jnl.Close()

	entries, err := jnl.Recent(alertsLimit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No alerts recorded.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %s -> %s\n", e.Time.Format("2006-01-02 15:04:05"), e.Path, e.Reasons)
	}
	return nil
}
