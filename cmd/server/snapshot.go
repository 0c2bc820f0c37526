package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"stickyboard/internal/storage"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect or reset the persisted notes",
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the persisted snapshot as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeKV, err := openStore()
		if err != nil {
			return err
		}
		defer closeKV()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(store.All(context.Background()))
	},
}

var snapshotClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every persisted note",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeKV, err := openStore()
		if err != nil {
			return err
		}
		defer closeKV()

		if err := store.Clear(context.Background()); err != nil {
			return err
		}
		fmt.Println("Snapshot cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotClearCmd)
}

func openStore() (*storage.Store, func(), error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	kv, closeKV, err := openKV(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewStore(kv, logger), closeKV, nil
}
