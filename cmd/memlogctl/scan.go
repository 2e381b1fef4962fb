package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrianius/memorylog/internal/scan"
)

var (
	scanChunkSize int
	scanShowAll   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <dump-file>",
	Short: "Run the forensic scanner over a dump file and print what it finds",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanChunkSize, "chunk-size", 4096, "chunk size the dump was produced with")
	scanCmd.Flags().BoolVar(&scanShowAll, "show-records", false, "print every record's payload, not just the summary count")
}

func runScan(cmd *cobra.Command, args []string) error {
	path := args[0]
	dump, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	logger.Info("scanning dump",
		zap.String("path", path),
		zap.Int("size", len(dump)),
		zap.Int("chunk_size", scanChunkSize))

	records := scan.Scan(dump, scanChunkSize)

	if scanShowAll {
		for _, r := range records {
			fmt.Printf("offset=%d len=%d payload=%q\n", r.Offset, len(r.Payload), r.Payload)
		}
	}
	fmt.Printf("records=%d\n", len(records))
	return nil
}
