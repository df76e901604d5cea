package cmd

import (
	"fmt"
	"strings"

	"github.com/casectl/casectl/internal/record"
	"github.com/spf13/cobra"
)

// questionPreview flattens a question to one line of at most max runes.
// Questions are Chinese text, so the cut must not land inside a rune.
func questionPreview(q string, max int) string {
	q = strings.ReplaceAll(q, "\n", " ")
	runes := []rune(q)
	if len(runes) <= max {
		return q
	}
	return string(runes[:max]) + "..."
}

func newRecordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "List saved records in the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()

			infos, err := record.List(cfg.OutputDir)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Printf("no records in %s\n", cfg.OutputDir)
				return nil
			}

			for _, info := range infos {
				fmt.Printf("%s  %-40s  %s\n", info.Timestamp, info.Field, questionPreview(info.Question, 60))
			}
			fmt.Printf("\n%d record(s) in %s\n", len(infos), cfg.OutputDir)
			return nil
		},
	}
}
