package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/casectl/casectl/internal/record"
	"github.com/casectl/casectl/internal/workflow"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline non-interactively from a case file",
		Example: `  casectl run -i case.txt
  casectl run --input verdict.md --out ./data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return fmt.Errorf("--input / -i is required")
			}
			return runOnce(inputPath)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "case text file (.txt / .md)")
	cmd.MarkFlagRequired("input")

	return cmd
}

// runOnce drives all three stages with automatic locking and exits.
// Stage progress goes to stderr, the record path to stdout.
func runOnce(inputPath string) error {
	cfg := initConfig()

	client, err := buildClient(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read case file: %w", err)
	}

	writer := record.NewWriter(cfg.OutputDir)
	ctrl := workflow.NewController(client, writer)
	ctrl.Session().SetField(cfg.Field)
	ctrl.Session().SetChinese(cfg.ChineseCharacteristics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "[1/3] analyzing case (%s)...\n", client.Name())
	analysis, err := ctrl.Analyze(ctx, string(data))
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if workflow.AnalysisPassed(analysis) {
		fmt.Fprintln(os.Stderr, "      screening: PASS")
	} else {
		fmt.Fprintln(os.Stderr, "      screening: FAIL (case may be too simple; continuing)")
	}

	fmt.Fprintln(os.Stderr, "[2/3] generating question...")
	question, err := ctrl.GenerateQuestion(ctx)
	if err != nil {
		return fmt.Errorf("generate question: %w", err)
	}
	if workflow.QuestionTooShort(question) {
		fmt.Fprintln(os.Stderr, "      warning: question draft is very short")
	}
	if err := ctrl.LockQuestion(); err != nil {
		return fmt.Errorf("lock question: %w", err)
	}

	fmt.Fprintln(os.Stderr, "[3/3] generating answer...")
	if _, err := ctrl.GenerateAnswer(ctx); err != nil {
		return fmt.Errorf("generate answer: %w", err)
	}

	path, err := ctrl.LockAndSave()
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	fmt.Println(path)
	return nil
}
