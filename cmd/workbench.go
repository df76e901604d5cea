package cmd

import (
	"fmt"
	"os"

	"github.com/casectl/casectl/internal/record"
	"github.com/casectl/casectl/internal/tui"
	"github.com/casectl/casectl/internal/workflow"
)

// runWorkbench starts the interactive three-panel workbench.
func runWorkbench() error {
	cfg := initConfig()

	client, err := buildClient(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	writer := record.NewWriter(cfg.OutputDir)
	ctrl := workflow.NewController(client, writer)
	ctrl.Session().SetField(cfg.Field)
	ctrl.Session().SetChinese(cfg.ChineseCharacteristics)

	if useTUI {
		return tui.Run(ctrl, tui.Config{
			Version:  appVersion,
			Provider: client.Name(),
			Model:    client.DefaultModel(),
			OutDir:   cfg.OutputDir,
		})
	}

	// Plain guided mode for non-terminal stdout / --tui=false.
	return tui.RunPlain(ctrl)
}
