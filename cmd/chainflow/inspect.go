package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/chainflow/pkg/config"
	"github.com/cuemby/chainflow/pkg/engine"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect -f topology.yaml",
	Short: "Print the chains and elements a manifest would build",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringP("file", "f", "", "topology YAML file to inspect (required)")
	_ = inspectCmd.MarkFlagRequired("file")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	filename, _ := cmd.Flags().GetString("file")

	cfg, err := config.Load(filename)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg, engine.Config{Ticker: func() {}})
	if err != nil {
		return err
	}

	info := eng.SystemInfo()
	fmt.Printf("manifest: %s\n", cfg.Metadata.Name)
	fmt.Printf("chains:   %d\n\n", info.ChainCount)

	for _, name := range info.Chains {
		ci, err := eng.ChainInfo(name)
		if err != nil {
			return err
		}
		fmt.Printf("- %s (auto=%v active=%v elements=%d)\n", ci.Name, ci.AutoFlag, ci.Active, ci.ElementCount)
	}
	return nil
}
