package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/chainflow/pkg/operators"
)

var listOperatorsCmd = &cobra.Command{
	Use:   "list-operators",
	Short: "List the operator names usable in a topology manifest",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range operators.Catalog() {
			fmt.Println(name)
		}
	},
}
