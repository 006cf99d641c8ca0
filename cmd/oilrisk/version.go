package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"oilrisk/pkg/contracts"
)

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(contracts.GetVersionInfo())
			}
			cmd.Println(contracts.GetFullVersionString())
			cmd.Printf("data format %s, api %s\n", contracts.DataFormatVersion, contracts.APIVersion)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print version information as JSON")
	return cmd
}
