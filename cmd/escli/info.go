package main

import (
	"github.com/spf13/cobra"

	client "github.com/hsn0918/escli-client"
)

func newInfoCmd(opts *cliOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show information about the Elasticsearch service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseOutputFormat(format, formatText, formatJSON, formatYAML)
			if err != nil {
				return err
			}

			info, err := opts.cli.Info(cmd.Context())
			if err != nil {
				return err
			}

			switch f {
			case formatJSON:
				return writeJSON(cmd.OutOrStdout(), info)
			case formatYAML:
				return writeYAML(cmd.OutOrStdout(), info)
			default:
				return printInfo(cmd, info)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(formatText), "Output format: text|json|yaml")

	return cmd
}

func printInfo(cmd *cobra.Command, info *client.InfoResponse) error {
	lines := []struct {
		format string
		value  any
	}{
		{"Name: %s\n", info.Name},
		{"Cluster Name: %s\n", info.ClusterName},
		{"Cluster UUID: %s\n", info.ClusterUUID},
		{"Version:%s\n", ""},
		{"  Number: %s\n", info.Version.Number},
		{"  Build Flavor: %s\n", info.Version.BuildFlavor},
		{"  Build Type: %s\n", info.Version.BuildType},
		{"  Build Hash: %s\n", info.Version.BuildHash},
		{"  Build Date: %s\n", info.Version.BuildDate},
		{"  Build Snapshot: %t\n", info.Version.BuildSnapshot},
		{"  Lucene Version: %s\n", info.Version.LuceneVersion},
		{"  Minimum Wire Compatibility Version: %s\n", info.Version.MinimumWireCompatibilityVersion},
		{"  Minimum Index Compatibility Version: %s\n", info.Version.MinimumIndexCompatibilityVersion},
		{"Tagline: %s\n", info.Tagline},
	}

	for _, line := range lines {
		if err := printOut(cmd.OutOrStdout(), line.format, line.value); err != nil {
			return err
		}
	}
	return nil
}
