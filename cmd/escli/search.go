package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	client "github.com/hsn0918/escli-client"
)

type searchOptions struct {
	orderBy string
	limit   int
	format  string
	opts    *cliOptions
}

func newSearchCmd(opts *cliOptions) *cobra.Command {
	so := &searchOptions{opts: opts}

	cmd := &cobra.Command{
		Use:   "search INDEX [QUERY]",
		Short: "Search an index",
		Long: `Search an index. QUERY uses the query string syntax; without it every
document matches.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 2 {
				query = args[1]
			}
			return so.run(cmd, args[0], query)
		},
		ValidArgsFunction: completeIndexNames(opts),
	}

	cmd.Flags().StringVarP(&so.orderBy, "order-by", "o", "", "Sort as field:direction pairs, comma separated")
	cmd.Flags().IntVarP(&so.limit, "limit", "l", 0, "Maximum number of hits to return")
	cmd.Flags().StringVarP(&so.format, "format", "f", "", "Output format: table|raw|yaml")

	return cmd
}

// complete fills unset flags from the preferences.
func (o *searchOptions) complete(cmd *cobra.Command) (outputFormat, error) {
	if !cmd.Flags().Changed("format") {
		o.format = o.opts.searchFormat
	}
	if !cmd.Flags().Changed("limit") {
		o.limit = o.opts.searchLimit
	}
	if o.limit < 0 {
		return "", fmt.Errorf("limit must not be negative: %d", o.limit)
	}
	return parseOutputFormat(o.format, formatTable, formatRaw, formatYAML)
}

func (o *searchOptions) run(cmd *cobra.Command, index, query string) error {
	format, err := o.complete(cmd)
	if err != nil {
		return err
	}

	resp, err := o.opts.cli.Search(cmd.Context(), client.SearchRequest{
		Index: index,
		Query: query,
		Sort:  o.orderBy,
		Limit: o.limit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatRaw:
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		for _, hit := range resp.Hits.Hits {
			if err := enc.Encode(hit); err != nil {
				return fmt.Errorf("encode hit: %w", err)
			}
		}
		return nil
	case formatYAML:
		if len(resp.Hits.Hits) == 0 {
			return printOut(out, "[]\n")
		}
		return writeYAML(out, resp.Hits.Hits)
	default:
		t := client.NewTable(client.WithHeaderStyle(headerStyle(stylesEnabled(out, o.opts))))
		for _, doc := range resp.Documents() {
			t.Push(doc)
		}
		return printOut(out, "%s\n", t.Render())
	}
}
