package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	client "github.com/hsn0918/escli-client"
)

type listOptions struct {
	all    bool
	open   bool
	closed bool
	opts   *cliOptions
}

func newListCmd(opts *cliOptions) *cobra.Command {
	lo := &listOptions{opts: opts}

	cmd := &cobra.Command{
		Use:   "ls [PATTERN]",
		Short: "List available indexes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			return lo.run(cmd, pattern)
		},
		ValidArgsFunction: completeIndexNames(opts),
	}

	cmd.Flags().BoolVarP(&lo.all, "all", "a", false, "Match any data stream or index, including hidden ones")
	cmd.Flags().BoolVarP(&lo.open, "open", "o", false, "Match open, non-hidden indices")
	cmd.Flags().BoolVarP(&lo.closed, "closed", "c", false, "Match closed, non-hidden indices")

	return cmd
}

func (o *listOptions) run(cmd *cobra.Command, pattern string) error {
	entries, err := o.opts.cli.ListIndices(cmd.Context(), client.ListIndicesRequest{
		Pattern: pattern,
		All:     o.all,
		Open:    o.open,
		Closed:  o.closed,
	})
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return nil
	}

	styled := stylesEnabled(cmd.OutOrStdout(), o.opts)
	return printOut(cmd.OutOrStdout(), "%s\n", renderIndexList(entries, styled))
}

var healthColors = map[string]lipgloss.Color{
	"green":  lipgloss.Color("2"),
	"yellow": lipgloss.Color("3"),
	"red":    lipgloss.Color("1"),
}

// renderIndexList lays out one borderless row per index with the count and
// size columns right aligned.
func renderIndexList(entries []client.IndexEntry, styled bool) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		health := e.Health
		if health == "" {
			health = "unknown"
		}
		if color, ok := healthColors[e.Health]; ok && styled {
			health = lipgloss.NewStyle().Foreground(color).Render("●")
		}

		status := ""
		if e.Closed() {
			status = "closed"
		}

		rows = append(rows, []string{
			health,
			e.UUID,
			e.Name,
			fmt.Sprintf("%d docs", e.Docs()),
			humanize.Bytes(e.Size()),
			status,
		})
	}

	cell := lipgloss.NewStyle().PaddingRight(1)
	right := cell.Align(lipgloss.Right)

	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Rows(rows...).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 3 || col == 4 {
				return right
			}
			return cell
		})

	return strings.TrimRight(t.String(), "\n")
}

func newCreateCmd(opts *cliOptions) *cobra.Command {
	var rawMappings []string

	cmd := &cobra.Command{
		Use:   "mk INDEX",
		Short: "Create index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mappings := make([]client.FieldMapping, 0, len(rawMappings))
			for _, raw := range rawMappings {
				m, err := client.ParseFieldMapping(raw)
				if err != nil {
					return err
				}
				mappings = append(mappings, m)
			}

			created, err := opts.cli.CreateIndex(cmd.Context(), args[0], mappings)
			if err != nil {
				return err
			}

			return printOut(cmd.OutOrStdout(), "Created index %s (%s)\n", created.Index, acknowledged(created.Acknowledged))
		},
	}

	cmd.Flags().StringArrayVarP(&rawMappings, "mapping", "m", nil, "Field mapping as field:type (repeatable)")

	return cmd
}

func newDeleteCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm INDEX",
		Short: "Delete index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := opts.cli.DeleteIndex(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printOut(cmd.OutOrStdout(), "Deleted index %s (%s)\n", args[0], acknowledged(deleted.Acknowledged))
		},
		ValidArgsFunction: completeIndexNames(opts),
	}
}

func acknowledged(ok bool) string {
	if ok {
		return "acknowledged"
	}
	return "not acknowledged"
}
