package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	client "github.com/hsn0918/escli-client"
)

type loadOptions struct {
	files     []string
	delimiter string
	failures  string
	opts      *cliOptions
}

func newLoadCmd(opts *cliOptions) *cobra.Command {
	lo := &loadOptions{opts: opts}

	cmd := &cobra.Command{
		Use:   "load INDEX",
		Short: "Bulk load data into an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lo.run(cmd, args[0])
		},
		ValidArgsFunction: completeIndexNames(opts),
	}

	cmd.Flags().StringArrayVarP(&lo.files, "from-csv", "c", nil, "CSV file with a header row (repeatable)")
	cmd.Flags().StringVar(&lo.delimiter, "delimiter", ",", "Field delimiter of the CSV files")
	cmd.Flags().StringVar(&lo.failures, "failures", "", "Append rejected documents to this file")

	_ = cmd.MarkFlagRequired("from-csv")
	_ = cmd.MarkFlagFilename("from-csv", "csv")

	return cmd
}

func (o *loadOptions) complete() ([]client.ReadOption, error) {
	if len(o.files) == 0 {
		return nil, client.ErrNoSourceFiles
	}
	if utf8.RuneCountInString(o.delimiter) != 1 {
		return nil, fmt.Errorf("delimiter must be a single character: %q", o.delimiter)
	}
	r, _ := utf8.DecodeRuneInString(o.delimiter)
	return []client.ReadOption{client.WithDelimiter(r)}, nil
}

func (o *loadOptions) run(cmd *cobra.Command, index string) error {
	readOpts, err := o.complete()
	if err != nil {
		return err
	}

	summary, err := o.opts.cli.Load(cmd.Context(), index, o.files, readOpts...)
	if err != nil {
		return err
	}

	o.opts.logger.Debug("bulk load finished", "index", index, "files", len(o.files), "documents", summary.Total())

	if err := logRejections(o.failures, index, summary); err != nil {
		o.opts.logger.Warn("failed to write rejections", "path", o.failures, "error", err)
	}

	out := cmd.OutOrStdout()
	for _, tag := range summary.Tags() {
		if tag == client.FailedResultTag {
			continue
		}
		if err := printOut(out, "Successfully %s %d documents\n", tag, summary.Count(tag)); err != nil {
			return err
		}
	}
	if n := summary.Count(client.FailedResultTag); n > 0 {
		return printOut(out, "Failed to index %d documents\n", n)
	}
	return nil
}
