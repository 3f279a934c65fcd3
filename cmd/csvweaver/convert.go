package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drblury/csvweaver/csvresponse"
	"github.com/drblury/csvweaver/internal/config"
)

func newConvertCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var (
		delimiter string
		quoted    bool
		encoding  string
	)

	cmd := &cobra.Command{
		Use:   "convert [file|-]",
		Short: "Convert a JSON or YAML row array to CSV on stdout",
		Long: `Convert reads an array of rows from a file or stdin. Objects become
named rows whose keys form the header line, arrays become positional rows.
Key order in the document decides column order. An empty array prints nothing.`,
		Example: `  csvweaver convert rows.json > rows.csv
  cat rows.yaml | csvweaver convert --delimiter ';' --quoted --encoding UTF-8 -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			opts := cfg.CSV.Options()
			if cmd.Flags().Changed("delimiter") {
				opts = append(opts, csvresponse.WithDelimiter(delimiter))
			}
			if cmd.Flags().Changed("quoted") {
				opts = append(opts, csvresponse.WithQuoted(quoted))
			}
			if cmd.Flags().Changed("encoding") {
				opts = append(opts, csvresponse.WithEncoding(encoding))
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return runConvert(cmd, name, opts)
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", csvresponse.DefaultDelimiter, "cell delimiter, a single character")
	cmd.Flags().BoolVarP(&quoted, "quoted", "q", false, "wrap every cell in double quotes")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", csvresponse.DefaultEncoding, "output character encoding")

	return cmd
}

func runConvert(cmd *cobra.Command, name string, opts []csvresponse.Option) error {
	data, err := readInput(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}

	rows, err := csvresponse.DecodeRows(data)
	if err != nil {
		return fmt.Errorf("failed to parse rows: %w", err)
	}

	resp, err := csvresponse.Build(rows, opts...)
	if err != nil {
		return err
	}
	if len(resp.Body) == 0 {
		return nil
	}

	if _, err := cmd.OutOrStdout().Write(resp.Body); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
