package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/greensort/greensort/bench"
	"github.com/greensort/greensort/bench/report"
)

var (
	listFormat string // text, json or yaml
	listN      int    // Reference size for cost multipliers
)

// listCmd enumerates the registered algorithms and their descriptors
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available algorithms",
	Run: func(cmd *cobra.Command, args []string) {
		table, err := bench.DefaultTable(bench.DefaultTuning())
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := report.WriteList(cmd.OutOrStdout(), listFormat, table.Descriptors(), listN); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func registerListFlags(fs *pflag.FlagSet) {
	fs.StringVar(&listFormat, "format", "text", "Output format: text, json or yaml")
	fs.IntVar(&listN, "n", 1_000_000, "Element count at which cost multipliers are evaluated")
}
