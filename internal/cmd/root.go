package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ticketforge",
	Short: "Turn specifications into scheduled ticket plans",
	Long: `ticketforge is a CLI tool that turns a product or technical specification
into a complete implementation plan: numbered tickets grouped into epics,
a dependency graph with critical path analysis, and a parallel execution
schedule, all written out as markdown planning documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command under ctx so commands stop cleanly
// when the process receives an interrupt
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default is .ticketforge/ticketforge.yaml, discovered upward)")
	rootCmd.PersistentFlags().String("format", "text", "output format (text, json, yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress progress output")
}
