package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "incidentd",
	Short: "AI-powered environmental incident analysis",
	Long: `Incidentd analyzes environmental facility incidents using bounded
LLM deliberation over sensor rules, population impact, and regulatory
risk, recalls similar historical cases from a semantic memory, and
fuses both into severity-ranked recommendations and meeting briefings.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".incidentd.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}