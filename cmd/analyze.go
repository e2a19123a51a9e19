package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/envops/incidentd/internal/analysis"
	"github.com/envops/incidentd/internal/incident"
	"github.com/envops/incidentd/internal/reasoning"
)

var (
	analyzeFile     string
	analyzeType     string
	analyzeFacility string
	analyzeUrgency  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run a one-shot combined analysis of an incident",
	Args:  cobra.MaximumNArgs(1),
	Long: `Analyzes a single incident through both the historical memory and the
multi-step reasoning loop, then prints the combined recommendation,
briefing, and meeting request as JSON.

The incident can be given as a JSON file (--file) or assembled from
flags for quick checks.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "JSON file describing the incident")
	analyzeCmd.Flags().StringVar(&analyzeType, "type", "", "incident type, e.g. WATER_CONTAMINATION")
	analyzeCmd.Flags().StringVar(&analyzeFacility, "facility", "", "facility identifier, e.g. Atlanta_WTP")
	analyzeCmd.Flags().StringVar(&analyzeUrgency, "urgency", "MEDIUM", "urgency: LOW, MEDIUM, HIGH, or CRITICAL")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path := analyzeFile
	if len(args) == 1 {
		path = args[0]
	}

	var inc incident.Incident
	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading incident file: %w", err)
		}
		if err := json.Unmarshal(data, &inc); err != nil {
			return fmt.Errorf("parsing incident file %s: %w", path, err)
		}
	case analyzeType != "":
		inc = incident.Incident{
			Type:       analyzeType,
			FacilityID: analyzeFacility,
			Urgency:    analyzeUrgency,
		}
	default:
		return fmt.Errorf("either --file or --type is required")
	}

	if inc.Type == "" {
		return fmt.Errorf("incident_type is required")
	}
	if inc.Urgency == "" {
		inc.Urgency = analyzeUrgency
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	mem, _, reg, err := buildMemoryEngine(ctx, cfg, embedder)
	if err != nil {
		return err
	}
	defer reg.Close()

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}

	res := reasoning.NewEngine(provider, cfg.Model, cfg.Temperature)
	combined := analysis.NewEngine(mem, res)

	result := combined.Analyze(ctx, inc)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
