package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/envops/incidentd/internal/incident"
	"github.com/envops/incidentd/internal/progress"
)

var seedFilePath string

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Load historical cases into the incident memory",
	Args:  cobra.MaximumNArgs(1),
	Long: `Reads resolved historical cases from a YAML file, embeds them into
the semantic store, records them in the case registry, and persists
the vector snapshot so serve and mcp can recall them.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFilePath, "file", "historical_cases.yml", "YAML file of historical cases")
	rootCmd.AddCommand(seedCmd)
}

// seedFile is the on-disk format for historical case datasets.
type seedFile struct {
	Cases []seedCase `yaml:"cases"`
}

type seedCase struct {
	IncidentID   string             `yaml:"incident_id"`
	IncidentType string             `yaml:"incident_type"`
	FacilityID   string             `yaml:"facility_id"`
	SensorData   map[string]float64 `yaml:"sensor_data"`
	Symptoms     map[string]string  `yaml:"symptoms"`
	Context      map[string]any     `yaml:"context"`
	Urgency      string             `yaml:"urgency"`
	Timestamp    string             `yaml:"timestamp"`
	Details      seedDetails        `yaml:"details"`
}

type seedDetails struct {
	RootCause      string   `yaml:"root_cause"`
	ActionsTaken   []string `yaml:"actions_taken"`
	Outcome        string   `yaml:"outcome"`
	ResolutionTime string   `yaml:"resolution_time"`
	Cost           float64  `yaml:"cost"`
	LessonsLearned string   `yaml:"lessons_learned"`
}

func (c seedCase) toHistoricalCase() incident.HistoricalCase {
	return incident.HistoricalCase{
		Incident: incident.Incident{
			ID:         c.IncidentID,
			Type:       c.IncidentType,
			FacilityID: c.FacilityID,
			SensorData: c.SensorData,
			Symptoms:   c.Symptoms,
			Context:    incident.ContextField{Fields: c.Context},
			Urgency:    c.Urgency,
			Timestamp:  c.Timestamp,
		},
		Details: incident.CaseDetails{
			RootCause:      c.Details.RootCause,
			ActionsTaken:   c.Details.ActionsTaken,
			Outcome:        c.Details.Outcome,
			ResolutionTime: c.Details.ResolutionTime,
			Cost:           c.Details.Cost,
			LessonsLearned: c.Details.LessonsLearned,
		},
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path := seedFilePath
	if len(args) == 1 {
		path = args[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	if len(sf.Cases) == 0 {
		return fmt.Errorf("seed file %s contains no cases", path)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	mem, store, reg, err := buildMemoryEngine(ctx, cfg, embedder)
	if err != nil {
		return err
	}
	defer reg.Close()

	reporter := progress.NewReporter()
	reporter.Start(len(sf.Cases))

	var stored int
	for i, c := range sf.Cases {
		hc := c.toHistoricalCase()
		reporter.Update(i+1, fmt.Sprintf("Storing %s", hc.ID))

		if _, err := mem.Store(ctx, hc); err != nil {
			reporter.Finish()
			return fmt.Errorf("storing case %s: %w", hc.ID, err)
		}
		stored++
	}
	reporter.Finish()

	if err := store.Persist(ctx, vectorDir(cfg)); err != nil {
		return fmt.Errorf("persisting case vectors: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Stored %d cases (%d total in memory)\n", stored, store.Count())
	return nil
}
