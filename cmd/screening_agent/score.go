package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/hr-screening/internal/dictionary"
	"github.com/jonathan/hr-screening/internal/profile"
	"github.com/jonathan/hr-screening/internal/scoring"
	"github.com/jonathan/hr-screening/internal/types"
)

var (
	scoreExtractionPath string
	scoreTemplatePath   string
	scoreDictionaryPath string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one extracted application against a job template offline",
	Long: `Canonicalize an extracted application and score it against a job template,
printing the score breakdown as JSON. Useful for tuning templates and
dictionaries without a database.`,
	RunE: runScore,
}

// dictionaryFile is the offline dictionary format for the score command.
type dictionaryFile struct {
	HardSkills []string            `json:"hard_skills"`
	SoftSkills []string            `json:"soft_skills"`
	Synonyms   []types.SynonymRule `json:"synonyms"`
}

func init() {
	scoreCmd.Flags().StringVar(&scoreExtractionPath, "extraction", "", "Path to extracted application JSON (required)")
	scoreCmd.Flags().StringVar(&scoreTemplatePath, "template", "", "Path to job template JSON (required)")
	scoreCmd.Flags().StringVar(&scoreDictionaryPath, "dictionary", "", "Path to dictionary JSON (optional)")
	_ = scoreCmd.MarkFlagRequired("extraction")
	_ = scoreCmd.MarkFlagRequired("template")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	var raw types.RawExtraction
	if err := readJSONFile(scoreExtractionPath, &raw); err != nil {
		return err
	}

	var template types.JobTemplate
	if err := readJSONFile(scoreTemplatePath, &template); err != nil {
		return err
	}

	dict := dictionaryFile{}
	if scoreDictionaryPath != "" {
		if err := readJSONFile(scoreDictionaryPath, &dict); err != nil {
			return err
		}
	}
	snap := dictionary.NewSnapshot(1, dict.HardSkills, dict.SoftSkills, dict.Synonyms)

	p := profile.Canonicalize(raw, snap)
	p.RoleName = template.RoleName

	score, err := scoring.Score(&p, &template, snap)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(map[string]any{
		"profile": p,
		"score":   score,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func readJSONFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
