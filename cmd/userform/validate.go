package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/user-form-poc/internal/fixtures"
	"github.com/jonathan/user-form-poc/internal/observability"
	"github.com/jonathan/user-form-poc/internal/types"
	"github.com/jonathan/user-form-poc/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a user record without a browser",
	Long: `Runs the validation rules on a record read from a YAML or JSON file, or on a generated
record, and prints the outcome and the message the form would display.`,
	RunE: runValidate,
}

var (
	validateInput string
	validateSeed  uint64
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to a record file (.yaml, .yml or .json); omit to validate a generated record")
	validateCmd.Flags().Uint64Var(&validateSeed, "seed", 1, "Seed for the generated record")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	record := fixtures.NewGenerator(validateSeed).User()
	label := fmt.Sprintf("generated (seed %d)", validateSeed)

	if validateInput != "" {
		r, err := readRecord(validateInput)
		if err != nil {
			return err
		}
		record = r
		label = filepath.Base(validateInput)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintOutcome(label, validation.Validate(record))
	return nil
}

func readRecord(path string) (types.FormRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.FormRecord{}, fmt.Errorf("failed to read record file: %w", err)
	}

	var record types.FormRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(content, &record); err != nil {
			return types.FormRecord{}, fmt.Errorf("failed to unmarshal record JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &record); err != nil {
			return types.FormRecord{}, fmt.Errorf("failed to unmarshal record YAML: %w", err)
		}
	default:
		return types.FormRecord{}, fmt.Errorf("unsupported record file extension: %s", filepath.Ext(path))
	}
	return record, nil
}
