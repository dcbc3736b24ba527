package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/user-form-poc/internal/fixtures"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate valid user records",
	RunE:  runGenerate,
}

var (
	generateCount  int
	generateSeed   uint64
	generateFormat string
	generateOutput string
)

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 1, "Number of records")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 1, "Generator seed")
	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "yaml", "Output format: yaml or json")
	generateCmd.Flags().StringVarP(&generateOutput, "out", "o", "", "Output file (defaults to stdout)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if generateCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}
	users := fixtures.NewGenerator(generateSeed).Users(generateCount)

	var (
		data []byte
		err  error
	)
	switch generateFormat {
	case "yaml":
		data, err = yaml.Marshal(users)
	case "json":
		data, err = json.MarshalIndent(users, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported format %q (want yaml or json)", generateFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	if generateOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(generateOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}
