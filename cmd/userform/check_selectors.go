package main

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/jonathan/user-form-poc/internal/fetch"
	"github.com/jonathan/user-form-poc/internal/form"
	"github.com/jonathan/user-form-poc/internal/observability"
)

var checkSelectorsCmd = &cobra.Command{
	Use:   "check-selectors",
	Short: "Check that the form page contains every control the harness drives",
	Long: `Fetches the form page and reports every registry selector that matches nothing.
Use --render for pages that build their controls with scripts.`,
	RunE: runCheckSelectors,
}

var (
	checkSelectorsURL    string
	checkSelectorsRender bool
)

func init() {
	checkSelectorsCmd.Flags().StringVarP(&checkSelectorsURL, "url", "u", "", "Form URL (defaults to config base_url)")
	checkSelectorsCmd.Flags().BoolVar(&checkSelectorsRender, "render", false, "Render the page in headless Chrome before checking")
	rootCmd.AddCommand(checkSelectorsCmd)
}

func runCheckSelectors(cmd *cobra.Command, _ []string) error {
	url := cfg.BaseURL
	if checkSelectorsURL != "" {
		url = checkSelectorsURL
	}

	var (
		doc *goquery.Document
		err error
	)
	if checkSelectorsRender {
		opts := fetch.DefaultRenderOptions()
		opts.Settle = cfg.Settle()
		opts.ExecPath = cfg.ChromePath
		doc, err = fetch.RenderedDocument(context.Background(), url, opts)
	} else {
		doc, err = fetch.Document(context.Background(), url, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch form page: %w", err)
	}

	reg := form.DefaultRegistry()
	missing := reg.Verify(doc)
	observability.NewPrinter(cmd.OutOrStdout()).PrintSelectorCheck(url, len(reg.Selectors()), missing)
	if len(missing) > 0 {
		return fmt.Errorf("%d selectors did not resolve", len(missing))
	}
	return nil
}
