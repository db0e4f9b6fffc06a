package main

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

var searchKinds = map[string]string{
	"count":  "/api/search/count",
	"daily":  "/api/search/daily",
	"titles": "/api/search/titles",
}

func init() {
	agenciesCmd := &cobra.Command{
		Use:   "agencies",
		Short: "List agencies (served from the local cache when fresh)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet(apiFlag, "/api/agents", nil, os.Stdout)
		},
	}
	rootCmd.AddCommand(agenciesCmd)

	var agency, child, query string
	searchCmd := &cobra.Command{
		Use:       "search count|daily|titles",
		Short:     "Relay a search to eCFR for an agency or sub-agency",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"count", "daily", "titles"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(apiFlag, args[0], agency, child, query, os.Stdout)
		},
	}
	searchCmd.Flags().StringVarP(&agency, "agency", "g", "", "Agency slug")
	searchCmd.Flags().StringVarP(&child, "child", "c", "", "Sub-agency slug, used instead of --agency when set")
	searchCmd.Flags().StringVarP(&query, "query", "q", "", "Free-text query")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(apiURL, kind, agency, child, query string, out io.Writer) error {
	path, ok := searchKinds[kind]
	if !ok {
		return fmt.Errorf("unknown search kind %q (want count, daily or titles)", kind)
	}
	if agency == "" && child == "" {
		return fmt.Errorf("--agency or --child required")
	}
	params := url.Values{}
	if agency != "" {
		params.Set("agency", agency)
	}
	if child != "" {
		params.Set("child", child)
	}
	if query != "" {
		params.Set("query", query)
	}
	return doGet(apiURL, path, params, out)
}
