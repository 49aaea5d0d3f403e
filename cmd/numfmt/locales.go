package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newLocalesCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "locales",
		Short: "List locales with number rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := a.build()
			if err != nil {
				return err
			}
			catalog, err := cfg.LocaleCatalog()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				raw, err := json.MarshalIndent(catalog.All(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(raw))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tSAMPLE\tFALLBACKS")
			for _, meta := range catalog.All() {
				code := meta.Code
				if code == catalog.DefaultEntry() {
					code += "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", code, meta.DisplayName, meta.Sample, strings.Join(meta.Fallbacks, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}
