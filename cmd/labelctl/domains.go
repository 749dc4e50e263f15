package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mikey/inbox-labeler/internal/core"
)

func newDomainsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Manage domain label overrides",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all domain overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(func(labels core.LabelStore) error {
				records, err := labels.List(context.Background())
				if err != nil {
					return err
				}
				sort.Slice(records, func(i, j int) bool { return records[i].Domain < records[j].Domain })

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "DOMAIN\tLABEL\tSOURCE\tCREATED")
				for _, r := range records {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Domain, r.Label, r.Source, r.CreatedAt.Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <domain> <label>",
		Short: "Add or replace a domain override",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(func(labels core.LabelStore) error {
				if err := labels.Put(context.Background(), args[0], args[1], core.SourceManual); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", core.NormalizeDomain(args[0]), args[1])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <domain>",
		Short: "Remove a domain override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(func(labels core.LabelStore) error {
				return labels.Delete(context.Background(), args[0])
			})
		},
	})

	return cmd
}
