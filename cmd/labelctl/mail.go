package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mikey/inbox-labeler/internal/core"
)

func newLabelCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "label",
		Short: "Classify and label the most recent inbox messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(func(sessions core.MailSessions, labeler *core.InboxLabeler) error {
				ctx := context.Background()
				mail, err := sessions.Open(ctx)
				if err != nil {
					return err
				}

				report, err := labeler.LabelRecent(ctx, mail)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), report)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "MESSAGE\tDOMAIN\tCATEGORY\tCONFIDENCE\tAPPLIED\tREASON")
				for _, r := range report.Results {
					reason := r.Reason
					if r.Error != "" {
						reason = "error: " + r.Error
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\t%s\n",
						r.MessageID, r.Domain, r.Category, r.Confidence, r.Applied, reason)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nProcessed %d messages from %d sender domains\n", report.Processed, report.Domains)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func newDraftAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft-all",
		Short: "Draft replies for recent eligible messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(func(sessions core.MailSessions, drafter *core.ReplyDrafter) error {
				ctx := context.Background()
				mail, err := sessions.Open(ctx)
				if err != nil {
					return err
				}

				report, err := drafter.DraftRecent(ctx, mail)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
}
