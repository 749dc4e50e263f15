package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mikey/inbox-labeler/internal/adapters/eml"
	"github.com/mikey/inbox-labeler/internal/core"
)

type classifyOutput struct {
	Domain string `json:"domain"`
	core.ClassificationResult
	Display string `json:"display"`
}

func classify(ctx context.Context, w io.Writer, service *core.ClassificationService, from, subject string, useAI bool) error {
	sender := core.SenderAddress(from)
	domain := core.ExtractDomain(sender)

	var cache core.EntertainmentCache
	if useAI && domain != "" {
		cache = service.CheckDomain(ctx, domain)
	}

	result := service.ClassifyMessage(ctx, domain, subject, sender, cache)
	return printJSON(w, classifyOutput{
		Domain:               domain,
		ClassificationResult: result,
		Display:              result.DisplayCategory(),
	})
}

func newClassifyCmd() *cobra.Command {
	var sender, subject string
	var useAI bool

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a message from its sender and subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(func(service *core.ClassificationService) error {
				return classify(context.Background(), cmd.OutOrStdout(), service, sender, subject, useAI)
			})
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "Sender address or From header value")
	cmd.Flags().StringVar(&subject, "subject", "", "Message subject")
	cmd.Flags().BoolVar(&useAI, "ai", false, "Ask the model about the sender domain when no rule matches")
	_ = cmd.MarkFlagRequired("sender")

	return cmd
}

func newClassifyFileCmd() *cobra.Command {
	var useAI bool

	cmd := &cobra.Command{
		Use:   "classify-file <message.eml>",
		Short: "Classify a raw RFC 822 message file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := parseFile(args[0])
			if err != nil {
				return err
			}
			return invoke(func(service *core.ClassificationService) error {
				return classify(context.Background(), cmd.OutOrStdout(), service, msg.From, msg.Subject, useAI)
			})
		},
	}

	cmd.Flags().BoolVar(&useAI, "ai", false, "Ask the model about the sender domain when no rule matches")
	return cmd
}

func newPreviewReplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview-reply <message.eml>",
		Short: "Check reply eligibility and print the generated reply without saving a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := parseFile(args[0])
			if err != nil {
				return err
			}
			return invoke(func(drafter *core.ReplyDrafter) error {
				result, err := drafter.PreviewReply(context.Background(), msg)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
}

func parseFile(path string) (*core.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open message file: %w", err)
	}
	defer f.Close()

	return eml.Parse(f)
}
