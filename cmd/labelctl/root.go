package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/mikey/inbox-labeler/internal/core"
	"github.com/mikey/inbox-labeler/internal/di"
)

var flags di.CLIFlags

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labelctl",
		Short: "Classify, label and draft replies for your inbox",
		Long: `labelctl manages the domain label overrides and runs the inbox
classification pipeline from the command line.

Mail commands use the credential saved by the inbox-labeler login flow.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	cmd.PersistentFlags().BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")

	cmd.AddCommand(newDomainsCmd())
	cmd.AddCommand(newClassifyCmd())
	cmd.AddCommand(newClassifyFileCmd())
	cmd.AddCommand(newPreviewReplyCmd())
	cmd.AddCommand(newLabelCmd())
	cmd.AddCommand(newDraftAllCmd())

	return cmd
}

// invoke builds the CLI container, runs fn with its dependencies and
// releases the store and model client afterwards
func invoke(fn interface{}) error {
	container, err := di.BuildCLIContainer(&flags)
	if err != nil {
		return err
	}
	defer func() {
		_ = container.Invoke(func(labels core.LabelStore, gen core.TextGenerator) {
			labels.Close()
			if c, ok := gen.(interface{ Close() error }); ok {
				c.Close()
			}
		})
	}()

	if err := container.Invoke(fn); err != nil {
		if errors.Is(err, core.ErrReauthRequired) {
			return fmt.Errorf("no usable mail credential, log in through the inbox-labeler /login page: %w", err)
		}
		return dig.RootCause(err)
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
