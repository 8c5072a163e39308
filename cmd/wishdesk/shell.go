package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Kerhoff/WishDesk/internal/service"
	"github.com/Kerhoff/WishDesk/internal/terminal"
	"github.com/Kerhoff/WishDesk/pkg/logger"
)

func newShellCmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive terminal console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would interleave with the prompts, so they go to a
			// file or nowhere.
			l := logger.Discard()
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				l = logger.NewWithOutput(os.Getenv("LOG_LEVEL"), f)
			}

			a, err := bootstrap(l)
			if err != nil {
				return err
			}

			session := service.NewSession(uuid.NewString(), nil)
			console := terminal.New(a.svc, session, terminal.NewSurveyDriver(), cmd.OutOrStdout(), a.logger)
			return console.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "Append logs to this file")
	return cmd
}
