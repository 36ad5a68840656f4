package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/clowes/twin/internal/config"
	"github.com/clowes/twin/internal/tui"
	"github.com/clowes/twin/internal/widget"
	"github.com/spf13/cobra"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the chat widget in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLogs, err := routeLogs()
			if err != nil {
				return err
			}
			defer closeLogs()

			ctx := cmd.Context()
			store := opts.openStore(ctx)
			defer store.Close()

			client := opts.newClient()
			twin := config.GetTwinConfig()
			model := tui.New(tui.Options{
				Store:    store,
				Client:   client,
				Prober:   client,
				FullName: twin.FullName,
				Name:     twin.Name,
				Markdown: !plain,
				Context:  ctx,
			})

			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
				return fmt.Errorf("chat widget failed: %w", err)
			}
			model.Shell().Shutdown()
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Show replies as plain text instead of rendered markdown")
	return cmd
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var showSession bool

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := widget.NewEngine(opts.newClient())
			text := strings.Join(args, " ")
			if !engine.Send(cmd.Context(), text) {
				return fmt.Errorf("nothing to send")
			}

			messages := engine.Messages()
			reply := messages[len(messages)-1]
			fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
			if showSession && engine.SessionID() != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "session: %s\n", engine.SessionID())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSession, "show-session", false, "Print the session id assigned by the service")
	return cmd
}

func newToggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Flip the remembered open/closed state of the widget",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := opts.openStore(ctx)
			defer store.Close()

			shell := widget.NewShell(store, nil)
			shell.Initialize(ctx)
			shell.Toggle(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), stateName(shell))
			return nil
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the widget will start open",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := opts.openStore(ctx)
			defer store.Close()

			shell := widget.NewShell(store, nil)
			shell.Initialize(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), stateName(shell))
			return nil
		},
	}
}

func stateName(shell *widget.Shell) string {
	if shell.IsOpen() {
		return "open"
	}
	return "closed"
}
