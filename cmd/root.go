package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/clowes/twin/internal/config"
	"github.com/clowes/twin/internal/logger"
	"github.com/clowes/twin/internal/storage"
	"github.com/clowes/twin/pkg/twinapi"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	apiURL      string
	storage     string
	storagePath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "twin",
		Short: "Chat with a digital twin from the terminal",
		Long: `twin is a terminal rendition of the digital twin chat widget.

It remembers whether the chat window was left open, talks to the twin chat
service over HTTP and can run that service itself with "twin serve".`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Base URL of the twin chat service (default $TWIN_API_URL or "+config.DefaultAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&opts.storage, "storage", "", "Preference store: file, sqlite, redis, memory or none (default $TWIN_STORAGE or file)")
	rootCmd.PersistentFlags().StringVar(&opts.storagePath, "storage-path", "", "Path of the file or sqlite preference store")

	rootCmd.AddCommand(
		newChatCmd(opts),
		newAskCmd(opts),
		newToggleCmd(opts),
		newStatusCmd(opts),
		newServeCmd(),
	)
	return rootCmd
}

func (o *rootOptions) resolveAPIURL() string {
	if o.apiURL != "" {
		return o.apiURL
	}
	return config.GetAPIURL()
}

func (o *rootOptions) newClient() *twinapi.Client {
	apiURL := o.resolveAPIURL()
	return twinapi.NewClient(apiURL,
		twinapi.WithTimeout(config.GetRequestTimeout()),
		twinapi.WithAvatarURL(config.GetAvatarURL(apiURL)),
	)
}

func (o *rootOptions) openStore(ctx context.Context) storage.Store {
	cfg := config.GetStorageConfig()
	if o.storage != "" {
		cfg.Backend = o.storage
	}
	if o.storagePath != "" {
		cfg.Path = o.storagePath
	}
	return storage.Open(ctx, cfg)
}

// routeLogs keeps log lines off a terminal owned by the TUI.
func routeLogs() (func(), error) {
	path := config.GetLogFile()
	if path == "" {
		logger.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	return func() { f.Close() }, nil
}
