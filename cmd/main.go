package main

import (
	"fmt"
	"os"

	"github.com/clowes/twin/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Debug(logger.APP, "No .env file loaded, using system environment only: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
