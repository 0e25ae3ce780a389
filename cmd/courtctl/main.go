// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command courtctl is the operator command line for the case-management API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/courtdesk/internal/cli"
	"github.com/taibuivan/courtdesk/internal/platform/apperr"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		return
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		fmt.Fprintln(os.Stderr, "\nOperation cancelled")
		stop()
		os.Exit(130)
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
	os.Exit(1)
}

// describe prefers the API's message and lists field errors.
func describe(err error) string {
	appError := apperr.As(err)
	if appError == nil {
		return err.Error()
	}

	message := appError.Message
	for _, detail := range appError.Details {
		message += fmt.Sprintf("\n  %s: %s", detail.Field, detail.Message)
	}
	return message
}
