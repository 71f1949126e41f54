package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/studyquiz-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		application.Log.Error("Background jobs failed to start", "error", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- application.Run() }()

	select {
	case <-ctx.Done():
		application.Log.Info("Shutting down")
	case err := <-errCh:
		if err != nil {
			application.Log.Error("Server failed", "error", err)
		}
	}
}
