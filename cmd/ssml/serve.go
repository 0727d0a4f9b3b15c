package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/book-expert/ssml-service/internal/objectstore"
	"github.com/book-expert/ssml-service/internal/worker"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the NATS cast worker",
		Long: `Serve subscribes to [nats].text_processed_subject, casts the referenced text
objects into SSML documents and replies with the stored document key. It
runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	opts, err := a.cfg.CastOptions()
	if err != nil {
		a.log.Error("Invalid cast configuration: %v", err)

		return err
	}

	natsConnection, err := nats.Connect(a.cfg.NATS.URL)
	if err != nil {
		a.log.Error("Failed to connect to NATS at %s: %v", a.cfg.NATS.URL, err)

		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	textStore, err := objectstore.New(jetstreamContext, a.cfg.NATS.TextObjectStoreBucket)
	if err != nil {
		return err
	}

	ssmlStore, err := objectstore.New(jetstreamContext, a.cfg.NATS.SSMLObjectStoreBucket)
	if err != nil {
		return err
	}

	castWorker, err := worker.NewNatsWorker(
		natsConnection,
		a.cfg.NATS.TextProcessedSubject,
		textStore,
		ssmlStore,
		a.caster(a.cfg.SSML.Normalize),
		opts,
		a.log,
	)
	if err != nil {
		return err
	}

	a.log.System("SSML service initialized. Listening for jobs on subject: %s (text bucket %s, ssml bucket %s)",
		a.cfg.NATS.TextProcessedSubject, textStore.Bucket(), ssmlStore.Bucket())

	err = castWorker.Run(ctx)
	if err != nil {
		a.log.Error("Worker stopped with error: %v", err)

		return err
	}

	a.log.System("SSML service stopped.")

	return nil
}
