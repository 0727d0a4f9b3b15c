// Package worker provides a NATS worker that casts stored text into SSML.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/book-expert/ssml-service/internal/core"
	"github.com/book-expert/ssml-service/internal/ssml"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	handleMessageTimeout = 30 * time.Second
	ssmlKeySuffix        = ".ssml"
)

var (
	// ErrTextKeyEmpty indicates an event that does not name a text object.
	ErrTextKeyEmpty = errors.New("text key cannot be empty")
	// ErrNilDependency indicates a worker constructed without a required collaborator.
	ErrNilDependency = errors.New("worker dependency cannot be nil")
)

// DocumentCastEvent is the reply sent once a document has been stored.
type DocumentCastEvent struct {
	Header  events.EventHeader `json:"header"`
	SSMLKey string             `json:"ssml_key"`
	Speaker string             `json:"speaker"`
}

// ErrorReply is sent instead of a DocumentCastEvent when a job fails.
type ErrorReply struct {
	Error string `json:"error"`
}

// NatsWorker listens for text-processed events on a NATS subject and replies
// with the key of the cast SSML document.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	textStore      core.ObjectStore
	ssmlStore      core.ObjectStore
	caster         core.Caster
	opts           ssml.Options
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker. opts supplies the cast
// defaults; a non-empty Voice in an event overrides the speaker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	textStore core.ObjectStore,
	ssmlStore core.ObjectStore,
	caster core.Caster,
	opts ssml.Options,
	log *logger.Logger,
) (*NatsWorker, error) {
	if natsConnection == nil || textStore == nil || ssmlStore == nil || caster == nil || log == nil {
		return nil, ErrNilDependency
	}

	err := opts.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid worker cast options: %w", err)
	}

	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		textStore:      textStore,
		ssmlStore:      ssmlStore,
		caster:         caster,
		opts:           opts,
		log:            log,
	}, nil
}

// Run subscribes to the subject and blocks until ctx is cancelled.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	w.log.Info("Listening for cast jobs on subject: %s", w.subject)

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	event, err := w.parseAndValidateEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse and validate event: %v", err)
		w.respondError(msg, err)

		return
	}

	replyEvent, err := w.processCastJob(ctx, event)
	if err != nil {
		w.log.Error("Failed to process cast job for workflow %s: %v", event.Header.WorkflowID, err)
		w.respondError(msg, err)

		return
	}

	err = w.publishReplyEvent(msg, replyEvent)
	if err != nil {
		w.log.Error("Failed to publish reply event for workflow %s: %v", event.Header.WorkflowID, err)
	}
}

// processCastJob downloads the text, casts it and uploads the document.
func (w *NatsWorker) processCastJob(ctx context.Context, event *events.TextProcessedEvent) (*DocumentCastEvent, error) {
	textData, err := w.textStore.Download(ctx, event.TextKey)
	if err != nil {
		return nil, fmt.Errorf("failed to download text data for key '%s': %w", event.TextKey, err)
	}

	opts := w.opts
	if event.Voice != "" {
		opts.Speaker = event.Voice
	}

	document, err := w.caster.Cast(string(textData), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to cast text for key '%s': %w", event.TextKey, err)
	}

	ssmlKey := uuid.NewString() + ssmlKeySuffix

	err = w.ssmlStore.Upload(ctx, ssmlKey, []byte(document))
	if err != nil {
		return nil, fmt.Errorf("failed to upload ssml data for key '%s': %w", ssmlKey, err)
	}

	w.log.Info("Cast %s into %s for workflow %s", event.TextKey, ssmlKey, event.Header.WorkflowID)

	return &DocumentCastEvent{
		Header:  event.Header,
		SSMLKey: ssmlKey,
		Speaker: opts.Speaker,
	}, nil
}

// publishReplyEvent marshals and responds with the DocumentCastEvent.
// Fire-and-forget publishes have no reply subject and get no reply.
func (w *NatsWorker) publishReplyEvent(msg *nats.Msg, replyEvent *DocumentCastEvent) error {
	if msg.Reply == "" {
		return nil
	}

	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish reply event: %w", err)
	}

	return nil
}

// respondError tells a waiting requester why its job failed. Fire-and-forget
// publishes have no reply subject and are only logged.
func (w *NatsWorker) respondError(msg *nats.Msg, jobErr error) {
	if msg.Reply == "" {
		return
	}

	replyData, err := json.Marshal(ErrorReply{Error: jobErr.Error()})
	if err != nil {
		w.log.Error("Failed to marshal error reply: %v", err)

		return
	}

	err = msg.Respond(replyData)
	if err != nil {
		w.log.Error("Failed to publish error reply: %v", err)
	}
}

func (w *NatsWorker) parseAndValidateEvent(msg *nats.Msg) (*events.TextProcessedEvent, error) {
	var event events.TextProcessedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.TextKey == "" {
		return nil, ErrTextKeyEmpty
	}

	return &event, nil
}
