package replies

import (
	"context"
	"fmt"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/samber/mo"

	"slackbridge/appctx"
	"slackbridge/clients"
	"slackbridge/core/log"
	"slackbridge/models"
)

const defaultDeliveryTimeout = 10 * time.Second

// ReplyService sends replies that cannot ride on the HTTP acknowledgment.
type ReplyService interface {
	// Say posts reply into channelID with the bot token.
	Say(ctx context.Context, channelID string, reply models.Reply) error
	// Respond posts reply to a slash command response_url.
	Respond(ctx context.Context, responseURL string, reply models.Reply) error
}

// AsyncReplyService queues deliveries on a bounded worker pool so the
// caller can acknowledge Slack before the Web API round trip completes.
type AsyncReplyService struct {
	slackClient clients.SlackClient
	pool        *workerpool.WorkerPool
	timeout     time.Duration
}

func NewAsyncReplyService(slackClient clients.SlackClient, workers int) *AsyncReplyService {
	if workers <= 0 {
		workers = 1
	}
	return &AsyncReplyService{
		slackClient: slackClient,
		pool:        workerpool.New(workers),
		timeout:     defaultDeliveryTimeout,
	}
}

// Say validates and queues a chat.postMessage delivery.
func (s *AsyncReplyService) Say(ctx context.Context, channelID string, reply models.Reply) error {
	if channelID == "" {
		return fmt.Errorf("channel id is required")
	}
	if reply.IsEmpty() {
		return fmt.Errorf("reply text is required")
	}

	params := clients.SlackMessageParams{
		Text:     reply.Text,
		ThreadTS: mo.EmptyableToOption(reply.ThreadTS),
	}
	s.submit(ctx, "say", func(ctx context.Context) error {
		resp, err := s.slackClient.PostMessage(ctx, channelID, params)
		if err != nil {
			return fmt.Errorf("failed to post message to channel %s: %w", channelID, err)
		}
		log.Info("✅ Reply posted", "channel", resp.Channel, "ts", resp.Timestamp)
		return nil
	})
	return nil
}

// Respond validates and queues a response_url delivery.
func (s *AsyncReplyService) Respond(ctx context.Context, responseURL string, reply models.Reply) error {
	if responseURL == "" {
		return fmt.Errorf("response url is required")
	}
	if reply.IsEmpty() {
		return fmt.Errorf("reply text is required")
	}

	params := clients.SlackResponseParams{
		Text:         reply.Text,
		ResponseType: reply.ResponseType,
	}
	s.submit(ctx, "respond", func(ctx context.Context) error {
		if err := s.slackClient.PostResponse(ctx, responseURL, params); err != nil {
			return fmt.Errorf("failed to post to response_url: %w", err)
		}
		log.Info("✅ Command response delivered")
		return nil
	})
	return nil
}

// submit detaches the work from the request context: the request finishes
// as soon as the ack is written, the delivery must not.
func (s *AsyncReplyService) submit(ctx context.Context, kind string, deliver func(ctx context.Context) error) {
	requestID := appctx.RequestIDOrEmpty(ctx)
	detached := context.WithoutCancel(ctx)

	s.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(detached, s.timeout)
		defer cancel()

		if err := deliver(ctx); err != nil {
			log.Error("❌ Reply delivery failed", "kind", kind, "request_id", requestID, "error", err)
		}
	})
}

// StopWait blocks until every queued delivery has run. No new deliveries
// may be submitted afterwards.
func (s *AsyncReplyService) StopWait() {
	if pending := s.WaitingQueueSize(); pending > 0 {
		log.Info("⏳ Waiting for queued replies", "pending", pending)
	}
	s.pool.StopWait()
}

// WaitingQueueSize reports deliveries queued but not yet started.
func (s *AsyncReplyService) WaitingQueueSize() int {
	return s.pool.WaitingQueueSize()
}
