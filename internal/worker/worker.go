package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/config"
	"github.com/nmeisenzahl/ai-agent-demo/internal/pipeline"
)

// ArticleRequest is a queued article generation job
type ArticleRequest struct {
	RequestID string `json:"request_id"`
	Topic     string `json:"topic"`
}

// Worker consumes article requests from a Redis stream and runs the
// generation pipeline for each of them
type Worker struct {
	id            string
	config        *config.Config
	redisClient   *redis.Client
	pipeline      *pipeline.Pipeline
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	streamKey     string
	consumerGroup string
	resultStream  string
}

// NewWorker creates a new article worker
func NewWorker(
	cfg *config.Config,
	redisClient *redis.Client,
	p *pipeline.Pipeline,
	logger *zap.Logger,
) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		id:            cfg.WorkerID,
		config:        cfg,
		redisClient:   redisClient,
		pipeline:      p,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		streamKey:     cfg.StreamKey,
		consumerGroup: cfg.ConsumerGroup,
		resultStream:  cfg.ResultStream,
	}
}

// Start begins consuming article requests
func (w *Worker) Start() error {
	w.logger.Info("starting article worker",
		zap.String("worker_id", w.id),
		zap.String("stream_key", w.streamKey),
		zap.String("consumer_group", w.consumerGroup),
	)

	if err := w.ensureConsumerGroup(); err != nil {
		return fmt.Errorf("failed to ensure consumer group: %w", err)
	}

	go w.consumeLoop()

	w.logger.Info("article worker started", zap.String("worker_id", w.id))
	return nil
}

// Stop stops the worker gracefully
func (w *Worker) Stop() error {
	w.logger.Info("stopping article worker", zap.String("worker_id", w.id))

	w.cancel()

	// Give in-flight work a moment to finish
	time.Sleep(2 * time.Second)

	w.logger.Info("article worker stopped", zap.String("worker_id", w.id))
	return nil
}

// ensureConsumerGroup creates the consumer group if it doesn't exist
func (w *Worker) ensureConsumerGroup() error {
	err := w.redisClient.XGroupCreateMkStream(w.ctx, w.streamKey, w.consumerGroup, "0").Err()
	if err != nil {
		// BUSYGROUP means the group already exists, which is fine
		if err.Error() == "BUSYGROUP Consumer Group name already exists" {
			w.logger.Debug("consumer group already exists",
				zap.String("group", w.consumerGroup),
			)
			return nil
		}
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	w.logger.Info("created consumer group",
		zap.String("group", w.consumerGroup),
		zap.String("stream", w.streamKey),
	)
	return nil
}

// consumeLoop reads article requests from the stream until the worker stops
func (w *Worker) consumeLoop() {
	w.logger.Info("starting article consume loop")

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info("article consume loop stopped")
			return
		default:
			streams, err := w.redisClient.XReadGroup(w.ctx, &redis.XReadGroupArgs{
				Group:    w.consumerGroup,
				Consumer: w.id,
				Streams:  []string{w.streamKey, ">"},
				Count:    1,
				Block:    w.config.BlockTime,
			}).Result()

			if err != nil {
				if err == redis.Nil {
					continue
				}
				w.logger.Error("failed to read from stream", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					w.handleMessage(message)
				}
			}
		}
	}
}

// handleMessage runs the pipeline for a single article request. Messages
// are always acknowledged: malformed and failed requests are reported on
// the error stream instead of being redelivered forever.
func (w *Worker) handleMessage(message redis.XMessage) {
	messageID := message.ID
	w.logger.Info("processing article request", zap.String("message_id", messageID))

	request, err := parseArticleRequest(message.Values)
	if err != nil {
		w.logger.Error("failed to parse article request",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		w.acknowledgeMessage(messageID)
		return
	}

	outcome, err := w.pipeline.Run(w.ctx, request.Topic)
	if err != nil {
		w.logger.Error("article generation failed",
			zap.String("message_id", messageID),
			zap.String("request_id", request.RequestID),
			zap.Error(err),
		)
		w.publishError(request, err)
		w.acknowledgeMessage(messageID)
		return
	}

	if err := w.publishOutcome(request, outcome); err != nil {
		w.logger.Error("failed to publish article outcome",
			zap.String("request_id", request.RequestID),
			zap.Error(err),
		)
	}

	w.acknowledgeMessage(messageID)
}

// parseArticleRequest decodes the JSON payload carried in the message's
// "data" field
func parseArticleRequest(values map[string]interface{}) (*ArticleRequest, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var request ArticleRequest
	if err := json.Unmarshal([]byte(dataStr), &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal article request: %w", err)
	}
	if request.Topic == "" {
		return nil, fmt.Errorf("article request has no topic")
	}

	return &request, nil
}

// publishOutcome announces a finished article on the result stream
func (w *Worker) publishOutcome(request *ArticleRequest, outcome *pipeline.Outcome) error {
	data, err := json.Marshal(outcomePayload(request, outcome))
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	_, err = w.redisClient.XAdd(w.ctx, &redis.XAddArgs{
		Stream: w.resultStream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	w.logger.Info("published article outcome",
		zap.String("request_id", request.RequestID),
		zap.String("title", outcome.Title),
		zap.String("html_path", outcome.HTMLPath),
	)

	return nil
}

// outcomePayload builds the result stream payload for a finished article
func outcomePayload(request *ArticleRequest, outcome *pipeline.Outcome) map[string]interface{} {
	return map[string]interface{}{
		"request_id": request.RequestID,
		"run_id":     outcome.RunID,
		"topic":      outcome.Topic,
		"title":      outcome.Title,
		"html_path":  outcome.HTMLPath,
		"image_path": outcome.ImagePath,
		"steps":      outcome.Visited,
		"timestamp":  time.Now().UTC(),
	}
}

// publishError reports a failed request on the error stream
func (w *Worker) publishError(request *ArticleRequest, err error) {
	errorEvent := map[string]interface{}{
		"request_id": request.RequestID,
		"topic":      request.Topic,
		"error":      err.Error(),
		"timestamp":  time.Now().UTC(),
	}

	data, marshalErr := json.Marshal(errorEvent)
	if marshalErr != nil {
		w.logger.Error("failed to marshal error event", zap.Error(marshalErr))
		return
	}

	_, publishErr := w.redisClient.XAdd(w.ctx, &redis.XAddArgs{
		Stream: w.resultStream + ".errors",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if publishErr != nil {
		w.logger.Error("failed to publish error event", zap.Error(publishErr))
	}
}

// acknowledgeMessage acknowledges a message from the stream
func (w *Worker) acknowledgeMessage(messageID string) {
	err := w.redisClient.XAck(w.ctx, w.streamKey, w.consumerGroup, messageID).Err()
	if err != nil {
		w.logger.Error("failed to acknowledge message",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}
}
