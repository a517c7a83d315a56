package bootstrap

import (
	"context"
	"fmt"
	"io"

	"ai-docchat/internal/config"
	"ai-docchat/internal/controller"
	"ai-docchat/internal/pkg/logger"
	"ai-docchat/internal/repository/contract"
	"ai-docchat/internal/repository/memory"
	redisrepo "ai-docchat/internal/repository/redis"
	"ai-docchat/internal/service"
	"ai-docchat/pkg/events"
	"ai-docchat/pkg/llm/factory"
	pktNats "ai-docchat/pkg/nats"
)

// Container wires the development backend.
type Container struct {
	DocumentController controller.IDocumentController
	HealthController   controller.HealthController

	closers []func() error
}

func NewContainer(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{}

	// 1. Document store
	var repo contract.DocumentRepository
	switch cfg.Server.DocumentStore {
	case "redis":
		client, err := redisrepo.NewClient(ctx, cfg.Server.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("document store: %w", err)
		}
		r := redisrepo.NewDocumentRepository(client, redisrepo.WithTTL(cfg.Server.DocumentTTL))
		c.closers = append(c.closers, r.Close)
		repo = r
	default:
		repo = memory.NewDocumentRepository(cfg.Server.DocumentTTL)
	}
	sysLogger.Info("BOOTSTRAP", "Using document store", map[string]interface{}{"store": cfg.Server.DocumentStore})

	// 2. LLM provider
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	sysLogger.Info("BOOTSTRAP", "Using LLM provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 3. Usage events (optional)
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Server.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(ctx, cfg.Server.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS, usage events disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			publisher = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	// 4. Services and controllers
	documentService := service.NewDocumentService(repo, llmProvider, publisher, sysLogger, cfg.Ai.TopChunks)
	c.DocumentController = controller.NewDocumentController(documentService)

	return c, nil
}

// Close releases store and bus connections.
func (c *Container) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

var _ io.Closer = &Container{}
