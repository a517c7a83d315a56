package bootstrap

import (
	"context"
	"fmt"
	"io"

	"ai-docchat/internal/config"
	"ai-docchat/internal/pkg/logger"
	"ai-docchat/internal/service"
	"ai-docchat/internal/session"
	"ai-docchat/pkg/gateway"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Client wires the chat client: gateway, session controller and the
// in-process session event bus.
type Client struct {
	Controller *session.Controller
	Gateway    *gateway.HTTPGateway
	Consumer   service.IConsumerService

	logger logger.ILogger
	pubSub *gochannel.GoChannel
	cancel context.CancelFunc
}

// NewClient builds the client. Extra notifiers (a view, for instance) receive
// controller events alongside the event bus.
func NewClient(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger, notifiers ...session.Notifier) (*Client, error) {
	// 1. Gateway
	gw, err := gateway.NewHTTPGateway(cfg.Client.APIBaseURL,
		gateway.WithUploadTimeout(cfg.Client.UploadTimeout),
		gateway.WithAskTimeout(cfg.Client.AskTimeout),
		gateway.WithUploadProgress(uploadProgressLogger(sysLogger)),
	)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "Using backend", map[string]interface{}{"base_url": gw.BaseURL()})

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NopLogger{},
	)

	consumeCtx, cancel := context.WithCancel(ctx)
	consumer := service.NewDiagnosticsConsumer(pubSub, service.SessionEventsTopic, sysLogger)
	if err := consumer.Consume(consumeCtx); err != nil {
		cancel()
		_ = pubSub.Close()
		return nil, fmt.Errorf("event bus: %w", err)
	}
	publisher := service.NewSessionEventPublisher(pubSub, service.SessionEventsTopic, sysLogger)

	// 3. Session
	all := append([]session.Notifier{publisher}, notifiers...)
	ctrl := session.NewController(gw,
		session.WithLogger(sysLogger),
		session.WithAskTimeout(cfg.Client.AskTimeout),
		session.WithNotifier(session.Notifiers(all...)),
	)

	return &Client{
		Controller: ctrl,
		Gateway:    gw,
		Consumer:   consumer,
		logger:     sysLogger,
		pubSub:     pubSub,
		cancel:     cancel,
	}, nil
}

// Close drains the event bus and logs the session summary.
func (c *Client) Close() error {
	c.cancel()
	err := c.pubSub.Close()
	c.Consumer.Wait()

	stats := c.Consumer.Stats()
	c.logger.Info("BOOTSTRAP", "Session closed", map[string]interface{}{
		"events":     stats.Events,
		"uploads":    stats.Uploads,
		"questions":  stats.Questions,
		"answers":    stats.Answers,
		"last_state": stats.LastState,
	})
	return err
}

var _ io.Closer = &Client{}

// uploadProgressLogger logs upload progress at every quarter.
func uploadProgressLogger(sysLogger logger.ILogger) gateway.ProgressFunc {
	lastQuarter := -1
	return func(p gateway.Progress) {
		if p.Total <= 0 {
			return
		}
		quarter := int(p.Percent()) / 25
		if quarter == lastQuarter {
			return
		}
		lastQuarter = quarter
		sysLogger.Debug("GATEWAY", "Upload progress", map[string]interface{}{
			"sent":    p.Sent,
			"total":   p.Total,
			"percent": fmt.Sprintf("%.0f%%", p.Percent()),
		})
	}
}
