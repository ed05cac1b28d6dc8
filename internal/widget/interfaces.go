package widget

import (
	"context"

	"github.com/rpggio/feedback-widget/internal/client"
	"github.com/rpggio/feedback-widget/internal/domain/feedback"
)

// FeedbackClient creates and updates remote feedback records.
type FeedbackClient interface {
	Create(ctx context.Context, req feedback.CreateRequest) (string, error)
	Update(ctx context.Context, id string, req feedback.UpdateRequest) error
}

// ClientFactory builds the client an instance dispatches through.
type ClientFactory func(cfg Config) FeedbackClient

// DefaultClientFactory returns a demo client in demo mode and an HTTP client
// for cfg.BaseURL otherwise.
func DefaultClientFactory(cfg Config) FeedbackClient {
	if cfg.Demo {
		return client.NewDemoClient()
	}
	return client.NewFeedbackClient(cfg.BaseURL)
}
