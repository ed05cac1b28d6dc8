package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpggio/feedback-widget/internal/domain/feedback"
)

// DemoIDPrefix prefixes every id a DemoClient hands out.
const DemoIDPrefix = "demo-feedback-"

// DemoClient never touches the network. Creates return a synthetic id and
// updates succeed without effect.
type DemoClient struct{}

// NewDemoClient returns a DemoClient.
func NewDemoClient() *DemoClient {
	return &DemoClient{}
}

// Create returns a fresh synthetic id.
func (DemoClient) Create(ctx context.Context, _ feedback.CreateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return DemoIDPrefix + uuid.NewString(), nil
}

// Update does nothing.
func (DemoClient) Update(ctx context.Context, _ string, _ feedback.UpdateRequest) error {
	return ctx.Err()
}
