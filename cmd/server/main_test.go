package main

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rpggio/feedback-widget/internal/client"
	"github.com/rpggio/feedback-widget/internal/config"
	"github.com/rpggio/feedback-widget/internal/widget"
	"github.com/stretchr/testify/require"
)

func TestWaitForShutdown_ReturnsServeError(t *testing.T) {
	serveErr := make(chan error, 1)
	serveErr <- errors.New("address already in use")
	close(serveErr)

	err := waitForShutdown(nil, &http.Server{}, serveErr)
	require.ErrorContains(t, err, "serve http: address already in use")
}

func TestWaitForShutdown_ServerClosed(t *testing.T) {
	serveErr := make(chan error)
	close(serveErr)

	require.NoError(t, waitForShutdown(nil, &http.Server{}, serveErr))
}

func TestClientFactory(t *testing.T) {
	live := clientFactory(config.ClientConfig{Timeout: time.Second}, nil)
	_, ok := live(widget.Config{BaseURL: "http://localhost:3000"}).(*client.FeedbackClient)
	require.True(t, ok)
	_, ok = live(widget.Config{Demo: true}).(*client.DemoClient)
	require.True(t, ok)

	demo := clientFactory(config.ClientConfig{Demo: true, Timeout: time.Second}, nil)
	_, ok = demo(widget.Config{BaseURL: "http://localhost:3000"}).(*client.DemoClient)
	require.True(t, ok)
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLogLevel("debug").String())
	require.Equal(t, "INFO", parseLogLevel("bogus").String())
}
