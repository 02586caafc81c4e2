package featureflags

import (
	"fmt"
	"net/http"

	"github.com/Unleash/unleash-client-go/v3"
	ucontext "github.com/Unleash/unleash-client-go/v3/context"
	log "github.com/sirupsen/logrus"
)

// UnleashClient evaluates flags against an Unleash server
type UnleashClient struct {
	client *unleash.Client
}

// NewUnleashClient connects to an Unleash server. Evaluation before the
// client is ready, or after the server becomes unreachable, falls back to
// each call's fallback value.
func NewUnleashClient(url, apiToken, appName string) (*UnleashClient, error) {
	headers := http.Header{}
	if apiToken != "" {
		headers.Set("Authorization", apiToken)
	}

	client, err := unleash.NewClient(
		unleash.WithAppName(appName),
		unleash.WithUrl(url),
		unleash.WithCustomHeaders(headers),
		unleash.WithListener(&unleashListener{}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create unleash client: %w", err)
	}

	return &UnleashClient{client: client}, nil
}

// IsEnabled evaluates a flag for a subject, returning fallback on any failure
func (c *UnleashClient) IsEnabled(flag string, subject Subject, fallback bool) bool {
	return c.client.IsEnabled(flag,
		unleash.WithContext(ucontext.Context{
			UserId:     subject.ID,
			Properties: subject.Properties,
		}),
		unleash.WithFallback(fallback),
	)
}

// Close flushes metrics and shuts down the client
func (c *UnleashClient) Close() error {
	return c.client.Close()
}

// unleashListener routes Unleash client events into our logs
type unleashListener struct{}

func (l *unleashListener) OnError(err error) {
	log.WithField("module", "featureflags").Error(err)
}

func (l *unleashListener) OnWarning(warning error) {
	log.WithField("module", "featureflags").Warn(warning)
}

func (l *unleashListener) OnReady() {
	log.WithField("module", "featureflags").Info("Feature flag repository ready")
}

func (l *unleashListener) OnCount(name string, enabled bool) {}

func (l *unleashListener) OnSent(payload unleash.MetricsData) {}

func (l *unleashListener) OnRegistered(payload unleash.ClientData) {}
