// Package featureflags wraps remote feature-flag evaluation behind a small
// interface so handlers and menus can be tested without an Unleash server.
package featureflags

// Subject identifies who a flag is evaluated for
type Subject struct {
	// ID is the primary targeting id (linked account id, or Discord user id
	// when no account link is involved)
	ID string
	// Properties carries secondary targeting attributes, e.g. the Discord id
	// alongside a linked-account subject
	Properties map[string]string
}

// Client evaluates feature flags. Implementations must tolerate unknown flags
// and an unreachable service by returning the fallback value.
type Client interface {
	IsEnabled(flag string, subject Subject, fallback bool) bool
	Close() error
}

// StaticClient is a map-backed Client for tests and local development.
// Flags not present in the map evaluate to the fallback.
type StaticClient struct {
	Flags map[string]bool
}

func (c *StaticClient) IsEnabled(flag string, _ Subject, fallback bool) bool {
	if c.Flags != nil {
		if enabled, ok := c.Flags[flag]; ok {
			return enabled
		}
	}
	return fallback
}

func (c *StaticClient) Close() error {
	return nil
}
