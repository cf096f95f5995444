package internal

import (
	"context"
	"sync"
)

// CredentialGate tracks whether a usable API credential is configured. The
// flag is derived only from gateway call results; the secret itself is never
// kept here.
type CredentialGate struct {
	gateway CredentialGateway

	mu      sync.Mutex
	isSet   bool
	pending int
	settled bool
}

// NewCredentialGate creates a gate that reports loading until its first
// probe or set completes
func NewCredentialGate(gateway CredentialGateway) *CredentialGate {
	return &CredentialGate{gateway: gateway}
}

// Probe asks the backend whether a credential is configured. The flag is
// true after a successful probe and false after any failure.
func (g *CredentialGate) Probe(ctx context.Context) error {
	g.begin()
	err := g.gateway.ProbeCredential(ctx)
	if err != nil {
		LogWarn("Credential not found or invalid: %v", err)
	}
	g.finish(err == nil)
	if err != nil {
		return &GatewayError{Op: "probe_credential", Err: err}
	}
	return nil
}

// Set stores a new credential through the backend. An empty value is ignored.
func (g *CredentialGate) Set(ctx context.Context, value string) error {
	if value == "" {
		return nil
	}

	g.begin()
	err := g.gateway.SetCredential(ctx, value)
	if err != nil {
		LogError("Failed to save credential: %v", err)
	}
	g.finish(err == nil)
	if err != nil {
		return &GatewayError{Op: "set_credential", Err: err}
	}
	return nil
}

// IsSet reports the outcome of the last completed probe or set
func (g *CredentialGate) IsSet() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isSet
}

// IsLoading reports whether a call is in flight or none has completed yet
func (g *CredentialGate) IsLoading() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending > 0 || !g.settled
}

func (g *CredentialGate) begin() {
	g.mu.Lock()
	g.pending++
	g.mu.Unlock()
}

func (g *CredentialGate) finish(ok bool) {
	g.mu.Lock()
	g.pending--
	g.settled = true
	g.isSet = ok
	g.mu.Unlock()
}
