package flaglite

import (
	"context"
	"fmt"
	"sync"

	of "github.com/open-feature/go-sdk/openfeature"
)

// Provider is an OpenFeature provider implementation backed by a FlagLite
// [Client]. FlagLite flags are boolean-only, so only BooleanEvaluation
// resolves real values; the other typed evaluations return the caller's
// default with a type-mismatch error.
type Provider struct {
	client *Client

	// mu guards state: the OpenFeature SDK may overlap a state transition
	// with an in-flight evaluation.
	mu    sync.RWMutex
	state of.State
}

const (
	providerNotReady = "FlagLite provider not ready"

	booleanOnly = "FlagLite flags are boolean-only"
)

// NewProvider creates a new [Provider] wrapping an existing client. The
// provider takes ownership of the client: Shutdown closes it.
func NewProvider(client *Client) *Provider {
	return &Provider{
		client: client,
		state:  of.NotReadyState,
	}
}

// Init initializes the FlagLite provider. The client has no startup work of
// its own (transports are created lazily), so this only marks the provider
// ready.
func (p *Provider) Init(_ of.EvaluationContext) error {
	p.setState(of.ReadyState)
	return nil
}

// Shutdown shuts down the FlagLite provider and closes the underlying
// client's transports.
func (p *Provider) Shutdown() {
	_ = p.client.Close()
	p.setState(of.NotReadyState)
}

func (p *Provider) setState(state of.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state
}

func (p *Provider) currentState() of.State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Hooks returns empty slice as provider does not have any hooks.
func (p *Provider) Hooks() []of.Hook {
	return []of.Hook{}
}

// Metadata returns value of Metadata (name of current service, exposed to openfeature sdk).
func (p *Provider) Metadata() of.Metadata {
	return of.Metadata{
		Name: "FlagLite",
	}
}

// BooleanEvaluation evaluates a boolean feature flag through the FlagLite
// pipeline. The client absorbs every remote failure and returns the default
// value itself, so the resolution never carries an error for remote trouble;
// only a not-ready provider produces an error resolution.
func (p *Provider) BooleanEvaluation(ctx context.Context, flag string, defaultValue bool, evalCtx of.FlattenedContext) of.BoolResolutionDetail {
	if p.currentState() != of.ReadyState {
		return of.BoolResolutionDetail{
			Value: defaultValue,
			ProviderResolutionDetail: of.ProviderResolutionDetail{
				ResolutionError: of.NewProviderNotReadyResolutionError(providerNotReady),
				Reason:          of.ErrorReason,
			},
		}
	}

	userID := subjectFromContext(evalCtx)
	value := p.client.Enabled(ctx, flag, WithUser(userID), WithDefault(defaultValue))

	reason := of.StaticReason
	if userID != "" {
		reason = of.TargetingMatchReason
	}
	return of.BoolResolutionDetail{
		Value: value,
		ProviderResolutionDetail: of.ProviderResolutionDetail{
			Reason: reason,
		},
	}
}

// StringEvaluation returns the default value; see [Provider].
func (p *Provider) StringEvaluation(_ context.Context, flag string, defaultValue string, _ of.FlattenedContext) of.StringResolutionDetail {
	return of.StringResolutionDetail{
		Value:                    defaultValue,
		ProviderResolutionDetail: unsupportedTypeDetail(flag),
	}
}

// FloatEvaluation returns the default value; see [Provider].
func (p *Provider) FloatEvaluation(_ context.Context, flag string, defaultValue float64, _ of.FlattenedContext) of.FloatResolutionDetail {
	return of.FloatResolutionDetail{
		Value:                    defaultValue,
		ProviderResolutionDetail: unsupportedTypeDetail(flag),
	}
}

// IntEvaluation returns the default value; see [Provider].
func (p *Provider) IntEvaluation(_ context.Context, flag string, defaultValue int64, _ of.FlattenedContext) of.IntResolutionDetail {
	return of.IntResolutionDetail{
		Value:                    defaultValue,
		ProviderResolutionDetail: unsupportedTypeDetail(flag),
	}
}

// ObjectEvaluation returns the default value; see [Provider].
func (p *Provider) ObjectEvaluation(_ context.Context, flag string, defaultValue any, _ of.FlattenedContext) of.InterfaceResolutionDetail {
	return of.InterfaceResolutionDetail{
		Value:                    defaultValue,
		ProviderResolutionDetail: unsupportedTypeDetail(flag),
	}
}

func unsupportedTypeDetail(flag string) of.ProviderResolutionDetail {
	return of.ProviderResolutionDetail{
		ResolutionError: of.NewTypeMismatchResolutionError(
			fmt.Sprintf("%s: %s", flag, booleanOnly)),
		Reason: of.ErrorReason,
	}
}
