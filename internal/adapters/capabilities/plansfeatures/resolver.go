package plansfeatures

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pet-tracker/internal/ports/capabilities"
)

const defaultTTL = 5 * time.Minute

// Resolver implementa capabilities.CapabilitiesResolver contra plans-features.
// Cachea el mapa por usuario durante ttl: se consulta en cada mutación.
type Resolver struct {
	client *Client
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cachedCaps
}

type cachedCaps struct {
	caps    map[string]bool
	expires time.Time
}

func NewResolver(client *Client, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Resolver{
		client:  client,
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]cachedCaps{},
	}
}

func (r *Resolver) HasFeature(ctx context.Context, in capabilities.CapabilityCheck) (bool, error) {
	feature := strings.TrimSpace(in.Feature)
	if feature == "" {
		return false, errors.New("feature required")
	}
	if r == nil || r.client == nil {
		return false, ErrPlansNotConfigured
	}

	caps, err := r.resolve(ctx, strings.TrimSpace(in.UserID))
	if err != nil {
		return false, err
	}
	return caps[feature], nil
}

func (r *Resolver) resolve(ctx context.Context, userID string) (map[string]bool, error) {
	now := r.now()

	r.mu.Lock()
	e, ok := r.entries[userID]
	r.mu.Unlock()
	if ok && now.Before(e.expires) {
		return e.caps, nil
	}

	resp, err := r.client.GetCapabilities(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.entries[userID] = cachedCaps{caps: resp.Capabilities, expires: now.Add(r.ttl)}
	r.mu.Unlock()
	return resp.Capabilities, nil
}

var _ capabilities.CapabilitiesResolver = (*Resolver)(nil)
