// Package projection applies normalized vault events to the query-side
// tables: one projector per event type, an idempotency guard keyed by
// event id, and a router that dispatches envelopes by type tag.
package projection

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// errMissingField marks events whose payload lacks an identifier the
// projection cannot proceed without. Unlike missing amounts (which default
// to zero), a missing key would silently attach data to the wrong row.
var errMissingField = errors.New("missing required payload field")

// Projectors holds one handler per event type. Each handler reads the rows
// it needs, computes the delta, and writes the updated rows; it never
// touches entities outside its declared scope.
type Projectors struct {
	store  *storage.Store
	logger *log.Logger
}

// NewProjectors creates the projector set over a store bundle.
func NewProjectors(store *storage.Store, logger *log.Logger) *Projectors {
	if logger == nil {
		logger = log.Default()
	}
	return &Projectors{store: store, logger: logger}
}

// decodePayload unmarshals the envelope payload into a typed struct. An
// absent payload leaves the struct zeroed, matching the permissive
// treatment of missing fields.
func decodePayload(env *domain.Envelope, v any) error {
	if len(env.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return nil
}
