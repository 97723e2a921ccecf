// internal/integrations/types.go
package integrations

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

type Integration interface {
	Name() string
	Start(ctx context.Context) error // blokuje do ctx.Done (long-running) lub odpala własną pętlę
	Stop()                           // idempotent
}

// TickNower pozwala wymusić natychmiastowy przebieg poza harmonogramem
// (komenda `sync` w CLI).
type TickNower interface {
	TickNow()
}

type Factory func(log zerolog.Logger, raw json.RawMessage) (Integration, error)
