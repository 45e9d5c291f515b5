package venue

import (
	"fmt"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
)

// ErrVenueNotFound wraps event.ErrNotFound so callers need one taxonomy.
var ErrVenueNotFound = fmt.Errorf("venue %w", event.ErrNotFound)
