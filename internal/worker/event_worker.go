package worker

import (
	"github.com/spec-kit/guest-list/internal/service"
)

// StartEventRelay registers the guest event relay handlers.
func StartEventRelay(relay *service.EventRelay) {
	if relay == nil {
		return
	}
	relay.RegisterHandlers()
}
