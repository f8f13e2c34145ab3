package feed

import (
	"time"

	"github.com/gnr-surgicals/inventory/internal/equipment/domain"
)

type EventType string

const (
	EventCreated        EventType = "equipment.created"
	EventUpdated        EventType = "equipment.updated"
	EventStatusAdjusted EventType = "equipment.status_adjusted"
	EventDeleted        EventType = "equipment.deleted"
	EventShutdown       EventType = "shutdown"
)

// Event is one change notification pushed to feed subscribers. Equipment is
// omitted for deletions.
type Event struct {
	Type      EventType         `json:"type"`
	ID        domain.ID         `json:"id,omitempty"`
	Equipment *domain.Equipment `json:"equipment,omitempty"`
	At        time.Time         `json:"at"`
}
