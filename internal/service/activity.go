package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/kpcrm/backend/internal/models"
)

// ActivityBroadcaster рассылает события ленты активности подключённым
// дашбордам.
type ActivityBroadcaster interface {
	Broadcast(event models.ActivityEvent)
}

// announce отправляет событие, если рассыльщик подключён.
func announce(hub ActivityBroadcaster, eventType string, entityID uuid.UUID, title string) {
	if hub == nil {
		return
	}
	hub.Broadcast(models.ActivityEvent{
		Type:     eventType,
		EntityID: entityID,
		Title:    title,
		At:       time.Now(),
	})
}
