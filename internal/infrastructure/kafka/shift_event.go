package publisher

import (
	"encoding/json"
	"time"

	"github.com/courierhub/shift-settlement-service/internal/domain"
)

const (
	TopicCourierPresence = "courier-presence"
	TopicSettlement      = "settlement-events"
)

// PresenceEvent signals dispatch and the map view that a courier went
// online or offline at shift open/close.
type PresenceEvent struct {
	CourierID string    `json:"courier_id"`
	ShiftID   string    `json:"shift_id"`
	Online    bool      `json:"online"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	At        time.Time `json:"at"`
}

type GarantAppliedEvent struct {
	TaskID    string `json:"task_id"`
	PlanID    string `json:"plan_id"`
	CourierID string `json:"courier_id"`
	Day       string `json:"day"`
	Payable   string `json:"payable"`
	Penalty   string `json:"penalty"`
}

func (k *DefaultKafkaPublisher) PublishPresence(event PresenceEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(TopicCourierPresence, domain.Message{Key: []byte(event.CourierID), Value: v})
}

func (k *DefaultKafkaPublisher) PublishGarantApplied(event GarantAppliedEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(TopicSettlement, domain.Message{Key: []byte(event.CourierID), Value: v})
}
