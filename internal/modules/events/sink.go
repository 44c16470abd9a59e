package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bikerental/internal/domain"
)

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
)

type BookingEvent struct {
	ID        string               `json:"id"`
	Type      EventType            `json:"type"`
	BookingID int64                `json:"booking_id"`
	VehicleID int64                `json:"vehicle_id"`
	Status    domain.BookingStatus `json:"status"`
	StartTime time.Time            `json:"start_time"`
	EndTime   time.Time            `json:"end_time"`
	At        time.Time            `json:"at"`
}

// Sink adapts the hub to the booking service's notification interface.
// Delivery is fire-and-forget.
type Sink struct {
	hub *Hub
}

func NewSink(hub *Hub) *Sink {
	return &Sink{hub: hub}
}

func (s *Sink) BookingCreated(ctx context.Context, ownerID int64, b *domain.Booking) {
	s.send(ownerID, EventBookingCreated, b)
}

func (s *Sink) BookingConfirmed(ctx context.Context, customerID int64, b *domain.Booking) {
	s.send(customerID, EventBookingConfirmed, b)
}

func (s *Sink) BookingCancelled(ctx context.Context, recipientID int64, b *domain.Booking) {
	s.send(recipientID, EventBookingCancelled, b)
}

func (s *Sink) BookingCompleted(ctx context.Context, customerID int64, b *domain.Booking) {
	s.send(customerID, EventBookingCompleted, b)
}

func (s *Sink) send(userID int64, typ EventType, b *domain.Booking) {
	_ = s.hub.SendToUser(userID, BookingEvent{
		ID:        uuid.NewString(),
		Type:      typ,
		BookingID: b.ID,
		VehicleID: b.VehicleID,
		Status:    b.Status,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		At:        time.Now().UTC(),
	})
}
