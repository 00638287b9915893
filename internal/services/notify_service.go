package services

import (
	"context"
	"log/slog"

	"eventrest/models"

	pubnub "github.com/pubnub/go"
)

// NotifyService publishes order lifecycle notifications to the buyer's
// PubNub channel. Callers invoke it only after the surrounding transaction
// committed; a delivery failure is logged and never propagated, since the
// order state is already durable.
type NotifyService struct {
	pn *pubnub.PubNub
}

// NewNotifyService accepts a nil client, in which case publishing is a no-op
// (tests, deployments without PubNub keys).
func NewNotifyService(pn *pubnub.PubNub) *NotifyService {
	return &NotifyService{pn: pn}
}

func (s *NotifyService) OrderCreated(ctx context.Context, order *models.Order) {
	s.publish(order.UserID, map[string]any{
		"type":        "order_created",
		"order_id":    order.ID,
		"quantity":    order.Quantity,
		"total_price": order.TotalPrice.String(),
	})
}

func (s *NotifyService) OrderPaid(ctx context.Context, order *models.Order) {
	s.publish(order.UserID, map[string]any{
		"type":        "order_paid",
		"order_id":    order.ID,
		"total_price": order.TotalPrice.String(),
	})
}

func (s *NotifyService) OrderCancelled(ctx context.Context, order *models.Order) {
	s.publish(order.UserID, map[string]any{
		"type":     "order_cancelled",
		"order_id": order.ID,
	})
}

func (s *NotifyService) publish(userID string, message map[string]any) {
	if s == nil || s.pn == nil {
		return
	}

	channel := "user-" + userID
	_, _, err := s.pn.Publish().
		Channel(channel).
		Message(message).
		Execute()
	if err != nil {
		slog.Error("pubnub publish failed", "channel", channel, "type", message["type"], "error", err)
	}
}
