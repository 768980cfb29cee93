package interfaces

import (
	"context"

	"github.com/pawtrail/mailroom/dto"
)

// NotificationService delivers push notifications. Fire-and-forget: callers log
// send errors and move on.
type NotificationService interface {
	Send(ctx context.Context, userID string, notification dto.Notification) error
}
