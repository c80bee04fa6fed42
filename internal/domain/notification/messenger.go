package notification

import "context"

// Messenger defines the interface for sending push notifications.
// Implemented by the Firebase FCM client in the infrastructure layer.
// Delivery is best-effort; the bridge logs and ignores messenger failures.
type Messenger interface {
	Send(ctx context.Context, title, body string, data map[string]string) error
}
