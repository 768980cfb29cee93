package dto

// Notification is one push message for a user's devices. Delivery transport is
// behind the notification service; failures there never fail the pipeline.
type Notification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}
