package dto

// NotificationItem is one in-app notification
type NotificationItem struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   *string        `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Read      bool           `json:"read"`
	CreatedAt string         `json:"created_at"`
}

type NotificationListPagination struct {
	Total       int `json:"total"`
	UnreadCount int `json:"unread_count"`
	Limit       int `json:"limit"`
	Offset      int `json:"offset"`
}

// NotificationListResponse envelope
type NotificationListResponse struct {
	Notifications []NotificationItem         `json:"notifications"`
	Pagination    NotificationListPagination `json:"pagination"`
}
