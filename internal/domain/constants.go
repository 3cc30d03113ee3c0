package domain

// Notification types. The values are the wire form pushed to clients.
const (
	NotificationTypeMention = "mention"
	NotificationTypeLike    = "like"
)

// ValidNotificationType reports whether t is a known notification type.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationTypeMention, NotificationTypeLike:
		return true
	}
	return false
}

// Paging defaults for list endpoints.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)
