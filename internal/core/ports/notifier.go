package ports

// NotificationLevel is the severity of a transient message.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
	NotifyInfo    NotificationLevel = "info"
)

// Notification is a transient message shown to the user once.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

type Notifier interface {
	Notify(n Notification)
}
