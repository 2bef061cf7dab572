package platform

import "time"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Urgent asks the notification center to keep the message until it is
	// dismissed.
	Urgent bool
	// Timeout overrides the server default display time.
	Timeout time.Duration
}

// AppName is the application name notifications are filed under.
const AppName = "apint"

func (o Options) expireMillis() int32 {
	switch {
	case o.Urgent:
		return 0
	case o.Timeout > 0:
		return int32(o.Timeout / time.Millisecond)
	}
	return -1
}
