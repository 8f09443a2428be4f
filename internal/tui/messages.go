package tui

import "brt/internal/connectivity"

// Connectivity messages.

type observerMountedMsg struct {
	err error
}

type connectivityMsg struct {
	state connectivity.State
}

// Action log messages.

type entryAddedMsg struct {
	entry string
}

// Settings update messages.

type settingSavedMsg struct {
	key string
	err error
}

// Notification message.

type clearNotificationMsg struct {
	version int
}
