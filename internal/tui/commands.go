package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"brt/internal/config"
	"brt/internal/connectivity"
	"brt/internal/storage"
)

// mountObserver subscribes the observer. It runs as a command so that
// events delivered during Mount reach a running event loop.
func mountObserver(o *connectivity.Observer) tea.Cmd {
	return func() tea.Msg {
		return observerMountedMsg{err: o.Mount()}
	}
}

// saveSetting validates and saves a single setting.
func saveSetting(store storage.Storage, key, value string) tea.Cmd {
	return func() tea.Msg {
		if err := config.ValidateSetting(key, value); err != nil {
			return settingSavedMsg{key: key, err: err}
		}
		ctx := context.Background()
		err := store.SetSetting(ctx, key, value)
		return settingSavedMsg{key: key, err: err}
	}
}

// clearNotification returns a command that fires after a delay.
func clearNotification(d time.Duration, version int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearNotificationMsg{version: version}
	})
}
