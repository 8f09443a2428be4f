package connectivity

import (
	"sync"

	"go.uber.org/zap"

	apperrors "brt/pkg/errors"
)

// Options configures an Observer.
type Options struct {
	// StartupState is exposed from Mount until the first event. Online by default.
	StartupState State
	// FailurePolicy applies when the notifier refuses the subscription.
	FailurePolicy FailurePolicy
	// OnChange is called after every applied event with the new state.
	// It must not call Unmount.
	OnChange func(State)
	// Source names the notifier in errors and logs.
	Source string
	Logger *zap.Logger
}

// Observer exposes a reactive online/offline value bound to a Notifier.
// At most one subscription is held, between Mount and Unmount.
type Observer struct {
	notifier Notifier
	opts     Options
	log      *zap.Logger

	// deliver serialises state changes with their OnChange call so the shell
	// sees them in order, and lets Unmount wait out an in-flight delivery.
	deliver sync.Mutex

	mu          sync.Mutex
	state       State
	mounted     bool
	generation  uint64
	unsubscribe Unsubscribe
}

// NewObserver creates an unmounted observer over n.
func NewObserver(n Notifier, opts Options) *Observer {
	if opts.FailurePolicy == "" {
		opts.FailurePolicy = FailPropagate
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Observer{
		notifier: n,
		opts:     opts,
		log:      log.Named("connectivity"),
		state:    opts.StartupState,
	}
}

// Mount resets the exposed state to the startup state and subscribes.
func (o *Observer) Mount() error {
	o.mu.Lock()
	if o.mounted {
		o.mu.Unlock()
		return apperrors.ErrAlreadyMounted
	}
	o.generation++
	gen := o.generation
	o.state = o.opts.StartupState
	o.mounted = true
	o.mu.Unlock()

	// Subscribe runs unlocked: a source may deliver synchronously.
	unsub, err := o.notifier.Subscribe(func(ev Event) {
		o.apply(gen, ev)
	})
	if err != nil {
		return o.mountFailed(gen, err)
	}

	o.mu.Lock()
	if !o.mounted || o.generation != gen {
		// Unmounted while subscribing.
		o.mu.Unlock()
		unsub()
		return nil
	}
	o.unsubscribe = unsub
	o.mu.Unlock()

	o.log.Debug("mounted", zap.String("source", o.opts.Source), zap.Stringer("state", o.opts.StartupState))
	return nil
}

func (o *Observer) mountFailed(gen uint64, err error) error {
	wrapped := &apperrors.NotifierError{Source: o.opts.Source, Err: err}

	var fallback State
	switch o.opts.FailurePolicy {
	case FailOffline:
		fallback = Offline
	case FailUnknown:
		fallback = Unknown
	default:
		o.mu.Lock()
		if o.generation == gen {
			o.mounted = false
		}
		o.mu.Unlock()
		return wrapped
	}

	o.log.Warn("subscription refused, using fallback state",
		zap.Error(wrapped), zap.Stringer("state", fallback))

	o.deliver.Lock()
	defer o.deliver.Unlock()
	o.mu.Lock()
	if !o.mounted || o.generation != gen {
		o.mu.Unlock()
		return nil
	}
	o.state = fallback
	o.mu.Unlock()
	if o.opts.OnChange != nil {
		o.opts.OnChange(fallback)
	}
	return nil
}

func (o *Observer) apply(gen uint64, ev Event) {
	o.deliver.Lock()
	defer o.deliver.Unlock()

	next := StateOf(ev)
	o.mu.Lock()
	if !o.mounted || o.generation != gen {
		o.mu.Unlock()
		o.log.Debug("dropping event for released subscription", zap.Bool("connected", ev.IsConnected))
		return
	}
	prev := o.state
	o.state = next
	o.mu.Unlock()

	if prev != next {
		o.log.Info("connectivity changed", zap.Stringer("from", prev), zap.Stringer("to", next), zap.String("target", ev.Target))
	}
	if o.opts.OnChange != nil {
		o.opts.OnChange(next)
	}
}

// Unmount releases the subscription. The last value stays readable but no
// further events are applied. Safe to call when not mounted.
func (o *Observer) Unmount() {
	o.deliver.Lock()
	o.mu.Lock()
	if !o.mounted {
		o.mu.Unlock()
		o.deliver.Unlock()
		return
	}
	o.mounted = false
	unsub := o.unsubscribe
	o.unsubscribe = nil
	o.mu.Unlock()
	o.deliver.Unlock()

	if unsub != nil {
		unsub()
	}
	o.log.Debug("unmounted", zap.String("source", o.opts.Source))
}

// State returns the current exposed state.
func (o *Observer) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Online reports whether the exposed state is Online.
func (o *Observer) Online() bool {
	return o.State() == Online
}

// Mounted reports whether the observer is between Mount and Unmount.
func (o *Observer) Mounted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mounted
}
