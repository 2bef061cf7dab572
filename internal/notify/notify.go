// Package notify reports the outcome of user actions, either on the
// terminal the painter was started from or as a desktop notification.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/apint/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave emits a notification when a drawing is written to disk.
	EventSave Event = "save"
	// EventLoad emits a notification when a drawing is opened.
	EventLoad Event = "load"
	// EventCopy emits a notification when the canvas is copied to the clipboard.
	EventCopy Event = "copy"
	// EventError emits a notification when an action failed.
	EventError Event = "error"
)

// Events lists every event in display order.
var Events = []Event{EventSave, EventLoad, EventCopy, EventError}

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "apint",
		Events: map[Event]EventPreference{
			EventSave:  {Template: "saved drawing successfully to %s"},
			EventLoad:  {Template: "loaded %s"},
			EventCopy:  {Template: "copied %s to clipboard"},
			EventError: {Template: "%s"},
		},
	}
}

// LoadPreferences reads configuration from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("APINT_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, event := range Events {
		key := "APINT_NOTIFY_" + strings.ToUpper(string(event)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	return prefs
}

var send = platform.Notify

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Enabled reports whether event is delivered.
func (n *Notifier) Enabled(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

// Format renders the message for event.
func (n *Notifier) Format(event Event, detail string) string {
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
}

// Send delivers a desktop notification for event. It returns silently when
// the event is disabled.
func (n *Notifier) Send(event Event, detail string, opts platform.Options) {
	if !n.Enabled(event) {
		return
	}
	body := n.Format(event, detail)
	if body == "" {
		return
	}
	if event == EventError {
		opts.Urgent = true
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event) string {
	if n == nil {
		return ""
	}
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}

// Messenger routes user-facing messages to the terminal when there is one
// and to the desktop otherwise.
type Messenger struct {
	Notifier *Notifier
	Out      io.Writer
	Terminal bool
}

// NewMessenger returns a Messenger writing to stderr when it is a terminal.
func NewMessenger(n *Notifier) *Messenger {
	return &Messenger{
		Notifier: n,
		Out:      os.Stderr,
		Terminal: platform.IsTerminal(os.Stderr.Fd()),
	}
}

// Info reports event with detail.
func (m *Messenger) Info(event Event, detail string, opts platform.Options) {
	if m == nil {
		return
	}
	if m.Terminal {
		body := m.Notifier.Format(event, detail)
		if body == "" {
			body = strings.TrimSpace(detail)
		}
		fmt.Fprintf(m.Out, "apint: %s\n", body)
		return
	}
	m.Notifier.Send(event, detail, opts)
}

// Saved reports a successful write of path, using the file as icon.
func (m *Messenger) Saved(path string) {
	opts := platform.Options{}
	detail := path
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil && strings.EqualFold(filepath.Ext(abs), ".png") {
			opts.IconPath = abs
		}
	}
	m.Info(EventSave, detail, opts)
}

// Loaded reports that path was opened.
func (m *Messenger) Loaded(path string) { m.Info(EventLoad, path, platform.Options{}) }

// Copied reports a clipboard copy of img.
func (m *Messenger) Copied(img image.Image) {
	if m == nil {
		return
	}
	opts := platform.Options{}
	if img != nil && !m.Terminal {
		if path, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	detail := "image"
	if img != nil {
		b := img.Bounds()
		detail = fmt.Sprintf("%dx%d image", b.Dx(), b.Dy())
	}
	m.Info(EventCopy, detail, opts)
}

// Errorf reports a failure.
func (m *Messenger) Errorf(format string, args ...any) {
	m.Info(EventError, fmt.Sprintf(format, args...), platform.Options{})
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "apint-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
