package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

// Notification types understood by the UI.
const (
	NotificationSuccess = "success"
	NotificationError   = "error"
	NotificationWarning = "warning"
	NotificationInfo    = "info"
)

// defaultNotificationSeconds is how far in the future a notification's
// created time is placed when no offset is given.
const defaultNotificationSeconds = 5

// Notification is a short message shown to the user.
// CreatedTime is the moment the notification is scheduled for.
type Notification struct {
	model.Base
	ID          model.ID
	Text        string
	Title       string
	Type        string
	CreatedTime time.Time
}

var notificationRules = model.Rules{}.
	Add("text", model.RuleRequired, model.RuleString).
	Add("title", model.RuleString, model.RuleNullable).
	Add("type", model.RuleRequired, model.RuleString)

// NotificationOption customizes NewNotification.
type NotificationOption func(*notificationOptions)

type notificationOptions struct {
	seconds int
}

// WithSeconds offsets the created time by n seconds from now. Negative values
// place it in the past.
func WithSeconds(n int) NotificationOption {
	return func(o *notificationOptions) {
		o.seconds = n
	}
}

// BlankNotification returns an empty Notification, used as a hydration target.
func BlankNotification() *Notification {
	return &Notification{}
}

// APIEndpoint implements model.Record.
func (*Notification) APIEndpoint() string { return "/notification" }

// ModelName implements model.Record.
func (*Notification) ModelName() string { return "Notification" }

// ValidationRules implements model.Record.
func (*Notification) ValidationRules() model.Rules { return notificationRules }

// NewNotification builds a notification with a fresh UUID whose created time
// is clock.Now() plus the configured offset (5 seconds by default).
func NewNotification(clock model.Clock, text, title, typ string, opts ...NotificationOption) *Notification {
	o := notificationOptions{seconds: defaultNotificationSeconds}
	for _, opt := range opts {
		opt(&o)
	}
	if clock == nil {
		clock = model.SystemClock{}
	}

	n := BlankNotification()
	n.ID = model.StringID(uuid.NewString())
	n.Text = text
	n.Title = title
	n.Type = typ
	if n.Type == "" {
		n.Type = NotificationInfo
	}
	n.CreatedTime = clock.Now().Add(time.Duration(o.seconds) * time.Second)
	return n
}

// Fields implements model.Record.
func (n *Notification) Fields() model.Fields {
	return model.Fields{
		model.IDField("id", &n.ID),
		model.String("text", &n.Text, ""),
		model.String("title", &n.Title, ""),
		model.String("type", &n.Type, NotificationInfo),
		model.Time("created_time", &n.CreatedTime, time.Time{}),
	}
}

// Init hydrates n from data in place and returns n.
func (n *Notification) Init(data any) *Notification {
	return model.Init(n, data)
}

// PrepareToSave returns the plain payload of n.
func (n *Notification) PrepareToSave() model.Payload {
	return model.PrepareToSave(n)
}

// Validate recomputes the validation state of n.
func (n *Notification) Validate() bool {
	return model.Validate(n)
}

// Due reports whether the notification's created time has been reached.
func (n *Notification) Due(clock model.Clock) bool {
	return !clock.Now().Before(n.CreatedTime)
}
