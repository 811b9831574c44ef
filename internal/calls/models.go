package calls

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Call is a schedulable call request.
//
// A call is one of three variants, selected by Kind:
// - voice: no payload
// - video: Platform
// - emergency: Category
//
// Identity invariant: ID is assigned by the store and is zero until the call is
// persisted. Code outside the store must never rewrite a non-zero ID; a re-created
// row is a new value carrying a new ID.
type Call struct {
	ID int64 `json:"id" db:"id"`

	ContactName string `json:"contact_name" db:"contact_name"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`

	ScheduledTime time.Time `json:"scheduled_time" db:"scheduled_time"`

	Kind     Kind   `json:"call_type" db:"call_type"`
	Priority int    `json:"priority" db:"priority"`
	Status   Status `json:"status" db:"status"`

	// Variant payload. Only the field matching Kind is meaningful.
	Platform string `json:"platform,omitempty" db:"-"`
	Category string `json:"category,omitempty" db:"-"`
}

type Kind string

const (
	KindVoice     Kind = "VOICE_CALL"
	KindVideo     Kind = "VIDEO_CALL"
	KindEmergency Kind = "EMERGENCY_CALL"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusMissed    Status = "MISSED"
)

const (
	MinPriority = 1
	MaxPriority = 10

	// Placeholders used when a stored row carries no variant payload.
	UnknownPlatform = "Unknown"
	GeneralCategory = "General"
)

var phonePattern = regexp.MustCompile(`^[+]?[0-9]{10,15}$`)

// ValidatePhone reports whether phone matches the canonical pattern:
// optional leading '+', then 10 to 15 digits.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// NewVoice returns a pending voice call with priority 1.
func NewVoice(contactName, phone string, at time.Time) Call {
	return Call{
		ContactName:   contactName,
		PhoneNumber:   phone,
		ScheduledTime: at,
		Kind:          KindVoice,
		Priority:      KindVoice.DefaultPriority(),
		Status:        StatusPending,
	}
}

// NewVideo returns a pending video call. Priority starts at 1 and is
// expected to be set by the caller via WithPriority.
func NewVideo(contactName, phone string, at time.Time, platform string) Call {
	c := NewVoice(contactName, phone, at)
	c.Kind = KindVideo
	c.Priority = KindVideo.DefaultPriority()
	c.Platform = platform
	return c
}

// NewEmergency returns a pending emergency call with priority 10.
func NewEmergency(contactName, phone string, at time.Time, category string) Call {
	c := NewVoice(contactName, phone, at)
	c.Kind = KindEmergency
	c.Priority = KindEmergency.DefaultPriority()
	c.Category = category
	return c
}

// Build returns a pending call of kind k. A zero priority keeps the kind
// default; details is the platform or category for the variants that have one.
func Build(k Kind, contactName, phone string, at time.Time, priority int, details string) Call {
	var c Call
	switch k {
	case KindVideo:
		c = NewVideo(contactName, phone, at, details)
	case KindEmergency:
		c = NewEmergency(contactName, phone, at, details)
	default:
		c = NewVoice(contactName, phone, at)
		c.Kind = k
	}
	if priority != 0 {
		c.Priority = priority
	}
	return c
}

// ParseKind accepts a stored kind name or its short label, case-insensitively.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VOICE_CALL", "VOICE":
		return KindVoice, true
	case "VIDEO_CALL", "VIDEO":
		return KindVideo, true
	case "EMERGENCY_CALL", "EMERGENCY":
		return KindEmergency, true
	default:
		return "", false
	}
}

// WithPriority returns a copy of c with the given priority.
func (c Call) WithPriority(p int) Call {
	c.Priority = p
	return c
}

func (k Kind) Valid() bool {
	switch k {
	case KindVoice, KindVideo, KindEmergency:
		return true
	default:
		return false
	}
}

// DefaultPriority is the priority a freshly constructed call of this kind gets.
func (k Kind) DefaultPriority() int {
	if k == KindEmergency {
		return MaxPriority
	}
	return MinPriority
}

// Label is the short display name ("VOICE" for VOICE_CALL).
func (k Kind) Label() string {
	switch k {
	case KindVoice:
		return "VOICE"
	case KindVideo:
		return "VIDEO"
	case KindEmergency:
		return "EMERGENCY"
	default:
		return string(k)
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusMissed:
		return true
	default:
		return false
	}
}

// Details returns the variant payload as a single value, as it is stored
// in the details column.
func (c Call) Details() string {
	switch c.Kind {
	case KindVideo:
		return c.Platform
	case KindEmergency:
		return c.Category
	default:
		return ""
	}
}

// WithDetails returns a copy of c with the variant payload set from a stored
// details value. An empty value yields the kind's placeholder.
func (c Call) WithDetails(details string) Call {
	switch c.Kind {
	case KindVideo:
		if details == "" {
			details = UnknownPlatform
		}
		c.Platform = details
	case KindEmergency:
		if details == "" {
			details = GeneralCategory
		}
		c.Category = details
	}
	return c
}

// Info is the human-readable variant description.
func (c Call) Info() string {
	switch c.Kind {
	case KindVideo:
		return "Platform: " + c.Platform
	case KindEmergency:
		return "Emergency: " + c.Category
	default:
		return "Voice Call"
	}
}

func (c Call) IsPending() bool { return c.Status == StatusPending }

func (c Call) String() string {
	return fmt.Sprintf("Call{id=%d, contact=%q, phone=%q, time=%s, type=%s, priority=%d, status=%s, %s}",
		c.ID, c.ContactName, c.PhoneNumber, c.ScheduledTime.Format("2006-01-02 15:04"), c.Kind, c.Priority, c.Status, c.Info())
}
