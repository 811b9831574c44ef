package calls

import (
	"strings"
	"testing"
	"time"
)

func TestConstructors_DefaultPriorities(t *testing.T) {
	at := time.Unix(1700000000, 0).UTC()

	if c := NewVoice("a", "5551234567", at); c.Priority != 1 || c.Kind != KindVoice {
		t.Fatalf("unexpected voice call: %+v", c)
	}
	if c := NewVideo("a", "5551234567", at, "Zoom"); c.Priority != 1 || c.Platform != "Zoom" {
		t.Fatalf("unexpected video call: %+v", c)
	}
	if c := NewEmergency("a", "5551234567", at, "Medical"); c.Priority != 10 || c.Category != "Medical" {
		t.Fatalf("unexpected emergency call: %+v", c)
	}
	if c := NewEmergency("a", "5551234567", at, "Medical").WithPriority(3); c.Priority != 3 {
		t.Fatalf("expected override to 3, got %d", c.Priority)
	}
}

func TestNewCallsStartPendingWithoutID(t *testing.T) {
	c := NewVideo("a", "5551234567", time.Now(), "Meet")
	if c.ID != 0 {
		t.Fatalf("expected zero id before persistence, got %d", c.ID)
	}
	if !c.IsPending() {
		t.Fatalf("expected pending, got %s", c.Status)
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"5551234567", "+15551234567", "123456789012345", "+123456789012345"}
	for _, p := range valid {
		if !ValidatePhone(p) {
			t.Fatalf("expected %q to be valid", p)
		}
	}
	invalid := []string{"", "555123456", "1234567890123456", "555-123-4567", "++5551234567", "55512345a7", " 5551234567"}
	for _, p := range invalid {
		if ValidatePhone(p) {
			t.Fatalf("expected %q to be invalid", p)
		}
	}
}

func TestInfoDispatchesOnKind(t *testing.T) {
	at := time.Now()
	cases := map[string]Call{
		"Voice Call":        NewVoice("a", "5551234567", at),
		"Platform: Zoom":    NewVideo("a", "5551234567", at, "Zoom"),
		"Emergency: Police": NewEmergency("a", "5551234567", at, "Police"),
	}
	for want, c := range cases {
		if got := c.Info(); got != want {
			t.Fatalf("Info() = %q, want %q", got, want)
		}
	}
}

func TestWithDetails_Placeholders(t *testing.T) {
	at := time.Now()
	v := Call{Kind: KindVideo, ScheduledTime: at}.WithDetails("")
	if v.Platform != UnknownPlatform {
		t.Fatalf("expected %q, got %q", UnknownPlatform, v.Platform)
	}
	e := Call{Kind: KindEmergency, ScheduledTime: at}.WithDetails("")
	if e.Category != GeneralCategory {
		t.Fatalf("expected %q, got %q", GeneralCategory, e.Category)
	}
	e = Call{Kind: KindEmergency}.WithDetails("Fire")
	if e.Details() != "Fire" {
		t.Fatalf("expected details round trip, got %q", e.Details())
	}
	if d := NewVoice("a", "5551234567", at).Details(); d != "" {
		t.Fatalf("voice calls carry no details, got %q", d)
	}
}

func TestKindAndStatusValidity(t *testing.T) {
	for _, k := range []Kind{KindVoice, KindVideo, KindEmergency} {
		if !k.Valid() {
			t.Fatalf("expected %s valid", k)
		}
	}
	if Kind("FAX_CALL").Valid() {
		t.Fatalf("expected unknown kind invalid")
	}
	for _, s := range []Status{StatusPending, StatusCompleted, StatusMissed} {
		if !s.Valid() {
			t.Fatalf("expected %s valid", s)
		}
	}
	if Status("queued").Valid() {
		t.Fatalf("expected unknown status invalid")
	}
	if KindEmergency.Label() != "EMERGENCY" {
		t.Fatalf("unexpected label %q", KindEmergency.Label())
	}
}

func TestString_IncludesInfo(t *testing.T) {
	c := NewVideo("Ann", "5551234567", time.Unix(1700000000, 0).UTC(), "Zoom")
	s := c.String()
	if !strings.Contains(s, "Platform: Zoom") || !strings.Contains(s, "VIDEO_CALL") {
		t.Fatalf("unexpected string: %s", s)
	}
}

func TestBuild_AppliesOverrideAndDetails(t *testing.T) {
	at := time.Unix(1700000000, 0).UTC()

	if c := Build(KindEmergency, "a", "5551234567", at, 0, "Fire"); c.Priority != 10 || c.Category != "Fire" {
		t.Fatalf("unexpected emergency call: %+v", c)
	}
	if c := Build(KindVideo, "a", "5551234567", at, 7, "Zoom"); c.Priority != 7 || c.Platform != "Zoom" {
		t.Fatalf("unexpected video call: %+v", c)
	}
	if c := Build(KindVoice, "a", "5551234567", at, 0, "ignored"); c.Details() != "" || c.Status != StatusPending {
		t.Fatalf("unexpected voice call: %+v", c)
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"voice":          KindVoice,
		"VIDEO_CALL":     KindVideo,
		" Emergency ":    KindEmergency,
		"emergency_call": KindEmergency,
	}
	for in, want := range cases {
		got, ok := ParseKind(in)
		if !ok || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseKind("fax"); ok {
		t.Fatalf("expected unknown kind to fail")
	}
}
