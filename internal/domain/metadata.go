package domain

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
)

// ErrInvalidMetadata is returned (wrapped) when a metadata record fails
// validation.
var ErrInvalidMetadata = errors.New("invalid metadata")

// RedactedPhone replaces any phone number before it is persisted.
const RedactedPhone = "[REDACTED]"

// PlatformWhatsApp tags message interactions received over WhatsApp.
const PlatformWhatsApp = "whatsapp"

// Limits applied by the metadata validators.
const (
	MaxAttributes         = 20
	MaxAttributeValueLen  = 512
	MaxMessageContentLen  = 4096
	maxStoredContentLen   = 3 * MaxMessageContentLen // redaction markers are longer than short numbers
	maxDemographicLen     = 64
	maxSessionFieldLen    = 256
	maxSessionDurationSec = 24 * 60 * 60
)

var attributeKeyRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.\-]{0,63}$`)

// MessageTypes lists the WhatsApp message kinds accepted on POST /messages.
var MessageTypes = []string{
	"text", "image", "audio", "video", "document", "sticker",
	"location", "contacts", "interactive", "template", "reaction",
}

// Attributes is a bounded string map for caller-supplied context that does
// not have a dedicated field.
type Attributes map[string]string

// Validate enforces key shape, entry count, and value length.
func (a Attributes) Validate() error {
	if len(a) > MaxAttributes {
		return fmt.Errorf("%w: at most %d attributes", ErrInvalidMetadata, MaxAttributes)
	}
	for k, v := range a {
		if !attributeKeyRE.MatchString(k) {
			return fmt.Errorf("%w: attribute key %q", ErrInvalidMetadata, k)
		}
		if utf8.RuneCountInString(v) > MaxAttributeValueLen {
			return fmt.Errorf("%w: attribute %q too long", ErrInvalidMetadata, k)
		}
	}
	return nil
}

// MessageMetadata is stored on WHATSAPP_MESSAGE interactions. PhoneNumber is
// never a real number: it is either empty or RedactedPhone.
type MessageMetadata struct {
	MessageContent string     `json:"messageContent"`
	MessageType    string     `json:"messageType"`
	PhoneNumber    string     `json:"phoneNumber,omitempty"`
	Platform       string     `json:"platform"`
	Attributes     Attributes `json:"attributes,omitempty"`
}

// Validate checks the record before it is persisted.
func (m MessageMetadata) Validate() error {
	if m.Platform == "" {
		return fmt.Errorf("%w: platform is required", ErrInvalidMetadata)
	}
	if !contains(MessageTypes, m.MessageType) {
		return fmt.Errorf("%w: unsupported message type %q", ErrInvalidMetadata, m.MessageType)
	}
	if m.PhoneNumber != "" && m.PhoneNumber != RedactedPhone {
		return fmt.Errorf("%w: phone number must be redacted", ErrInvalidMetadata)
	}
	if utf8.RuneCountInString(m.MessageContent) > maxStoredContentLen {
		return fmt.Errorf("%w: message content too long", ErrInvalidMetadata)
	}
	return m.Attributes.Validate()
}

// MoodLoggedMetadata is stored on mood_logged interactions.
type MoodLoggedMetadata struct {
	MoodScore      int            `json:"moodScore"`
	SentimentScore float64        `json:"sentimentScore"`
	SentimentLabel SentimentLabel `json:"sentimentLabel"`
	EmotionCount   int            `json:"emotionCount"`
	TriggerCount   int            `json:"triggerCount"`
}

// Validate checks the record before it is persisted.
func (m MoodLoggedMetadata) Validate() error {
	if !ValidMoodScore(m.MoodScore) {
		return fmt.Errorf("%w: mood score out of range", ErrInvalidMetadata)
	}
	switch m.SentimentLabel {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		return fmt.Errorf("%w: sentiment label %q", ErrInvalidMetadata, m.SentimentLabel)
	}
	return nil
}

// Demographics is the optional, coarse audience breakdown a client may
// attach to utilization events. All fields are free text buckets such as
// "18-24"; none identify a person.
type Demographics struct {
	AgeGroup string `json:"ageGroup,omitempty" example:"18-24"`
	Gender   string `json:"gender,omitempty"   example:"female"`
	Location string `json:"location,omitempty" example:"Selangor"`
	Language string `json:"language,omitempty" example:"ms"`
}

// Validate bounds every bucket length.
func (d *Demographics) Validate() error {
	if d == nil {
		return nil
	}
	for name, v := range map[string]string{
		"ageGroup": d.AgeGroup, "gender": d.Gender, "location": d.Location, "language": d.Language,
	} {
		if utf8.RuneCountInString(v) > maxDemographicLen {
			return fmt.Errorf("%w: demographics.%s too long", ErrInvalidMetadata, name)
		}
	}
	return nil
}

// Buckets returns the non-empty demographic buckets as name → value.
func (d *Demographics) Buckets() map[string]string {
	out := map[string]string{}
	if d == nil {
		return out
	}
	if d.AgeGroup != "" {
		out["age_group"] = d.AgeGroup
	}
	if d.Gender != "" {
		out["gender"] = d.Gender
	}
	if d.Location != "" {
		out["location"] = d.Location
	}
	if d.Language != "" {
		out["language"] = d.Language
	}
	return out
}

// SessionData describes the client session that produced a utilization
// event.
type SessionData struct {
	SessionID       string `json:"sessionId,omitempty"`
	Source          string `json:"source,omitempty"   example:"directory"`
	Referrer        string `json:"referrer,omitempty"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
}

// Validate bounds field lengths and the duration.
func (s *SessionData) Validate() error {
	if s == nil {
		return nil
	}
	for name, v := range map[string]string{
		"sessionId": s.SessionID, "source": s.Source, "referrer": s.Referrer,
	} {
		if utf8.RuneCountInString(v) > maxSessionFieldLen {
			return fmt.Errorf("%w: sessionData.%s too long", ErrInvalidMetadata, name)
		}
	}
	if s.DurationSeconds < 0 || s.DurationSeconds > maxSessionDurationSec {
		return fmt.Errorf("%w: sessionData.durationSeconds out of range", ErrInvalidMetadata)
	}
	return nil
}

// UtilizationMetadata is stored on resource_<action> interactions.
type UtilizationMetadata struct {
	Action       string        `json:"action"`
	Demographics *Demographics `json:"userDemographics,omitempty"`
	Session      *SessionData  `json:"sessionData,omitempty"`
}

// Validate checks the record before it is persisted.
func (u UtilizationMetadata) Validate() error {
	if !IsResourceAction(u.Action) {
		return fmt.Errorf("%w: action %q", ErrInvalidMetadata, u.Action)
	}
	if err := u.Demographics.Validate(); err != nil {
		return err
	}
	return u.Session.Validate()
}

// Validator is implemented by every metadata record.
type Validator interface {
	Validate() error
}

// EncodeMetadata validates v and serializes it for a JSON column.
func EncodeMetadata(v Validator) (datatypes.JSON, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return datatypes.JSON(b), nil
}
