package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Known service and sentiment values. Submissions are not rejected for
// carrying other strings, but aggregate views only ever surface these keys.
const (
	ServiceLoan       = "loan"
	ServicePension    = "pension"
	ServicePensioners = "pensioners"
	ServiceInvestment = "investment"

	EmojiHappy          = "happy"
	EmojiSatisfactory   = "satisfactory"
	EmojiUnsatisfactory = "unsatisfactory"
	EmojiBad            = "bad"
)

var KnownServices = []string{ServiceLoan, ServicePension, ServicePensioners, ServiceInvestment}

var KnownEmojis = []string{EmojiHappy, EmojiSatisfactory, EmojiUnsatisfactory, EmojiBad}

// IsNegative reports whether a sentiment qualifies for free-text retention.
func IsNegative(emoji string) bool {
	return emoji == EmojiBad || emoji == EmojiUnsatisfactory
}

func IsKnownService(service string) bool {
	for _, s := range KnownServices {
		if s == service {
			return true
		}
	}
	return false
}

// Feedback is one citizen submission. Immutable after creation.
// The text field is only present for negative sentiment — omitempty keeps
// it absent from the stored document rather than persisted as "".
type Feedback struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Service   string        `bson:"service" json:"service"`
	Emoji     string        `bson:"emoji" json:"emoji"`
	Feedback  string        `bson:"feedback,omitempty" json:"feedback,omitempty"`
	Email     string        `bson:"email" json:"email"`
	Phone     string        `bson:"phone" json:"phone"`
	Timestamp time.Time     `bson:"timestamp" json:"timestamp"`
}
