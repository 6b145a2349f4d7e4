package normalize

import (
	"github.com/nyaruka/phonenumbers"
)

// PhoneCheck is the advisory validation attached to an uploaded lead. It
// never influences dedup keys; it only tells the caller whether the number
// would be dialable.
type PhoneCheck struct {
	Dialable bool   `json:"dialable"`
	E164     string `json:"e164,omitempty"`
	Region   string `json:"region,omitempty"`
}

// CheckPhone parses raw against the given default region (empty means US)
// and reports whether it is a valid, dialable number. Parse failures are
// reported as not dialable, not as errors: uploads must never be blocked on
// a malformed phone, only annotated.
func CheckPhone(raw, region string) PhoneCheck {
	if raw == "" {
		return PhoneCheck{}
	}
	if region == "" {
		region = "US"
	}
	parsed, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return PhoneCheck{}
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return PhoneCheck{}
	}
	return PhoneCheck{
		Dialable: true,
		E164:     phonenumbers.Format(parsed, phonenumbers.E164),
		Region:   phonenumbers.GetRegionCodeForNumber(parsed),
	}
}
