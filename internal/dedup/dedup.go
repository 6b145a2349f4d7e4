// Package dedup decides which uploaded lead records represent the same
// real-world contact. It is pure: no repository access, no writes. The
// caller fetches the reference set and decides what to do with the result.
package dedup

import (
	"fmt"

	"github.com/unclebandit/leadflow-backend/internal/model"
	"github.com/unclebandit/leadflow-backend/internal/normalize"
)

// Match reasons, in reporting precedence order: both beats phone beats email.
const (
	ReasonBoth            = "both"
	ReasonPhone           = "phone"
	ReasonEmail           = "email"
	ReasonValidationError = "validation error"
)

// ReferenceContact is the phone/email projection of an already-persisted
// lead, used by the cross-reference pass.
type ReferenceContact struct {
	LeadID int
	Phone  string
	Email  string
}

// Duplicate is a rejected candidate together with why it was rejected and,
// when known, which existing lead it collided with.
type Duplicate struct {
	Lead           model.Lead `json:"lead"`
	Reason         string     `json:"reason"`
	MatchedKey     string     `json:"matched_key"`
	ExistingLeadID int        `json:"existing_lead_id,omitempty"`
}

// Stats summarises one deduplication run.
type Stats struct {
	Total        int `json:"total"`
	Unique       int `json:"unique"`
	Duplicates   int `json:"duplicates"`
	PhoneMatches int `json:"phone_matches"`
	EmailMatches int `json:"email_matches"`
}

// Result is advisory: the engine never persists anything.
type Result struct {
	Unique     []model.Lead `json:"unique"`
	Duplicates []Duplicate  `json:"duplicates"`
	Stats      Stats        `json:"stats"`
}

// Deduplicate partitions candidates into unique and duplicate. Candidates
// are processed in input order and compared only against previously accepted
// ones (first-seen wins), then survivors are compared against the reference
// set. A candidate with neither a phone nor an email key is always accepted;
// there is nothing to deduplicate it on.
func Deduplicate(candidates []model.Lead, reference []ReferenceContact) Result {
	accepted, intraDups := intraBatch(candidates)
	unique, crossDups := crossReference(accepted, reference)

	res := Result{
		Unique:     unique,
		Duplicates: append(intraDups, crossDups...),
	}
	res.Stats = tally(len(candidates), res)
	return res
}

// FailClosed is the result used when the reference-set lookup itself failed:
// every candidate is reported as a duplicate rather than risking unchecked
// inserts.
func FailClosed(candidates []model.Lead, err error) Result {
	dups := make([]Duplicate, 0, len(candidates))
	for _, c := range candidates {
		dups = append(dups, Duplicate{
			Lead:       c,
			Reason:     ReasonValidationError,
			MatchedKey: fmt.Sprintf("reference lookup failed: %v", err),
		})
	}
	res := Result{Unique: []model.Lead{}, Duplicates: dups}
	res.Stats = tally(len(candidates), res)
	return res
}

func intraBatch(candidates []model.Lead) ([]model.Lead, []Duplicate) {
	accepted := make([]model.Lead, 0, len(candidates))
	dups := []Duplicate{}

	phoneSeen := map[string]int{} // key -> index into accepted
	emailSeen := map[string]int{}

	for _, c := range candidates {
		phoneKey := normalize.Phone(c.Phone)
		emailKey := normalize.Email(c.Email)

		phoneIdx, phoneHit := seen(phoneSeen, phoneKey)
		emailIdx, emailHit := seen(emailSeen, emailKey)

		if phoneHit || emailHit {
			reason, key, idx := pickMatch(phoneHit, emailHit, phoneKey, emailKey, phoneIdx, emailIdx)
			dups = append(dups, Duplicate{
				Lead:           c,
				Reason:         reason,
				MatchedKey:     key,
				ExistingLeadID: accepted[idx].ID,
			})
			continue
		}

		if phoneKey != "" {
			phoneSeen[phoneKey] = len(accepted)
		}
		if emailKey != "" {
			emailSeen[emailKey] = len(accepted)
		}
		accepted = append(accepted, c)
	}
	return accepted, dups
}

func crossReference(accepted []model.Lead, reference []ReferenceContact) ([]model.Lead, []Duplicate) {
	unique := make([]model.Lead, 0, len(accepted))
	dups := []Duplicate{}

	phoneRef := map[string]int{} // key -> index into reference
	emailRef := map[string]int{}
	for i, r := range reference {
		if k := normalize.Phone(r.Phone); k != "" {
			if _, ok := phoneRef[k]; !ok {
				phoneRef[k] = i
			}
		}
		if k := normalize.Email(r.Email); k != "" {
			if _, ok := emailRef[k]; !ok {
				emailRef[k] = i
			}
		}
	}

	for _, c := range accepted {
		phoneKey := normalize.Phone(c.Phone)
		emailKey := normalize.Email(c.Email)

		phoneIdx, phoneHit := seen(phoneRef, phoneKey)
		emailIdx, emailHit := seen(emailRef, emailKey)

		if phoneHit || emailHit {
			reason, key, idx := pickMatch(phoneHit, emailHit, phoneKey, emailKey, phoneIdx, emailIdx)
			dups = append(dups, Duplicate{
				Lead:           c,
				Reason:         reason,
				MatchedKey:     key,
				ExistingLeadID: reference[idx].LeadID,
			})
			continue
		}
		unique = append(unique, c)
	}
	return unique, dups
}

func seen(m map[string]int, key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	idx, ok := m[key]
	return idx, ok
}

// pickMatch applies the fixed reporting precedence both > phone > email so
// test output is deterministic when both fields collide.
func pickMatch(phoneHit, emailHit bool, phoneKey, emailKey string, phoneIdx, emailIdx int) (reason, key string, idx int) {
	switch {
	case phoneHit && emailHit:
		return ReasonBoth, phoneKey + "," + emailKey, phoneIdx
	case phoneHit:
		return ReasonPhone, phoneKey, phoneIdx
	default:
		return ReasonEmail, emailKey, emailIdx
	}
}

func tally(total int, res Result) Stats {
	s := Stats{
		Total:      total,
		Unique:     len(res.Unique),
		Duplicates: len(res.Duplicates),
	}
	for _, d := range res.Duplicates {
		switch d.Reason {
		case ReasonPhone:
			s.PhoneMatches++
		case ReasonEmail:
			s.EmailMatches++
		case ReasonBoth:
			s.PhoneMatches++
			s.EmailMatches++
		}
	}
	return s
}
