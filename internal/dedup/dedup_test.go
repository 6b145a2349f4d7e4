package dedup_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/leadflow-backend/internal/dedup"
	"github.com/unclebandit/leadflow-backend/internal/model"
)

func lead(id int, name, phone, email string) model.Lead {
	return model.Lead{ID: id, Name: name, Phone: phone, Email: email}
}

func TestIntraBatchPhoneDuplicate(t *testing.T) {
	// identical normalized phones, no emails: exactly one duplicate,
	// tagged phone, first in input order survives
	res := dedup.Deduplicate([]model.Lead{
		lead(0, "Alice", "+254 700 111 222", ""),
		lead(0, "Alice again", "254700111222", ""),
	}, nil)

	require.Len(t, res.Unique, 1)
	assert.Equal(t, "Alice", res.Unique[0].Name)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, dedup.ReasonPhone, res.Duplicates[0].Reason)
	assert.Equal(t, "254700111222", res.Duplicates[0].MatchedKey)
	assert.Equal(t, 1, res.Stats.PhoneMatches)
	assert.Equal(t, 0, res.Stats.EmailMatches)
}

func TestIntraBatchEmailDuplicate(t *testing.T) {
	res := dedup.Deduplicate([]model.Lead{
		lead(0, "Bob", "", "Bob@Acme.Example"),
		lead(0, "Robert", "", "bob@acme.example "),
	}, nil)

	require.Len(t, res.Unique, 1)
	assert.Equal(t, "Bob", res.Unique[0].Name)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, dedup.ReasonEmail, res.Duplicates[0].Reason)
}

func TestBothFieldsMatchReportsBoth(t *testing.T) {
	res := dedup.Deduplicate([]model.Lead{
		lead(0, "Carol", "0711000111", "carol@x.example"),
		lead(0, "Carol copy", "0711-000-111", "CAROL@x.example"),
	}, nil)

	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, dedup.ReasonBoth, res.Duplicates[0].Reason)
	// both counts into both stat buckets
	assert.Equal(t, 1, res.Stats.PhoneMatches)
	assert.Equal(t, 1, res.Stats.EmailMatches)
}

func TestEmptyKeysNeverMatch(t *testing.T) {
	// two leads without any contact info are both accepted
	res := dedup.Deduplicate([]model.Lead{
		lead(0, "Nobody One", "", ""),
		lead(0, "Nobody Two", "", ""),
	}, nil)

	assert.Len(t, res.Unique, 2)
	assert.Empty(t, res.Duplicates)
}

func TestCrossReferencePass(t *testing.T) {
	reference := []dedup.ReferenceContact{
		{LeadID: 42, Phone: "+254700111222", Email: "alice@acme.example"},
	}
	res := dedup.Deduplicate([]model.Lead{
		lead(0, "Alice dupe", "+254 700-111-222", ""),
		lead(0, "New lead", "0799888777", "new@acme.example"),
	}, reference)

	require.Len(t, res.Unique, 1)
	assert.Equal(t, "New lead", res.Unique[0].Name)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, 42, res.Duplicates[0].ExistingLeadID)
	assert.Equal(t, dedup.ReasonPhone, res.Duplicates[0].Reason)
}

// Running Deduplicate over its own unique output must produce zero new
// duplicates.
func TestIdempotenceLaw(t *testing.T) {
	first := dedup.Deduplicate([]model.Lead{
		lead(0, "A", "0700111222", "a@x.example"),
		lead(0, "A2", "0700 111 222", ""),
		lead(0, "B", "", "b@x.example"),
		lead(0, "B2", "", "B@X.example"),
		lead(0, "C", "", ""),
	}, nil)

	second := dedup.Deduplicate(first.Unique, nil)
	assert.Empty(t, second.Duplicates)
	assert.Equal(t, len(first.Unique), len(second.Unique))
}

func TestFailClosed(t *testing.T) {
	candidates := []model.Lead{
		lead(0, "A", "0700111222", ""),
		lead(0, "B", "", "b@x.example"),
	}
	res := dedup.FailClosed(candidates, errors.New("connection reset"))

	assert.Empty(t, res.Unique)
	require.Len(t, res.Duplicates, 2)
	for _, d := range res.Duplicates {
		assert.Equal(t, dedup.ReasonValidationError, d.Reason)
	}
	assert.Equal(t, 2, res.Stats.Total)
	assert.Equal(t, 2, res.Stats.Duplicates)
}

func TestStats(t *testing.T) {
	res := dedup.Deduplicate([]model.Lead{
		lead(0, "A", "0700111222", ""),
		lead(0, "A2", "0700111222", ""),
		lead(0, "B", "", "b@x.example"),
	}, nil)

	assert.Equal(t, 3, res.Stats.Total)
	assert.Equal(t, 2, res.Stats.Unique)
	assert.Equal(t, 1, res.Stats.Duplicates)
	assert.Equal(t, 1, res.Stats.PhoneMatches)
}

func TestReportRows(t *testing.T) {
	res := dedup.Deduplicate([]model.Lead{
		lead(0, "A", "0700111222", ""),
		lead(0, "A2", "0700111222", ""),
	}, nil)

	rows := dedup.Report(res.Duplicates)
	require.Len(t, rows, 2) // header + one duplicate
	assert.Equal(t, "name", rows[0][0])
	assert.Equal(t, "A2", rows[1][0])
	assert.Equal(t, dedup.ReasonPhone, rows[1][4])
}
