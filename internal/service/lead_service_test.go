package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/leadflow-backend/internal/dedup"
	"github.com/unclebandit/leadflow-backend/internal/model"
	"github.com/unclebandit/leadflow-backend/internal/service"
)

func TestUploadLeadsPersistsOnlyUnique(t *testing.T) {
	repo := &mockLeadRepo{leads: []model.Lead{
		{ID: 1, CampaignID: 1, Name: "Existing", Phone: "0700111222"},
	}}
	svc := &service.LeadService{LeadRepo: repo}

	result, err := svc.UploadLeads(1, []model.Lead{
		{Name: "Fresh", Phone: "0722000111"},
		{Name: "Dupe of existing", Phone: "0700 111 222"},
		{Name: "Fresh copy", Phone: "0722-000-111"},
	}, "csv")
	require.NoError(t, err)

	require.Len(t, result.Unique, 1)
	assert.Equal(t, "Fresh", result.Unique[0].Name)
	assert.NotZero(t, result.Unique[0].ID)
	assert.Equal(t, 1, result.Unique[0].CampaignID)
	assert.Equal(t, "csv", result.Unique[0].Source)

	require.Len(t, result.Duplicates, 2)
	assert.Equal(t, 2, len(repo.leads)) // existing + one new
}

func TestUploadLeadsFailsClosedOnReferenceError(t *testing.T) {
	repo := &mockLeadRepo{contactKeysErr: errors.New("timeout")}
	svc := &service.LeadService{LeadRepo: repo}

	result, err := svc.UploadLeads(1, []model.Lead{
		{Name: "A", Phone: "0700111222"},
		{Name: "B", Email: "b@x.example"},
	}, "csv")
	require.NoError(t, err)

	assert.Empty(t, result.Unique)
	require.Len(t, result.Duplicates, 2)
	for _, d := range result.Duplicates {
		assert.Equal(t, dedup.ReasonValidationError, d.Reason)
	}
	assert.Empty(t, repo.leads) // nothing was written
}

func TestUploadLeadsWarnsOnUndialablePhone(t *testing.T) {
	repo := &mockLeadRepo{}
	svc := &service.LeadService{LeadRepo: repo}

	result, err := svc.UploadLeads(1, []model.Lead{
		{Name: "Odd number", Phone: "12345"},
	}, "manual")
	require.NoError(t, err)

	require.Len(t, result.Unique, 1) // warning does not block the upload
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Odd number")
}

func TestPreviewDuplicatesWritesNothing(t *testing.T) {
	repo := &mockLeadRepo{leads: []model.Lead{
		{ID: 1, CampaignID: 1, Name: "Existing", Email: "a@x.example"},
	}}
	svc := &service.LeadService{LeadRepo: repo}

	result, err := svc.PreviewDuplicates(1, []model.Lead{
		{Name: "Dupe", Email: "A@x.example"},
		{Name: "Fresh", Email: "new@x.example"},
	})
	require.NoError(t, err)

	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, 1, result.Duplicates[0].ExistingLeadID)
	assert.Len(t, repo.leads, 1) // untouched
}
