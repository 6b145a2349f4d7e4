package controller_test

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/leadflow-backend/internal/controller"
	"github.com/unclebandit/leadflow-backend/internal/model"
	"github.com/unclebandit/leadflow-backend/internal/service"
)

// --- Mock Repositories ---

type MockCampaignRepoForPagination struct {
	campaigns []*model.Campaign
}

func (m *MockCampaignRepoForPagination) ListCampaigns(offset, limit int, status string, ownerID int) ([]*model.Campaign, int, error) {
	var filtered []*model.Campaign
	for _, c := range m.campaigns {
		if status != "" && c.Status != status {
			continue
		}
		if ownerID != 0 && c.OwnerID != ownerID {
			continue
		}
		filtered = append(filtered, c)
	}
	total := len(filtered)

	start := offset
	end := offset + limit
	if start > total {
		return []*model.Campaign{}, total, nil
	}
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func (m *MockCampaignRepoForPagination) GetByID(id int) (*model.Campaign, error) {
	for _, c := range m.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockCampaignRepoForPagination) Create(c *model.Campaign) error {
	c.ID = len(m.campaigns) + 1
	c.CreatedAt = time.Now()
	m.campaigns = append(m.campaigns, c)
	return nil
}

func (m *MockCampaignRepoForPagination) Update(c *model.Campaign) error { return nil }

func (m *MockCampaignRepoForPagination) ActivateIfDraft(id int, activatedAt time.Time) (bool, error) {
	return false, nil
}

// --- Tests ---

func TestListCampaignsPagination(t *testing.T) {
	totalCampaigns := 25
	campaigns := []*model.Campaign{}
	for i := 1; i <= totalCampaigns; i++ {
		campaigns = append(campaigns, &model.Campaign{
			ID:      i,
			OwnerID: 1,
			Name:    "Campaign " + strconv.Itoa(i),
			Status:  "draft",
		})
	}

	repo := &MockCampaignRepoForPagination{campaigns: campaigns}
	svc := &service.CampaignService{CampaignRepo: repo}
	ctrl := &controller.CampaignController{CampaignService: svc}

	pageSize := 10
	seen := map[int]bool{}
	totalPages := (totalCampaigns + pageSize - 1) / pageSize

	for page := 1; page <= totalPages; page++ {
		req := httptest.NewRequest(
			"GET",
			"/campaigns?page="+strconv.Itoa(page)+
				"&page_size="+strconv.Itoa(pageSize)+
				"&status=draft&owner_id=1",
			nil,
		)
		w := httptest.NewRecorder()

		ctrl.ListCampaigns(w, req)
		resp := w.Result()
		require.Equal(t, 200, resp.StatusCode)

		var res struct {
			Data       []model.Campaign `json:"data"`
			Pagination struct {
				Page       int `json:"page"`
				PageSize   int `json:"page_size"`
				TotalCount int `json:"total_count"`
			} `json:"pagination"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))

		assert.Equal(t, page, res.Pagination.Page)
		assert.Equal(t, pageSize, res.Pagination.PageSize)
		assert.Equal(t, totalCampaigns, res.Pagination.TotalCount)

		for _, c := range res.Data {
			assert.False(t, seen[c.ID], "duplicate campaign ID %d across pages", c.ID)
			seen[c.ID] = true
			assert.Equal(t, "draft", c.Status)
		}
	}

	assert.Len(t, seen, totalCampaigns)
}

func TestCreateCampaignDefaultsToDraft(t *testing.T) {
	repo := &MockCampaignRepoForPagination{}
	svc := &service.CampaignService{CampaignRepo: repo}
	ctrl := &controller.CampaignController{CampaignService: svc}

	body := `{"owner_id":1,"name":"Spring promo","offer":"20% off","calendar_url":"https://cal.example.com","goal":"book a demo"}`
	req := httptest.NewRequest("POST", "/campaigns", strings.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.CreateCampaign(w, req)
	resp := w.Result()
	require.Equal(t, 200, resp.StatusCode)

	var created model.Campaign
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, "Spring promo", created.Name)
	assert.NotZero(t, created.ID)
}
