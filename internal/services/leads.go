package services

import (
	"context"

	"github.com/JonMunkholm/leaddesk/internal/apiclient"
	"github.com/JonMunkholm/leaddesk/internal/models"
)

// LeadFilters are encoded in this order: page, limit, search, statusId,
// sourceId, assignedTo.
type LeadFilters struct {
	Page       int
	Limit      int
	Search     string
	StatusID   *int64
	SourceID   *int64
	AssignedTo *int64
}

func (f LeadFilters) query() string {
	var q queryBuilder
	q.addInt("page", f.Page)
	q.addInt("limit", f.Limit)
	q.add("search", f.Search)
	q.addID("statusId", f.StatusID)
	q.addID("sourceId", f.SourceID)
	q.addID("assignedTo", f.AssignedTo)
	return q.encode()
}

// LeadService is the client for /api/leads and the logs hanging off a lead.
type LeadService struct {
	api *apiclient.Client
}

func NewLeadService(api *apiclient.Client) *LeadService {
	return &LeadService{api: api}
}

func (s *LeadService) Create(ctx context.Context, in models.LeadInput) (*models.Lead, error) {
	var lead models.Lead
	if err := s.api.Post(ctx, leadsPath, in, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (s *LeadService) List(ctx context.Context, f LeadFilters) (*models.Page[models.Lead], error) {
	var page models.Page[models.Lead]
	if err := s.api.Get(ctx, leadsPath, f.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *LeadService) Get(ctx context.Context, id int64) (*models.Lead, error) {
	var lead models.Lead
	if err := s.api.Get(ctx, idPath(leadsPath, id), "", &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (s *LeadService) Update(ctx context.Context, id int64, patch models.LeadPatch) (*models.Lead, error) {
	var lead models.Lead
	if err := s.api.Put(ctx, idPath(leadsPath, id), patch, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (s *LeadService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, idPath(leadsPath, id))
}

// CallLogs lists the call log entries recorded against a lead.
func (s *LeadService) CallLogs(ctx context.Context, leadID int64) ([]models.CallLog, error) {
	var page models.Page[models.CallLog]
	if err := s.api.Get(ctx, idPath(leadsPath, leadID, "call-logs"), "", &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// ActivityLogs lists the activity log entries recorded against a lead.
func (s *LeadService) ActivityLogs(ctx context.Context, leadID int64) ([]models.ActivityLog, error) {
	var page models.Page[models.ActivityLog]
	if err := s.api.Get(ctx, idPath(leadsPath, leadID, "activity-logs"), "", &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}
