package services

import (
	"context"

	"github.com/JonMunkholm/leaddesk/internal/apiclient"
	"github.com/JonMunkholm/leaddesk/internal/models"
)

// KeywordFilters are encoded in this order: page, limit, search, sortBy,
// sortOrder. Zero values are left out.
type KeywordFilters struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

func (f KeywordFilters) query() string {
	var q queryBuilder
	q.addInt("page", f.Page)
	q.addInt("limit", f.Limit)
	q.add("search", f.Search)
	q.add("sortBy", f.SortBy)
	q.add("sortOrder", f.SortOrder)
	return q.encode()
}

// KeywordService is the client for /api/keywords.
type KeywordService struct {
	api *apiclient.Client
}

func NewKeywordService(api *apiclient.Client) *KeywordService {
	return &KeywordService{api: api}
}

func (s *KeywordService) Create(ctx context.Context, in models.KeywordInput) (*models.Keyword, error) {
	var kw models.Keyword
	if err := s.api.Post(ctx, keywordsPath, in, &kw); err != nil {
		return nil, err
	}
	return &kw, nil
}

// List returns one page of keywords plus whatever pagination the backend sent.
func (s *KeywordService) List(ctx context.Context, f KeywordFilters) (*models.Page[models.Keyword], error) {
	var page models.Page[models.Keyword]
	if err := s.api.Get(ctx, keywordsPath, f.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *KeywordService) Get(ctx context.Context, id int64) (*models.Keyword, error) {
	var kw models.Keyword
	if err := s.api.Get(ctx, idPath(keywordsPath, id), "", &kw); err != nil {
		return nil, err
	}
	return &kw, nil
}

func (s *KeywordService) Update(ctx context.Context, id int64, patch models.KeywordPatch) (*models.Keyword, error) {
	var kw models.Keyword
	if err := s.api.Put(ctx, idPath(keywordsPath, id), patch, &kw); err != nil {
		return nil, err
	}
	return &kw, nil
}

func (s *KeywordService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, idPath(keywordsPath, id))
}
