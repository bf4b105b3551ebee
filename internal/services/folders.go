package services

import (
	"context"

	"github.com/JonMunkholm/leaddesk/internal/apiclient"
	"github.com/JonMunkholm/leaddesk/internal/models"
)

// FolderFilters narrows a folder listing to one parent.
type FolderFilters struct {
	ParentFolderID *int64
}

func (f FolderFilters) query() string {
	var q queryBuilder
	q.addID("parentFolderId", f.ParentFolderID)
	return q.encode()
}

// FolderService is the client for /api/folders.
type FolderService struct {
	api *apiclient.Client
}

func NewFolderService(api *apiclient.Client) *FolderService {
	return &FolderService{api: api}
}

func (s *FolderService) Create(ctx context.Context, in models.FolderInput) (*models.Folder, error) {
	var folder models.Folder
	if err := s.api.Post(ctx, foldersPath, in, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *FolderService) List(ctx context.Context, f FolderFilters) (*models.Page[models.Folder], error) {
	var page models.Page[models.Folder]
	if err := s.api.Get(ctx, foldersPath, f.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *FolderService) Get(ctx context.Context, id int64) (*models.Folder, error) {
	var folder models.Folder
	if err := s.api.Get(ctx, idPath(foldersPath, id), "", &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *FolderService) Update(ctx context.Context, id int64, patch models.FolderPatch) (*models.Folder, error) {
	var folder models.Folder
	if err := s.api.Put(ctx, idPath(foldersPath, id), patch, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *FolderService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, idPath(foldersPath, id))
}
