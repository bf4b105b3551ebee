package web

import (
	"context"

	"github.com/JonMunkholm/leaddesk/internal/models"
	"github.com/JonMunkholm/leaddesk/internal/services"
)

// DocumentStore is satisfied by *services.DocumentService.
type DocumentStore interface {
	Create(ctx context.Context, in models.DocumentInput) (*models.Document, error)
	List(ctx context.Context, f services.DocumentFilters) (*models.Page[models.Document], error)
	Get(ctx context.Context, id int64) (*models.Document, error)
	Update(ctx context.Context, id int64, patch models.DocumentPatch) (*models.Document, error)
	Delete(ctx context.Context, id int64) error
	Upload(ctx context.Context, up services.DocumentUpload) (*models.Document, error)
	Download(ctx context.Context, id int64) (*models.Blob, error)
}

// FolderStore is satisfied by *services.FolderService.
type FolderStore interface {
	Create(ctx context.Context, in models.FolderInput) (*models.Folder, error)
	List(ctx context.Context, f services.FolderFilters) (*models.Page[models.Folder], error)
	Get(ctx context.Context, id int64) (*models.Folder, error)
	Update(ctx context.Context, id int64, patch models.FolderPatch) (*models.Folder, error)
	Delete(ctx context.Context, id int64) error
}

// KeywordStore is satisfied by *services.KeywordService.
type KeywordStore interface {
	Create(ctx context.Context, in models.KeywordInput) (*models.Keyword, error)
	List(ctx context.Context, f services.KeywordFilters) (*models.Page[models.Keyword], error)
	Get(ctx context.Context, id int64) (*models.Keyword, error)
	Update(ctx context.Context, id int64, patch models.KeywordPatch) (*models.Keyword, error)
	Delete(ctx context.Context, id int64) error
}

// LeadStore is satisfied by *services.LeadService.
type LeadStore interface {
	Create(ctx context.Context, in models.LeadInput) (*models.Lead, error)
	List(ctx context.Context, f services.LeadFilters) (*models.Page[models.Lead], error)
	Get(ctx context.Context, id int64) (*models.Lead, error)
	Update(ctx context.Context, id int64, patch models.LeadPatch) (*models.Lead, error)
	Delete(ctx context.Context, id int64) error
	CallLogs(ctx context.Context, leadID int64) ([]models.CallLog, error)
	ActivityLogs(ctx context.Context, leadID int64) ([]models.ActivityLog, error)
}

var (
	_ DocumentStore = (*services.DocumentService)(nil)
	_ FolderStore   = (*services.FolderService)(nil)
	_ KeywordStore  = (*services.KeywordService)(nil)
	_ LeadStore     = (*services.LeadService)(nil)
)

// DepsFromServices wires a services.Set into handler dependencies.
func DepsFromServices(set *services.Set) Deps {
	return Deps{
		Documents: set.Documents,
		Folders:   set.Folders,
		Keywords:  set.Keywords,
		Leads:     set.Leads,
	}
}
