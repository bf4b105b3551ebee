// Package services wraps each backend REST resource in a typed client.
//
// Every operation is a single round trip through the shared apiclient.Client:
// no caching, no deduplication, no retries. Errors come back exactly as the
// transport produced them; callers that want a user-facing status/message pair
// run them through errstate.
package services

import (
	"github.com/JonMunkholm/leaddesk/internal/apiclient"
)

const (
	documentsPath = "/api/documents"
	foldersPath   = "/api/folders"
	keywordsPath  = "/api/keywords"
	leadsPath     = "/api/leads"
)

// Set bundles the resource clients built over one transport.
type Set struct {
	Documents *DocumentService
	Folders   *FolderService
	Keywords  *KeywordService
	Leads     *LeadService
}

// NewSet builds every resource client over c.
func NewSet(c *apiclient.Client) *Set {
	return &Set{
		Documents: NewDocumentService(c),
		Folders:   NewFolderService(c),
		Keywords:  NewKeywordService(c),
		Leads:     NewLeadService(c),
	}
}
