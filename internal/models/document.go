package models

// Folder groups documents. Folders nest through ParentFolderID.
type Folder struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	ParentFolderID *int64    `json:"parentFolderId,omitempty"`
	CreatedAt      Timestamp `json:"createdAt,omitzero"`
	UpdatedAt      Timestamp `json:"updatedAt,omitzero"`
}

type FolderInput struct {
	Name           string `json:"name" validate:"required"`
	ParentFolderID *int64 `json:"parentFolderId,omitempty"`
}

// FolderPatch moves a folder to the root with ParentFolderID: Null[int64]().
type FolderPatch struct {
	Name           *string         `json:"name,omitempty"`
	ParentFolderID Optional[int64] `json:"parentFolderId,omitzero"`
}

// Keyword is a tag that can be attached to documents.
type Keyword struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   Timestamp `json:"createdAt,omitzero"`
	UpdatedAt   Timestamp `json:"updatedAt,omitzero"`
}

type KeywordInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

type KeywordPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Document is file metadata held by the backend. The file bytes are only
// fetched through the download endpoint.
type Document struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	FileName  string    `json:"fileName,omitempty"`
	MimeType  string    `json:"mimeType,omitempty"`
	Size      int64     `json:"size,omitempty"`
	FolderID  *int64    `json:"folderId,omitempty"`
	Keywords  []Keyword `json:"keywords,omitempty"`
	CreatedAt Timestamp `json:"createdAt,omitzero"`
	UpdatedAt Timestamp `json:"updatedAt,omitzero"`
}

type DocumentInput struct {
	Name       string  `json:"name" validate:"required"`
	FolderID   *int64  `json:"folderId,omitempty"`
	KeywordIDs []int64 `json:"keywordIds,omitempty"`
}

// DocumentPatch can take a document out of its folder (FolderID:
// Null[int64]()) and clear its keywords (KeywordIDs: Some([]int64{})).
type DocumentPatch struct {
	Name       *string           `json:"name,omitempty"`
	FolderID   Optional[int64]   `json:"folderId,omitzero"`
	KeywordIDs Optional[[]int64] `json:"keywordIds,omitzero"`
}

// Blob is a binary payload produced server-side, e.g. a document download.
type Blob struct {
	Data        []byte
	ContentType string
	// FileName is the name suggested by the backend's Content-Disposition, if any.
	FileName string
}
