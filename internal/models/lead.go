// Package models holds the projections of backend-owned entities that the
// gateway passes through. Nothing here is persisted locally; every value is a
// short-lived copy of whatever the backend returned for a single request.
package models

// Ref is a lookup value attached to a lead (status, source, language, ...).
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User is the owner of call and activity log entries.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Lead is a sales lead record.
type Lead struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	ContactNumber   string `json:"contactNumber"`
	AlternateNumber string `json:"alternateNumber,omitempty"`
	Notes           string `json:"notes,omitempty"`

	Status      *Ref `json:"status,omitempty"`
	Source      *Ref `json:"source,omitempty"`
	AssignedTo  *Ref `json:"assignedTo,omitempty"`
	Language    *Ref `json:"language,omitempty"`
	Centre      *Ref `json:"centre,omitempty"`
	ProjectType *Ref `json:"projectType,omitempty"`

	SiteVisit          bool       `json:"siteVisit"`
	SiteVisitDate      *Timestamp `json:"siteVisitDate,omitempty"`
	CentreVisit        bool       `json:"centreVisit"`
	CentreVisitDate    *Timestamp `json:"centreVisitDate,omitempty"`
	VirtualMeeting     bool       `json:"virtualMeeting"`
	VirtualMeetingDate *Timestamp `json:"virtualMeetingDate,omitempty"`

	CreatedAt Timestamp  `json:"createdAt,omitzero"`
	UpdatedAt Timestamp  `json:"updatedAt,omitzero"`
	DeletedAt *Timestamp `json:"deletedAt,omitempty"`
}

// LeadInput is the create payload for a lead.
type LeadInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	ContactNumber   string `json:"contactNumber" validate:"required,contact_number"`
	AlternateNumber string `json:"alternateNumber,omitempty" validate:"omitempty,contact_number"`
	Notes           string `json:"notes,omitempty"`

	StatusID      *int64 `json:"statusId,omitempty"`
	SourceID      *int64 `json:"sourceId,omitempty"`
	AssignedToID  *int64 `json:"assignedToId,omitempty"`
	LanguageID    *int64 `json:"languageId,omitempty"`
	CentreID      *int64 `json:"centreId,omitempty"`
	ProjectTypeID *int64 `json:"projectTypeId,omitempty"`

	SiteVisit          bool       `json:"siteVisit,omitempty"`
	SiteVisitDate      *Timestamp `json:"siteVisitDate,omitempty"`
	CentreVisit        bool       `json:"centreVisit,omitempty"`
	CentreVisitDate    *Timestamp `json:"centreVisitDate,omitempty"`
	VirtualMeeting     bool       `json:"virtualMeeting,omitempty"`
	VirtualMeetingDate *Timestamp `json:"virtualMeetingDate,omitempty"`
}

// LeadPatch carries only the fields a caller wants changed. The backend merges.
type LeadPatch struct {
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	ContactNumber   *string `json:"contactNumber,omitempty" validate:"omitempty,contact_number"`
	AlternateNumber *string `json:"alternateNumber,omitempty" validate:"omitempty,contact_number"`
	Notes           *string `json:"notes,omitempty"`

	StatusID      *int64 `json:"statusId,omitempty"`
	SourceID      *int64 `json:"sourceId,omitempty"`
	AssignedToID  *int64 `json:"assignedToId,omitempty"`
	LanguageID    *int64 `json:"languageId,omitempty"`
	CentreID      *int64 `json:"centreId,omitempty"`
	ProjectTypeID *int64 `json:"projectTypeId,omitempty"`

	SiteVisit          *bool      `json:"siteVisit,omitempty"`
	SiteVisitDate      *Timestamp `json:"siteVisitDate,omitempty"`
	CentreVisit        *bool      `json:"centreVisit,omitempty"`
	CentreVisitDate    *Timestamp `json:"centreVisitDate,omitempty"`
	VirtualMeeting     *bool      `json:"virtualMeeting,omitempty"`
	VirtualMeetingDate *Timestamp `json:"virtualMeetingDate,omitempty"`
}

// CallLog is an append-only record of a call made against a lead.
type CallLog struct {
	ID        int64      `json:"id"`
	LeadID    int64      `json:"leadId"`
	UserID    int64      `json:"userId"`
	User      *User      `json:"user,omitempty"`
	Outcome   string     `json:"outcome,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt Timestamp  `json:"createdAt,omitzero"`
	DeletedAt *Timestamp `json:"deletedAt,omitempty"`
}

// ActivityLog is an append-only record of a change made to a lead.
type ActivityLog struct {
	ID          int64      `json:"id"`
	LeadID      int64      `json:"leadId"`
	UserID      int64      `json:"userId"`
	User        *User      `json:"user,omitempty"`
	Action      string     `json:"action"`
	Description string     `json:"description,omitempty"`
	CreatedAt   Timestamp  `json:"createdAt,omitzero"`
	DeletedAt   *Timestamp `json:"deletedAt,omitempty"`
}
