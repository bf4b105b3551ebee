package web

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/leaddesk/internal/export"
	"github.com/JonMunkholm/leaddesk/internal/models"
)

// The CSV writer only emits string cells, so every entity is flattened to
// strings here. Column order is the order of the fields below.

func leadRecord(l models.Lead) export.Record {
	return export.Record{
		{Key: "ID", Value: formatID(l.ID)},
		{Key: "Name", Value: l.Name},
		{Key: "Email", Value: l.Email},
		{Key: "Contact Number", Value: l.ContactNumber},
		{Key: "Alternate Number", Value: l.AlternateNumber},
		{Key: "Status", Value: refName(l.Status)},
		{Key: "Source", Value: refName(l.Source)},
		{Key: "Assigned To", Value: refName(l.AssignedTo)},
		{Key: "Language", Value: refName(l.Language)},
		{Key: "Centre", Value: refName(l.Centre)},
		{Key: "Project Type", Value: refName(l.ProjectType)},
		{Key: "Site Visit", Value: yesNo(l.SiteVisit)},
		{Key: "Site Visit Date", Value: formatTimePtr(l.SiteVisitDate)},
		{Key: "Centre Visit", Value: yesNo(l.CentreVisit)},
		{Key: "Centre Visit Date", Value: formatTimePtr(l.CentreVisitDate)},
		{Key: "Virtual Meeting", Value: yesNo(l.VirtualMeeting)},
		{Key: "Virtual Meeting Date", Value: formatTimePtr(l.VirtualMeetingDate)},
		{Key: "Notes", Value: l.Notes},
		{Key: "Created At", Value: formatTime(l.CreatedAt)},
		{Key: "Updated At", Value: formatTime(l.UpdatedAt)},
	}
}

func keywordRecord(k models.Keyword) export.Record {
	return export.Record{
		{Key: "ID", Value: formatID(k.ID)},
		{Key: "Name", Value: k.Name},
		{Key: "Description", Value: k.Description},
		{Key: "Created At", Value: formatTime(k.CreatedAt)},
		{Key: "Updated At", Value: formatTime(k.UpdatedAt)},
	}
}

func documentRecord(d models.Document) export.Record {
	names := make([]string, 0, len(d.Keywords))
	for _, k := range d.Keywords {
		names = append(names, k.Name)
	}
	size := ""
	if d.Size > 0 {
		size = strconv.FormatInt(d.Size, 10)
	}
	return export.Record{
		{Key: "ID", Value: formatID(d.ID)},
		{Key: "Name", Value: d.Name},
		{Key: "File Name", Value: d.FileName},
		{Key: "Type", Value: d.MimeType},
		{Key: "Size", Value: size},
		{Key: "Folder ID", Value: formatIDPtr(d.FolderID)},
		{Key: "Keywords", Value: strings.Join(names, "; ")},
		{Key: "Created At", Value: formatTime(d.CreatedAt)},
		{Key: "Updated At", Value: formatTime(d.UpdatedAt)},
	}
}

func folderRecord(f models.Folder) export.Record {
	return export.Record{
		{Key: "ID", Value: formatID(f.ID)},
		{Key: "Name", Value: f.Name},
		{Key: "Parent Folder ID", Value: formatIDPtr(f.ParentFolderID)},
		{Key: "Created At", Value: formatTime(f.CreatedAt)},
		{Key: "Updated At", Value: formatTime(f.UpdatedAt)},
	}
}

func toRecords[T any](items []T, flatten func(T) export.Record) []export.Record {
	records := make([]export.Record, len(items))
	for i, item := range items {
		records[i] = flatten(item)
	}
	return records
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatIDPtr(id *int64) string {
	if id == nil {
		return ""
	}
	return formatID(*id)
}

func refName(r *models.Ref) string {
	if r == nil {
		return ""
	}
	return r.Name
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatTime(ts models.Timestamp) string {
	return ts.String()
}

func formatTimePtr(ts *models.Timestamp) string {
	if ts == nil {
		return ""
	}
	return ts.String()
}
