package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/leaddesk/internal/audit"
	"github.com/JonMunkholm/leaddesk/internal/models"
	"github.com/JonMunkholm/leaddesk/internal/services"
	"github.com/JonMunkholm/leaddesk/internal/validation"
)

func leadFilters(r *http.Request) services.LeadFilters {
	return services.LeadFilters{
		Page:       parseIntParam(r, "page"),
		Limit:      parseIntParam(r, "limit"),
		Search:     r.URL.Query().Get("search"),
		StatusID:   parseIDParam(r, "statusId"),
		SourceID:   parseIDParam(r, "sourceId"),
		AssignedTo: parseIDParam(r, "assignedTo"),
	}
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Leads.List(r.Context(), leadFilters(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleCreateLead checks the payload before it reaches the backend; the
// contact number must be exactly ten ASCII digits.
func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var in models.LeadInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := s.deps.Validator.Struct(in); err != nil {
		writeValidationError(w, r, leadMessage(in.ContactNumber), validation.Details(err))
		return
	}

	lead, err := s.deps.Leads.Create(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	lead, err := s.deps.Leads.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch models.LeadPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := s.deps.Validator.Struct(patch); err != nil {
		msg := "Lead is invalid"
		if patch.ContactNumber != nil {
			msg = leadMessage(*patch.ContactNumber)
		}
		writeValidationError(w, r, msg, validation.Details(err))
		return
	}

	lead, err := s.deps.Leads.Update(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Leads.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	audit.Record(r.Context(), s.deps.Audit, audit.Params{
		Action:     audit.ActionLeadDelete,
		Resource:   "leads",
		ResourceID: strconv.FormatInt(id, 10),
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLeadCallLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	logs, err := s.deps.Leads.CallLogs(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if logs == nil {
		logs = []models.CallLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleLeadActivityLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	logs, err := s.deps.Leads.ActivityLogs(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if logs == nil {
		logs = []models.ActivityLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

type contactCheckRequest struct {
	ContactNumber string `json:"contactNumber"`
}

type contactCheckResponse struct {
	validation.Result
	Formatted string `json:"formatted"`
}

// handleValidateContactNumber lets a form check a number as the user types.
// It always answers 200; the verdict is in the body.
func (s *Server) handleValidateContactNumber(w http.ResponseWriter, r *http.Request) {
	var req contactCheckRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, contactCheckResponse{
		Result:    validation.ValidateContactNumber(req.ContactNumber),
		Formatted: validation.FormatContactNumber(req.ContactNumber),
	})
}

// leadMessage picks the headline for a rejected lead: the contact number
// message when that is the problem, a generic one otherwise.
func leadMessage(contact string) string {
	if res := validation.ValidateContactNumber(contact); !res.Valid {
		return res.Message
	}
	return "Lead is invalid"
}
