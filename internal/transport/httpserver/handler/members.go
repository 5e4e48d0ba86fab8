package handler

import (
	"errors"
	"net/http"
	"time"

	membersdomain "github.com/Rishad-007/BRUDF/internal/domain/members"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type memberRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	BloodGroup *string  `json:"bloodGroup"`
	Department *string  `json:"department"`
	Year       *string  `json:"year"`
	Motivation *string  `json:"motivation"`
	Experience *string  `json:"experience"`
	Interests  []string `json:"interests"`
}

type memberResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	BloodGroup  *string   `json:"bloodGroup"`
	Department  *string   `json:"department"`
	Year        *string   `json:"year"`
	Motivation  *string   `json:"motivation"`
	Experience  *string   `json:"experience"`
	Interests   []string  `json:"interests"`
	CreatedAt   time.Time `json:"created_at"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type listResponse struct {
	Success bool             `json:"success"`
	Members []memberResponse `json:"members"`
}

type memberEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Member  memberResponse `json:"member"`
}

type statsResponse struct {
	Success      bool  `json:"success"`
	TotalMembers int64 `json:"totalMembers"`
}

func (h *Handlers) SubmitMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.Members.Submit(r.Context(), req.toInput())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to submit application")
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{
		Success: true,
		Message: "Membership application submitted successfully",
		ID:      member.ID,
	})
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Members.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch members")
		return
	}

	items := make([]memberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, toMemberResponse(member))
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Members: items})
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid member id")
		return
	}

	member, err := h.Members.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch member")
		return
	}
	writeJSON(w, http.StatusOK, memberEnvelope{Success: true, Member: toMemberResponse(*member)})
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid member id")
		return
	}

	var req memberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.Members.Update(r.Context(), id, req.toInput())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to update member")
		return
	}
	writeJSON(w, http.StatusOK, memberEnvelope{
		Success: true,
		Message: "Member updated successfully",
		Member:  toMemberResponse(*member),
	})
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid member id")
		return
	}

	if err := h.Members.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "Failed to delete member")
		return
	}
	writeMessage(w, http.StatusOK, "Member deleted successfully")
}

func (h *Handlers) MemberStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Members.Stats(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch statistics")
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, TotalMembers: stats.TotalMembers})
}

// writeServiceError never echoes the underlying error for server failures.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, membersdomain.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "A member with this email already exists")
	case errors.Is(err, membersdomain.ErrRequiredField):
		writeError(w, http.StatusBadRequest, "Name, email and phone are required")
	case errors.Is(err, membersdomain.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "Member not found")
	default:
		h.log.Error("members: request failed",
			"err", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func (req memberRequest) toInput() membersdomain.Input {
	return membersdomain.Input{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		BloodGroup: req.BloodGroup,
		Department: req.Department,
		Year:       req.Year,
		Motivation: req.Motivation,
		Experience: req.Experience,
		Interests:  req.Interests,
	}
}

func toMemberResponse(member membersdomain.Member) memberResponse {
	interests := member.Interests
	if interests == nil {
		interests = []string{}
	}
	return memberResponse{
		ID:          member.ID,
		Name:        member.Name,
		Email:       member.Email,
		Phone:       member.Phone,
		BloodGroup:  member.BloodGroup,
		Department:  member.Department,
		Year:        member.Year,
		Motivation:  member.Motivation,
		Experience:  member.Experience,
		Interests:   interests,
		CreatedAt:   member.CreatedAt,
		SubmittedAt: member.CreatedAt,
	}
}
