package handler

import (
	"encoding/csv"
	"net/http"
	"strings"
)

var exportHeader = []string{
	"Name",
	"Email",
	"Phone",
	"Blood Group",
	"Department",
	"Year",
	"Motivation",
	"Experience",
	"Interests",
	"Submitted At",
}

// ExportMembers streams every member as CSV, most recent first.
func (h *Handlers) ExportMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Members.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to export members")
		return
	}

	filename := "brudf-members-" + h.now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	out := csv.NewWriter(w)
	_ = out.Write(exportHeader)
	for _, member := range members {
		_ = out.Write([]string{
			member.Name,
			member.Email,
			member.Phone,
			optionalString(member.BloodGroup),
			optionalString(member.Department),
			optionalString(member.Year),
			optionalString(member.Motivation),
			optionalString(member.Experience),
			strings.Join(member.Interests, "; "),
			member.CreatedAt.UTC().Format("2006-01-02"),
		})
	}
	out.Flush()
	if err := out.Error(); err != nil {
		h.log.Warn("members: export write failed", "err", err)
	}
}
