package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	membersdomain "github.com/Rishad-007/BRUDF/internal/domain/members"
	"github.com/Rishad-007/BRUDF/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type fakeRepo struct {
	rows    map[int64]membersdomain.Record
	nextID  int64
	now     time.Time
	failErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rows:   map[int64]membersdomain.Record{},
		nextID: 1,
		now:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) Create(_ context.Context, input membersdomain.Input) (*membersdomain.Member, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	for _, row := range f.rows {
		if row.Email == input.Email {
			return nil, membersdomain.ErrDuplicateEmail
		}
	}
	interests, err := membersdomain.EncodeInterests(input.Interests)
	if err != nil {
		return nil, err
	}
	f.now = f.now.Add(time.Minute)
	record := membersdomain.Record{
		ID:         f.nextID,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		BloodGroup: input.BloodGroup,
		Department: input.Department,
		Year:       input.Year,
		Motivation: input.Motivation,
		Experience: input.Experience,
		Interests:  interests,
		CreatedAt:  f.now,
	}
	f.rows[record.ID] = record
	f.nextID++
	member, err := record.Member()
	return &member, err
}

func (f *fakeRepo) Update(_ context.Context, id int64, input membersdomain.Input) (*membersdomain.Member, bool, error) {
	if f.failErr != nil {
		return nil, false, f.failErr
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, false, nil
	}
	for otherID, other := range f.rows {
		if otherID != id && other.Email == input.Email {
			return nil, false, membersdomain.ErrDuplicateEmail
		}
	}
	interests, _ := membersdomain.EncodeInterests(input.Interests)
	row.Name, row.Email, row.Phone = input.Name, input.Email, input.Phone
	row.BloodGroup, row.Department, row.Year = input.BloodGroup, input.Department, input.Year
	row.Motivation, row.Experience, row.Interests = input.Motivation, input.Experience, interests
	f.rows[id] = row
	member, err := row.Member()
	return &member, true, err
}

func (f *fakeRepo) List(context.Context) ([]membersdomain.Member, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	items := make([]membersdomain.Member, 0, len(f.rows))
	for _, row := range f.rows {
		member, err := row.Member()
		if err != nil {
			return nil, err
		}
		items = append(items, member)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*membersdomain.Record, bool, error) {
	if f.failErr != nil {
		return nil, false, f.failErr
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, false, nil
	}
	return &row, true, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) (bool, error) {
	if f.failErr != nil {
		return false, f.failErr
	}
	if _, ok := f.rows[id]; !ok {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

func (f *fakeRepo) Stats(context.Context) (membersdomain.Stats, error) {
	if f.failErr != nil {
		return membersdomain.Stats{}, f.failErr
	}
	return membersdomain.Stats{TotalMembers: int64(len(f.rows))}, nil
}

func newTestRouter(repo *fakeRepo) http.Handler {
	h := New(membersdomain.NewService(repo), logger.NewNop())
	h.now = func() time.Time { return time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Get("/api/health", h.Health)
	r.Post("/api/members", h.SubmitMember)
	r.Get("/api/members", h.ListMembers)
	r.Get("/api/members/stats", h.MemberStats)
	r.Get("/api/members/export", h.ExportMembers)
	r.Get("/api/members/{id}", h.GetMember)
	r.Put("/api/members/{id}", h.UpdateMember)
	r.Delete("/api/members/{id}", h.DeleteMember)
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestSubmitMember(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(repo)

	rec := doRequest(t, router, http.MethodPost, "/api/members",
		`{"name":"A","email":"a@x.com","phone":"1","bloodGroup":"O+","interests":["Public Speaking"],"agree":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["message"] != "Membership application submitted successfully" {
		t.Fatalf("unexpected body %v", body)
	}
	if body["id"] != float64(1) {
		t.Fatalf("expected id 1, got %v", body["id"])
	}
}

func TestSubmitMemberErrors(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		prepare func(*fakeRepo)
		status  int
		message string
	}{
		{
			name:    "InvalidJSON",
			body:    `{"name":`,
			status:  http.StatusBadRequest,
			message: "Invalid request body",
		},
		{
			name:    "MissingPhone",
			body:    `{"name":"A","email":"a@x.com"}`,
			status:  http.StatusBadRequest,
			message: "Name, email and phone are required",
		},
		{
			name: "DuplicateEmail",
			body: `{"name":"A","email":"a@x.com","phone":"1"}`,
			prepare: func(repo *fakeRepo) {
				repo.Create(context.Background(), membersdomain.Input{Name: "B", Email: "a@x.com", Phone: "2"})
			},
			status:  http.StatusBadRequest,
			message: "A member with this email already exists",
		},
		{
			name: "StorageFailure",
			body: `{"name":"A","email":"a@x.com","phone":"1"}`,
			prepare: func(repo *fakeRepo) {
				repo.failErr = &membersdomain.StorageWriteError{Op: "create", Err: errors.New("disk I/O error at /var/lib")}
			},
			status:  http.StatusInternalServerError,
			message: "Failed to submit application",
		},
		{
			name: "NotReady",
			body: `{"name":"A","email":"a@x.com","phone":"1"}`,
			prepare: func(repo *fakeRepo) {
				repo.failErr = membersdomain.ErrStoreNotReady
			},
			status:  http.StatusInternalServerError,
			message: "Failed to submit application",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			if tc.prepare != nil {
				tc.prepare(repo)
			}
			rec := doRequest(t, newTestRouter(repo), http.MethodPost, "/api/members", tc.body)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			body := decodeBody(t, rec)
			if body["success"] != false || body["message"] != tc.message {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}

func TestListMembers(t *testing.T) {
	repo := newFakeRepo()
	ctx := context.Background()
	repo.Create(ctx, membersdomain.Input{Name: "A", Email: "a@x.com", Phone: "1", Interests: []string{"Art"}})
	repo.Create(ctx, membersdomain.Input{Name: "B", Email: "b@x.com", Phone: "2"})

	rec := doRequest(t, newTestRouter(repo), http.MethodGet, "/api/members", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success bool             `json:"success"`
		Members []map[string]any `json:"members"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || len(body.Members) != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
	first := body.Members[0]
	if first["email"] != "b@x.com" {
		t.Fatalf("expected most recent first, got %v", first["email"])
	}
	if interests, ok := first["interests"].([]any); !ok || len(interests) != 0 {
		t.Fatalf("expected empty interests array, got %#v", first["interests"])
	}
	if first["submittedAt"] != first["created_at"] || first["submittedAt"] == nil {
		t.Fatalf("expected submittedAt to mirror created_at, got %v / %v", first["submittedAt"], first["created_at"])
	}
	if _, ok := first["bloodGroup"]; !ok {
		t.Fatalf("expected bloodGroup key present")
	}
}

func TestListMembersFailureIsGeneric(t *testing.T) {
	repo := newFakeRepo()
	repo.failErr = errors.New("no such table: members")

	rec := doRequest(t, newTestRouter(repo), http.MethodGet, "/api/members", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "no such table") {
		t.Fatalf("driver error leaked: %s", rec.Body.String())
	}
}

func TestGetMember(t *testing.T) {
	repo := newFakeRepo()
	repo.Create(context.Background(), membersdomain.Input{Name: "A", Email: "a@x.com", Phone: "1"})
	router := newTestRouter(repo)

	rec := doRequest(t, router, http.MethodGet, "/api/members/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	member, ok := body["member"].(map[string]interface{})
	if !ok || member["email"] != "a@x.com" {
		t.Fatalf("unexpected body %v", body)
	}

	if rec := doRequest(t, router, http.MethodGet, "/api/members/9", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodGet, "/api/members/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateMember(t *testing.T) {
	repo := newFakeRepo()
	ctx := context.Background()
	repo.Create(ctx, membersdomain.Input{Name: "A", Email: "a@x.com", Phone: "1"})
	repo.Create(ctx, membersdomain.Input{Name: "B", Email: "b@x.com", Phone: "2"})
	router := newTestRouter(repo)

	rec := doRequest(t, router, http.MethodPut, "/api/members/1", `{"name":"A2","email":"a@x.com","phone":"9","interests":["Debate"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	member := body["member"].(map[string]interface{})
	if member["name"] != "A2" || member["phone"] != "9" {
		t.Fatalf("unexpected member %v", member)
	}

	rec = doRequest(t, router, http.MethodPut, "/api/members/1", `{"name":"A","email":"b@x.com","phone":"1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPut, "/api/members/77", `{"name":"A","email":"z@x.com","phone":"1"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if len(repo.rows) != 2 {
		t.Fatalf("expected no row created by update, got %d", len(repo.rows))
	}
}

func TestDeleteMember(t *testing.T) {
	repo := newFakeRepo()
	repo.Create(context.Background(), membersdomain.Input{Name: "A", Email: "a@x.com", Phone: "1"})
	router := newTestRouter(repo)

	rec := doRequest(t, router, http.MethodDelete, "/api/members/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Member deleted successfully" {
		t.Fatalf("unexpected body %v", body)
	}

	rec = doRequest(t, router, http.MethodDelete, "/api/members/1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Member not found" {
		t.Fatalf("unexpected body %v", body)
	}

	if rec := doRequest(t, router, http.MethodDelete, "/api/members/0", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-positive id, got %d", rec.Code)
	}
}

func TestMemberStats(t *testing.T) {
	repo := newFakeRepo()
	repo.Create(context.Background(), membersdomain.Input{Name: "A", Email: "a@x.com", Phone: "1"})

	rec := doRequest(t, newTestRouter(repo), http.MethodGet, "/api/members/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["totalMembers"] != float64(1) {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestExportMembers(t *testing.T) {
	repo := newFakeRepo()
	ctx := context.Background()
	motivation := `I said "yes", then joined`
	repo.Create(ctx, membersdomain.Input{Name: "A", Email: "a@x.com", Phone: "1", Motivation: &motivation, Interests: []string{"Art", "Debate"}})
	repo.Create(ctx, membersdomain.Input{Name: "B", Email: "b@x.com", Phone: "2"})

	rec := doRequest(t, newTestRouter(repo), http.MethodGet, "/api/members/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "brudf-members-2024-05-02.csv") {
		t.Fatalf("unexpected disposition %q", cd)
	}

	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][9] != "Submitted At" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[2][6] != motivation || rows[2][8] != "Art; Debate" || rows[2][9] != "2024-05-01" {
		t.Fatalf("unexpected row %v", rows[2])
	}
	if rows[1][3] != "" {
		t.Fatalf("expected empty blood group, got %q", rows[1][3])
	}
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestRouter(newFakeRepo()), http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "OK" || body["timestamp"] != "2024-05-02T08:00:00.000Z" {
		t.Fatalf("unexpected body %v", body)
	}
}
