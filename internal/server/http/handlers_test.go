package httpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/docuvault/internal/codec"
	"github.com/and161185/docuvault/internal/errs"
	"github.com/and161185/docuvault/internal/model"
	"github.com/and161185/docuvault/internal/service"
)

// ---- fakes ----

type fakeRegistry struct {
	users   map[int64]*model.User
	tokens  map[string]int64
	nextUID int64

	registerErr error
	authErr     error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		users:  map[int64]*model.User{},
		tokens: map[string]int64{},
	}
}

func (f *fakeRegistry) addUser(name, email string) (*model.User, string) {
	f.nextUID++
	u := &model.User{UID: f.nextUID, Name: name, Email: email, CreatedAt: time.Now()}
	f.users[u.UID] = u
	token := fmt.Sprintf("tok-%d", u.UID)
	f.tokens[token] = u.UID
	return u, token
}

func (f *fakeRegistry) Register(_ context.Context, name, email string) (*model.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	u, _ := f.addUser(name, email)
	return u, nil
}

func (f *fakeRegistry) Authenticate(_ context.Context, uid int64, _ string) (*model.User, string, time.Time, error) {
	if f.authErr != nil {
		return nil, "", time.Time{}, f.authErr
	}
	u, ok := f.users[uid]
	if !ok {
		return nil, "", time.Time{}, errs.ErrNotFound
	}
	return u, fmt.Sprintf("tok-%d", uid), time.Now().Add(time.Hour), nil
}

func (f *fakeRegistry) VerifyToken(token string) (int64, error) {
	uid, ok := f.tokens[token]
	if !ok {
		return 0, errs.ErrUnauthorized
	}
	return uid, nil
}

func (f *fakeRegistry) Lookup(_ context.Context, uid int64) (*model.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return u, nil
}

// memCatalogRepo is an in-memory store backing the real catalog service and
// upload pipeline in handler tests.
type memCatalogRepo struct {
	records   []*model.FileRecord
	insertErr error
}

func (m *memCatalogRepo) Insert(_ context.Context, rec *model.FileRecord) (uuid.UUID, error) {
	if m.insertErr != nil {
		return uuid.Nil, m.insertErr
	}
	rec.ID = uuid.Must(uuid.NewV4())
	rec.CreatedAt = time.Now()
	cp := *rec
	m.records = append(m.records, &cp)
	return rec.ID, nil
}

func (m *memCatalogRepo) find(userUID int64, id uuid.UUID) *model.FileRecord {
	for _, r := range m.records {
		if r.UserUID == userUID && r.ID == id {
			return r
		}
	}
	return nil
}

func (m *memCatalogRepo) Update(_ context.Context, userUID int64, id uuid.UUID, upd model.RecordUpdate) error {
	r := m.find(userUID, id)
	if r == nil {
		return errs.ErrNotFound
	}
	if upd.Filename != nil {
		r.Filename = *upd.Filename
	}
	if upd.Description != nil {
		r.Description = *upd.Description
	}
	if upd.Category != nil {
		r.Category = *upd.Category
	}
	if upd.Tags != nil {
		r.Tags = *upd.Tags
	}
	if upd.FileType != nil {
		r.FileType = *upd.FileType
		if *upd.FileType == model.FileTypeLarge {
			r.Payload = ""
		}
	}
	if upd.ExternalLink != nil {
		r.ExternalLink = *upd.ExternalLink
	}
	if upd.PhysicalCopies != nil {
		r.PhysicalCopies = *upd.PhysicalCopies
	}
	return nil
}

func (m *memCatalogRepo) Delete(_ context.Context, userUID int64, id uuid.UUID) error {
	for i, r := range m.records {
		if r.UserUID == userUID && r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (m *memCatalogRepo) Get(_ context.Context, userUID int64, id uuid.UUID) (*model.FileRecord, error) {
	r := m.find(userUID, id)
	if r == nil {
		return nil, errs.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memCatalogRepo) FetchAll(_ context.Context, userUID int64) (model.CatalogSnapshot, error) {
	snap := model.CatalogSnapshot{}
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].UserUID == userUID {
			snap.Records = append(snap.Records, *m.records[i])
		}
	}
	return snap, nil
}

func (m *memCatalogRepo) AdjustPhysicalCopies(_ context.Context, userUID int64, id uuid.UUID, delta int) (int, error) {
	r := m.find(userUID, id)
	if r == nil {
		return 0, errs.ErrNotFound
	}
	r.PhysicalCopies += delta
	if r.PhysicalCopies < 0 {
		r.PhysicalCopies = 0
	}
	return r.PhysicalCopies, nil
}

// ---- helpers ----

func newTestServer(t *testing.T) (http.Handler, *fakeRegistry, *memCatalogRepo) {
	t.Helper()
	reg := newFakeRegistry()
	repo := &memCatalogRepo{}
	srv := New(
		reg,
		service.NewCatalogService(repo, time.Second),
		service.NewUploadPipeline(repo, time.Second),
		zap.NewNop(),
	)
	return srv.Router(), reg, repo
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	decodeInto(t, w, &body)
	return body.Error.Code
}

func uploadRegular(t *testing.T, h http.Handler, token string, content []byte, req uploadRequest) recordDTO {
	t.Helper()
	req.FileType = "regular"
	req.Content = base64.StdEncoding.EncodeToString(content)
	w := doJSON(t, h, http.MethodPost, "/api/files", token, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: got %d, want 201: %s", w.Code, w.Body.String())
	}
	var rec recordDTO
	decodeInto(t, w, &rec)
	return rec
}

// ---- tests ----

func TestHealth(t *testing.T) {
	h, _, _ := newTestServer(t)
	w := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
}

func TestRegister(t *testing.T) {
	h, _, _ := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/register", "", registerRequest{Name: "Ann", Email: "ann@example.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201: %s", w.Code, w.Body.String())
	}
	var resp registerResponse
	decodeInto(t, w, &resp)
	if resp.UID != 1 {
		t.Fatalf("uid: got %d, want 1", resp.UID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, reg, _ := newTestServer(t)
	reg.registerErr = errs.ErrDuplicateEmail

	w := doJSON(t, h, http.MethodPost, "/api/register", "", registerRequest{Name: "Ann", Email: "ann@example.com"})
	if w.Code != http.StatusConflict {
		t.Fatalf("got %d, want 409", w.Code)
	}
	if code := errorCode(t, w); code != codeDuplicateEmail {
		t.Fatalf("code: got %q", code)
	}
}

func TestLogin(t *testing.T) {
	h, reg, _ := newTestServer(t)
	u, _ := reg.addUser("Ann", "ann@example.com")

	w := doJSON(t, h, http.MethodPost, "/api/login", "", loginRequest{UID: u.UID})
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp loginResponse
	decodeInto(t, w, &resp)
	if resp.Token == "" || resp.User.UID != u.UID || resp.User.Name != "Ann" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLoginUnknownUID(t *testing.T) {
	h, _, _ := newTestServer(t)
	w := doJSON(t, h, http.MethodPost, "/api/login", "", loginRequest{UID: 42})
	if w.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", w.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	h, reg, _ := newTestServer(t)
	reg.authErr = errs.ErrRateLimited

	w := doJSON(t, h, http.MethodPost, "/api/login", "", loginRequest{UID: 1})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want 429", w.Code)
	}
	if code := errorCode(t, w); code != codeRateLimited {
		t.Fatalf("code: got %q", code)
	}
}

func TestAuthRequired(t *testing.T) {
	h, _, _ := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/files", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: got %d, want 401", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/api/files", "bogus", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: got %d, want 401", w.Code)
	}
}

func TestUploadRegular(t *testing.T) {
	h, reg, repo := newTestServer(t)
	u, token := reg.addUser("Ann", "ann@example.com")

	content := []byte("hello vault")
	rec := uploadRegular(t, h, token, content, uploadRequest{
		Filename: "notes.txt",
		Category: "Docs",
		Tags:     []string{"a", " b "},
		Mime:     "text/plain",
	})

	if rec.ID == "" {
		t.Fatalf("missing record id")
	}
	if rec.FileType != "regular" {
		t.Fatalf("fileType: got %q", rec.FileType)
	}
	if want := string(codec.Encode(content, "text/plain")); rec.Payload != want {
		t.Fatalf("payload: got %q, want %q", rec.Payload, want)
	}
	if rec.UploadedBy.UID != u.UID || rec.UploadedBy.Name != "Ann" {
		t.Fatalf("uploadedBy: %+v", rec.UploadedBy)
	}
	if len(rec.Tags) != 2 || rec.Tags[1] != "b" {
		t.Fatalf("tags: %v", rec.Tags)
	}
	if len(repo.records) != 1 {
		t.Fatalf("stored records: %d", len(repo.records))
	}
}

func TestUploadTooLarge(t *testing.T) {
	h, reg, repo := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")

	content := make([]byte, service.MaxEmbeddedSize)
	w := doJSON(t, h, http.MethodPost, "/api/files", token, uploadRequest{
		Filename: "big.bin",
		Category: "Docs",
		FileType: "regular",
		Content:  base64.StdEncoding.EncodeToString(content),
	})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("got %d, want 413: %s", w.Code, w.Body.String())
	}
	if code := errorCode(t, w); code != codeFileTooLarge {
		t.Fatalf("code: got %q", code)
	}
	if len(repo.records) != 0 {
		t.Fatalf("rejected upload must not persist")
	}
}

func TestUploadBadBase64(t *testing.T) {
	h, reg, _ := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")

	w := doJSON(t, h, http.MethodPost, "/api/files", token, uploadRequest{
		Filename: "x", Category: "Docs", FileType: "regular", Content: "%%%not-base64%%%",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", w.Code)
	}
}

func TestUploadValidation(t *testing.T) {
	h, reg, _ := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")

	w := doJSON(t, h, http.MethodPost, "/api/files", token, uploadRequest{
		Filename: "", Category: "Docs", FileType: "regular", Content: base64.StdEncoding.EncodeToString([]byte("x")),
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400: %s", w.Code, w.Body.String())
	}
	if code := errorCode(t, w); code != codeValidationError {
		t.Fatalf("code: got %q", code)
	}
}

func TestUploadLargeLink(t *testing.T) {
	h, reg, _ := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")

	w := doJSON(t, h, http.MethodPost, "/api/files", token, uploadRequest{
		Filename:     "video",
		Category:     "Media",
		FileType:     "large",
		ExternalLink: "  https://cdn.example.com/v.mp4  ",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201: %s", w.Code, w.Body.String())
	}
	var rec recordDTO
	decodeInto(t, w, &rec)
	if rec.ExternalLink != "https://cdn.example.com/v.mp4" {
		t.Fatalf("link: got %q", rec.ExternalLink)
	}
	if rec.Payload != "" {
		t.Fatalf("large record must not carry a payload")
	}
}

func TestListFiltersAndDerivedSets(t *testing.T) {
	h, reg, _ := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")

	uploadRegular(t, h, token, []byte("a"), uploadRequest{Filename: "a.txt", Category: "Docs", Tags: []string{"tax"}, Mime: "text/plain"})
	uploadRegular(t, h, token, []byte("b"), uploadRequest{Filename: "b.txt", Category: "Media", Tags: []string{"fun"}, Mime: "text/plain"})
	w := doJSON(t, h, http.MethodPost, "/api/files", token, uploadRequest{
		Filename: "c", Category: "Media", FileType: "large", ExternalLink: "https://x/y",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("seed: got %d", w.Code)
	}

	cases := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?category=docs", 1},
		{"?category=Media", 2},
		{"?tag=tax", 1},
		{"?type=regular", 2},
		{"?type=large", 1},
		{"?category=media&type=large", 1},
		{"?category=nope", 0},
	}
	for _, tc := range cases {
		w := doJSON(t, h, http.MethodGet, "/api/files"+tc.query, token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%q: got %d", tc.query, w.Code)
		}
		var resp listResponse
		decodeInto(t, w, &resp)
		if len(resp.Files) != tc.want {
			t.Fatalf("%q: got %d files, want %d", tc.query, len(resp.Files), tc.want)
		}
		// Index sets come from the full snapshot regardless of the filter.
		if got := strings.Join(resp.Categories, ","); got != "docs,media" {
			t.Fatalf("%q: categories %q", tc.query, got)
		}
		if got := strings.Join(resp.Tags, ","); got != "fun,tax" {
			t.Fatalf("%q: tags %q", tc.query, got)
		}
	}
}

func TestGetAndBadID(t *testing.T) {
	h, reg, _ := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")
	rec := uploadRegular(t, h, token, []byte("x"), uploadRequest{Filename: "a", Category: "Docs", Mime: "text/plain"})

	w := doJSON(t, h, http.MethodGet, "/api/files/"+rec.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/api/files/not-a-uuid", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: got %d, want 400", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/api/files/"+uuid.Must(uuid.NewV4()).String(), token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("absent id: got %d, want 404", w.Code)
	}
}

func TestRecordsAreScopedToUser(t *testing.T) {
	h, reg, _ := newTestServer(t)
	_, annTok := reg.addUser("Ann", "ann@example.com")
	_, bobTok := reg.addUser("Bob", "bob@example.com")
	rec := uploadRegular(t, h, annTok, []byte("x"), uploadRequest{Filename: "a", Category: "Docs", Mime: "text/plain"})

	w := doJSON(t, h, http.MethodGet, "/api/files/"+rec.ID, bobTok, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign record: got %d, want 404", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/api/files", bobTok, nil)
	var resp listResponse
	decodeInto(t, w, &resp)
	if len(resp.Files) != 0 {
		t.Fatalf("foreign list: got %d files", len(resp.Files))
	}
}

func TestUpdatePartial(t *testing.T) {
	h, reg, _ := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")
	rec := uploadRegular(t, h, token, []byte("x"), uploadRequest{Filename: "a", Category: "Docs", Mime: "text/plain"})

	cat := "Archive"
	w := doJSON(t, h, http.MethodPatch, "/api/files/"+rec.ID, token, updateRequest{Category: &cat})
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", w.Code, w.Body.String())
	}
	var got recordDTO
	decodeInto(t, w, &got)
	if got.Category != "archive" {
		t.Fatalf("category: got %q", got.Category)
	}
	if got.Filename != "a" || got.Payload != rec.Payload {
		t.Fatalf("unnamed fields changed: %+v", got)
	}

	// Blanking the link via a patch that names only externalLink is rejected.
	empty := ""
	w = doJSON(t, h, http.MethodPatch, "/api/files/"+rec.ID, token, updateRequest{ExternalLink: &empty})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty link patch: got %d, want 400", w.Code)
	}
}

func TestUpdateSwitchToLarge(t *testing.T) {
	h, reg, _ := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")
	rec := uploadRegular(t, h, token, []byte("x"), uploadRequest{Filename: "a", Category: "Docs", Mime: "text/plain"})

	ft := "large"
	link := "https://cdn.example.com/a"
	w := doJSON(t, h, http.MethodPatch, "/api/files/"+rec.ID, token, updateRequest{FileType: &ft, ExternalLink: &link})
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", w.Code, w.Body.String())
	}
	var got recordDTO
	decodeInto(t, w, &got)
	if got.FileType != "large" || got.ExternalLink != link {
		t.Fatalf("switch: %+v", got)
	}
	if got.Payload != "" {
		t.Fatalf("payload must be dropped on switch")
	}

	// The reverse switch is rejected: content cannot be re-embedded.
	back := "regular"
	w = doJSON(t, h, http.MethodPatch, "/api/files/"+rec.ID, token, updateRequest{FileType: &back})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("switch back: got %d, want 400", w.Code)
	}
}

func TestDelete(t *testing.T) {
	h, reg, repo := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")
	rec := uploadRegular(t, h, token, []byte("x"), uploadRequest{Filename: "a", Category: "Docs", Mime: "text/plain"})

	w := doJSON(t, h, http.MethodDelete, "/api/files/"+rec.ID, token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("got %d, want 204", w.Code)
	}
	if len(repo.records) != 0 {
		t.Fatalf("record not removed")
	}
	w = doJSON(t, h, http.MethodDelete, "/api/files/"+rec.ID, token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: got %d, want 404", w.Code)
	}
}

func TestCopies(t *testing.T) {
	h, reg, _ := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")
	rec := uploadRegular(t, h, token, []byte("x"), uploadRequest{Filename: "a", Category: "Docs", Mime: "text/plain"})

	w := doJSON(t, h, http.MethodPost, "/api/files/"+rec.ID+"/copies", token, copiesRequest{Delta: 3})
	var resp copiesResponse
	decodeInto(t, w, &resp)
	if w.Code != http.StatusOK || resp.PhysicalCopies != 3 {
		t.Fatalf("got %d / %d", w.Code, resp.PhysicalCopies)
	}

	// Decrement below zero floors at zero.
	w = doJSON(t, h, http.MethodPost, "/api/files/"+rec.ID+"/copies", token, copiesRequest{Delta: -10})
	decodeInto(t, w, &resp)
	if resp.PhysicalCopies != 0 {
		t.Fatalf("floor: got %d, want 0", resp.PhysicalCopies)
	}
}

func TestPreviewText(t *testing.T) {
	h, reg, _ := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")
	rec := uploadRegular(t, h, token, []byte("some longer text body"), uploadRequest{Filename: "a.txt", Category: "Docs", Mime: "text/plain"})

	w := doJSON(t, h, http.MethodGet, "/api/files/"+rec.ID+"/preview", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", w.Code, w.Body.String())
	}
	var p struct {
		Kind    string `json:"kind"`
		Excerpt string `json:"excerpt"`
	}
	decodeInto(t, w, &p)
	if p.Kind != "text" || p.Excerpt != "some longer text body" {
		t.Fatalf("preview: %+v", p)
	}
}

func TestPreviewCorruptPayload(t *testing.T) {
	h, reg, repo := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")
	rec := uploadRegular(t, h, token, []byte("x"), uploadRequest{Filename: "a.txt", Category: "Docs", Mime: "text/plain"})

	repo.records[0].Payload = "data:text/plain;base64,!!!not-base64!!!"

	w := doJSON(t, h, http.MethodGet, "/api/files/"+rec.ID+"/preview", token, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422: %s", w.Code, w.Body.String())
	}
	if code := errorCode(t, w); code != codeMalformedPayload {
		t.Fatalf("code: got %q", code)
	}
}

func TestContentDownload(t *testing.T) {
	h, reg, _ := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")
	content := []byte("raw bytes here")
	rec := uploadRegular(t, h, token, content, uploadRequest{Filename: "a.bin", Category: "Docs", Mime: "application/pdf"})

	w := doJSON(t, h, http.MethodGet, "/api/files/"+rec.ID+"/content", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	if !bytes.Equal(w.Body.Bytes(), content) {
		t.Fatalf("body: got %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content-type: got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "a.bin") {
		t.Fatalf("content-disposition: got %q", cd)
	}
}

func TestContentRedirectsLargeRecords(t *testing.T) {
	h, reg, _ := newTestServer(t)
	_, token := reg.addUser("Ann", "ann@example.com")

	w := doJSON(t, h, http.MethodPost, "/api/files", token, uploadRequest{
		Filename: "v", Category: "Media", FileType: "large", ExternalLink: "https://cdn.example.com/v.mp4",
	})
	var rec recordDTO
	decodeInto(t, w, &rec)

	w = doJSON(t, h, http.MethodGet, "/api/files/"+rec.ID+"/content", token, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("got %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "https://cdn.example.com/v.mp4" {
		t.Fatalf("location: got %q", loc)
	}
}
