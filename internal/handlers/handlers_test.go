package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/shelf/internal/config"
	"github.com/joshua-takyi/shelf/internal/container"
	"github.com/joshua-takyi/shelf/internal/middleware"
	"github.com/joshua-takyi/shelf/internal/models"
	"github.com/joshua-takyi/shelf/internal/routes"
)

type client struct {
	t       *testing.T
	router  *gin.Engine
	session *http.Cookie
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func newClient(t *testing.T) (*client, models.KVStore) {
	return newClientWithConfig(t, &config.Config{
		Environment:    "test",
		StorageBackend: config.BackendMemory,
		SessionTTL:     time.Hour,
		AllowedOrigins: []string{"http://localhost:3000"},
	})
}

func newClientWithConfig(t *testing.T, cfg *config.Config) (*client, models.KVStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := models.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := container.NewContainer(cfg, logger, store, nil)
	return &client{t: t, router: routes.SetupRoutes(c)}, store
}

func (c *client) do(method, path string, body interface{}) (int, envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

func (c *client) send(req *http.Request) (int, envelope) {
	c.t.Helper()
	if c.session != nil {
		req.AddCookie(c.session)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			c.session = ck
		}
	}

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			c.t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, env
}

type screenView struct {
	Profile     models.UserProfile `json:"profile"`
	Error       string             `json:"error"`
	DeleteState string             `json:"delete_state"`
}

func decodeScreen(t *testing.T, env envelope) screenView {
	t.Helper()
	var v screenView
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestHealth(t *testing.T) {
	c, _ := newClient(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestProfileEditSaveFlow(t *testing.T) {
	c, store := newClient(t)

	code, env := c.do(http.MethodGet, "/", nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if v := decodeScreen(t, env); !v.Profile.DarkMode || v.Profile.Language != models.LanguageEnglish {
		t.Errorf("unexpected default profile %+v", v.Profile)
	}

	code, env = c.do(http.MethodPost, "/save", nil)
	if code != http.StatusUnprocessableEntity || env.Code != string(models.MissingField) {
		t.Fatalf("expected missing field rejection, got %d %+v", code, env)
	}
	if v := decodeScreen(t, env); v.Error == "" {
		t.Error("expected inline error on the screen")
	}

	code, _ = c.do(http.MethodPatch, "/", map[string]interface{}{
		"name":            "Laila",
		"email":           "laila@example.com",
		"phone":           "1234567890",
		"address":         "Alexandria",
		"gender":          "female",
		"dob":             "1995-03-04",
		"passwordNew":     "longenough1",
		"passwordConfirm": "longenough1",
		"social":          map[string]string{"facebook": "https://fb.example/laila"},
	})
	if code != http.StatusOK {
		t.Fatalf("edit failed with %d", code)
	}

	code, env = c.do(http.MethodPost, "/save", nil)
	if code != http.StatusOK {
		t.Fatalf("save failed with %d: %+v", code, env)
	}
	v := decodeScreen(t, env)
	if v.Profile.PasswordNew != "" || v.Profile.PasswordConfirm != "" {
		t.Error("passwords should be cleared after save")
	}

	raw, found, _ := store.Get(context.Background(), models.ProfileKey)
	if !found {
		t.Fatal("profile not persisted")
	}
	var stored models.UserProfile
	_ = json.Unmarshal([]byte(raw), &stored)
	if stored.Name != "Laila" || stored.PasswordNew != "" || stored.Social["facebook"] != "https://fb.example/laila" {
		t.Errorf("unexpected stored profile %+v", stored)
	}
}

func TestProfileRejectsMismatchedPasswords(t *testing.T) {
	c, _ := newClient(t)
	c.do(http.MethodPatch, "/", map[string]interface{}{
		"name": "A", "email": "a@b.com", "phone": "1234567890", "address": "x",
		"gender": "other", "dob": "2000-01-01",
		"passwordNew": "longenough1", "passwordConfirm": "longenough2",
	})
	code, env := c.do(http.MethodPost, "/save", nil)
	if code != http.StatusUnprocessableEntity || env.Code != string(models.PasswordMismatch) {
		t.Fatalf("expected mismatch, got %d %+v", code, env)
	}
}

func TestTwoStepDeleteOverHTTP(t *testing.T) {
	c, store := newClient(t)
	_ = store.Set(context.Background(), models.ProfileKey, `{"name":"Omar"}`)

	_, env := c.do(http.MethodPost, "/delete", nil)
	var first struct {
		Outcome string     `json:"outcome"`
		Screen  screenView `json:"screen"`
	}
	_ = json.Unmarshal(env.Data, &first)
	if first.Outcome != "armed" || first.Screen.DeleteState != "armed" {
		t.Fatalf("expected armed, got %+v", first)
	}
	if _, found, _ := store.Get(context.Background(), models.ProfileKey); !found {
		t.Fatal("first delete must not erase")
	}

	_, env = c.do(http.MethodPost, "/delete", nil)
	var second struct {
		Outcome string `json:"outcome"`
	}
	_ = json.Unmarshal(env.Data, &second)
	if second.Outcome != "erased" {
		t.Fatalf("expected erased, got %+v", second)
	}
	if _, found, _ := store.Get(context.Background(), models.ProfileKey); found {
		t.Error("second delete should erase the profile")
	}
}

func TestDeleteConfirmationIsPerSession(t *testing.T) {
	a, store := newClient(t)
	_ = store.Set(context.Background(), models.ProfileKey, `{"name":"Omar"}`)
	a.do(http.MethodPost, "/delete", nil)

	b := &client{t: t, router: a.router}
	_, env := b.do(http.MethodPost, "/delete", nil)
	var out struct {
		Outcome string `json:"outcome"`
	}
	_ = json.Unmarshal(env.Data, &out)
	if out.Outcome != "armed" {
		t.Fatalf("a fresh session should only arm, got %q", out.Outcome)
	}
}

type boardEntry struct {
	ID      int             `json:"id"`
	Title   string          `json:"title"`
	Reviews []models.Review `json:"reviews"`
	Summary struct {
		TotalCount int `json:"total_count"`
	} `json:"summary"`
}

func TestReviewBoardFlow(t *testing.T) {
	c, _ := newClient(t)

	code, env := c.do(http.MethodGet, "/reviews", nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	var board []boardEntry
	if err := json.Unmarshal(env.Data, &board); err != nil {
		t.Fatal(err)
	}
	if len(board) != 5 {
		t.Fatalf("expected 5 items, got %d", len(board))
	}
	for i, it := range board {
		if it.Title != models.SeedCatalog()[i].Title || len(it.Reviews) != 0 {
			t.Errorf("unexpected item %d: %+v", i, it)
		}
	}

	code, env = c.do(http.MethodPost, "/reviews/3/reviews", map[string]interface{}{"text": "Great book", "rating": 5})
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %+v", code, env)
	}
	var review models.Review
	_ = json.Unmarshal(env.Data, &review)
	if review.User != models.GuestName {
		t.Errorf("expected guest author, got %q", review.User)
	}

	code, env = c.do(http.MethodPost, "/reviews/3/reviews", map[string]interface{}{"text": "  ", "rating": 5})
	if code != http.StatusUnprocessableEntity || env.Code != string(models.EmptyComment) {
		t.Fatalf("expected empty comment rejection, got %d %+v", code, env)
	}

	code, _ = c.do(http.MethodPost, "/reviews/77/reviews", map[string]interface{}{"text": "x", "rating": 2})
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown item, got %d", code)
	}

	code, env = c.do(http.MethodDelete, "/reviews/3/reviews/1", nil)
	if code != http.StatusOK {
		t.Fatalf("deleting an unknown review should succeed, got %d", code)
	}
	_ = json.Unmarshal(env.Data, &board)
	if board[2].Summary.TotalCount != 1 {
		t.Errorf("unknown review delete changed the item: %+v", board[2])
	}

	path := "/reviews/3/reviews/" + jsonNumber(review.ID)
	code, env = c.do(http.MethodDelete, path, nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	_ = json.Unmarshal(env.Data, &board)
	if len(board[2].Reviews) != 0 {
		t.Errorf("review should be deleted, got %+v", board[2].Reviews)
	}
}

func TestReviewDraftOverHTTP(t *testing.T) {
	c, _ := newClient(t)

	code, env := c.do(http.MethodPut, "/reviews/2/draft", map[string]interface{}{"text": "Loved it", "rating": 0})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	code, env = c.do(http.MethodPost, "/reviews/2/draft/submit", nil)
	if code != http.StatusUnprocessableEntity || env.Code != string(models.NoRatingSelected) {
		t.Fatalf("expected no rating rejection, got %d %+v", code, env)
	}

	c.do(http.MethodPut, "/reviews/2/draft", map[string]interface{}{"text": "Loved it", "rating": 4})
	code, _ = c.do(http.MethodPost, "/reviews/2/draft/submit", nil)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}

	_, env = c.do(http.MethodGet, "/reviews", nil)
	var board []struct {
		Reviews []models.Review `json:"reviews"`
		Draft   *struct {
			Text string `json:"text"`
		} `json:"draft"`
	}
	_ = json.Unmarshal(env.Data, &board)
	if len(board[1].Reviews) != 1 || board[1].Draft != nil {
		t.Errorf("submitted draft should be stored and cleared: %+v", board[1])
	}
}

func TestReviewBoardDisarmsDeleteWhenConfigured(t *testing.T) {
	tests := []struct {
		name         string
		disarmOnExit bool
		want         string
	}{
		{"confirmation kept", false, "armed"},
		{"confirmation disarmed", true, "idle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newClientWithConfig(t, &config.Config{
				Environment:        "test",
				StorageBackend:     config.BackendMemory,
				SessionTTL:         time.Hour,
				AllowedOrigins:     []string{"http://localhost:3000"},
				DisarmDeleteOnExit: tt.disarmOnExit,
			})
			c.do(http.MethodPost, "/delete", nil)
			if code, _ := c.do(http.MethodGet, "/reviews", nil); code != http.StatusOK {
				t.Fatalf("expected 200, got %d", code)
			}
			_, env := c.do(http.MethodGet, "/", nil)
			if v := decodeScreen(t, env); v.DeleteState != tt.want {
				t.Errorf("expected %q, got %q", tt.want, v.DeleteState)
			}
		})
	}
}

func TestDraftForUnknownItemIsRejected(t *testing.T) {
	c, _ := newClient(t)

	code, env := c.do(http.MethodPut, "/reviews/424242/draft", map[string]interface{}{"text": "x", "rating": 3})
	if code != http.StatusNotFound || env.Success {
		t.Fatalf("expected 404, got %d %+v", code, env)
	}
	code, _ = c.do(http.MethodPost, "/reviews/424242/draft/submit", nil)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}

	_, env = c.do(http.MethodGet, "/reviews", nil)
	var board []struct {
		ID    int             `json:"id"`
		Draft json.RawMessage `json:"draft"`
	}
	_ = json.Unmarshal(env.Data, &board)
	for _, it := range board {
		if it.Draft != nil {
			t.Errorf("item %d should have no draft", it.ID)
		}
	}
}

func TestAvatarUploadSetsDataURI(t *testing.T) {
	c, _ := newClient(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte("png-bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	code, env := c.send(req)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %+v", code, env)
	}
	if v := decodeScreen(t, env); v.Profile.Avatar != "data:image/png;base64,cG5nLWJ5dGVz" {
		t.Errorf("unexpected avatar %q", v.Profile.Avatar)
	}
}

func jsonNumber(n int64) string {
	data, _ := json.Marshal(n)
	return string(data)
}
