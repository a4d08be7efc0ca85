package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeforge/internal/models"
)

// fakeContentsAPI emulates the repository contents endpoints: GET returns
// base64 content plus a sha, PUT stores and bumps the sha.
type fakeContentsAPI struct {
	mu    sync.Mutex
	docs  map[string][]byte
	shas  map[string]int
	calls int
}

func newFakeContentsAPI() *fakeContentsAPI {
	return &fakeContentsAPI{docs: make(map[string][]byte), shas: make(map[string]int)}
}

func (f *fakeContentsAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls++

		require.Equal(t, "token test-token", r.Header.Get("Authorization"))

		idx := strings.Index(r.URL.Path, "/contents/")
		require.NotEqual(t, -1, idx, "unexpected path %s", r.URL.Path)
		path := r.URL.Path[idx+len("/contents/"):]

		switch r.Method {
		case http.MethodGet:
			doc, ok := f.docs[path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"content": base64.StdEncoding.EncodeToString(doc),
				"sha":     fmt.Sprintf("sha-%d", f.shas[path]),
			})
		case http.MethodPut:
			var body struct {
				Content string `json:"content"`
				SHA     string `json:"sha"`
			}
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &body))
			doc, err := base64.StdEncoding.DecodeString(body.Content)
			require.NoError(t, err)
			f.docs[path] = doc
			f.shas[path]++
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func newTestGitHub(t *testing.T) (*GitHub, *fakeContentsAPI) {
	t.Helper()
	api := newFakeContentsAPI()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	store := NewGitHub(GitHubConfig{
		Token:   "test-token",
		Owner:   "acme",
		Repo:    "workspace",
		BaseURL: srv.URL,
	})
	return store, api
}

func TestGitHubProjectRoundTrip(t *testing.T) {
	store, _ := newTestGitHub(t)
	ctx := context.Background()

	created, err := store.CreateProject(ctx, models.Project{Name: "ide", UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	got, err := store.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ide", got.Name)

	second, err := store.CreateProject(ctx, models.Project{Name: "other", UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	list, err := store.GetProjectsByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)
}

func TestGitHubMissingDocumentIsEmptyCollection(t *testing.T) {
	store, _ := newTestGitHub(t)
	ctx := context.Background()

	_, err := store.GetUser(ctx, 1)
	require.ErrorIs(t, err, ErrUserNotFound)

	files, err := store.GetFilesByProjectID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestGitHubFileUpdate(t *testing.T) {
	store, _ := newTestGitHub(t)
	ctx := context.Background()

	file, err := store.CreateFile(ctx, models.File{Name: "a.js", Path: "src/a.js", Type: "file", ProjectID: 1})
	require.NoError(t, err)

	content := "body"
	updated, err := store.UpdateFile(ctx, file.ID, models.FileUpdate{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "body", updated.Content)

	byPath, err := store.GetFileByPath(ctx, 1, "src/a.js")
	require.NoError(t, err)
	assert.Equal(t, "body", byPath.Content)

	_, err = store.UpdateFile(ctx, 99, models.FileUpdate{Content: &content})
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestGitHubDeleteProjectCascades(t *testing.T) {
	store, _ := newTestGitHub(t)
	ctx := context.Background()

	project, err := store.CreateProject(ctx, models.Project{Name: "ide", UserID: 1})
	require.NoError(t, err)
	file, err := store.CreateFile(ctx, models.File{Name: "a.js", Path: "a.js", Type: "file", ProjectID: project.ID})
	require.NoError(t, err)

	require.NoError(t, store.DeleteProject(ctx, project.ID))

	_, err = store.GetProject(ctx, project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
	_, err = store.GetFile(ctx, file.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestGitHubChatMessages(t *testing.T) {
	store, _ := newTestGitHub(t)
	ctx := context.Background()

	_, err := store.CreateChatMessage(ctx, models.ChatMessage{ProjectID: 1, UserID: 1, Message: "first"})
	require.NoError(t, err)
	_, err = store.CreateChatMessage(ctx, models.ChatMessage{ProjectID: 1, UserID: 2, Message: "second"})
	require.NoError(t, err)

	msgs, err := store.GetChatMessages(ctx, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Message)
}
