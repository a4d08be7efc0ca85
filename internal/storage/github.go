package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"codeforge/internal/models"
)

const (
	usersPath         = "data/users.json"
	projectsPath      = "data/projects.json"
	filesPath         = "data/files.json"
	collaboratorsPath = "data/collaborators.json"
	chatMessagesPath  = "data/chat_messages.json"
)

// GitHubConfig selects the repository used as a JSON document store.
type GitHubConfig struct {
	Token string
	Owner string
	Repo  string
	// BaseURL overrides the API endpoint, primarily for tests.
	BaseURL string
	// HTTPClient defaults to a client with a 15s timeout.
	HTTPClient *http.Client
}

// GitHub persists every collection as one JSON document per aggregate in a
// repository, via the contents API. Writes are read-modify-write against
// the document sha, serialized through a process-local mutex.
type GitHub struct {
	cfg    GitHubConfig
	base   string
	client *http.Client
	mu     sync.Mutex
}

// NewGitHub builds the GitHub-backed store.
func NewGitHub(cfg GitHubConfig) *GitHub {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.github.com"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &GitHub{cfg: cfg, base: base, client: client}
}

type contentResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

func (g *GitHub) contentURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", g.base, g.cfg.Owner, g.cfg.Repo, path)
}

// getContent fetches a document and its sha. A missing document is not an
// error; it decodes as an empty collection.
func (g *GitHub) getContent(ctx context.Context, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.contentURL(path), nil)
	if err != nil {
		return nil, "", err
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("github get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("github get %s: status %d", path, resp.StatusCode)
	}

	var body contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "", fmt.Errorf("github get %s: %w", path, err)
	}
	raw, err := base64.StdEncoding.DecodeString(body.Content)
	if err != nil {
		return nil, "", fmt.Errorf("github decode %s: %w", path, err)
	}
	return raw, body.SHA, nil
}

func (g *GitHub) putContent(ctx context.Context, path string, data []byte, sha string) error {
	payload := map[string]string{
		"message": "Update " + path,
		"content": base64.StdEncoding.EncodeToString(data),
	}
	if sha != "" {
		payload["sha"] = sha
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentURL(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("github put %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("github put %s: status %d", path, resp.StatusCode)
	}
	return nil
}

func (g *GitHub) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "token "+g.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")
}

// Collections are stored as {"<id>": record} objects.
func loadCollection[T any](ctx context.Context, g *GitHub, path string) (map[string]T, string, error) {
	raw, sha, err := g.getContent(ctx, path)
	if err != nil {
		return nil, "", err
	}
	coll := make(map[string]T)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &coll); err != nil {
			return nil, "", fmt.Errorf("github parse %s: %w", path, err)
		}
	}
	return coll, sha, nil
}

func saveCollection[T any](ctx context.Context, g *GitHub, path string, coll map[string]T, sha string) error {
	data, err := json.MarshalIndent(coll, "", "  ")
	if err != nil {
		return err
	}
	return g.putContent(ctx, path, data, sha)
}

func nextID[T any](coll map[string]T) int {
	max := 0
	for key := range coll {
		if id, err := strconv.Atoi(key); err == nil && id > max {
			max = id
		}
	}
	return max + 1
}

func (g *GitHub) GetUser(ctx context.Context, id int) (models.User, error) {
	users, _, err := loadCollection[models.User](ctx, g, usersPath)
	if err != nil {
		return models.User{}, err
	}
	user, ok := users[strconv.Itoa(id)]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (g *GitHub) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	users, _, err := loadCollection[models.User](ctx, g, usersPath)
	if err != nil {
		return models.User{}, err
	}
	for _, user := range users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (g *GitHub) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	users, sha, err := loadCollection[models.User](ctx, g, usersPath)
	if err != nil {
		return models.User{}, err
	}
	user.ID = nextID(users)
	user.CreatedAt = time.Now()
	users[strconv.Itoa(user.ID)] = user
	return user, saveCollection(ctx, g, usersPath, users, sha)
}

func (g *GitHub) GetProject(ctx context.Context, id int) (models.Project, error) {
	projects, _, err := loadCollection[models.Project](ctx, g, projectsPath)
	if err != nil {
		return models.Project{}, err
	}
	project, ok := projects[strconv.Itoa(id)]
	if !ok {
		return models.Project{}, ErrProjectNotFound
	}
	return project, nil
}

func (g *GitHub) GetProjectsByUserID(ctx context.Context, userID int) ([]models.Project, error) {
	projects, _, err := loadCollection[models.Project](ctx, g, projectsPath)
	if err != nil {
		return nil, err
	}
	out := make([]models.Project, 0)
	for _, project := range projects {
		if project.UserID == userID {
			out = append(out, project)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *GitHub) CreateProject(ctx context.Context, project models.Project) (models.Project, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	projects, sha, err := loadCollection[models.Project](ctx, g, projectsPath)
	if err != nil {
		return models.Project{}, err
	}
	project.ID = nextID(projects)
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Template == "" {
		project.Template = "blank"
	}
	projects[strconv.Itoa(project.ID)] = project
	return project, saveCollection(ctx, g, projectsPath, projects, sha)
}

func (g *GitHub) UpdateProject(ctx context.Context, id int, name, description string) (models.Project, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	projects, sha, err := loadCollection[models.Project](ctx, g, projectsPath)
	if err != nil {
		return models.Project{}, err
	}
	project, ok := projects[strconv.Itoa(id)]
	if !ok {
		return models.Project{}, ErrProjectNotFound
	}
	if name != "" {
		project.Name = name
	}
	project.Description = description
	project.UpdatedAt = time.Now()
	projects[strconv.Itoa(id)] = project
	return project, saveCollection(ctx, g, projectsPath, projects, sha)
}

func (g *GitHub) DeleteProject(ctx context.Context, id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	projects, sha, err := loadCollection[models.Project](ctx, g, projectsPath)
	if err != nil {
		return err
	}
	if _, ok := projects[strconv.Itoa(id)]; !ok {
		return ErrProjectNotFound
	}
	delete(projects, strconv.Itoa(id))
	if err := saveCollection(ctx, g, projectsPath, projects, sha); err != nil {
		return err
	}

	// Dependent documents go too, same as the other backends.
	if err := pruneCollection(ctx, g, filesPath, func(f models.File) bool { return f.ProjectID == id }); err != nil {
		return err
	}
	if err := pruneCollection(ctx, g, collaboratorsPath, func(c models.Collaborator) bool { return c.ProjectID == id }); err != nil {
		return err
	}
	return pruneCollection(ctx, g, chatMessagesPath, func(m models.ChatMessage) bool { return m.ProjectID == id })
}

// pruneCollection removes every record matching drop and writes the
// document back, skipping the write when nothing matched.
func pruneCollection[T any](ctx context.Context, g *GitHub, path string, drop func(T) bool) error {
	coll, sha, err := loadCollection[T](ctx, g, path)
	if err != nil {
		return err
	}
	changed := false
	for key, record := range coll {
		if drop(record) {
			delete(coll, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return saveCollection(ctx, g, path, coll, sha)
}

func (g *GitHub) GetFile(ctx context.Context, id int) (models.File, error) {
	files, _, err := loadCollection[models.File](ctx, g, filesPath)
	if err != nil {
		return models.File{}, err
	}
	file, ok := files[strconv.Itoa(id)]
	if !ok {
		return models.File{}, ErrFileNotFound
	}
	return file, nil
}

func (g *GitHub) GetFilesByProjectID(ctx context.Context, projectID int) ([]models.File, error) {
	files, _, err := loadCollection[models.File](ctx, g, filesPath)
	if err != nil {
		return nil, err
	}
	out := make([]models.File, 0)
	for _, file := range files {
		if file.ProjectID == projectID {
			out = append(out, file)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *GitHub) GetFileByPath(ctx context.Context, projectID int, path string) (models.File, error) {
	files, _, err := loadCollection[models.File](ctx, g, filesPath)
	if err != nil {
		return models.File{}, err
	}
	for _, file := range files {
		if file.ProjectID == projectID && file.Path == path {
			return file, nil
		}
	}
	return models.File{}, ErrFileNotFound
}

func (g *GitHub) CreateFile(ctx context.Context, file models.File) (models.File, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	files, sha, err := loadCollection[models.File](ctx, g, filesPath)
	if err != nil {
		return models.File{}, err
	}
	file.ID = nextID(files)
	now := time.Now()
	file.CreatedAt = now
	file.UpdatedAt = now
	files[strconv.Itoa(file.ID)] = file
	return file, saveCollection(ctx, g, filesPath, files, sha)
}

func (g *GitHub) UpdateFile(ctx context.Context, id int, updates models.FileUpdate) (models.File, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	files, sha, err := loadCollection[models.File](ctx, g, filesPath)
	if err != nil {
		return models.File{}, err
	}
	file, ok := files[strconv.Itoa(id)]
	if !ok {
		return models.File{}, ErrFileNotFound
	}
	if updates.Name != nil {
		file.Name = *updates.Name
	}
	if updates.Path != nil {
		file.Path = *updates.Path
	}
	if updates.Content != nil {
		file.Content = *updates.Content
	}
	file.UpdatedAt = time.Now()
	files[strconv.Itoa(id)] = file
	return file, saveCollection(ctx, g, filesPath, files, sha)
}

func (g *GitHub) DeleteFile(ctx context.Context, id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	files, sha, err := loadCollection[models.File](ctx, g, filesPath)
	if err != nil {
		return err
	}
	if _, ok := files[strconv.Itoa(id)]; !ok {
		return ErrFileNotFound
	}
	delete(files, strconv.Itoa(id))
	return saveCollection(ctx, g, filesPath, files, sha)
}

func (g *GitHub) GetCollaboratorsByProjectID(ctx context.Context, projectID int) ([]models.Collaborator, error) {
	collabs, _, err := loadCollection[models.Collaborator](ctx, g, collaboratorsPath)
	if err != nil {
		return nil, err
	}
	out := make([]models.Collaborator, 0)
	for _, collab := range collabs {
		if collab.ProjectID == projectID {
			out = append(out, collab)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *GitHub) AddCollaborator(ctx context.Context, collab models.Collaborator) (models.Collaborator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	collabs, sha, err := loadCollection[models.Collaborator](ctx, g, collaboratorsPath)
	if err != nil {
		return models.Collaborator{}, err
	}
	collab.ID = nextID(collabs)
	if collab.Role == "" {
		collab.Role = "viewer"
	}
	collab.CreatedAt = time.Now()
	collabs[strconv.Itoa(collab.ID)] = collab
	return collab, saveCollection(ctx, g, collaboratorsPath, collabs, sha)
}

func (g *GitHub) RemoveCollaborator(ctx context.Context, projectID, userID int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	collabs, sha, err := loadCollection[models.Collaborator](ctx, g, collaboratorsPath)
	if err != nil {
		return err
	}
	for key, collab := range collabs {
		if collab.ProjectID == projectID && collab.UserID == userID {
			delete(collabs, key)
			return saveCollection(ctx, g, collaboratorsPath, collabs, sha)
		}
	}
	return ErrCollaboratorNotFound
}

func (g *GitHub) GetChatMessages(ctx context.Context, projectID int) ([]models.ChatMessage, error) {
	msgs, _, err := loadCollection[models.ChatMessage](ctx, g, chatMessagesPath)
	if err != nil {
		return nil, err
	}
	out := make([]models.ChatMessage, 0)
	for _, msg := range msgs {
		if msg.ProjectID == projectID {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *GitHub) CreateChatMessage(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	msgs, sha, err := loadCollection[models.ChatMessage](ctx, g, chatMessagesPath)
	if err != nil {
		return models.ChatMessage{}, err
	}
	msg.ID = nextID(msgs)
	msg.CreatedAt = time.Now()
	msgs[strconv.Itoa(msg.ID)] = msg
	return msg, saveCollection(ctx, g, chatMessagesPath, msgs, sha)
}

var _ Storage = (*GitHub)(nil)
