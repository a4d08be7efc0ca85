package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"codeforge/internal/models"
)

// Memory is the default process-local backend.
type Memory struct {
	mu            sync.RWMutex
	users         map[int]models.User
	projects      map[int]models.Project
	files         map[int]models.File
	collaborators map[int]models.Collaborator
	messages      map[int]models.ChatMessage

	userID    int
	projectID int
	fileID    int
	collabID  int
	messageID int
}

// NewMemory creates an empty in-memory store seeded with a demo user so the
// default X-User-Id identity resolves.
func NewMemory() *Memory {
	m := &Memory{
		users:         make(map[int]models.User),
		projects:      make(map[int]models.Project),
		files:         make(map[int]models.File),
		collaborators: make(map[int]models.Collaborator),
		messages:      make(map[int]models.ChatMessage),
	}
	m.userID = 1
	m.users[1] = models.User{ID: 1, Username: "demo", Email: "demo@codeforge.dev", CreatedAt: time.Now()}
	return m
}

func (m *Memory) GetUser(ctx context.Context, id int) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (m *Memory) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userID++
	user.ID = m.userID
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *Memory) GetProject(ctx context.Context, id int) (models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	project, ok := m.projects[id]
	if !ok {
		return models.Project{}, ErrProjectNotFound
	}
	return project, nil
}

func (m *Memory) GetProjectsByUserID(ctx context.Context, userID int) ([]models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	projects := make([]models.Project, 0)
	for _, project := range m.projects {
		if project.UserID == userID {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (m *Memory) CreateProject(ctx context.Context, project models.Project) (models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projectID++
	project.ID = m.projectID
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Template == "" {
		project.Template = "blank"
	}
	m.projects[project.ID] = project
	return project, nil
}

func (m *Memory) UpdateProject(ctx context.Context, id int, name, description string) (models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	project, ok := m.projects[id]
	if !ok {
		return models.Project{}, ErrProjectNotFound
	}
	if name != "" {
		project.Name = name
	}
	project.Description = description
	project.UpdatedAt = time.Now()
	m.projects[id] = project
	return project, nil
}

func (m *Memory) DeleteProject(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return ErrProjectNotFound
	}
	delete(m.projects, id)
	for fid, file := range m.files {
		if file.ProjectID == id {
			delete(m.files, fid)
		}
	}
	for cid, collab := range m.collaborators {
		if collab.ProjectID == id {
			delete(m.collaborators, cid)
		}
	}
	for mid, msg := range m.messages {
		if msg.ProjectID == id {
			delete(m.messages, mid)
		}
	}
	return nil
}

func (m *Memory) GetFile(ctx context.Context, id int) (models.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	file, ok := m.files[id]
	if !ok {
		return models.File{}, ErrFileNotFound
	}
	return file, nil
}

func (m *Memory) GetFilesByProjectID(ctx context.Context, projectID int) ([]models.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	files := make([]models.File, 0)
	for _, file := range m.files {
		if file.ProjectID == projectID {
			files = append(files, file)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

func (m *Memory) GetFileByPath(ctx context.Context, projectID int, path string) (models.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, file := range m.files {
		if file.ProjectID == projectID && file.Path == path {
			return file, nil
		}
	}
	return models.File{}, ErrFileNotFound
}

func (m *Memory) CreateFile(ctx context.Context, file models.File) (models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fileID++
	file.ID = m.fileID
	now := time.Now()
	file.CreatedAt = now
	file.UpdatedAt = now
	m.files[file.ID] = file
	return file, nil
}

func (m *Memory) UpdateFile(ctx context.Context, id int, updates models.FileUpdate) (models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[id]
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
	m.files[id] = file
	return file, nil
}

func (m *Memory) DeleteFile(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[id]; !ok {
		return ErrFileNotFound
	}
	delete(m.files, id)
	return nil
}

func (m *Memory) GetCollaboratorsByProjectID(ctx context.Context, projectID int) ([]models.Collaborator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	collabs := make([]models.Collaborator, 0)
	for _, collab := range m.collaborators {
		if collab.ProjectID == projectID {
			collabs = append(collabs, collab)
		}
	}
	sort.Slice(collabs, func(i, j int) bool { return collabs[i].ID < collabs[j].ID })
	return collabs, nil
}

func (m *Memory) AddCollaborator(ctx context.Context, collab models.Collaborator) (models.Collaborator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collabID++
	collab.ID = m.collabID
	if collab.Role == "" {
		collab.Role = "viewer"
	}
	collab.CreatedAt = time.Now()
	m.collaborators[collab.ID] = collab
	return collab, nil
}

func (m *Memory) RemoveCollaborator(ctx context.Context, projectID, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, collab := range m.collaborators {
		if collab.ProjectID == projectID && collab.UserID == userID {
			delete(m.collaborators, id)
			return nil
		}
	}
	return ErrCollaboratorNotFound
}

func (m *Memory) GetChatMessages(ctx context.Context, projectID int) ([]models.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := make([]models.ChatMessage, 0)
	for _, msg := range m.messages {
		if msg.ProjectID == projectID {
			msgs = append(msgs, msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].ID < msgs[j].ID })
	return msgs, nil
}

func (m *Memory) CreateChatMessage(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messageID++
	msg.ID = m.messageID
	msg.CreatedAt = time.Now()
	m.messages[msg.ID] = msg
	return msg, nil
}

var _ Storage = (*Memory)(nil)
