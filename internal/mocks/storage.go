package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"codeforge/internal/models"
)

type StorageMock struct {
	mock.Mock
}

func (m *StorageMock) GetUser(ctx context.Context, id int) (models.User, error) {
	args := m.Called(ctx, id)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *StorageMock) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *StorageMock) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	var created models.User
	if val := args.Get(0); val != nil {
		created = val.(models.User)
	}
	return created, args.Error(1)
}

func (m *StorageMock) GetProject(ctx context.Context, id int) (models.Project, error) {
	args := m.Called(ctx, id)
	var project models.Project
	if val := args.Get(0); val != nil {
		project = val.(models.Project)
	}
	return project, args.Error(1)
}

func (m *StorageMock) GetProjectsByUserID(ctx context.Context, userID int) ([]models.Project, error) {
	args := m.Called(ctx, userID)
	var projects []models.Project
	if val := args.Get(0); val != nil {
		projects = val.([]models.Project)
	}
	return projects, args.Error(1)
}

func (m *StorageMock) CreateProject(ctx context.Context, project models.Project) (models.Project, error) {
	args := m.Called(ctx, project)
	var created models.Project
	if val := args.Get(0); val != nil {
		created = val.(models.Project)
	}
	return created, args.Error(1)
}

func (m *StorageMock) UpdateProject(ctx context.Context, id int, name, description string) (models.Project, error) {
	args := m.Called(ctx, id, name, description)
	var project models.Project
	if val := args.Get(0); val != nil {
		project = val.(models.Project)
	}
	return project, args.Error(1)
}

func (m *StorageMock) DeleteProject(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *StorageMock) GetFile(ctx context.Context, id int) (models.File, error) {
	args := m.Called(ctx, id)
	var file models.File
	if val := args.Get(0); val != nil {
		file = val.(models.File)
	}
	return file, args.Error(1)
}

func (m *StorageMock) GetFilesByProjectID(ctx context.Context, projectID int) ([]models.File, error) {
	args := m.Called(ctx, projectID)
	var files []models.File
	if val := args.Get(0); val != nil {
		files = val.([]models.File)
	}
	return files, args.Error(1)
}

func (m *StorageMock) GetFileByPath(ctx context.Context, projectID int, path string) (models.File, error) {
	args := m.Called(ctx, projectID, path)
	var file models.File
	if val := args.Get(0); val != nil {
		file = val.(models.File)
	}
	return file, args.Error(1)
}

func (m *StorageMock) CreateFile(ctx context.Context, file models.File) (models.File, error) {
	args := m.Called(ctx, file)
	var created models.File
	if val := args.Get(0); val != nil {
		created = val.(models.File)
	}
	return created, args.Error(1)
}

func (m *StorageMock) UpdateFile(ctx context.Context, id int, updates models.FileUpdate) (models.File, error) {
	args := m.Called(ctx, id, updates)
	var file models.File
	if val := args.Get(0); val != nil {
		file = val.(models.File)
	}
	return file, args.Error(1)
}

func (m *StorageMock) DeleteFile(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *StorageMock) GetCollaboratorsByProjectID(ctx context.Context, projectID int) ([]models.Collaborator, error) {
	args := m.Called(ctx, projectID)
	var collabs []models.Collaborator
	if val := args.Get(0); val != nil {
		collabs = val.([]models.Collaborator)
	}
	return collabs, args.Error(1)
}

func (m *StorageMock) AddCollaborator(ctx context.Context, collab models.Collaborator) (models.Collaborator, error) {
	args := m.Called(ctx, collab)
	var created models.Collaborator
	if val := args.Get(0); val != nil {
		created = val.(models.Collaborator)
	}
	return created, args.Error(1)
}

func (m *StorageMock) RemoveCollaborator(ctx context.Context, projectID, userID int) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *StorageMock) GetChatMessages(ctx context.Context, projectID int) ([]models.ChatMessage, error) {
	args := m.Called(ctx, projectID)
	var msgs []models.ChatMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.ChatMessage)
	}
	return msgs, args.Error(1)
}

func (m *StorageMock) CreateChatMessage(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	args := m.Called(ctx, msg)
	var created models.ChatMessage
	if val := args.Get(0); val != nil {
		created = val.(models.ChatMessage)
	}
	return created, args.Error(1)
}
