package storage

import (
	"context"
	"errors"

	"codeforge/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrFileNotFound         = errors.New("file not found")
	ErrCollaboratorNotFound = errors.New("collaborator not found")
)

// Storage is the uniform persistence surface behind the REST layer. The
// in-memory, SQL and GitHub-repository backends implement it
// interchangeably; main picks one based on which configuration is present.
type Storage interface {
	GetUser(ctx context.Context, id int) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	GetProject(ctx context.Context, id int) (models.Project, error)
	GetProjectsByUserID(ctx context.Context, userID int) ([]models.Project, error)
	CreateProject(ctx context.Context, project models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, id int, name, description string) (models.Project, error)
	DeleteProject(ctx context.Context, id int) error

	GetFile(ctx context.Context, id int) (models.File, error)
	GetFilesByProjectID(ctx context.Context, projectID int) ([]models.File, error)
	GetFileByPath(ctx context.Context, projectID int, path string) (models.File, error)
	CreateFile(ctx context.Context, file models.File) (models.File, error)
	UpdateFile(ctx context.Context, id int, updates models.FileUpdate) (models.File, error)
	DeleteFile(ctx context.Context, id int) error

	GetCollaboratorsByProjectID(ctx context.Context, projectID int) ([]models.Collaborator, error)
	AddCollaborator(ctx context.Context, collab models.Collaborator) (models.Collaborator, error)
	RemoveCollaborator(ctx context.Context, projectID, userID int) error

	GetChatMessages(ctx context.Context, projectID int) ([]models.ChatMessage, error)
	CreateChatMessage(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error)
}
