package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"codeforge/internal/models"
)

// SQL is the sqlx-backed store. It works against Postgres (lib/pq) and
// SQLite (mattn/go-sqlite3); queries are written with ? placeholders and
// rebound per driver.
type SQL struct {
	db *sqlx.DB
}

// NewSQL wraps an open sqlx handle.
func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) GetUser(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, s.db.Rebind(`SELECT * FROM users WHERE id=?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (s *SQL) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, s.db.Rebind(`SELECT * FROM users WHERE username=?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (s *SQL) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := s.db.Rebind(`INSERT INTO users (username, email, password, created_at) VALUES (?, ?, ?, ?) RETURNING id, created_at`)
	err := s.db.QueryRowxContext(ctx, query, user.Username, user.Email, user.Password, time.Now()).
		Scan(&user.ID, &user.CreatedAt)
	return user, err
}

func (s *SQL) GetProject(ctx context.Context, id int) (models.Project, error) {
	var project models.Project
	err := s.db.GetContext(ctx, &project, s.db.Rebind(`SELECT * FROM projects WHERE id=?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, ErrProjectNotFound
	}
	return project, err
}

func (s *SQL) GetProjectsByUserID(ctx context.Context, userID int) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	err := s.db.SelectContext(ctx, &projects, s.db.Rebind(`SELECT * FROM projects WHERE user_id=? ORDER BY id`), userID)
	return projects, err
}

func (s *SQL) CreateProject(ctx context.Context, project models.Project) (models.Project, error) {
	if project.Template == "" {
		project.Template = "blank"
	}
	now := time.Now()
	query := s.db.Rebind(`INSERT INTO projects (name, description, template, user_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?) RETURNING id, created_at, updated_at`)
	err := s.db.QueryRowxContext(ctx, query, project.Name, project.Description, project.Template, project.UserID, now, now).
		Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	return project, err
}

func (s *SQL) UpdateProject(ctx context.Context, id int, name, description string) (models.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if name != "" {
		project.Name = name
	}
	project.Description = description
	project.UpdatedAt = time.Now()
	query := s.db.Rebind(`UPDATE projects SET name=?, description=?, updated_at=? WHERE id=?`)
	_, err = s.db.ExecContext(ctx, query, project.Name, project.Description, project.UpdatedAt, id)
	return project, err
}

func (s *SQL) DeleteProject(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM projects WHERE id=?`), id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (s *SQL) GetFile(ctx context.Context, id int) (models.File, error) {
	var file models.File
	err := s.db.GetContext(ctx, &file, s.db.Rebind(`SELECT * FROM files WHERE id=?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.File{}, ErrFileNotFound
	}
	return file, err
}

func (s *SQL) GetFilesByProjectID(ctx context.Context, projectID int) ([]models.File, error) {
	files := make([]models.File, 0)
	err := s.db.SelectContext(ctx, &files, s.db.Rebind(`SELECT * FROM files WHERE project_id=? ORDER BY id`), projectID)
	return files, err
}

func (s *SQL) GetFileByPath(ctx context.Context, projectID int, path string) (models.File, error) {
	var file models.File
	err := s.db.GetContext(ctx, &file, s.db.Rebind(`SELECT * FROM files WHERE project_id=? AND path=?`), projectID, path)
	if errors.Is(err, sql.ErrNoRows) {
		return models.File{}, ErrFileNotFound
	}
	return file, err
}

func (s *SQL) CreateFile(ctx context.Context, file models.File) (models.File, error) {
	now := time.Now()
	query := s.db.Rebind(`INSERT INTO files (name, path, content, type, project_id, parent_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id, created_at, updated_at`)
	err := s.db.QueryRowxContext(ctx, query, file.Name, file.Path, file.Content, file.Type, file.ProjectID, file.ParentID, now, now).
		Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)
	return file, err
}

func (s *SQL) UpdateFile(ctx context.Context, id int, updates models.FileUpdate) (models.File, error) {
	file, err := s.GetFile(ctx, id)
	if err != nil {
		return models.File{}, err
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
	query := s.db.Rebind(`UPDATE files SET name=?, path=?, content=?, updated_at=? WHERE id=?`)
	_, err = s.db.ExecContext(ctx, query, file.Name, file.Path, file.Content, file.UpdatedAt, id)
	return file, err
}

func (s *SQL) DeleteFile(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM files WHERE id=?`), id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (s *SQL) GetCollaboratorsByProjectID(ctx context.Context, projectID int) ([]models.Collaborator, error) {
	collabs := make([]models.Collaborator, 0)
	err := s.db.SelectContext(ctx, &collabs, s.db.Rebind(`SELECT * FROM collaborators WHERE project_id=? ORDER BY id`), projectID)
	return collabs, err
}

func (s *SQL) AddCollaborator(ctx context.Context, collab models.Collaborator) (models.Collaborator, error) {
	if collab.Role == "" {
		collab.Role = "viewer"
	}
	query := s.db.Rebind(`INSERT INTO collaborators (project_id, user_id, role, created_at) VALUES (?, ?, ?, ?) RETURNING id, created_at`)
	err := s.db.QueryRowxContext(ctx, query, collab.ProjectID, collab.UserID, collab.Role, time.Now()).
		Scan(&collab.ID, &collab.CreatedAt)
	return collab, err
}

func (s *SQL) RemoveCollaborator(ctx context.Context, projectID, userID int) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM collaborators WHERE project_id=? AND user_id=?`), projectID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCollaboratorNotFound
	}
	return nil
}

func (s *SQL) GetChatMessages(ctx context.Context, projectID int) ([]models.ChatMessage, error) {
	msgs := make([]models.ChatMessage, 0)
	err := s.db.SelectContext(ctx, &msgs, s.db.Rebind(`SELECT * FROM chat_messages WHERE project_id=? ORDER BY created_at ASC`), projectID)
	return msgs, err
}

func (s *SQL) CreateChatMessage(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	query := s.db.Rebind(`INSERT INTO chat_messages (project_id, user_id, message, created_at) VALUES (?, ?, ?, ?) RETURNING id, created_at`)
	err := s.db.QueryRowxContext(ctx, query, msg.ProjectID, msg.UserID, msg.Message, time.Now()).
		Scan(&msg.ID, &msg.CreatedAt)
	return msg, err
}

var _ Storage = (*SQL)(nil)
