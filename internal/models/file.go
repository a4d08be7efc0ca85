package models

import "time"

// File is a file or folder node inside a project tree.
type File struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Path      string    `db:"path" json:"path"`
	Content   string    `db:"content" json:"content"`
	Type      string    `db:"type" json:"type"` // "file" or "folder"
	ProjectID int       `db:"project_id" json:"project_id"`
	ParentID  *int      `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FileUpdate carries the mutable fields of a file for partial updates.
type FileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Path    *string `json:"path,omitempty"`
	Content *string `json:"content,omitempty"`
}
