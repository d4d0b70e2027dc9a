// Package collab defines the contract for the optional collaboration layer:
// presence and per-task comment threads. Task management never depends on it.
package collab

import (
	"context"
	"errors"
	"fmt"

	"github.com/tgienger/taskboard/internal/models"
)

var (
	// ErrUnavailable is returned by a Session whose provider failed to start
	ErrUnavailable = errors.New("collaboration unavailable")
	// ErrNotBound is returned when a thread is used before a document is bound
	ErrNotBound = errors.New("no document bound")
	// ErrCommentNotFound is returned when replying to an unknown comment
	ErrCommentNotFound = errors.New("comment not found")
	// ErrEmptyComment is returned for blank comment text
	ErrEmptyComment = errors.New("comment text is empty")
)

// Identity describes the local user to the provider
type Identity struct {
	ID             string
	Name           string
	Email          string
	AvatarURL      string
	OrganizationID string
}

// User returns the identity as an active collaborator
func (id Identity) User() models.User {
	return models.User{
		ID:     id.ID,
		Name:   id.Name,
		Email:  id.Email,
		Avatar: id.AvatarURL,
		Status: models.UserActive,
	}
}

// Validate checks the fields a provider needs to identify the user
func (id Identity) Validate() error {
	if id.ID == "" {
		return errors.New("identity has no id")
	}
	if id.Name == "" {
		return fmt.Errorf("identity %s has no name", id.ID)
	}
	return nil
}

// DocumentKey scopes a collaboration document to one project of an organization
func DocumentKey(orgID, projectID string) string {
	if orgID == "" {
		orgID = "default"
	}
	return orgID + "/" + projectID
}

// AnchorKey is the key a task's comment thread is attached to
func AnchorKey(taskID string) string {
	return models.AnchorKey(taskID)
}

// Provider is implemented by collaboration backends
type Provider interface {
	Identify(ctx context.Context, id Identity) error
	BindDocument(ctx context.Context, key string) error
	Presence(ctx context.Context) ([]models.User, error)
	Thread(ctx context.Context, anchor string) ([]models.Comment, error)
	AddComment(ctx context.Context, anchor string, author models.User, text string) (models.Comment, error)
	Reply(ctx context.Context, anchor, parentID string, author models.User, text string) (models.Comment, error)
}
