// Package seed loads the dataset the store starts from
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tgienger/taskboard/internal/models"
)

//go:embed seed.toml
var defaultSeed []byte

// Dataset is everything a session starts with
type Dataset struct {
	Users       []models.User
	ActiveUsers []models.User
	Projects    []models.Project
	Tasks       []models.Task
}

// User looks up a user by id
func (d Dataset) User(id string) (models.User, bool) {
	for _, u := range d.Users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

type file struct {
	ActiveUsers []string         `toml:"active_users"`
	Users       []models.User    `toml:"users"`
	Projects    []models.Project `toml:"projects"`
	Tasks       []models.Task    `toml:"tasks"`
}

// Option configures loading
type Option func(*loader)

type loader struct {
	logger zerolog.Logger
}

// WithLogger sets the logger used for dataset warnings
func WithLogger(l zerolog.Logger) Option {
	return func(ld *loader) { ld.logger = l }
}

// Default returns the embedded dataset
func Default(opts ...Option) (Dataset, error) {
	return Load(bytes.NewReader(defaultSeed), opts...)
}

// LoadFile reads a dataset from path
func LoadFile(path string, opts ...Option) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()

	ds, err := Load(f, opts...)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Load decodes a TOML dataset and resolves user references. Unknown users,
// statuses and priorities are errors; a task whose project does not exist is
// kept and logged, since views simply never show it.
func Load(r io.Reader, opts ...Option) (Dataset, error) {
	ld := loader{logger: log.Logger}
	for _, opt := range opts {
		opt(&ld)
	}

	var raw file
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return Dataset{}, fmt.Errorf("decode seed: %w", err)
	}
	return ld.resolve(raw)
}

func (ld loader) resolve(raw file) (Dataset, error) {
	users := make(map[string]models.User, len(raw.Users))
	for _, u := range raw.Users {
		if u.ID == "" {
			return Dataset{}, fmt.Errorf("user %q has no id", u.Name)
		}
		if _, dup := users[u.ID]; dup {
			return Dataset{}, fmt.Errorf("duplicate user id %q", u.ID)
		}
		if u.Status == "" {
			u.Status = models.UserOffline
		}
		users[u.ID] = u
	}

	ds := Dataset{
		Users:    raw.Users,
		Projects: raw.Projects,
		Tasks:    make([]models.Task, 0, len(raw.Tasks)),
	}
	for i := range ds.Users {
		ds.Users[i] = users[ds.Users[i].ID]
	}

	for _, id := range raw.ActiveUsers {
		u, ok := users[id]
		if !ok {
			return Dataset{}, fmt.Errorf("active user %q is not defined", id)
		}
		ds.ActiveUsers = append(ds.ActiveUsers, u)
	}

	projects := make(map[string]bool, len(raw.Projects))
	for _, p := range raw.Projects {
		if p.ID == "" {
			return Dataset{}, fmt.Errorf("project %q has no id", p.Name)
		}
		if projects[p.ID] {
			return Dataset{}, fmt.Errorf("duplicate project id %q", p.ID)
		}
		projects[p.ID] = true
	}

	seen := make(map[string]bool, len(raw.Tasks))
	for _, t := range raw.Tasks {
		if t.ID == "" {
			return Dataset{}, fmt.Errorf("task %q has no id", t.Title)
		}
		if seen[t.ID] {
			return Dataset{}, fmt.Errorf("duplicate task id %q", t.ID)
		}
		seen[t.ID] = true

		task, err := ld.resolveTask(t, users)
		if err != nil {
			return Dataset{}, fmt.Errorf("task %s: %w", t.ID, err)
		}
		if !projects[task.ProjectID] {
			ld.logger.Warn().Str("task", task.ID).Str("project", task.ProjectID).Msg("task references unknown project")
		}
		ds.Tasks = append(ds.Tasks, task)
	}

	ld.logger.Debug().
		Int("users", len(ds.Users)).
		Int("projects", len(ds.Projects)).
		Int("tasks", len(ds.Tasks)).
		Msg("seed loaded")
	return ds, nil
}

func (ld loader) resolveTask(t models.Task, users map[string]models.User) (models.Task, error) {
	status, err := models.ParseStatus(string(t.Status))
	if err != nil {
		return t, err
	}
	t.Status = status

	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	priority, err := models.ParsePriority(string(t.Priority))
	if err != nil {
		return t, err
	}
	t.Priority = priority

	if t.AssigneeID != "" {
		u, ok := users[t.AssigneeID]
		if !ok {
			return t, fmt.Errorf("unknown assignee %q", t.AssigneeID)
		}
		t.Assignee = &u
	}

	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}

	for i := range t.Comments {
		if err := resolveComment(&t.Comments[i], users); err != nil {
			return t, err
		}
		for j := range t.Comments[i].Replies {
			reply := &t.Comments[i].Replies[j]
			if len(reply.Replies) > 0 {
				return t, fmt.Errorf("reply %s has replies of its own", reply.ID)
			}
			if err := resolveComment(reply, users); err != nil {
				return t, err
			}
		}
	}
	return t, nil
}

func resolveComment(c *models.Comment, users map[string]models.User) error {
	u, ok := users[c.AuthorID]
	if !ok {
		return fmt.Errorf("comment %s: unknown author %q", c.ID, c.AuthorID)
	}
	c.Author = u
	return nil
}
