package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tgienger/taskboard/internal/collab"
	"github.com/tgienger/taskboard/internal/modal"
	"github.com/tgienger/taskboard/internal/view"
)

// Collaboration modes
const (
	CollabLocal = "local"
	CollabOff   = "off"
)

type Config struct {
	SeedPath      string
	LogFile       string
	LogLevel      string
	CloseDelay    time.Duration
	View          view.Type
	Collab        string
	MarkdownStyle string
	Identity      collab.Identity
}

// LoadConfig reads .env when present, then the environment
func LoadConfig() (*Config, error) {
	return load(".env")
}

func load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	logFile, err := defaultLogFile()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SeedPath:      getEnv("TASKBOARD_SEED", ""),
		LogFile:       getEnv("TASKBOARD_LOG_FILE", logFile),
		LogLevel:      getEnv("TASKBOARD_LOG_LEVEL", "info"),
		Collab:        strings.ToLower(getEnv("TASKBOARD_COLLAB", CollabLocal)),
		MarkdownStyle: getEnv("TASKBOARD_MD_STYLE", "dark"),
		Identity: collab.Identity{
			ID:             getEnv("TASKBOARD_USER_ID", "me"),
			Name:           getEnv("TASKBOARD_USER_NAME", getEnv("USER", "You")),
			Email:          getEnv("TASKBOARD_USER_EMAIL", ""),
			AvatarURL:      getEnv("TASKBOARD_USER_AVATAR", ""),
			OrganizationID: getEnv("TASKBOARD_ORG", "default"),
		},
	}

	cfg.CloseDelay, err = time.ParseDuration(getEnv("TASKBOARD_CLOSE_DELAY", modal.DefaultCloseDelay.String()))
	if err != nil {
		return nil, fmt.Errorf("TASKBOARD_CLOSE_DELAY: %w", err)
	}
	if cfg.CloseDelay < 0 {
		return nil, fmt.Errorf("TASKBOARD_CLOSE_DELAY: negative delay %s", cfg.CloseDelay)
	}

	cfg.View, err = view.Parse(getEnv("TASKBOARD_VIEW", string(view.Initial)))
	if err != nil {
		return nil, fmt.Errorf("TASKBOARD_VIEW: %w", err)
	}

	if cfg.Collab != CollabLocal && cfg.Collab != CollabOff {
		return nil, fmt.Errorf("TASKBOARD_COLLAB: unknown mode %q (want local or off)", cfg.Collab)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// defaultLogFile returns the log path under the XDG state directory
func defaultLogFile() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "taskboard", "debug.log"), nil
}
