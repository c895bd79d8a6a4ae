package learning

import (
	"encoding/json"
	"errors"

	"github.com/gokatarajesh/learnhub/internal/catalog/remote"
)

var (
	ErrThemeNotFound  = errors.New("theme not found")
	ErrCourseNotFound = errors.New("course not found")
	// ErrUpstream wraps failures of the learning platform API.
	ErrUpstream = errors.New("learning content unavailable")
)

// ThemeActive is the status of themes shown to learners.
const ThemeActive = 1

// Theme is a health-education theme. Quizzes point at one through theme_id.
type Theme struct {
	ID          remote.ID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImagePath   string    `json:"image_path"`
	Status      int       `json:"status"`
	CreatedAt   string    `json:"created_at,omitempty"`
	UpdatedAt   string    `json:"updated_at,omitempty"`
}

// Active reports whether the theme is available to learners.
func (t Theme) Active() bool { return t.Status == ThemeActive }

// Media is a document or video attached to a theme.
type Media struct {
	ID   remote.ID `json:"id"`
	Name string    `json:"name"`
	URL  string    `json:"url"`
}

// ThemeDetail is a theme together with its media.
type ThemeDetail struct {
	Theme
	Medias []Media `json:"medias"`
}

// Document is a course payload passed through from the platform unchanged.
type Document = json.RawMessage

type themeListEnvelope struct {
	Data   []Theme `json:"data"`
	Themes []Theme `json:"themes"`
}

type themeDetailEnvelope struct {
	Success bool `json:"success"`
	Data    *struct {
		Theme       *ThemeDetail `json:"theme"`
		ThemeMedias []Media      `json:"theme_medias"`
	} `json:"data"`
	Message string `json:"message"`
}
