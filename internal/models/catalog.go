package models

type Service struct {
	ID              string  `json:"id" yaml:"id"`
	Name            string  `json:"name" yaml:"name"`
	Description     string  `json:"description" yaml:"description"`
	Price           float64 `json:"price" yaml:"price"`
	DurationMinutes int     `json:"duration_minutes" yaml:"duration_minutes"`
	ImageURL        string  `json:"image_url" yaml:"image_url"`
}

type Barber struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Bio         string   `json:"bio" yaml:"bio"`
	AvatarURL   string   `json:"avatar_url" yaml:"avatar_url"`
	Rating      float64  `json:"rating" yaml:"rating"`
	Specialties []string `json:"specialties" yaml:"specialties"`
}

type Announcement struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Message  string `json:"message" yaml:"message"`
	Date     string `json:"date" yaml:"date"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url"`
}
