package models

type User struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Email         string `json:"email" yaml:"email"`
	Phone         string `json:"phone,omitempty" yaml:"phone"`
	AvatarURL     string `json:"avatar_url,omitempty" yaml:"avatar_url"`
	Role          string `json:"role" yaml:"role"` // CLIENT, BARBER, ADMIN
	LoyaltyPoints int    `json:"loyalty_points" yaml:"loyalty_points"`
	HasOnboarded  bool   `json:"has_onboarded" yaml:"has_onboarded"`
}
