package config

import (
	"errors"
	"fmt"
	"os"

	"darkveil/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	API        APIConfig        `yaml:"api"`
	Redis      RedisConfig      `yaml:"redis"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Booking    BookingConfig    `yaml:"booking"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// GatewayConfig tunes the simulated backend round-trips. Delays are in
// milliseconds; zero means resolve immediately (tests).
type GatewayConfig struct {
	LoginDelayMs      int     `yaml:"login_delay_ms"`
	SlotsDelayMs      int     `yaml:"slots_delay_ms"`
	CreateDelayMs     int     `yaml:"create_delay_ms"`
	OnboardingDelayMs int     `yaml:"onboarding_delay_ms"`
	AvailabilityRate  float64 `yaml:"availability_rate"`
}

type BookingConfig struct {
	MaxBookingDays    int `yaml:"max_booking_days"`
	FlowStateTTLHours int `yaml:"flow_state_ttl_hours"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Fixtures is the static catalog the store is seeded from.
type Fixtures struct {
	Services      []models.Service      `yaml:"services"`
	Barbers       []models.Barber       `yaml:"barbers"`
	Announcements []models.Announcement `yaml:"announcements"`
	TimeSlots     []string              `yaml:"time_slots"`
	Appointments  []models.Appointment  `yaml:"appointments"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; ignore absence.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Expand environment references before parsing.
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return errors.New("app name is required")
	}

	if c.Gateway.AvailabilityRate < 0 || c.Gateway.AvailabilityRate > 1 {
		return fmt.Errorf("gateway availability_rate %v out of range [0,1]", c.Gateway.AvailabilityRate)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	// auth enabled by default when API is enabled
	if !c.API.Auth.Enabled {
		c.API.Auth.Enabled = true
	}
	if !c.API.HTTP.Enabled && c.API.Enabled {
		c.API.HTTP.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}

	if c.Gateway.AvailabilityRate == 0 {
		c.Gateway.AvailabilityRate = models.DefaultAvailabilityRate
	}
	if c.Booking.MaxBookingDays == 0 {
		c.Booking.MaxBookingDays = models.DefaultMaxBookingDays
	}
	if c.Booking.FlowStateTTLHours == 0 {
		c.Booking.FlowStateTTLHours = models.DefaultFlowStateTTL / 3600
	}
}

// ValidateFixtures rejects duplicate or empty catalog ids before seeding.
func ValidateFixtures(f *Fixtures) error {
	seen := make(map[string]bool)
	for _, s := range f.Services {
		if s.ID == "" {
			return fmt.Errorf("service '%s' has empty id", s.Name)
		}
		if seen["s:"+s.ID] {
			return fmt.Errorf("duplicate service id: %s", s.ID)
		}
		seen["s:"+s.ID] = true
		if s.Price <= 0 {
			return fmt.Errorf("service %s has non-positive price", s.ID)
		}
		if s.DurationMinutes <= 0 {
			return fmt.Errorf("service %s has non-positive duration", s.ID)
		}
	}
	for _, b := range f.Barbers {
		if b.ID == "" {
			return fmt.Errorf("barber '%s' has empty id", b.Name)
		}
		if seen["b:"+b.ID] {
			return fmt.Errorf("duplicate barber id: %s", b.ID)
		}
		seen["b:"+b.ID] = true
		if b.Rating < 0 || b.Rating > 5 {
			return fmt.Errorf("barber %s rating %v out of range [0,5]", b.ID, b.Rating)
		}
	}
	if len(f.TimeSlots) == 0 {
		return errors.New("fixtures define no time slots")
	}
	return nil
}
