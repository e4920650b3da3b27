package config

import "time"

// SessionConfig содержит настройки сессионных токенов и хэширования паролей.
type SessionConfig struct {
	SecretKey  string `yaml:"secret_key" env:"TAGNOTE_SESSION_SECRET_KEY" env-default:"super-secret-key-change-me-in-production"`
	TTL        string `yaml:"ttl" env:"TAGNOTE_SESSION_TTL" env-default:"24h"`
	CookieName string `yaml:"cookie_name" env:"TAGNOTE_SESSION_COOKIE" env-default:"tagnote_session"`
	BCryptCost int    `yaml:"bcrypt_cost" env:"TAGNOTE_BCRYPT_COST" env-default:"10"`
}

// GetTTL возвращает продолжительность времени жизни сессии.
func (c *SessionConfig) GetTTL() time.Duration {
	duration, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}
