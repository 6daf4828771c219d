package config

import "time"

type AppConfig struct {
	ListenAddr string        `yaml:"listen_addr" env:"AJALI_LISTEN_ADDR" env-default:"0.0.0.0:8080"`
	DBDriver   string        `yaml:"db_driver" env:"AJALI_DB_DRIVER" env-default:"sqlite"`
	DBURL      string        `yaml:"db_url" env:"AJALI_DB_URL" env-default:"data/ajali.db"`
	JWTSecret  string        `yaml:"jwt_secret" env:"AJALI_JWT_SECRET"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"AJALI_TOKEN_TTL" env-default:"1h"`
	Pepper     string        `yaml:"pepper" env:"AJALI_PEPPER"`
	PageSize   int           `yaml:"page_size" env:"AJALI_PAGE_SIZE" env-default:"20"`
	AppEnv     string        `yaml:"app_env" env:"AJALI_APP_ENV"`

	// Bootstrap admin account, created on first start when both are set.
	AdminEmail    string `yaml:"admin_email" env:"AJALI_ADMIN_EMAIL"`
	AdminPassword string `yaml:"admin_password" env:"AJALI_ADMIN_PASSWORD"`

	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type SchedulerConfig struct {
	Enabled   bool   `yaml:"enabled" env:"AJALI_SCHEDULER_ENABLED" env-default:"true"`
	PurgeSpec string `yaml:"purge_spec" env:"AJALI_SCHEDULER_PURGE_SPEC" env-default:"0 3 * * *"`
	StatsSpec string `yaml:"stats_spec" env:"AJALI_SCHEDULER_STATS_SPEC" env-default:"0 6 * * *"`
}

const maxTokenTTL = 24 * time.Hour

// EffectiveTokenTTL caps the configured access-token lifetime.
func (c *AppConfig) EffectiveTokenTTL() time.Duration {
	ttl := time.Hour
	if c != nil && c.TokenTTL > 0 {
		ttl = c.TokenTTL
	}
	if ttl > maxTokenTTL {
		return maxTokenTTL
	}
	return ttl
}

// EffectivePageSize returns the default listing page size.
func (c *AppConfig) EffectivePageSize() int {
	if c == nil || c.PageSize <= 0 {
		return 20
	}
	return c.PageSize
}
