package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Logger      LoggerConfig     `mapstructure:"logger"`
	Provider    ProviderConfig   `mapstructure:"provider"`
	Credential  CredentialConfig `mapstructure:"credential"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"timeFormat"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// ProviderConfig contains lock-provider API settings. ClientID and
// ClientSecret come exclusively from the environment.
type ProviderConfig struct {
	ClientID              string        `mapstructure:"clientId"`
	ClientSecret          string        `mapstructure:"clientSecret"`
	TokenURL              string        `mapstructure:"tokenUrl"`
	APIBase               string        `mapstructure:"apiBase"`
	RequestTimeout        time.Duration `mapstructure:"requestTimeout"` // seconds
	InsecureSkipTLSVerify bool          `mapstructure:"insecureSkipTlsVerify"`
}

// CredentialConfig contains PIN issuance settings
type CredentialConfig struct {
	WindowMinutes    int           `mapstructure:"windowMinutes"`
	RotationAttempts int           `mapstructure:"rotationAttempts"`
	MockPinLength    int           `mapstructure:"mockPinLength"`
	MockFallback     bool          `mapstructure:"mockFallback"`
	MaxVariance      int           `mapstructure:"maxVariance"`
	LeaseTTL         time.Duration `mapstructure:"leaseTtl"` // seconds
}
