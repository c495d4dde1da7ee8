package config

import (
	"errors"
	"fmt"
	"time"

	sharedcfg "github.com/ayesh20/e-learn-backend/backend/shared/config"
)

type AppConf struct {
	Env                 string   `mapstructure:"env"`
	Port                int      `mapstructure:"port"`
	LogLevel            string   `mapstructure:"log_level"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds"`
	IdleTimeoutSeconds  int      `mapstructure:"idle_timeout_seconds"`
	ShutdownSeconds     int      `mapstructure:"shutdown_seconds"`
	CORSOrigins         []string `mapstructure:"cors_origins"`
	BaseURL             string   `mapstructure:"base_url"`
}

type MongoConf struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConf struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConf struct {
	Secret            string `mapstructure:"secret"`
	StudentTTLMinutes int    `mapstructure:"student_ttl_minutes"`
	StaffTTLMinutes   int    `mapstructure:"staff_ttl_minutes"`
}

type ChatConf struct {
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
	MaxMessageLength      int `mapstructure:"max_message_length"`
}

type RateLimitConf struct {
	PerIPPerMinute    int `mapstructure:"per_ip_per_minute"`
	Burst             int `mapstructure:"burst"`
	AuthPerWindow     int `mapstructure:"auth_per_window"`
	AuthWindowSeconds int `mapstructure:"auth_window_seconds"`
}

type EventsConf struct {
	Driver string `mapstructure:"driver"` // none | kafka | nats
}

type KafkaConf struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type NATSConf struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type AWSConf struct {
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"`
}

type S3Conf struct {
	PresignTTLSeconds int   `mapstructure:"presign_ttl_seconds"`
	MaxUploadBytes    int64 `mapstructure:"max_upload_bytes"`
}

type BrevoConf struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type ConsulConf struct {
	Addr        string `mapstructure:"addr"`
	ServiceName string `mapstructure:"service_name"`
	ServiceHost string `mapstructure:"service_host"`
}

type PasswordResetConf struct {
	OTPTTLMinutes   int `mapstructure:"otp_ttl_minutes"`
	MaxSendsPerHour int `mapstructure:"max_sends_per_hour"`
}

type Config struct {
	App           AppConf           `mapstructure:"app"`
	Mongo         MongoConf         `mapstructure:"mongo"`
	Redis         RedisConf         `mapstructure:"redis"`
	JWT           JWTConf           `mapstructure:"jwt"`
	Chat          ChatConf          `mapstructure:"chat"`
	RateLimit     RateLimitConf     `mapstructure:"rate_limit"`
	Events        EventsConf        `mapstructure:"events"`
	Kafka         KafkaConf         `mapstructure:"kafka"`
	NATS          NATSConf          `mapstructure:"nats"`
	AWS           AWSConf           `mapstructure:"aws"`
	S3            S3Conf            `mapstructure:"s3"`
	Brevo         BrevoConf         `mapstructure:"brevo"`
	Consul        ConsulConf        `mapstructure:"consul"`
	PasswordReset PasswordResetConf `mapstructure:"password_reset"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.env":                           "development",
		"app.port":                          5000,
		"app.log_level":                     "",
		"app.read_timeout_seconds":          15,
		"app.write_timeout_seconds":         15,
		"app.idle_timeout_seconds":          60,
		"app.shutdown_seconds":              15,
		"app.cors_origins":                  []string{"http://localhost:5173", "http://localhost:5000"},
		"app.base_url":                      "http://localhost:5000",
		"mongo.uri":                         "",
		"mongo.database":                    "elearn",
		"redis.addr":                        "localhost:6379",
		"redis.password":                    "",
		"redis.db":                          0,
		"jwt.secret":                        "",
		"jwt.student_ttl_minutes":           24 * 60,
		"jwt.staff_ttl_minutes":             24 * 60,
		"chat.request_timeout_seconds":      5,
		"chat.max_message_length":           2000,
		"rate_limit.per_ip_per_minute":      300,
		"rate_limit.burst":                  20,
		"rate_limit.auth_per_window":        10,
		"rate_limit.auth_window_seconds":    60,
		"events.driver":                     "none",
		"kafka.brokers":                     []string{},
		"kafka.topic":                       "lms.events",
		"nats.url":                          "",
		"nats.subject_prefix":               "lms",
		"aws.region":                        "us-east-1",
		"aws.bucket":                        "",
		"aws.endpoint":                      "",
		"s3.presign_ttl_seconds":            600,
		"s3.max_upload_bytes":               5 << 20,
		"brevo.api_key":                     "",
		"brevo.from_email":                  "",
		"brevo.from_name":                   "E-Learn",
		"consul.addr":                       "",
		"consul.service_name":               "lms-service",
		"consul.service_host":               "",
		"password_reset.otp_ttl_minutes":    10,
		"password_reset.max_sends_per_hour": 5,
	}
}

// Load reads path and APP_* environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := sharedcfg.Load(path, "APP", &cfg, sharedcfg.WithDefaults(defaults()), sharedcfg.WithOptionalFile()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("mongo.uri is required (APP_MONGO_URI)")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required (APP_JWT_SECRET)")
	}
	switch c.Events.Driver {
	case "", "none":
	case "kafka":
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("events.driver=kafka requires kafka.brokers")
		}
	case "nats":
		if c.NATS.URL == "" {
			return errors.New("events.driver=nats requires nats.url")
		}
	default:
		return fmt.Errorf("unknown events.driver %q", c.Events.Driver)
	}
	if c.Chat.MaxMessageLength <= 0 {
		return errors.New("chat.max_message_length must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.App.Env == "development" }

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.App.ReadTimeoutSeconds) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.App.WriteTimeoutSeconds) * time.Second
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.App.IdleTimeoutSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.App.ShutdownSeconds) * time.Second
}

func (c *Config) ChatTimeout() time.Duration {
	return time.Duration(c.Chat.RequestTimeoutSeconds) * time.Second
}

func (c *Config) StudentTokenTTL() time.Duration {
	return time.Duration(c.JWT.StudentTTLMinutes) * time.Minute
}

func (c *Config) StaffTokenTTL() time.Duration {
	return time.Duration(c.JWT.StaffTTLMinutes) * time.Minute
}

func (c *Config) PresignTTL() time.Duration {
	return time.Duration(c.S3.PresignTTLSeconds) * time.Second
}

func (c *Config) OTPTTL() time.Duration {
	return time.Duration(c.PasswordReset.OTPTTLMinutes) * time.Minute
}
