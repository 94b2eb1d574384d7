package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "storefront"

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DBHost     string `envconfig:"DB_HOST"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBName     string `envconfig:"DB_NAME" default:"storefront"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CartTTL   time.Duration `envconfig:"CART_TTL" default:"24h"`

	KafkaBroker  string `envconfig:"KAFKA_BROKER"`
	KafkaTopic   string `envconfig:"KAFKA_TOPIC" default:"order-events"`
	KafkaGroupID string `envconfig:"KAFKA_GROUP_ID" default:"storefront-aggregator"`

	AdminToken string `envconfig:"ADMIN_TOKEN"`

	CompletionURL    string        `envconfig:"COMPLETION_URL"`
	CompletionAPIKey string        `envconfig:"COMPLETION_API_KEY"`
	CompletionModel  string        `envconfig:"COMPLETION_MODEL" default:"gpt-4o-mini"`
	AssistantTimeout time.Duration `envconfig:"ASSISTANT_TIMEOUT" default:"30s"`

	WebhookTimeout time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"10s"`
	Workers        int           `envconfig:"WORKERS" default:"4"`
	QueueSize      int           `envconfig:"QUEUE_SIZE" default:"128"`

	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	UploadDir     string `envconfig:"UPLOAD_DIR" default:"./uploads"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads STOREFRONT_* variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	if cfg.Workers < 1 {
		return nil, errors.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	return &cfg, nil
}

func (c *Config) PostgresEnabled() bool { return c.DBHost != "" }
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }
func (c *Config) KafkaEnabled() bool { return c.KafkaBroker != "" }

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// SetupLogging applies the configured level and format to the global logger.
func (c *Config) SetupLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrap(err, "parse log level")
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func MustInitPostgres(c *Config) *sql.DB {
	db, err := sql.Open("postgres", c.PostgresDSN())
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		log.WithError(err).Fatal("failed to ping database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(c *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: c.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}

	return client
}

func NewKafkaReader(c *Config) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{c.KafkaBroker},
		Topic:   c.KafkaTopic,
		GroupID: c.KafkaGroupID,
	})
}

func NewKafkaWriter(c *Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.KafkaBroker),
		Topic:                  c.KafkaTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}
