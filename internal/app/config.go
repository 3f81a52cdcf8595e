package app

import (
	"strings"
	"time"

	"github.com/yungbote/lingualeap-backend/internal/data/db"
	"github.com/yungbote/lingualeap-backend/internal/platform/envutil"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
	"github.com/yungbote/lingualeap-backend/internal/platform/neo4jdb"
	"github.com/yungbote/lingualeap-backend/internal/realtime/bus"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

type Config struct {
	ServiceName string
	Environment string
	Version     string
	Port        string

	DBDriver    string
	Postgres    db.PostgresConfig
	SQLitePath  string
	LockTimeout time.Duration

	Redis bus.RedisConfig
	Neo4j neo4jdb.Config

	CORSOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		ServiceName: envutil.String("SERVICE_NAME", "lingualeap-api"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
		Port:        envutil.String("PORT", "8080"),

		DBDriver: strings.ToLower(envutil.String("DB_DRIVER", DBDriverPostgres)),
		Postgres: db.PostgresConfig{
			Host:         envutil.String("POSTGRES_HOST", "localhost"),
			Port:         envutil.String("POSTGRES_PORT", "5432"),
			User:         envutil.String("POSTGRES_USER", "postgres"),
			Password:     envutil.String("POSTGRES_PASSWORD", ""),
			Name:         envutil.String("POSTGRES_NAME", "lingualeap"),
			SSLMode:      envutil.String("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns: envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20),
			MaxIdleConns: envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5),
		},
		SQLitePath:  envutil.String("SQLITE_PATH", "lingualeap.db"),
		LockTimeout: time.Duration(envutil.Int("DB_LOCK_TIMEOUT_MS", 5000)) * time.Millisecond,

		Redis: bus.RedisConfig{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			Channel:  envutil.String("REDIS_CHANNEL", ""),
		},
		Neo4j: neo4jdb.ConfigFromEnv(),

		CORSOrigins: envutil.List("CORS_ALLOW_ORIGINS", nil),
	}
	if cfg.DBDriver != DBDriverPostgres && cfg.DBDriver != DBDriverSQLite {
		if log != nil {
			log.Warn("unknown DB_DRIVER, using postgres", "db_driver", cfg.DBDriver)
		}
		cfg.DBDriver = DBDriverPostgres
	}
	if cfg.LockTimeout < 0 {
		cfg.LockTimeout = 0
	}
	return cfg
}
