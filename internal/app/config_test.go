package app

import (
	"testing"
	"time"

	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "REDIS_ADDR", "NEO4J_URI", "CORS_ALLOW_ORIGINS", "DB_LOCK_TIMEOUT_MS"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(logger.NewNop())
	if cfg.Port != "8080" {
		t.Fatalf("port: want=8080 got=%s", cfg.Port)
	}
	if cfg.DBDriver != DBDriverPostgres {
		t.Fatalf("db driver: want=%s got=%s", DBDriverPostgres, cfg.DBDriver)
	}
	if cfg.Redis.Addr != "" || cfg.Neo4j.URI != "" {
		t.Fatalf("optional backends should be off by default: redis=%q neo4j=%q", cfg.Redis.Addr, cfg.Neo4j.URI)
	}
	if cfg.LockTimeout != 5*time.Second {
		t.Fatalf("lock timeout: want=5s got=%s", cfg.LockTimeout)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("cors: want=empty got=%v", cfg.CORSOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/ll.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_CHANNEL", "graph")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_LOCK_TIMEOUT_MS", "250")

	cfg := LoadConfig(logger.NewNop())
	if cfg.Port != "9090" || cfg.DBDriver != DBDriverSQLite || cfg.SQLitePath != "/tmp/ll.db" {
		t.Fatalf("overrides: got=%+v", cfg)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.Channel != "graph" {
		t.Fatalf("redis: got=%+v", cfg.Redis)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("cors: got=%v", cfg.CORSOrigins)
	}
	if cfg.LockTimeout != 250*time.Millisecond {
		t.Fatalf("lock timeout: want=250ms got=%s", cfg.LockTimeout)
	}
}

func TestLoadConfigUnknownDriverFallsBack(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	cfg := LoadConfig(logger.NewNop())
	if cfg.DBDriver != DBDriverPostgres {
		t.Fatalf("db driver: want=%s got=%s", DBDriverPostgres, cfg.DBDriver)
	}
}
