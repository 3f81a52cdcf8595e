package db

import (
	"strings"
	"testing"
)

func TestPostgresConfigDSN(t *testing.T) {
	dsn := PostgresConfig{Host: "db", Port: "5432", User: "app", Password: "p@ss word", Name: "lingualeap"}.DSN()
	if !strings.HasPrefix(dsn, "postgres://app:") || !strings.Contains(dsn, "@db:5432/lingualeap") {
		t.Fatalf("dsn: got=%s", dsn)
	}
	if !strings.HasSuffix(dsn, "sslmode=disable") {
		t.Fatalf("default sslmode: got=%s", dsn)
	}
	if strings.Contains(dsn, "p@ss word") {
		t.Fatalf("password should be escaped: got=%s", dsn)
	}

	dsn = PostgresConfig{Host: "db", Port: "5432", User: "app", Name: "x", SSLMode: "require"}.DSN()
	if !strings.HasSuffix(dsn, "sslmode=require") {
		t.Fatalf("sslmode: got=%s", dsn)
	}
}
