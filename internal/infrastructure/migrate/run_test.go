package migrate

import (
	"database/sql"
	"slices"
	"strings"
	"testing"
)

func TestMigrationDriverIsRegistered(t *testing.T) {
	if !slices.Contains(sql.Drivers(), driverName) {
		t.Fatalf("database/sql driver %q not registered, have %v", driverName, sql.Drivers())
	}
}

func TestRunMigrationsUnreachableDatabase(t *testing.T) {
	err := RunMigrations("postgres://escrow@127.0.0.1:1/escrow?sslmode=disable&connect_timeout=1", "migrations")
	if err == nil {
		t.Fatal("expected an error for an unreachable database")
	}
	if !strings.Contains(err.Error(), "creating postgres driver") {
		t.Fatalf("expected the failure to surface from the driver ping, got %v", err)
	}
}
