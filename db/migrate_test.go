package db

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	src, err := migrationSource()
	if err != nil {
		t.Fatalf("migrationSource: %v", err)
	}
	defer src.Close()

	var versions []uint
	version, err := src.First()
	for err == nil {
		versions = append(versions, version)

		for name, read := range map[string]func(uint) (io.ReadCloser, string, error){
			"up":   src.ReadUp,
			"down": src.ReadDown,
		} {
			r, ident, readErr := read(version)
			if readErr != nil {
				t.Fatalf("version %d has no %s migration: %v", version, name, readErr)
			}
			body, _ := io.ReadAll(r)
			r.Close()
			if strings.TrimSpace(string(body)) == "" {
				t.Errorf("%s migration %d (%s) is empty", name, version, ident)
			}
		}
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("walking migrations: %v", err)
	}

	if want := []uint{1, 2, 3}; !reflect.DeepEqual(versions, want) {
		t.Errorf("versions = %v, want %v", versions, want)
	}
}

// Needs a disposable database: VOLLEYBALL_TEST_DATABASE_URL=postgres://...
func TestMigrateIsRepeatable(t *testing.T) {
	dsn := os.Getenv("VOLLEYBALL_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("VOLLEYBALL_TEST_DATABASE_URL is not set")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for i := 0; i < 2; i++ {
		if err := Migrate(dsn, logger); err != nil {
			t.Fatalf("Migrate run %d: %v", i+1, err)
		}
	}
}
