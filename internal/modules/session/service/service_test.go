package service

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"weathermon-server/internal/db"
	"weathermon-server/internal/modules/session/repository"
	"weathermon-server/internal/modules/session/types"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(repository.NewRepository(conn, time.Hour))
}

func TestCreateAndLoad(t *testing.T) {
	svc := setupService(t)

	id, err := svc.Create([]byte(`{"regions":["belgrade"],"metric":"humidity","hours":48}`))
	if err != nil {
		t.Fatalf("Create() err = %v", err)
	}
	if id == "" {
		t.Fatal("Create() returned empty id")
	}

	got, err := svc.Load(id)
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if got == nil {
		t.Fatal("Load() = nil; want stored session")
	}
}

func TestCreateDefaultsEmptyState(t *testing.T) {
	svc := setupService(t)

	id, err := svc.Create(nil)
	if err != nil {
		t.Fatalf("Create(nil) err = %v", err)
	}
	got, err := svc.Load(id)
	if err != nil || got == nil {
		t.Fatalf("Load() = %v, %v; want empty-state session", got, err)
	}
	if string(got.State) != "{}" {
		t.Errorf("state = %s; want {}", got.State)
	}
}

func TestSaveRejectsInvalidState(t *testing.T) {
	svc := setupService(t)

	cases := map[string]string{
		"malformed json":    `{"hours":`,
		"bad metric":        `{"metric":"vibes"}`,
		"hours too large":   `{"hours":169}`,
		"hours negative":    `{"hours":-1}`,
		"refresh too quick": `{"refresh_seconds":1}`,
		"empty region code": `{"regions":["belgrade",""]}`,
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			err := svc.Save("sess-1", []byte(blob))
			if !errors.Is(err, types.ErrInvalidState) {
				t.Errorf("Save(%s) err = %v; want ErrInvalidState", blob, err)
			}
		})
	}
}

func TestInvalidSaveKeepsExistingState(t *testing.T) {
	svc := setupService(t)

	good := `{"metric":"temperature","hours":24}`
	if err := svc.Save("sess-1", []byte(good)); err != nil {
		t.Fatalf("Save() err = %v", err)
	}
	if err := svc.Save("sess-1", []byte(`{"metric":"vibes"}`)); err == nil {
		t.Fatal("Save() err = nil; want rejection")
	}

	got, err := svc.Load("sess-1")
	if err != nil || got == nil {
		t.Fatalf("Load() = %v, %v; want surviving session", got, err)
	}
	if string(got.State) != good {
		t.Errorf("state = %s; want untouched %s", got.State, good)
	}
}

func TestLoadEmptyID(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Load(""); !errors.Is(err, types.ErrInvalidState) {
		t.Errorf("Load(\"\") err = %v; want ErrInvalidState", err)
	}
}
