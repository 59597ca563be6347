package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sheenazien8/lazydb/history"
	"github.com/sheenazien8/lazydb/model"
	"github.com/zalando/go-keyring"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	keyring.MockInit()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "storage.db"), NewSecrets())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProjects() []model.Project {
	shop := model.NewProject("shop")
	shop.Description = "storefront"
	shop.Connections = []model.Connection{
		model.NewConnection("primary", "localhost", 5432, "shop", "app", "secret"),
		model.NewConnection("replica", "replica", 5432, "shop", "ro", ""),
	}
	notes := model.NewProject("notes")
	local := model.NewConnection("local", "", 0, "", "", "")
	local.Driver = "sqlite"
	local.Path = "/tmp/notes.db"
	notes.Connections = []model.Connection{local}
	return []model.Project{shop, notes}
}

func TestProjectsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	projects := sampleProjects()

	if err := s.SaveProjects(projects); err != nil {
		t.Fatalf("SaveProjects: %v", err)
	}
	got, err := s.LoadProjects()
	if err != nil {
		t.Fatalf("LoadProjects: %v", err)
	}
	if len(got) != 2 || got[0].Name != "shop" || got[1].Name != "notes" {
		t.Fatalf("projects = %+v", got)
	}
	if got[0].ID != projects[0].ID || got[0].Description != "storefront" {
		t.Errorf("project fields lost: %+v", got[0])
	}
	if len(got[0].Connections) != 2 || got[0].Connections[0].Name != "primary" {
		t.Fatalf("connections = %+v", got[0].Connections)
	}
	if pw := got[0].Connections[0].Password; pw != "secret" {
		t.Errorf("password = %q, want secret", pw)
	}
	if got[1].Connections[0].Path != "/tmp/notes.db" || got[1].Connections[0].Driver != "sqlite" {
		t.Errorf("sqlite connection = %+v", got[1].Connections[0])
	}
}

func TestPasswordsNotInDatabase(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveProjects(sampleProjects()); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('connections') WHERE name = 'password'").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Error("connections table has a password column")
	}
}

func TestPasswordEnvResolvedAfterReload(t *testing.T) {
	s := openTestStore(t)
	t.Setenv("LAZYDB_TEST_DB_PW", "first")

	projects := sampleProjects()
	projects[0].Connections[0].PasswordEnv = "LAZYDB_TEST_DB_PW"
	if err := s.SaveProjects(projects); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LAZYDB_TEST_DB_PW", "rotated")
	got, err := s.LoadProjects()
	if err != nil {
		t.Fatal(err)
	}
	c := got[0].Connections[0]
	if c.PasswordEnv != "LAZYDB_TEST_DB_PW" {
		t.Fatalf("password_env = %q", c.PasswordEnv)
	}
	if pw := c.Params().Password; pw != "rotated" {
		t.Errorf("password = %q, want rotated", pw)
	}
	if pw, _ := s.secrets.Get(c.ID); pw != "secret" {
		t.Errorf("keyring holds %q, want the literal password", pw)
	}
}

func TestOpenAddsPasswordEnvColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec("ALTER TABLE connections DROP COLUMN password_env"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if err := s.SaveProjects(sampleProjects()); err != nil {
		t.Errorf("SaveProjects after upgrade: %v", err)
	}
}

func TestSaveProjectsRemovesDeleted(t *testing.T) {
	s := openTestStore(t)
	projects := sampleProjects()
	if err := s.SaveProjects(projects); err != nil {
		t.Fatal(err)
	}
	removed := projects[0].Connections[0].ID

	if err := s.SaveProjects(projects[1:]); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadProjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "notes" {
		t.Errorf("projects = %+v", got)
	}
	if pw, _ := s.secrets.Get(removed); pw != "" {
		t.Errorf("stale password %q left in keyring", pw)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	now := time.Now()
	ok := history.Success("SELECT 2", "primary", "shop", 15*time.Millisecond, 3)
	ok.ExecutedAt = now
	failed := history.Error("SELEC 1", "primary", "shop", "syntax error")
	failed.ExecutedAt = now.Add(-time.Minute)

	if err := s.SaveHistory([]history.Entry{ok, failed}); err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	got, err := s.LoadHistory(0)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].Query != "SELECT 2" || !got[0].Success || got[0].RowCount != 3 || got[0].Duration != 15*time.Millisecond {
		t.Errorf("first = %+v", got[0])
	}
	if got[0].ExecutedAt.Unix() != now.Unix() {
		t.Errorf("executed at = %v, want %v", got[0].ExecutedAt, now)
	}
	if got[1].Success || got[1].ErrorMessage != "syntax error" {
		t.Errorf("second = %+v", got[1])
	}

	limited, err := s.LoadHistory(1)
	if err != nil || len(limited) != 1 || limited[0].Query != "SELECT 2" {
		t.Errorf("limited = %+v, %v", limited, err)
	}

	if err := s.ClearHistory(); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.LoadHistory(0); len(got) != 0 {
		t.Errorf("history not cleared: %d entries", len(got))
	}
}

func TestOpenWithoutSecrets(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "storage.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.SaveProjects(sampleProjects()); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadProjects()
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Connections[0].Password != "" {
		t.Error("password persisted without a keyring")
	}
}
