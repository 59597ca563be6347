package config

import (
	"os"
	"path/filepath"
	"testing"
)

const yamlProject = `
project:
  name: shop
  description: storefront
connections:
  - name: primary
    host: localhost
    database: shop
    username: app
    password: literal
    password_env: LAZYDB_TEST_SHOP_PW
  - name: analytics
    driver: mysql
    host: db.internal
    database: stats
`

const tomlProject = `
[project]
name = "notes"

[[connections]]
name = "local"
driver = "sqlite"
path = "/tmp/notes.db"
`

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProjectFileYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "shop.yaml", yamlProject)

	p, err := LoadProjectFile(path)
	if err != nil {
		t.Fatalf("LoadProjectFile: %v", err)
	}
	if p.Name != "shop" || p.Description != "storefront" || p.ID == "" {
		t.Errorf("project = %+v", p)
	}
	if len(p.Connections) != 2 {
		t.Fatalf("connections = %d, want 2", len(p.Connections))
	}
	primary := p.Connections[0]
	if primary.Driver != "postgres" || primary.Port != 5432 || primary.Password != "literal" {
		t.Errorf("primary = %+v", primary)
	}
	if p.Connections[1].Port != 3306 {
		t.Errorf("mysql port = %d, want 3306", p.Connections[1].Port)
	}
}

func TestPasswordEnvWins(t *testing.T) {
	t.Setenv("LAZYDB_TEST_SHOP_PW", "from-env")
	path := writeFile(t, t.TempDir(), "shop.yml", yamlProject)

	p, err := LoadProjectFile(path)
	if err != nil {
		t.Fatalf("LoadProjectFile: %v", err)
	}
	c := p.Connections[0]
	if c.PasswordEnv != "LAZYDB_TEST_SHOP_PW" || c.Password != "literal" {
		t.Errorf("connection = %+v", c)
	}
	if got := c.Params().Password; got != "from-env" {
		t.Errorf("password = %q, want from-env", got)
	}
}

func TestLoadProjectFileTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.toml", tomlProject)

	p, err := LoadProjectFile(path)
	if err != nil {
		t.Fatalf("LoadProjectFile: %v", err)
	}
	if p.Name != "notes" || len(p.Connections) != 1 {
		t.Fatalf("project = %+v", p)
	}
	c := p.Connections[0]
	if c.Driver != "sqlite" || c.Path != "/tmp/notes.db" || c.Port != 0 {
		t.Errorf("connection = %+v", c)
	}
}

func TestParseProjectFileErrors(t *testing.T) {
	if _, err := ParseProjectFile("x.json", []byte("{}")); err == nil {
		t.Error("json accepted")
	}
	pf, err := ParseProjectFile("x.yaml", []byte("connections: []"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pf.Model(); err == nil {
		t.Error("nameless project accepted")
	}
}

func TestLoadProjectsDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.toml", tomlProject)
	writeFile(t, dir, "a.yaml", yamlProject)
	writeFile(t, dir, "README.md", "ignored")

	projects, err := LoadProjectsDir(dir)
	if err != nil {
		t.Fatalf("LoadProjectsDir: %v", err)
	}
	if len(projects) != 2 || projects[0].Name != "shop" || projects[1].Name != "notes" {
		t.Errorf("projects = %+v", projects)
	}

	none, err := LoadProjectsDir(filepath.Join(dir, "missing"))
	if err != nil || len(none) != 0 {
		t.Errorf("missing dir = %v, %v", none, err)
	}
}

func TestLoadEnvKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "LAZYDB_TEST_EXISTING=file\nLAZYDB_TEST_FRESH=file\n")
	t.Setenv("LAZYDB_TEST_EXISTING", "real")
	t.Cleanup(func() { os.Unsetenv("LAZYDB_TEST_FRESH") })

	if err := LoadEnv(dir, filepath.Join(dir, "missing")); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv("LAZYDB_TEST_EXISTING"); got != "real" {
		t.Errorf("existing = %q, want real", got)
	}
	if got := os.Getenv("LAZYDB_TEST_FRESH"); got != "file" {
		t.Errorf("fresh = %q, want file", got)
	}
}
