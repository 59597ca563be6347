package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sheenazien8/lazydb/drivers"
	"github.com/sheenazien8/lazydb/model"
	"gopkg.in/yaml.v3"
)

// ProjectFile is the on-disk shape of projects/<name>.yaml or .toml.
type ProjectFile struct {
	Project     ProjectInfo       `yaml:"project" toml:"project"`
	Connections []ConnectionEntry `yaml:"connections" toml:"connections"`
}

type ProjectInfo struct {
	Name        string `yaml:"name" toml:"name"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty"`
	CreatedAt   string `yaml:"created_at,omitempty" toml:"created_at,omitempty"`
}

type ConnectionEntry struct {
	Name     string `yaml:"name" toml:"name"`
	Driver   string `yaml:"driver,omitempty" toml:"driver,omitempty"`
	Host     string `yaml:"host,omitempty" toml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty" toml:"port,omitempty"`
	Database string `yaml:"database,omitempty" toml:"database,omitempty"`
	Username string `yaml:"username,omitempty" toml:"username,omitempty"`
	Password string `yaml:"password,omitempty" toml:"password,omitempty"`
	// PasswordEnv names an environment variable that, when set, wins
	// over Password.
	PasswordEnv string `yaml:"password_env,omitempty" toml:"password_env,omitempty"`
	Path        string `yaml:"path,omitempty" toml:"path,omitempty"`
}

func defaultPort(driver string) int {
	switch driver {
	case drivers.DriverMySQL:
		return 3306
	case drivers.DriverMongoDB:
		return 27017
	case drivers.DriverSQLite:
		return 0
	default:
		return 5432
	}
}

// ParseProjectFile decodes data according to the file extension of name.
func ParseProjectFile(name string, data []byte) (ProjectFile, error) {
	var pf ProjectFile
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return pf, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &pf); err != nil {
			return pf, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	default:
		return pf, fmt.Errorf("unsupported project file %s", name)
	}
	return pf, nil
}

// Model converts the file into a project with fresh ids.
func (pf ProjectFile) Model() (model.Project, error) {
	if strings.TrimSpace(pf.Project.Name) == "" {
		return model.Project{}, errors.New("project name is empty")
	}
	p := model.NewProject(pf.Project.Name)
	p.Description = pf.Project.Description

	for i, e := range pf.Connections {
		if strings.TrimSpace(e.Name) == "" {
			return model.Project{}, fmt.Errorf("connection %d of %s has no name", i+1, p.Name)
		}
		driver := e.Driver
		if driver == "" || driver == "postgresql" {
			driver = drivers.DriverPostgreSQL
		}
		port := e.Port
		if port == 0 {
			port = defaultPort(driver)
		}
		c := model.NewConnection(e.Name, e.Host, port, e.Database, e.Username, e.Password)
		c.PasswordEnv = e.PasswordEnv
		c.Driver = driver
		c.Path = e.Path
		p.Connections = append(p.Connections, c)
	}
	return p, nil
}

// LoadProjectFile reads a single YAML or TOML project file.
func LoadProjectFile(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, err
	}
	pf, err := ParseProjectFile(path, data)
	if err != nil {
		return model.Project{}, err
	}
	return pf.Model()
}

// LoadProjectsDir loads every project file in dir, sorted by file name.
// A missing directory yields no projects.
func LoadProjectsDir(dir string) ([]model.Project, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".toml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	projects := make([]model.Project, 0, len(names))
	for _, name := range names {
		p, err := LoadProjectFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// LoadEnv loads .env from each directory that has one. Variables already
// present in the environment are left alone.
func LoadEnv(dirs ...string) error {
	for _, dir := range dirs {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
