// Package model holds the in-memory tree the reducer mutates: projects own
// connections, connections own lazily loaded tables and routines.
package model

import (
	"os"

	"github.com/google/uuid"
	"github.com/sheenazien8/lazydb/drivers"
)

type Project struct {
	ID          string
	Name        string
	Description string
	Connections []Connection
}

func NewProject(name string) Project {
	return Project{ID: uuid.NewString(), Name: name}
}

// Connection is a saved database connection plus the metadata loaded for it.
type Connection struct {
	ID       string
	Name     string
	Driver   string
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// PasswordEnv names an environment variable that overrides Password
	// whenever it is set.
	PasswordEnv string
	Path        string

	Expanded       bool
	Tables         []drivers.Table
	Routines       []drivers.Routine
	RoutinesLoaded bool
	// TablesGeneration increments every time Tables is replaced, so a
	// response addressed to an older table list can be recognised.
	TablesGeneration uint64
}

func NewConnection(name, host string, port int, database, username, password string) Connection {
	return Connection{
		ID:       uuid.NewString(),
		Name:     name,
		Driver:   drivers.DriverPostgreSQL,
		Host:     host,
		Port:     port,
		Database: database,
		Username: username,
		Password: password,
	}
}

// Params copies the connection settings for the worker.
func (c Connection) Params() drivers.Params {
	return drivers.Params{
		Driver:   c.Driver,
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		Username: c.Username,
		Password: c.ResolvedPassword(),
		Path:     c.Path,
	}
}

// ResolvedPassword is the PasswordEnv value when that variable is set,
// otherwise Password.
func (c Connection) ResolvedPassword() string {
	if c.PasswordEnv != "" {
		if v, ok := os.LookupEnv(c.PasswordEnv); ok {
			return v
		}
	}
	return c.Password
}

// SetTables replaces the table list and bumps the generation.
func (c *Connection) SetTables(tables []drivers.Table) {
	c.Tables = tables
	c.TablesGeneration++
}

// Table returns the table at idx, if any.
func (c *Connection) Table(idx int) (*drivers.Table, bool) {
	if idx < 0 || idx >= len(c.Tables) {
		return nil, false
	}
	return &c.Tables[idx], true
}

// Connection returns the connection at idx, if any.
func (p *Project) Connection(idx int) (*Connection, bool) {
	if idx < 0 || idx >= len(p.Connections) {
		return nil, false
	}
	return &p.Connections[idx], true
}
