package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sheenazien8/lazydb/config"
	"github.com/sheenazien8/lazydb/logger"
	"github.com/sheenazien8/lazydb/model"
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List or import projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects and their connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := setup()
		if err != nil {
			return err
		}
		defer logger.Close()
		defer store.Close()

		projects, err := loadProjects(store)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No projects")
			return nil
		}
		printProjects(cmd, projects)
		return nil
	},
}

var projectsImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import projects from YAML or TOML files",
	Long: `Import projects from YAML or TOML files into local storage.

A project file looks like:

  project:
    name: shop
  connections:
    - name: primary
      driver: postgres
      host: localhost
      database: shop
      username: app
      password_env: SHOP_DB_PASSWORD
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := setup()
		if err != nil {
			return err
		}
		defer logger.Close()
		defer store.Close()

		projects, err := store.LoadProjects()
		if err != nil {
			return fmt.Errorf("failed to load projects: %w", err)
		}

		green := color.New(color.FgGreen)
		for _, path := range args {
			p, err := config.LoadProjectFile(path)
			if err != nil {
				return err
			}
			projects = append(projects, p)
			green.Fprintf(cmd.OutOrStdout(), "Imported %s (%d connections)\n", p.Name, len(p.Connections))
		}
		return store.SaveProjects(projects)
	},
}

func init() {
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsImportCmd)
}

func printProjects(cmd *cobra.Command, projects []model.Project) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	dim := color.New(color.Faint)

	for _, p := range projects {
		bold.Fprintln(out, p.Name)
		if p.Description != "" {
			dim.Fprintf(out, "  %s\n", p.Description)
		}
		for _, c := range p.Connections {
			target := fmt.Sprintf("%s@%s:%d/%s", c.Username, c.Host, c.Port, c.Database)
			if c.Path != "" {
				target = c.Path
			}
			fmt.Fprintf(out, "  %s %s %s\n", cyan.Sprint(c.Driver), c.Name, dim.Sprint(target))
		}
	}
}
