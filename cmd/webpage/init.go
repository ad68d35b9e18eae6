package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a new site",
	Long: `Scaffold a new site interactively.

You will be prompted for:
  - Template directory
  - Static file directory
  - Server port

Writes config.yaml plus a starter index.html and error.html.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

const starterIndexHTML = `<!DOCTYPE html>
<html>
<head>
  <title>{{ .webpage.site_name }}</title>
  <link rel="stylesheet" href="/static/style.css?v={{ .css_timestamp }}">
</head>
<body>
  <h1>{{ .webpage.site_name }}</h1>
  <p>Edit templates/index.html to get started.</p>
</body>
</html>
`

const starterErrorHTML = `<!DOCTYPE html>
<html>
<head>
  <title>{{ .status_code }}</title>
</head>
<body>
  <h1>{{ .status_code }}</h1>
  <p>{{ .detail }}</p>
</body>
</html>
`

// initConfig is the yaml shape written to config.yaml.
type initConfig struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Templates struct {
		Dir string `yaml:"dir"`
	} `yaml:"templates"`
	Static struct {
		Dir string `yaml:"dir"`
	} `yaml:"static"`
	Context map[string]any `yaml:"context"`
}

func runInit(_ *cobra.Command, args []string) error {
	if _, err := os.Stat("config.yaml"); err == nil {
		prompt := promptui.Prompt{
			Label:     "config.yaml already exists. Overwrite it",
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	templatesPrompt := promptui.Prompt{
		Label:   "Template directory",
		Default: "./templates",
		Validate: func(input string) error {
			if input == "" {
				return errors.New("template directory is required")
			}
			return nil
		},
	}
	templatesDir, err := templatesPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	staticPrompt := promptui.Prompt{
		Label:   "Static file directory",
		Default: "./static",
	}
	staticDir, err := staticPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: "8093",
		Validate: func(input string) error {
			port, convErr := strconv.Atoi(input)
			if convErr != nil || port < 1 || port > 65535 {
				return errors.New("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}
	port, _ := strconv.Atoi(portStr)

	sitePrompt := promptui.Prompt{
		Label:   "Site name",
		Default: "my site",
	}
	siteName, err := sitePrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	var cfg initConfig
	cfg.Server.Port = port
	cfg.Templates.Dir = templatesDir
	cfg.Static.Dir = staticDir
	cfg.Context = map[string]any{"site_name": siteName}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile("config.yaml", data, 0o644); err != nil {
		return fmt.Errorf("write config.yaml: %w", err)
	}

	if err := os.MkdirAll(templatesDir, 0o750); err != nil {
		return fmt.Errorf("create template directory: %w", err)
	}
	if staticDir != "" {
		if err := os.MkdirAll(staticDir, 0o750); err != nil {
			return fmt.Errorf("create static directory: %w", err)
		}
	}

	if err := writeIfMissing(filepath.Join(templatesDir, "index.html"), starterIndexHTML); err != nil {
		return err
	}
	if err := writeIfMissing(filepath.Join(templatesDir, "error.html"), starterErrorHTML); err != nil {
		return err
	}

	fmt.Println("Site scaffolded. Run 'webpage serve' to start the server.")
	return nil
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Keeping existing %s\n", path)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
