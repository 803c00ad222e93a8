package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/uuid"
)

//go:embed dotenv.tmpl
var dotenvTemplate string

// initData holds the template variables for the generated .env.example.
type initData struct {
	SiteName      string
	SessionSecret string
}

func runInit(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	for _, sub := range []string{"data", filepath.Join("public", "uploads")} {
		p := filepath.Join(abs, sub)
		if err := os.MkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", p, err)
		}
		fmt.Printf("  created %s/\n", p)
	}

	envPath := filepath.Join(abs, ".env.example")
	if _, err := os.Stat(envPath); err == nil {
		return fmt.Errorf("%s already exists", envPath)
	}

	tmpl, err := template.New("dotenv").Parse(dotenvTemplate)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	f, err := os.Create(envPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", envPath, err)
	}
	defer f.Close()

	data := initData{
		SiteName:      toTitle(filepath.Base(abs)),
		SessionSecret: strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", ""),
	}
	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("write %s: %w", envPath, err)
	}
	fmt.Printf("  created %s\n", envPath)

	fmt.Println()
	fmt.Println("Done! Copy .env.example to .env and run:")
	fmt.Println()
	fmt.Println("  foodies serve")
	return nil
}

// toTitle converts a directory name like "my-kitchen" to "My Kitchen".
func toTitle(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return "Foodies"
	}
	return strings.Join(words, " ")
}
