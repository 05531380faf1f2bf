package cmd

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
)

//go:embed kindTemplate.txt
var kindTemplate string

//go:embed kindTestTemplate.txt
var kindTestTemplate string

var kindCmd = &cobra.Command{
	Use:   "kind",
	Short: "Create and manage event kinds.",
	Long:  "`kind --create [KindName]` creates a new event kind.",
	Run: func(cmd *cobra.Command, args []string) {
		kindName, _ := cmd.Flags().GetString("create")
		if kindName == "" {
			fmt.Println("Action not valid.")
			return
		}

		if !isValidKindName(kindName) {
			log.Fatalf(
				"Error: kind name %q must be an exported Go identifier.",
				kindName)
		}

		err := generateKindFile(".", kindName)
		if err != nil {
			log.Fatalf("Error generating kind file: %v", err)
		}
		fmt.Printf("Event kind '%s' created successfully!\n", kindName)

		err = generateKindTestFile(".", kindName)
		if err != nil {
			log.Fatalf("Error generating kind test file: %v", err)
		}
		fmt.Println("Kind test file generated successfully!")
	},
}

func init() {
	rootCmd.AddCommand(kindCmd)
	kindCmd.Flags().String("create", "", "Create a new event kind")
}

func isValidKindName(name string) bool {
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		return false
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

// generateKindFile renders the kind template into <snake_case_name>.go in
// the given folder, refusing to overwrite an existing file.
func generateKindFile(folder, kindName string) error {
	return renderTemplate(
		kindTemplate,
		filepath.Join(folder, snakeCase(kindName)+".go"),
		folder,
		kindName,
	)
}

// generateKindTestFile renders the test template next to the kind file.
func generateKindTestFile(folder, kindName string) error {
	return renderTemplate(
		kindTestTemplate,
		filepath.Join(folder, snakeCase(kindName)+"_test.go"),
		folder,
		kindName,
	)
}

func renderTemplate(template, filePath, folder, kindName string) error {
	_, err := os.Stat(filePath)
	if err == nil {
		return fmt.Errorf("file '%s' already exists", filePath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%v", err)
	}

	content := strings.Replace(template,
		"{{packageName}}", packageNameOf(folder), -1)
	content = strings.Replace(content, "{{kindName}}", kindName, -1)
	content = strings.Replace(content, "{{kindTag}}", snakeCase(kindName), -1)

	return os.WriteFile(filePath, []byte(content), 0644)
}

func packageNameOf(folder string) string {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return "main"
	}

	name := strings.ToLower(filepath.Base(abs))
	name = strings.ReplaceAll(name, "-", "")

	return name
}

// snakeCase converts an exported identifier to snake case, keeping runs of
// capitals together as one word, so that HTTPTimeout becomes http_timeout.
func snakeCase(name string) string {
	runes := []rune(name)
	out := strings.Builder{}

	for i, r := range runes {
		if !unicode.IsUpper(r) {
			out.WriteRune(r)
			continue
		}

		startsWord := i > 0 && !unicode.IsUpper(runes[i-1])
		endsAcronym := i > 0 && i+1 < len(runes) &&
			unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1])

		if startsWord || endsAcronym {
			out.WriteRune('_')
		}

		out.WriteRune(unicode.ToLower(r))
	}

	return out.String()
}
