// Package convert turns HTML pages into markdown documents that can
// join the documentation tree.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// HTML converts an HTML fragment or page to markdown.
func HTML(input string) (string, error) {
	out, err := htmltomarkdown.ConvertString(input)
	if err != nil {
		return "", fmt.Errorf("failed to convert html: %w", err)
	}
	return out, nil
}

// File converts an HTML file and writes the markdown next to it, or at
// output when given. It returns the path written.
func File(path, output string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	md, err := HTML(string(content))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + ".md"
	}
	if !strings.HasSuffix(md, "\n") {
		md += "\n"
	}
	if err := os.WriteFile(output, []byte(md), 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", output, err)
	}
	return output, nil
}
