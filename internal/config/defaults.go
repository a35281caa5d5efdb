package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const starterConfig = `# postbuilder configuration
content:
  root: content
  # Line that separates multiple articles bundled in one file.
  separator: "<<<>>>"
  # Validation policy: "fail" aborts the build, "skip" excludes and reports.
  on_invalid: fail

# Uncomment to pull content from a separate repository before building.
# source:
#   git:
#     url: https://example.com/blog-content.git
#     branch: main

output:
  directory: dist
  clean: true
  render: false

logging:
  level: info
  format: text

# metrics:
#   enabled: true
#   listen: ":9310"

watch:
  debounce: 500ms
  # schedule: "0 */6 * * *"
`

// WriteDefault writes a starter configuration file. An existing file is only
// replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
