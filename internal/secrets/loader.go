// Package secrets loads the two credentials the pipeline needs: the airtable
// api token and the gemini api key. Both are read from files so they stay out
// of the config file and process listings.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// AirtableToken reads the airtable personal access token from the given file.
func AirtableToken(file string) (string, error) {
	return load("airtable token", file)
}

// GeminiAPIKey reads the gemini api key from the given file.
func GeminiAPIKey(file string) (string, error) {
	return load("gemini api key", file)
}

func load(name, file string) (string, error) {
	file = strings.TrimSpace(file)
	if file == "" {
		return "", fmt.Errorf("%s file is not configured", name)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}

	return secret, nil
}
