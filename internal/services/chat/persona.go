package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/clowes/twin/internal/logger"
	"github.com/clowes/twin/internal/services/chat/models"
)

// LoadPersona reads the optional context files from dir: facts.json,
// summary.txt, linkedin.txt and style.txt. Missing files are skipped.
func LoadPersona(dir, fullName, name string) (*models.Persona, error) {
	p := &models.Persona{FullName: fullName, Name: name}
	if dir == "" {
		return p, nil
	}

	var err error
	if p.Summary, err = readOptional(filepath.Join(dir, "summary.txt")); err != nil {
		return nil, err
	}
	if p.LinkedIn, err = readOptional(filepath.Join(dir, "linkedin.txt")); err != nil {
		return nil, err
	}
	if p.Style, err = readOptional(filepath.Join(dir, "style.txt")); err != nil {
		return nil, err
	}

	facts, err := readOptional(filepath.Join(dir, "facts.json"))
	if err != nil {
		return nil, err
	}
	if facts != "" {
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(facts), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse facts.json: %w", err)
		}
		p.Facts = formatFacts(parsed)
		if v, ok := parsed["full_name"].(string); ok && v != "" {
			p.FullName = v
		}
		if v, ok := parsed["name"].(string); ok && v != "" {
			p.Name = v
		}
	}

	logger.Info(logger.SERVICE, "Loaded persona context for %s from %s", p.FullName, dir)
	return p, nil
}

func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug(logger.SERVICE, "Persona file %s not found, skipping", path)
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func formatFacts(facts map[string]interface{}) string {
	keys := make([]string, 0, len(facts))
	for k := range facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %v\n", k, facts[k])
	}
	return strings.TrimRight(b.String(), "\n")
}
