// internal/rules/loader.go
package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aquaflow/copilot/internal/types"
)

/*
 * Ruleset loading and validation.
 *
 * One JSON file per process under the rules directory:
 *
 *   <dir>/<process lowercase>/rules_<process lowercase>.json
 *
 * Schema violations fail fast at load time with ErrMalformedRuleSet; a
 * ruleset is never partially loaded. A missing file maps to
 * ErrConfigNotFound so the transport layer can surface a distinct not-found
 * condition.
 *
 * Loaded rulesets are immutable and cached per process name. The cache is
 * mutex-guarded on first load only; concurrent requests afterwards share the
 * read-only value without synchronization.
 */

// Loader resolves, validates, and caches rulesets by process name.
type Loader struct {
	dir   string
	mu    sync.Mutex
	cache map[string]*types.RuleSet
}

// NewLoader creates a loader rooted at the given rules directory.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:   dir,
		cache: make(map[string]*types.RuleSet),
	}
}

// Load returns the ruleset for a process, reading and validating it on
// first use. Returns ErrConfigNotFound when no source file exists.
func (l *Loader) Load(process string) (*types.RuleSet, error) {
	key := strings.ToLower(process)

	l.mu.Lock()
	defer l.mu.Unlock()

	if rs, ok := l.cache[key]; ok {
		return rs, nil
	}

	path := filepath.Join(l.dir, key, fmt.Sprintf("rules_%s.json", key))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", types.ErrConfigNotFound, process)
		}
		return nil, fmt.Errorf("failed to read ruleset %s: %w", path, err)
	}

	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.cache[key] = rs
	return rs, nil
}

// PolicyPath returns the location of the process policy document, used by
// specialist collaborators for prompt construction.
func (l *Loader) PolicyPath(process string) string {
	key := strings.ToLower(process)
	return filepath.Join(l.dir, key, fmt.Sprintf("policy_%s.txt", key))
}

// Processes scans the rules directory and lists every process that has a
// ruleset file, with a flag for an accompanying policy document.
func (l *Loader) Processes() ([]ProcessInfo, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan rules dir: %w", err)
	}

	var out []ProcessInfo
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()
		rulesFile := filepath.Join(l.dir, name, fmt.Sprintf("rules_%s.json", name))
		if _, err := os.Stat(rulesFile); err != nil {
			continue
		}
		policyFile := filepath.Join(l.dir, name, fmt.Sprintf("policy_%s.txt", name))
		_, policyErr := os.Stat(policyFile)
		out = append(out, ProcessInfo{
			Name:      strings.ToUpper(name),
			HasRules:  true,
			HasPolicy: policyErr == nil,
		})
	}
	return out, nil
}

// ProcessInfo describes one process discovered under the rules directory.
type ProcessInfo struct {
	Name      string `json:"name"`
	HasRules  bool   `json:"has_rules"`
	HasPolicy bool   `json:"has_policy"`
}

// Parse decodes and validates a ruleset document.
func Parse(data []byte) (*types.RuleSet, error) {
	var rs types.RuleSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedRuleSet, err)
	}
	if err := validate(&rs); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedRuleSet, err)
	}
	return &rs, nil
}

// validate enforces the structural invariants of a ruleset: non-empty rule
// ids unique within the set, a question prompt for every required field, and
// at least one constraint or outcome decision per rule.
func validate(rs *types.RuleSet) error {
	seen := make(map[string]bool, len(rs.Rules))
	for i, rule := range rs.Rules {
		if rule.ID == "" {
			return fmt.Errorf("rules[%d]: missing id", i)
		}
		if seen[rule.ID] {
			return fmt.Errorf("rules[%d]: duplicate id %q", i, rule.ID)
		}
		seen[rule.ID] = true
	}
	for _, field := range rs.RequiredFields {
		if field == "" {
			return fmt.Errorf("required_fields: empty field name")
		}
		if _, ok := rs.MissingInfoBehavior.Questions[field]; !ok {
			return fmt.Errorf("missing_info_behavior.questions: no prompt for required field %q", field)
		}
	}
	return nil
}
