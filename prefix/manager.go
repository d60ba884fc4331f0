// Package prefix stores comment-prefix rules, the flag that switches prefix
// suggestions on and off, and the read-only list of constant prefixes.
package prefix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"jira-worklog/record"
)

type Manager struct {
	rules     *record.Store[Rule]
	constants *record.Store[string]
	loc       record.Locator
	log       *zap.Logger

	flagMu sync.Mutex
}

// NewManager returns a Manager whose files are resolved through loc.
func NewManager(loc record.Locator, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("prefix")
	return &Manager{
		rules:     record.NewStore[Rule](FileName, loc, ruleCodec{}, log),
		constants: record.NewStore[string](ConstantsFileName, loc, constantCodec{}, log),
		loc:       loc,
		log:       log,
	}
}

func (m *Manager) List() ([]Rule, error) {
	return m.rules.List()
}

func (m *Manager) Get(id string) (Rule, error) {
	return m.rules.Find(id)
}

func (m *Manager) Create(r Rule) (Rule, error) {
	r, err := normalize(r)
	if err != nil {
		return Rule{}, err
	}
	return m.rules.Create(r, nil)
}

func (m *Manager) Update(id string, r Rule) (Rule, error) {
	r, err := normalize(r)
	if err != nil {
		return Rule{}, err
	}
	return m.rules.Update(id, r)
}

func (m *Manager) Delete(id string) error {
	return m.rules.Delete(id)
}

// Constants returns the constant prefix list.
func (m *Manager) Constants() ([]string, error) {
	return m.constants.List()
}

// Enabled reports whether prefix suggestions are switched on. A missing or
// unreadable flag file counts as enabled; only a literal "false" disables.
func (m *Manager) Enabled() bool {
	m.flagMu.Lock()
	defer m.flagMu.Unlock()

	path := m.loc.Resolve(FlagFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			m.log.Warn("cannot read prefix flag, assuming enabled", zap.String("path", path), zap.Error(err))
		}
		return true
	}
	return !strings.EqualFold(strings.TrimSpace(string(data)), "false")
}

// SetEnabled writes the flag file.
func (m *Manager) SetEnabled(enabled bool) error {
	m.flagMu.Lock()
	defer m.flagMu.Unlock()

	path := m.loc.Resolve(FlagFileName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(strconv.FormatBool(enabled)+"\n"), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Sources returns the file names this manager reads.
func (m *Manager) Sources() []string {
	return []string{m.rules.Name(), FlagFileName, m.constants.Name()}
}

func normalize(r Rule) (Rule, error) {
	r.Type = strings.TrimSpace(r.Type)
	r.Prefix = strings.TrimSpace(r.Prefix)
	r.Label = strings.TrimSpace(r.Label)
	if r.Prefix == "" {
		return r, fmt.Errorf("%w: prefix is required", ErrInvalid)
	}
	return r, nil
}
