// Package suggest proposes comment prefixes for a draft work-entry comment.
package suggest

import (
	"strings"

	"go.uber.org/zap"

	"jira-worklog/prefix"
)

// RuleSource supplies prefix rules and the suggestions on/off flag.
type RuleSource interface {
	List() ([]prefix.Rule, error)
	Enabled() bool
}

type Engine struct {
	rules RuleSource
	log   *zap.Logger
}

func NewEngine(rules RuleSource, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{rules: rules, log: log.Named("suggest")}
}

// Suggest returns the prefixes of enabled rules whose category keyword occurs
// in comment, case-insensitively, deduplicated in rule order. ticketKey is
// accepted for the caller's benefit but does not take part in matching.
func (e *Engine) Suggest(ticketKey, comment string) ([]string, error) {
	out := []string{}
	if !e.rules.Enabled() {
		return out, nil
	}
	rules, err := e.rules.List()
	if err != nil {
		return nil, err
	}

	text := strings.ToLower(comment)
	seen := make(map[string]bool)
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		keyword := strings.ToLower(strings.TrimSpace(r.Type))
		p := strings.TrimSpace(r.Prefix)
		if keyword == "" || p == "" || seen[p] {
			continue
		}
		if strings.Contains(text, keyword) {
			seen[p] = true
			out = append(out, p)
		}
	}
	e.log.Debug("prefix suggestions",
		zap.String("ticket", ticketKey), zap.Int("rules", len(rules)), zap.Strings("prefixes", out))
	return out, nil
}
