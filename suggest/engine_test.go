package suggest_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jira-worklog/prefix"
	"jira-worklog/suggest"
)

type fakeRules struct {
	rules    []prefix.Rule
	disabled bool
	err      error
}

func (f fakeRules) List() ([]prefix.Rule, error) { return f.rules, f.err }
func (f fakeRules) Enabled() bool                 { return !f.disabled }

func TestSuggest(t *testing.T) {
	rules := []prefix.Rule{
		{ID: "1", Type: "bug", Prefix: "[BUG]", Enabled: true},
		{ID: "2", Type: "feat", Prefix: "[FEAT]", Enabled: false},
		{ID: "3", Type: "Login", Prefix: "[AUTH]", Enabled: true},
		{ID: "4", Type: "fix", Prefix: "[BUG]", Enabled: true},
		{ID: "5", Type: "", Prefix: "[ANY]", Enabled: true},
		{ID: "6", Type: "in", Prefix: "  ", Enabled: true},
	}
	tests := []struct {
		name    string
		comment string
		want    []string
	}{
		{"disabled rule excluded", "fixing a bug in feat", []string{"[BUG]"}},
		{"case insensitive, first-seen order", "LOGIN bug", []string{"[BUG]", "[AUTH]"}},
		{"no match", "meeting", []string{}},
		{"empty comment", "", []string{}},
	}
	e := suggest.NewEngine(fakeRules{rules: rules}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Suggest("ANY-1", tt.comment)
			if err != nil {
				t.Fatalf("Suggest: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Suggest(%q) mismatch (-want +got):\n%s", tt.comment, diff)
			}
		})
	}
}

func TestSuggestExample(t *testing.T) {
	rules := []prefix.Rule{
		{Type: "bug", Prefix: "[BUG]", Enabled: true},
		{Type: "feat", Prefix: "[FEAT]", Enabled: false},
	}
	got, err := suggest.NewEngine(fakeRules{rules: rules}, nil).Suggest("ANY-1", "fixing a bug in login")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"[BUG]"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestTicketKeyIgnored(t *testing.T) {
	rules := []prefix.Rule{{Type: "bug", Prefix: "[BUG]", Enabled: true}}
	e := suggest.NewEngine(fakeRules{rules: rules}, nil)
	a, _ := e.Suggest("BUG-1", "meeting")
	b, _ := e.Suggest("OPS-9", "meeting")
	if len(a) != 0 || len(b) != 0 {
		t.Fatalf("ticket key must not drive matching: %v %v", a, b)
	}
}

func TestSuggestFlagOff(t *testing.T) {
	rules := []prefix.Rule{{Type: "bug", Prefix: "[BUG]", Enabled: true}}
	got, err := suggest.NewEngine(fakeRules{rules: rules, disabled: true}, nil).Suggest("X-1", "bug")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no suggestions while disabled, got %v", got)
	}
}

func TestSuggestSourceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := suggest.NewEngine(fakeRules{err: boom}, nil).Suggest("X-1", "bug")
	if !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}
