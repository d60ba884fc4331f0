package prefix

import (
	"errors"
	"strconv"
	"strings"

	"jira-worklog/record"
)

const (
	FileName          = "prefixes.csv"
	FlagFileName      = "prefixes_enabled.cfg"
	ConstantsFileName = "constant_prefixes.csv"
)

var ErrInvalid = errors.New("invalid prefix rule")

// Rule maps a category keyword (Type) to a comment prefix.
type Rule struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Prefix  string `json:"prefix"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

type ruleCodec struct{}

func (ruleCodec) Header() string { return "schema=1 id,type,prefix,label,enabled" }

func (ruleCodec) Encode(r Rule) []string {
	return []string{r.ID, r.Type, r.Prefix, r.Label, strconv.FormatBool(r.Enabled)}
}

func (ruleCodec) Decode(fields []string) (Rule, error) {
	if len(fields) < 5 {
		return Rule{}, record.ErrShortRow
	}
	return Rule{
		ID:      fields[0],
		Type:    fields[1],
		Prefix:  fields[2],
		Label:   fields[3],
		Enabled: strings.EqualFold(fields[4], "true"),
	}, nil
}

func (ruleCodec) ID(r Rule) string { return r.ID }

func (ruleCodec) WithID(r Rule, id string) Rule {
	r.ID = id
	return r
}

// constantCodec reads one prefix per row; extra fields are ignored.
type constantCodec struct{}

func (constantCodec) Header() string { return "prefix" }

func (constantCodec) Encode(s string) []string { return []string{s} }

func (constantCodec) Decode(fields []string) (string, error) {
	if len(fields) == 0 || fields[0] == "" {
		return "", record.ErrShortRow
	}
	return fields[0], nil
}

func (constantCodec) ID(s string) string { return s }

func (constantCodec) WithID(_ string, id string) string { return id }
