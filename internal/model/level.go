package model

import (
	"os"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Level is a canonical seniority level derived from free-text title/level
// strings via priority-ordered keyword rules.
type Level string

const (
	LevelIC       Level = "IC"
	LevelSenior   Level = "Senior"
	LevelStaff    Level = "Staff"
	LevelManager  Level = "Manager"
	LevelDirector Level = "Director"
	LevelVP       Level = "VP"
	LevelCSuite   Level = "C-Suite"
	LevelUnknown  Level = "Unknown"
)

// LevelOrder lists the seven canonical levels in ascending seniority.
// Unknown is out-of-band and never appears here.
var LevelOrder = []Level{
	LevelIC, LevelSenior, LevelStaff, LevelManager, LevelDirector, LevelVP, LevelCSuite,
}

// IsCanonical reports whether l is one of the seven ordered levels.
func (l Level) IsCanonical() bool {
	for _, v := range LevelOrder {
		if l == v {
			return true
		}
	}
	return false
}

// LevelRule maps a word-boundary keyword pattern to a canonical level.
// Rules are applied in order; the first match wins, which is load-bearing:
// "Senior Director" must resolve to Director because that rule runs before
// the Senior rule.
type LevelRule struct {
	Pattern string `yaml:"pattern"`
	Level   Level  `yaml:"level"`
	re      *regexp.Regexp
}

// DefaultLevelRules returns the built-in rule set, most senior class first.
func DefaultLevelRules() []LevelRule {
	rules := []LevelRule{
		{Pattern: `c-suite|chief|ceo|cto|cfo|coo`, Level: LevelCSuite},
		{Pattern: `evp|svp|vice\s*president|vp`, Level: LevelVP},
		{Pattern: `senior\s+director|director`, Level: LevelDirector},
		{Pattern: `senior\s+manager|manager`, Level: LevelManager},
		{Pattern: `principal|staff|lead`, Level: LevelStaff},
		{Pattern: `senior|sr`, Level: LevelSenior},
		{Pattern: `junior|associate|entry|ic`, Level: LevelIC},
	}
	compiled, err := CompileLevelRules(rules)
	if err != nil {
		panic(err) // built-in patterns are tested
	}
	return compiled
}

// CompileLevelRules compiles each rule's pattern as a case-insensitive,
// word-bounded regexp. Bare substring matching would be wrong here: "ic"
// occurs inside almost every title.
func CompileLevelRules(rules []LevelRule) ([]LevelRule, error) {
	out := make([]LevelRule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(`(?i)\b(` + r.Pattern + `)\b`)
		if err != nil {
			return nil, eris.Wrapf(err, "level: compile rule %q", r.Pattern)
		}
		if !r.Level.IsCanonical() {
			return nil, eris.Errorf("level: rule %q maps to non-canonical level %q", r.Pattern, r.Level)
		}
		r.re = re
		out[i] = r
	}
	return out, nil
}

// LoadLevelRules reads a rule set from a YAML file, replacing the defaults.
func LoadLevelRules(path string) ([]LevelRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "level: read rules %s", path)
	}
	var rules []LevelRule
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return nil, eris.Wrapf(err, "level: parse rules %s", path)
	}
	if len(rules) == 0 {
		return nil, eris.Errorf("level: no rules in %s", path)
	}
	return CompileLevelRules(rules)
}

// NormalizeLevel maps a raw level/title/seniority string to a canonical
// level using the given rules. Empty input or no match yields Unknown.
func NormalizeLevel(raw string, rules []LevelRule) Level {
	if raw == "" {
		return LevelUnknown
	}
	for _, r := range rules {
		if r.re.MatchString(raw) {
			return r.Level
		}
	}
	return LevelUnknown
}
