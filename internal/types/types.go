package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/spfmt/internal/syntax"
)

// Rules reported by the engine.
const (
	RuleSyntaxError      = "syntax-error"
	RuleMacroArgument    = "macro-argument"
	RuleExpansionLimit   = "expansion-limit"
	RuleRecursive        = "recursive-function"
	RuleUnresolvedPrefix = "unresolved-prefix"
	RuleInternal         = "internal-error"
)

// Severity is how serious an issue is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity parses the name of a severity, ignoring case.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(s) {
	case "ERROR":
		return SeverityError, nil
	case "WARNING":
		return SeverityWarning, nil
	case "INFO":
		return SeverityInfo, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	sev, err := ParseSeverity(value.Value)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Issue is a problem found while processing a template.
// A zero Start.Line means the issue has no location in the source.
type Issue struct {
	Rule     string          `yaml:"rule"`
	Severity Severity        `yaml:"severity"`
	Filename string          `yaml:"filename"`
	Message  string          `yaml:"message"`
	Note     string          `yaml:"note,omitempty"`
	Start    syntax.Position `yaml:"start"`
	End      syntax.Position `yaml:"end"`
}

// SourceCode holds the lines of a template, without line terminators.
type SourceCode struct {
	Lines []string
}

// NewSourceCode splits text into lines.
func NewSourceCode(text string) *SourceCode {
	return &SourceCode{Lines: strings.Split(text, "\n")}
}
