package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/spfmt/internal/syntax"
)

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"error", SeverityError, false},
		{"WARNING", SeverityWarning, false},
		{"Info", SeverityInfo, false},
		{"fatal", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestIssue_YAML(t *testing.T) {
	t.Parallel()

	issue := Issue{
		Rule:     RuleSyntaxError,
		Severity: SeverityWarning,
		Filename: "q.rq",
		Message:  "unexpected '}'",
		Start:    syntax.Position{Offset: 4, Line: 1, Column: 5},
		End:      syntax.Position{Offset: 5, Line: 1, Column: 6},
	}

	out, err := yaml.Marshal(issue)
	require.NoError(t, err)
	assert.Contains(t, string(out), "severity: WARNING\n")
	assert.NotContains(t, string(out), "note:")

	var back Issue
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, issue, back)
}

func TestNewSourceCode(t *testing.T) {
	t.Parallel()

	src := NewSourceCode("SELECT *\nWHERE { }\n")
	assert.Equal(t, []string{"SELECT *", "WHERE { }", ""}, src.Lines)
}
