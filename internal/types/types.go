package types

import (
	"fmt"
	"strings"

	"github.com/surqlx/surlint/token"
)

// Severity represents the severity of a lint rule.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	}
	return "UNKNOWN"
}

// UnmarshalYAML accepts the lowercase severity names used in config files.
func (s *Severity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch strings.ToLower(raw) {
	case "error":
		*s = SeverityError
	case "warning", "warn":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	case "off":
		*s = SeverityOff
	default:
		return fmt.Errorf("unknown severity %q", raw)
	}
	return nil
}

// ConfigRule is the per-rule configuration block.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}

// Issue represents a lint issue found in a query file.
type Issue struct {
	Rule       string
	Severity   Severity
	Filename   string
	Message    string
	Expected   string // rendered expected type, when the issue is a type mismatch
	Actual     string // rendered actual type
	Suggestion string
	Note       string
	Start      token.Position
	End        token.Position
}

func (i Issue) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s",
		i.Filename, i.Start.Line, i.Start.Column, i.Rule, i.Message)
}
