package internal

import (
	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/internal/lints"
	tt "github.com/surqlx/surlint/internal/types"
	"github.com/surqlx/surlint/schema"
)

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Check runs the lint rule on the given parsed file and returns a slice
	// of Issues.
	Check(filename string, tree *ast.Tree, model *schema.Model) ([]tt.Issue, error)

	// Name returns the name of the lint rule.
	Name() string

	// Severity returns the severity of the lint rule.
	Severity() tt.Severity

	// SetSeverity overrides the severity, usually from configuration.
	SetSeverity(tt.Severity)
}

type SyntaxErrorRule struct {
	severity tt.Severity
}

func NewSyntaxErrorRule() LintRule {
	return &SyntaxErrorRule{severity: tt.SeverityError}
}

func (r *SyntaxErrorRule) Check(filename string, tree *ast.Tree, _ *schema.Model) ([]tt.Issue, error) {
	return lints.DetectSyntaxErrors(filename, tree, r.severity)
}

func (r *SyntaxErrorRule) Name() string              { return "syntax-error" }
func (r *SyntaxErrorRule) Severity() tt.Severity     { return r.severity }
func (r *SyntaxErrorRule) SetSeverity(s tt.Severity) { r.severity = s }

type FieldTypeMismatchRule struct {
	severity tt.Severity
}

func NewFieldTypeMismatchRule() LintRule {
	return &FieldTypeMismatchRule{severity: tt.SeverityError}
}

func (r *FieldTypeMismatchRule) Check(filename string, tree *ast.Tree, model *schema.Model) ([]tt.Issue, error) {
	return lints.DetectFieldTypeMismatch(filename, tree, model, r.severity)
}

func (r *FieldTypeMismatchRule) Name() string              { return "field-type-mismatch" }
func (r *FieldTypeMismatchRule) Severity() tt.Severity     { return r.severity }
func (r *FieldTypeMismatchRule) SetSeverity(s tt.Severity) { r.severity = s }

type OperatorTypeMismatchRule struct {
	severity tt.Severity
}

func NewOperatorTypeMismatchRule() LintRule {
	return &OperatorTypeMismatchRule{severity: tt.SeverityError}
}

func (r *OperatorTypeMismatchRule) Check(filename string, tree *ast.Tree, model *schema.Model) ([]tt.Issue, error) {
	return lints.DetectOperatorTypeMismatch(filename, tree, model, r.severity)
}

func (r *OperatorTypeMismatchRule) Name() string              { return "operator-type-mismatch" }
func (r *OperatorTypeMismatchRule) Severity() tt.Severity     { return r.severity }
func (r *OperatorTypeMismatchRule) SetSeverity(s tt.Severity) { r.severity = s }

type FunctionArgumentsRule struct {
	severity tt.Severity
}

func NewFunctionArgumentsRule() LintRule {
	return &FunctionArgumentsRule{severity: tt.SeverityError}
}

func (r *FunctionArgumentsRule) Check(filename string, tree *ast.Tree, model *schema.Model) ([]tt.Issue, error) {
	return lints.DetectFunctionArguments(filename, tree, model, r.severity)
}

func (r *FunctionArgumentsRule) Name() string              { return "function-arguments" }
func (r *FunctionArgumentsRule) Severity() tt.Severity     { return r.severity }
func (r *FunctionArgumentsRule) SetSeverity(s tt.Severity) { r.severity = s }

type UnknownFieldRule struct {
	severity tt.Severity
}

func NewUnknownFieldRule() LintRule {
	return &UnknownFieldRule{severity: tt.SeverityWarning}
}

func (r *UnknownFieldRule) Check(filename string, tree *ast.Tree, model *schema.Model) ([]tt.Issue, error) {
	return lints.DetectUnknownFields(filename, tree, model, r.severity)
}

func (r *UnknownFieldRule) Name() string              { return "unknown-field" }
func (r *UnknownFieldRule) Severity() tt.Severity     { return r.severity }
func (r *UnknownFieldRule) SetSeverity(s tt.Severity) { r.severity = s }

type UndefinedParameterRule struct {
	severity tt.Severity
}

func NewUndefinedParameterRule() LintRule {
	return &UndefinedParameterRule{severity: tt.SeverityWarning}
}

func (r *UndefinedParameterRule) Check(filename string, tree *ast.Tree, model *schema.Model) ([]tt.Issue, error) {
	return lints.DetectUndefinedParameters(filename, tree, model, r.severity)
}

func (r *UndefinedParameterRule) Name() string              { return "undefined-parameter" }
func (r *UndefinedParameterRule) Severity() tt.Severity     { return r.severity }
func (r *UndefinedParameterRule) SetSeverity(s tt.Severity) { r.severity = s }
