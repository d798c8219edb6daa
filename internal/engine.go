// Package internal wires the analysis layers into a lint engine: one parse
// and one schema extraction per file, then every enabled rule over the
// shared tree and model.
package internal

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	tt "github.com/surqlx/surlint/internal/types"
	"github.com/surqlx/surlint/parser"
	"github.com/surqlx/surlint/schema"
)

// Engine manages the linting process.
type Engine struct {
	ignoredRules map[string]bool
	rules        map[string]LintRule
	schemaCache  *schema.Cache

	watcher    *fsnotify.Watcher
	watchDirs  []string
	isWatching bool
}

// NewEngine creates a new lint engine.
func NewEngine(rules map[string]tt.ConfigRule) (*Engine, error) {
	engine := &Engine{schemaCache: schema.NewCache()}
	engine.applyRules(rules)
	return engine, nil
}

type ruleConstructor func() LintRule

type ruleMap map[string]ruleConstructor

var allRuleConstructors = ruleMap{
	"syntax-error":           NewSyntaxErrorRule,
	"field-type-mismatch":    NewFieldTypeMismatchRule,
	"operator-type-mismatch": NewOperatorTypeMismatchRule,
	"function-arguments":     NewFunctionArgumentsRule,
	"unknown-field":          NewUnknownFieldRule,
	"undefined-parameter":    NewUndefinedParameterRule,
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) {
	e.rules = make(map[string]LintRule)
	e.registerDefaultRules()

	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			newRuleCstr := allRuleConstructors[key]
			if newRuleCstr == nil {
				// unknown rule, continue to the next one
				continue
			}
			newRule := newRuleCstr()
			newRule.SetSeverity(rule.Severity)
			e.rules[key] = newRule
		} else {
			if rule.Severity == tt.SeverityOff {
				e.IgnoreRule(key)
			}
			r.SetSeverity(rule.Severity)
		}
	}
}

func (e *Engine) registerDefaultRules() {
	for key, newRuleCstr := range allRuleConstructors {
		newRule := newRuleCstr()
		if newRule.Severity() != tt.SeverityOff {
			e.rules[key] = newRule
		}
	}
}

func (e *Engine) findRule(name string) LintRule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	return nil
}

// Run applies all lint rules to the given file and returns a slice of Issues.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return e.run(filename, string(content))
}

// RunSource applies all lint rules to the given source and returns a slice
// of Issues.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	return e.run("", string(source))
}

func (e *Engine) run(filename, source string) ([]tt.Issue, error) {
	tree := parser.Parse(source)
	model := e.schemaCache.ForTree(tree)

	var wg sync.WaitGroup
	var mu sync.Mutex

	var allIssues []tt.Issue
	for _, rule := range e.rules {
		wg.Add(1)
		go func(r LintRule) {
			defer wg.Done()
			if e.ignoredRules[r.Name()] {
				return
			}
			issues, err := r.Check(filename, tree, model)
			if err != nil {
				return
			}

			mu.Lock()
			allIssues = append(allIssues, issues...)
			mu.Unlock()
		}(rule)
	}
	wg.Wait()

	return allIssues, nil
}

// IgnoreRule suppresses a rule by name for subsequent runs.
func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// Invalidate drops the cached schema for a source text after an edit.
func (e *Engine) Invalidate(source string) {
	e.schemaCache.Invalidate(source)
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a
// `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	return &SourceCode{Lines: lines}, nil
}

// SourceCodeOf wraps an in-memory source text for the formatter.
func SourceCodeOf(source string) *SourceCode {
	return &SourceCode{Lines: strings.Split(source, "\n")}
}
