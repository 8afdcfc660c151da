package asm

import (
	"bufio"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Line is a single line of a rule body.
type Line struct {
	LineNo int    // Source line number.
	Text   string // Line text, comment stripped.
}

// Rule is a named program template with its instance layout.
type Rule struct {
	Name    string // Rule name.
	Prefix  string // Optional 'prefix#' qualifier.
	Count   int    // Number of cell instances.
	Default int32  // Initial R channel of every instance.

	ProgramAddress   int // Instruction memory entry address.
	StateBaseAddress int // State memory word offset of the first instance.

	Body []Line // Body lines, in source order.
}

var (
	ruleHeader = regexp.MustCompile(`^([\w#]+)\s*(?:\((\d+)\))?\s*(?:=\s*(-?\d+))?\s*:$`)
	validName  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_#]*$`)
)

// ValidName reports whether name is a valid rule or variable identifier.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

// Records returns the index of the first state record of the rule.
func (rule *Rule) Records() int {
	return rule.StateBaseAddress / 4
}

// Clone returns a copy of the rule that shares no body lines with rule.
func (rule *Rule) Clone() *Rule {
	clone := *rule
	clone.Body = slices.Clone(rule.Body)
	return &clone
}

// parseHeader parses a rule header line, returning nil if the line is not
// a header.
func parseHeader(line string) (rule *Rule, err error) {
	match := ruleHeader.FindStringSubmatch(line)
	if match == nil {
		return
	}

	ident := match[1]
	if !ValidName(ident) {
		err = ErrRuleName(ident)
		return
	}

	rule = &Rule{Name: ident}
	prefix, name, found := strings.Cut(ident, "#")
	if found {
		if len(name) == 0 || strings.Contains(name, "#") || !ValidName(name) {
			rule = nil
			err = ErrRuleName(ident)
			return
		}
		rule.Prefix = prefix
		rule.Name = name
	}

	if len(match[2]) != 0 {
		rule.Count, err = strconv.Atoi(match[2])
		if err != nil {
			rule = nil
			return
		}
	}

	if len(match[3]) != 0 {
		var value int64
		value, err = strconv.ParseInt(match[3], 10, 32)
		if err != nil {
			rule = nil
			return
		}
		rule.Default = int32(value)
	}

	return
}

// Extract splits source text into rules, in declaration order.
func Extract(input io.Reader) (rules []*Rule, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	names := map[string]bool{}
	var current *Rule

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		text_comment, _, _ := strings.Cut(text, ";")
		line = strings.TrimSpace(text_comment)
		if len(line) == 0 {
			continue
		}

		var rule *Rule
		rule, err = parseHeader(line)
		if err != nil {
			return
		}

		if rule != nil {
			if names[rule.Name] {
				err = ErrRuleDuplicate(rule.Name)
				return
			}
			names[rule.Name] = true
			rules = append(rules, rule)
			current = rule
			continue
		}

		if current == nil {
			err = ErrOrphanLine
			return
		}

		current.Body = append(current.Body, Line{LineNo: lineno, Text: line})
	}

	err = scanner.Err()

	return
}
