// Package masking rewrites variable tokens in raw log lines before
// clustering.
//
// A Masker applies an ordered list of regex instructions to each line.
// Every match of an instruction is replaced by its mask name wrapped in
// the configured prefix and suffix (by default "<name>"), so that lines
// differing only in IDs, numbers or paths collapse onto the same token
// sequence. Masking is pure text rewriting with no side effects.
package masking

import (
	"fmt"
	"regexp"
)

// Default placeholder delimiters.
const (
	DefaultPrefix = "<"
	DefaultSuffix = ">"
)

// Instruction is one masking rule: a compiled pattern and the name its
// matches are replaced with.
type Instruction struct {
	regex    *regexp.Regexp
	maskWith string
}

// NewInstruction compiles a masking instruction.
func NewInstruction(pattern, maskWith string) (*Instruction, error) {
	if pattern == "" {
		return nil, fmt.Errorf("masking: empty pattern")
	}
	if maskWith == "" {
		return nil, fmt.Errorf("masking: empty mask name for pattern %q", pattern)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("masking: compile %q: %w", pattern, err)
	}
	return &Instruction{regex: re, maskWith: maskWith}, nil
}

// Pattern returns the source pattern of the instruction.
func (i *Instruction) Pattern() string {
	return i.regex.String()
}

// MaskWith returns the mask name of the instruction.
func (i *Instruction) MaskWith() string {
	return i.maskWith
}

// Masker applies masking instructions in order.
type Masker struct {
	instructions []*Instruction
	prefix       string
	suffix       string
}

// Option configures a Masker.
type Option func(*Masker)

// WithPrefix overrides the placeholder prefix.
func WithPrefix(prefix string) Option {
	return func(m *Masker) {
		m.prefix = prefix
	}
}

// WithSuffix overrides the placeholder suffix.
func WithSuffix(suffix string) Option {
	return func(m *Masker) {
		m.suffix = suffix
	}
}

// New creates a Masker. A nil or empty instruction list is valid: Mask
// then returns its input unchanged.
func New(instructions []*Instruction, opts ...Option) *Masker {
	m := &Masker{
		instructions: instructions,
		prefix:       DefaultPrefix,
		suffix:       DefaultSuffix,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mask rewrites every match of every instruction, in instruction order,
// with the instruction's placeholder.
func (m *Masker) Mask(raw string) string {
	content := raw
	for _, ins := range m.instructions {
		content = ins.regex.ReplaceAllString(content, m.prefix+ins.maskWith+m.suffix)
	}
	return content
}
