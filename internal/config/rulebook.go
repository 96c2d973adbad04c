package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/deathnote/internal/note"
)

// rulebookSchema constrains rulebook files: a non-empty list of rules, none
// of them blank. The definition is closed, so unknown fields are rejected.
const rulebookSchema = `
#Rulebook: {
	rules: [string & =~"\\S", ...string & =~"\\S"]
}
`

// RulebookError reports an invalid rulebook file.
type RulebookError struct {
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *RulebookError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// LoadRulebook reads a CUE rulebook file of the form
//
//	rules: [
//		"The human whose name is written in this note shall die.",
//		...
//	]
//
// and returns it as a Rulebook.
func LoadRulebook(path string) (*note.Rulebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rulebook: %w", err)
	}
	return ParseRulebook(path, data)
}

// ParseRulebook validates CUE source against the rulebook schema.
// filename is used in error positions.
func ParseRulebook(filename string, src []byte) (*note.Rulebook, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(rulebookSchema, cue.Filename("rulebook_schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile rulebook schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Rulebook"))

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(filename, err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(filename, err)
	}

	var doc struct {
		Rules []string `json:"rules"`
	}
	if err := unified.Decode(&doc); err != nil {
		return nil, formatCUEError(filename, err)
	}

	rb, err := note.NewRulebook(doc.Rules...)
	if err != nil {
		return nil, &RulebookError{Path: filename, Message: err.Error()}
	}
	return rb, nil
}

// formatCUEError converts the first CUE error into a RulebookError carrying
// its source position.
func formatCUEError(path string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &RulebookError{Path: path, Message: err.Error()}
	}

	first := errs[0]
	rbErr := &RulebookError{Path: path, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		rbErr.Pos = positions[0]
	}
	return rbErr
}
