package vm

import (
	"baguette/pkg/parser/codegen"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Program is decoded intermediate code plus its jump and entry tables.
// It is never modified after LoadProgram.
type Program struct {
	Instructions []codegen.Instruction
	Tags         map[string]int // tag name -> instruction index
	Functions    map[string]int // function name -> index of its function marker
	Fingerprint  string         // SHA-256 of the canonical program text
}

// LoadProgram decodes program text (one `op[,operand]` per line) and indexes it.
// Blank lines are ignored.
func LoadProgram(text string) (*Program, error) {
	p := &Program{
		Instructions: make([]codegen.Instruction, 0, strings.Count(text, "\n")+1),
		Tags:         make(map[string]int),
		Functions:    make(map[string]int),
	}

	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		in, err := decodeInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		p.Instructions = append(p.Instructions, in)
	}

	if err := p.indexProgram(); err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(codegen.Format(p.Instructions)))
	p.Fingerprint = hex.EncodeToString(sum[:])

	return p, nil
}

// decodeInstruction parses one line. Operands cannot contain commas.
func decodeInstruction(line string) (codegen.Instruction, error) {
	fields := strings.Split(line, ",")
	op := codegen.Operation(fields[0])

	if !op.Valid() {
		return codegen.Instruction{}, fmt.Errorf("%w: unknown instruction %q", ErrDecode, line)
	}
	if len(fields) > 2 {
		return codegen.Instruction{}, fmt.Errorf("%w: too many fields in %q", ErrDecode, line)
	}
	if op.HasOperand() != (len(fields) == 2) {
		return codegen.Instruction{}, fmt.Errorf("%w: wrong operand count in %q", ErrDecode, line)
	}

	in := codegen.Instruction{Op: op}
	if len(fields) == 2 {
		in.Operand = fields[1]
	}

	switch op {
	case codegen.OpPushNum:
		if _, err := strconv.ParseFloat(in.Operand, 64); err != nil {
			return in, fmt.Errorf("%w: bad number in %q", ErrDecode, line)
		}
	case codegen.OpPushBool:
		if in.Operand != "true" && in.Operand != "false" {
			return in, fmt.Errorf("%w: bad boolean in %q", ErrDecode, line)
		}
	}

	return in, nil
}

// indexProgram records every tag and function entry position
func (p *Program) indexProgram() error {
	for idx, in := range p.Instructions {
		switch in.Op {
		case codegen.OpTag:
			if _, dup := p.Tags[in.Operand]; dup {
				return fmt.Errorf("%w: duplicate tag %s", ErrDecode, in.Operand)
			}
			p.Tags[in.Operand] = idx
		case codegen.OpFunction:
			if _, dup := p.Functions[in.Operand]; dup {
				return fmt.Errorf("%w: duplicate function %s", ErrDecode, in.Operand)
			}
			p.Functions[in.Operand] = idx
		}
	}

	return nil
}

// Text returns the canonical program text
func (p *Program) Text() string {
	return codegen.Format(p.Instructions)
}
