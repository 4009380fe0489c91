// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/chip8/machine"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":       "0",
	"PROGRAM_BASE": fmt.Sprintf("%#x", machine.PROGRAM_BASE),
	"FONT_BASE":    fmt.Sprintf("%#x", machine.FONT_BASE),
	"FONT_GLYPH":   fmt.Sprintf("%d", machine.FONT_GLYPH),
}

// Assembler is a single pass macro assembler for CHIP-8 programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to load addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var reLabel = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
var reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// register returns the register index of a 'vN' word.
func register(word string) (x int, ok bool) {
	if len(word) != 2 || (word[0] != 'v' && word[0] != 'V') {
		return
	}

	value, err := strconv.ParseUint(word[1:], 16, 4)
	if err != nil {
		return
	}

	x = int(value)
	ok = true
	return
}

// isLabel reports whether word can name a label.
func isLabel(word string) bool {
	if _, ok := register(word); ok {
		return false
	}
	return reLabel.MatchString(word)
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	invert := false
	if len(word) > 1 && word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}
	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	if invert {
		value = ^value
	}

	return
}

// rangeOf returns the value of word, which must fit in bits, either
// unsigned or as a two's complement negative.
func (asm *Assembler) rangeOf(word string, bits int) (value uint16, err error) {
	v, err := asm.valueOf(word)
	if err != nil {
		return
	}

	limit := 1 << bits
	if v >= limit || v < -(limit/2) {
		err = ErrValueRange
		return
	}

	value = uint16(v) & uint16(limit-1)
	return
}

// addrOf returns a 12-bit address, or the label to link it to.
func (asm *Assembler) addrOf(word string) (addr uint16, label string, err error) {
	addr, err = asm.rangeOf(word, 12)
	if err == nil || err == ErrValueRange {
		return
	}

	if !isLabel(word) {
		return
	}

	label = word
	err = nil
	return
}

// registerOf returns the register index of word.
func (asm *Assembler) registerOf(word string) (x int, err error) {
	x, ok := register(word)
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	for key, addr := range asm.Label {
		if !reIdentifier.MatchString(key) {
			continue
		}
		pred[key] = starlark.MakeInt(addr)
	}
	err = nil
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

var reCharacter = regexp.MustCompile(`'\\?[^']'`)
var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// splitWords splits on blanks and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !isLabel(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// '@' makes labels local to this expansion.
		local := fmt.Sprintf("%v_%v_", name, lineno)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddr gets the load address of the next opcode.
func (asm *Assembler) currentAddr() int {
	if len(asm.Opcode) == 0 {
		return machine.PROGRAM_BASE
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return int(last.Addr) + len(last.Data)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Opcode = asm.Opcode[:0]
	asm.Macro = make(map[string](*Macro))
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		op.Data[0] |= byte(addr>>8) & 0x0f
		op.Data[1] |= byte(addr)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// aluMap maps register to register ALU mnemonics to their selector.
var aluMap = map[string]uint8{
	"or":   0x1,
	"and":  0x2,
	"xor":  0x3,
	"sub":  0x5,
	"shr":  0x6,
	"subn": 0x7,
	"shl":  0xe,
}

// miscMap maps 'ld' special operands to their FX selector.
var miscMap = map[string]uint8{
	"dt":  0x15,
	"st":  0x18,
	"f":   0x29,
	"b":   0x33,
	"[i]": 0x55,
}

// argCount checks the number of opcode arguments.
func argCount(args []string, count int) (err error) {
	switch {
	case len(args) < count:
		err = ErrOpcodeValueMissing
	case len(args) > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []byte
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	defer func() {
		if err != nil || len(data) == 0 {
			return
		}
		addr := asm.currentAddr()
		if addr+len(data) > machine.MEMORY_SIZE {
			err = ErrProgramTooLarge
			return
		}
		opcode := Opcode{LineNo: lineno, Addr: uint16(addr), Words: words, Data: data, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	emit := func(code Code) {
		data = append(data, byte(code>>8), byte(code))
	}

	op, args := strings.ToLower(words[0]), words[1:]

	switch op {
	case "cls", "ret":
		err = argCount(args, 0)
		if err != nil {
			return
		}
		if op == "cls" {
			emit(0x00e0)
		} else {
			emit(0x00ee)
		}
	case "jp", "call":
		family := FAMILY_JP
		if op == "call" {
			family = FAMILY_CALL
		}
		if op == "jp" && len(args) == 2 {
			// jp v0, NNN
			var x int
			x, err = asm.registerOf(args[0])
			if err != nil {
				return
			}
			if x != 0 {
				err = ErrRegisterInvalid
				return
			}
			family = FAMILY_JP_V0
			args = args[1:]
		}
		err = argCount(args, 1)
		if err != nil {
			return
		}
		var addr uint16
		addr, label, err = asm.addrOf(args[0])
		if err != nil {
			return
		}
		emit(MakeCodeNNN(family, addr))
	case "se", "sne":
		err = argCount(args, 2)
		if err != nil {
			return
		}
		var x int
		x, err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		if y, ok := register(args[1]); ok {
			family := FAMILY_SE_REG
			if op == "sne" {
				family = FAMILY_SNE_REG
			}
			emit(MakeCodeXYN(family, x, y, 0))
			return
		}
		var nn uint16
		nn, err = asm.rangeOf(args[1], 8)
		if err != nil {
			return
		}
		family := FAMILY_SE_BYTE
		if op == "sne" {
			family = FAMILY_SNE_BYTE
		}
		emit(MakeCodeXNN(family, x, uint8(nn)))
	case "ld":
		err = argCount(args, 2)
		if err != nil {
			return
		}
		dst, src := strings.ToLower(args[0]), strings.ToLower(args[1])
		if dst == "i" {
			var addr uint16
			addr, label, err = asm.addrOf(args[1])
			if err != nil {
				return
			}
			emit(MakeCodeNNN(FAMILY_LD_I, addr))
			return
		}
		if sel, ok := miscMap[dst]; ok {
			var x int
			x, err = asm.registerOf(args[1])
			if err != nil {
				return
			}
			emit(MakeCodeXNN(FAMILY_MISC, x, sel))
			return
		}
		var x int
		x, err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		switch src {
		case "dt":
			emit(MakeCodeXNN(FAMILY_MISC, x, 0x07))
		case "k":
			emit(MakeCodeXNN(FAMILY_MISC, x, 0x0a))
		case "[i]":
			emit(MakeCodeXNN(FAMILY_MISC, x, 0x65))
		default:
			if y, ok := register(src); ok {
				emit(MakeCodeXYN(FAMILY_ALU, x, y, 0x0))
				return
			}
			var nn uint16
			nn, err = asm.rangeOf(args[1], 8)
			if err != nil {
				return
			}
			emit(MakeCodeXNN(FAMILY_LD_BYTE, x, uint8(nn)))
		}
	case "add":
		err = argCount(args, 2)
		if err != nil {
			return
		}
		if strings.ToLower(args[0]) == "i" {
			var x int
			x, err = asm.registerOf(args[1])
			if err != nil {
				return
			}
			emit(MakeCodeXNN(FAMILY_MISC, x, 0x1e))
			return
		}
		var x int
		x, err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		if y, ok := register(args[1]); ok {
			emit(MakeCodeXYN(FAMILY_ALU, x, y, 0x4))
			return
		}
		var nn uint16
		nn, err = asm.rangeOf(args[1], 8)
		if err != nil {
			return
		}
		emit(MakeCodeXNN(FAMILY_ADD_BYTE, x, uint8(nn)))
	case "or", "and", "xor", "sub", "shr", "subn", "shl":
		// 'shr vx' and 'shl vx' shift in place.
		if (op == "shr" || op == "shl") && len(args) == 1 {
			args = append(args, args[0])
		}
		err = argCount(args, 2)
		if err != nil {
			return
		}
		var x, y int
		x, err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		y, err = asm.registerOf(args[1])
		if err != nil {
			return
		}
		emit(MakeCodeXYN(FAMILY_ALU, x, y, aluMap[op]))
	case "rnd":
		err = argCount(args, 2)
		if err != nil {
			return
		}
		var x int
		x, err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		var nn uint16
		nn, err = asm.rangeOf(args[1], 8)
		if err != nil {
			return
		}
		emit(MakeCodeXNN(FAMILY_RND, x, uint8(nn)))
	case "drw":
		err = argCount(args, 3)
		if err != nil {
			return
		}
		var x, y int
		x, err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		y, err = asm.registerOf(args[1])
		if err != nil {
			return
		}
		var n uint16
		n, err = asm.rangeOf(args[2], 4)
		if err != nil {
			return
		}
		emit(MakeCodeXYN(FAMILY_DRW, x, y, uint8(n)))
	case "skp", "sknp":
		err = argCount(args, 1)
		if err != nil {
			return
		}
		var x int
		x, err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		sel := uint8(0x9e)
		if op == "sknp" {
			sel = 0xa1
		}
		emit(MakeCodeXNN(FAMILY_KEY, x, sel))
	case "db":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, arg := range args {
			var value uint16
			value, err = asm.rangeOf(arg, 8)
			if err != nil {
				return
			}
			data = append(data, byte(value))
		}
	case "dw":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) == 1 && isLabel(args[0]) {
			label = args[0]
			emit(0)
			return
		}
		for _, arg := range args {
			var value uint16
			value, err = asm.rangeOf(arg, 16)
			if err != nil {
				return
			}
			emit(Code(value))
		}
	default:
		err = ErrInstructionInvalid
		return
	}

	return
}
