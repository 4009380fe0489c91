package cpu

import (
	"fmt"
)

// CodeFamily is the top nibble of an instruction word.
type CodeFamily uint8

const (
	FAMILY_SYS      = CodeFamily(0x0)
	FAMILY_JP       = CodeFamily(0x1)
	FAMILY_CALL     = CodeFamily(0x2)
	FAMILY_SE_BYTE  = CodeFamily(0x3)
	FAMILY_SNE_BYTE = CodeFamily(0x4)
	FAMILY_SE_REG   = CodeFamily(0x5)
	FAMILY_LD_BYTE  = CodeFamily(0x6)
	FAMILY_ADD_BYTE = CodeFamily(0x7)
	FAMILY_ALU      = CodeFamily(0x8)
	FAMILY_SNE_REG  = CodeFamily(0x9)
	FAMILY_LD_I     = CodeFamily(0xa)
	FAMILY_JP_V0    = CodeFamily(0xb)
	FAMILY_RND      = CodeFamily(0xc)
	FAMILY_DRW      = CodeFamily(0xd)
	FAMILY_KEY      = CodeFamily(0xe)
	FAMILY_MISC     = CodeFamily(0xf)
)

// CodeOp is a decoded instruction.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_UNKNOWN   = CodeOp(0)  // dw
	OP_CLS       = CodeOp(1)  // cls
	OP_RET       = CodeOp(2)  // ret
	OP_JP        = CodeOp(3)  // jp
	OP_CALL      = CodeOp(4)  // call
	OP_SE_BYTE   = CodeOp(5)  // se
	OP_SNE_BYTE  = CodeOp(6)  // sne
	OP_SE_REG    = CodeOp(7)  // se
	OP_LD_BYTE   = CodeOp(8)  // ld
	OP_ADD_BYTE  = CodeOp(9)  // add
	OP_LD_REG    = CodeOp(10) // ld
	OP_OR        = CodeOp(11) // or
	OP_AND       = CodeOp(12) // and
	OP_XOR       = CodeOp(13) // xor
	OP_ADD_REG   = CodeOp(14) // add
	OP_SUB       = CodeOp(15) // sub
	OP_SHR       = CodeOp(16) // shr
	OP_SUBN      = CodeOp(17) // subn
	OP_SHL       = CodeOp(18) // shl
	OP_SNE_REG   = CodeOp(19) // sne
	OP_LD_I      = CodeOp(20) // ld
	OP_JP_V0     = CodeOp(21) // jp
	OP_RND       = CodeOp(22) // rnd
	OP_DRW       = CodeOp(23) // drw
	OP_SKP       = CodeOp(24) // skp
	OP_SKNP      = CodeOp(25) // sknp
	OP_LD_VX_DT  = CodeOp(26) // ld
	OP_LD_VX_K   = CodeOp(27) // ld
	OP_LD_DT_VX  = CodeOp(28) // ld
	OP_LD_ST_VX  = CodeOp(29) // ld
	OP_ADD_I     = CodeOp(30) // add
	OP_LD_F      = CodeOp(31) // ld
	OP_LD_B      = CodeOp(32) // ld
	OP_LD_MEM_VX = CodeOp(33) // ld
	OP_LD_VX_MEM = CodeOp(34) // ld
)

// Code is a single 16-bit instruction word.
type Code uint16

// MakeCodeNNN creates an instruction with a 12-bit address operand.
func MakeCodeNNN(family CodeFamily, nnn uint16) Code {
	return Code(uint16(family)<<12 | (nnn & 0xfff))
}

// MakeCodeXNN creates an instruction with a register and a byte operand.
func MakeCodeXNN(family CodeFamily, x int, nn uint8) Code {
	return Code(uint16(family)<<12 | uint16(x&0xf)<<8 | uint16(nn))
}

// MakeCodeXYN creates an instruction with two registers and a nibble operand.
func MakeCodeXYN(family CodeFamily, x, y int, n uint8) Code {
	return Code(uint16(family)<<12 | uint16(x&0xf)<<8 | uint16(y&0xf)<<4 | uint16(n&0xf))
}

// Family returns bits 12-15.
func (code Code) Family() CodeFamily {
	return CodeFamily(code >> 12)
}

// X returns the register index in bits 8-11.
func (code Code) X() int {
	return int((code >> 8) & 0xf)
}

// Y returns the register index in bits 4-7.
func (code Code) Y() int {
	return int((code >> 4) & 0xf)
}

// N returns bits 0-3.
func (code Code) N() uint8 {
	return uint8(code & 0xf)
}

// NN returns the low byte.
func (code Code) NN() uint8 {
	return uint8(code & 0xff)
}

// NNN returns the low 12 bits.
func (code Code) NNN() uint16 {
	return uint16(code & 0xfff)
}

// Op decodes the instruction by family and selector.
func (code Code) Op() CodeOp {
	switch code.Family() {
	case FAMILY_SYS:
		switch code.N() {
		case 0x0:
			return OP_CLS
		case 0xe:
			return OP_RET
		}
	case FAMILY_JP:
		return OP_JP
	case FAMILY_CALL:
		return OP_CALL
	case FAMILY_SE_BYTE:
		return OP_SE_BYTE
	case FAMILY_SNE_BYTE:
		return OP_SNE_BYTE
	case FAMILY_SE_REG:
		return OP_SE_REG
	case FAMILY_LD_BYTE:
		return OP_LD_BYTE
	case FAMILY_ADD_BYTE:
		return OP_ADD_BYTE
	case FAMILY_ALU:
		switch code.N() {
		case 0x0:
			return OP_LD_REG
		case 0x1:
			return OP_OR
		case 0x2:
			return OP_AND
		case 0x3:
			return OP_XOR
		case 0x4:
			return OP_ADD_REG
		case 0x5:
			return OP_SUB
		case 0x6:
			return OP_SHR
		case 0x7:
			return OP_SUBN
		case 0xe:
			return OP_SHL
		}
	case FAMILY_SNE_REG:
		return OP_SNE_REG
	case FAMILY_LD_I:
		return OP_LD_I
	case FAMILY_JP_V0:
		return OP_JP_V0
	case FAMILY_RND:
		return OP_RND
	case FAMILY_DRW:
		return OP_DRW
	case FAMILY_KEY:
		switch code.NN() {
		case 0x9e:
			return OP_SKP
		case 0xa1:
			return OP_SKNP
		}
	case FAMILY_MISC:
		switch code.NN() {
		case 0x07:
			return OP_LD_VX_DT
		case 0x0a:
			return OP_LD_VX_K
		case 0x15:
			return OP_LD_DT_VX
		case 0x18:
			return OP_LD_ST_VX
		case 0x1e:
			return OP_ADD_I
		case 0x29:
			return OP_LD_F
		case 0x33:
			return OP_LD_B
		case 0x55:
			return OP_LD_MEM_VX
		case 0x65:
			return OP_LD_VX_MEM
		}
	}

	return OP_UNKNOWN
}

// Alias reports whether the word decodes to an instruction whose
// assembler form encodes to a different word, as 0x0120 does for cls.
func (code Code) Alias() bool {
	switch code.Op() {
	case OP_CLS:
		return code != 0x00e0
	case OP_RET:
		return code != 0x00ee
	case OP_SE_REG, OP_SNE_REG:
		return code.N() != 0
	}

	return false
}

// String returns the assembly language representation of this instruction.
// Aliased words are rendered as data, with the instruction in a comment.
func (code Code) String() (out string) {
	op := code.Op()
	x, y := code.X(), code.Y()

	switch op {
	case OP_UNKNOWN:
		out = fmt.Sprintf("%v 0x%04x", op, uint16(code))
	case OP_CLS, OP_RET:
		out = op.String()
	case OP_JP, OP_CALL:
		out = fmt.Sprintf("%v 0x%03x", op, code.NNN())
	case OP_SE_BYTE, OP_SNE_BYTE, OP_LD_BYTE, OP_ADD_BYTE, OP_RND:
		out = fmt.Sprintf("%v v%x, 0x%02x", op, x, code.NN())
	case OP_SE_REG, OP_SNE_REG, OP_LD_REG, OP_OR, OP_AND, OP_XOR,
		OP_ADD_REG, OP_SUB, OP_SHR, OP_SUBN, OP_SHL:
		out = fmt.Sprintf("%v v%x, v%x", op, x, y)
	case OP_LD_I:
		out = fmt.Sprintf("%v i, 0x%03x", op, code.NNN())
	case OP_JP_V0:
		out = fmt.Sprintf("%v v0, 0x%03x", op, code.NNN())
	case OP_DRW:
		out = fmt.Sprintf("%v v%x, v%x, %d", op, x, y, code.N())
	case OP_SKP, OP_SKNP:
		out = fmt.Sprintf("%v v%x", op, x)
	case OP_LD_VX_DT:
		out = fmt.Sprintf("%v v%x, dt", op, x)
	case OP_LD_VX_K:
		out = fmt.Sprintf("%v v%x, k", op, x)
	case OP_LD_DT_VX:
		out = fmt.Sprintf("%v dt, v%x", op, x)
	case OP_LD_ST_VX:
		out = fmt.Sprintf("%v st, v%x", op, x)
	case OP_ADD_I:
		out = fmt.Sprintf("%v i, v%x", op, x)
	case OP_LD_F:
		out = fmt.Sprintf("%v f, v%x", op, x)
	case OP_LD_B:
		out = fmt.Sprintf("%v b, v%x", op, x)
	case OP_LD_MEM_VX:
		out = fmt.Sprintf("%v [i], v%x", op, x)
	case OP_LD_VX_MEM:
		out = fmt.Sprintf("%v v%x, [i]", op, x)
	}

	if code.Alias() {
		out = fmt.Sprintf("%v 0x%04x ; %v", OP_UNKNOWN, uint16(code), out)
	}

	return
}
