package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		op   CodeOp
		text string
	}){
		{0x00e0, OP_CLS, "cls"},
		{0x00ee, OP_RET, "ret"},
		{0x0000, OP_CLS, "dw 0x0000 ; cls"},
		{0x012e, OP_RET, "dw 0x012e ; ret"},
		{0x0123, OP_UNKNOWN, "dw 0x0123"},
		{0x1abc, OP_JP, "jp 0xabc"},
		{0x2abc, OP_CALL, "call 0xabc"},
		{0x3a42, OP_SE_BYTE, "se va, 0x42"},
		{0x4a42, OP_SNE_BYTE, "sne va, 0x42"},
		{0x5ab0, OP_SE_REG, "se va, vb"},
		{0x5ab1, OP_SE_REG, "dw 0x5ab1 ; se va, vb"},
		{0x6a42, OP_LD_BYTE, "ld va, 0x42"},
		{0x7a42, OP_ADD_BYTE, "add va, 0x42"},
		{0x8ab0, OP_LD_REG, "ld va, vb"},
		{0x8ab1, OP_OR, "or va, vb"},
		{0x8ab2, OP_AND, "and va, vb"},
		{0x8ab3, OP_XOR, "xor va, vb"},
		{0x8ab4, OP_ADD_REG, "add va, vb"},
		{0x8ab5, OP_SUB, "sub va, vb"},
		{0x8ab6, OP_SHR, "shr va, vb"},
		{0x8ab7, OP_SUBN, "subn va, vb"},
		{0x8abe, OP_SHL, "shl va, vb"},
		{0x8ab8, OP_UNKNOWN, "dw 0x8ab8"},
		{0x9ab0, OP_SNE_REG, "sne va, vb"},
		{0x9abf, OP_SNE_REG, "dw 0x9abf ; sne va, vb"},
		{0xa123, OP_LD_I, "ld i, 0x123"},
		{0xb123, OP_JP_V0, "jp v0, 0x123"},
		{0xca0f, OP_RND, "rnd va, 0x0f"},
		{0xdab5, OP_DRW, "drw va, vb, 5"},
		{0xea9e, OP_SKP, "skp va"},
		{0xeaa1, OP_SKNP, "sknp va"},
		{0xea00, OP_UNKNOWN, "dw 0xea00"},
		{0xfa07, OP_LD_VX_DT, "ld va, dt"},
		{0xfa0a, OP_LD_VX_K, "ld va, k"},
		{0xfa15, OP_LD_DT_VX, "ld dt, va"},
		{0xfa18, OP_LD_ST_VX, "ld st, va"},
		{0xfa1e, OP_ADD_I, "add i, va"},
		{0xfa29, OP_LD_F, "ld f, va"},
		{0xfa33, OP_LD_B, "ld b, va"},
		{0xfa55, OP_LD_MEM_VX, "ld [i], va"},
		{0xfa65, OP_LD_VX_MEM, "ld va, [i]"},
		{0xfa66, OP_UNKNOWN, "dw 0xfa66"},
	}

	for _, entry := range table {
		assert.Equal(entry.op, entry.code.Op(), entry.text)
		assert.Equal(entry.text, entry.code.String())
	}
}

func TestCode_Make(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Code(0x1abc), MakeCodeNNN(FAMILY_JP, 0xabc))
	assert.Equal(Code(0x1abc), MakeCodeNNN(FAMILY_JP, 0xfabc))
	assert.Equal(Code(0x6a42), MakeCodeXNN(FAMILY_LD_BYTE, 0xa, 0x42))
	assert.Equal(Code(0xdab5), MakeCodeXYN(FAMILY_DRW, 0xa, 0xb, 5))

	code := Code(0xdab5)
	assert.Equal(FAMILY_DRW, code.Family())
	assert.Equal(0xa, code.X())
	assert.Equal(0xb, code.Y())
	assert.Equal(uint8(5), code.N())
	assert.Equal(uint8(0xb5), code.NN())
	assert.Equal(uint16(0xab5), code.NNN())
}
