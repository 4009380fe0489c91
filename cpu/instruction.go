package cpu

import (
	"github.com/ezrec/chip8/machine"
)

// instruction applies one decoded instruction to the machine, including the
// program counter update. Handlers check every failure condition before
// mutating state.
type instruction func(cpu *Cpu, code Code) (err error)

var instructions = [...]instruction{
	OP_CLS:       opCls,
	OP_RET:       opRet,
	OP_JP:        opJp,
	OP_CALL:      opCall,
	OP_SE_BYTE:   opSeByte,
	OP_SNE_BYTE:  opSneByte,
	OP_SE_REG:    opSeReg,
	OP_LD_BYTE:   opLdByte,
	OP_ADD_BYTE:  opAddByte,
	OP_LD_REG:    opLdReg,
	OP_OR:        opOr,
	OP_AND:       opAnd,
	OP_XOR:       opXor,
	OP_ADD_REG:   opAddReg,
	OP_SUB:       opSub,
	OP_SHR:       opShr,
	OP_SUBN:      opSubn,
	OP_SHL:       opShl,
	OP_SNE_REG:   opSneReg,
	OP_LD_I:      opLdI,
	OP_JP_V0:     opJpV0,
	OP_RND:       opRnd,
	OP_DRW:       opDrw,
	OP_SKP:       opSkp,
	OP_SKNP:      opSknp,
	OP_LD_VX_DT:  opLdVxDt,
	OP_LD_VX_K:   opLdVxK,
	OP_LD_DT_VX:  opLdDtVx,
	OP_LD_ST_VX:  opLdStVx,
	OP_ADD_I:     opAddI,
	OP_LD_F:      opLdF,
	OP_LD_B:      opLdB,
	OP_LD_MEM_VX: opLdMemVx,
	OP_LD_VX_MEM: opLdVxMem,
}

// skip advances past the current instruction, and past the next one too
// when cond holds.
func skip(st *machine.State, cond bool) {
	if cond {
		st.PC += 2 * CODE_SIZE
	} else {
		st.PC += CODE_SIZE
	}
}

// 00E0 - clear the display.
func opCls(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.Display.Clear()
	st.PC += CODE_SIZE
	return
}

// 00EE - return to the instruction after the matching call.
func opRet(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	addr, ok := st.Stack.Pop()
	if !ok {
		err = machine.ErrStackUnderflow
		return
	}
	st.PC = addr + CODE_SIZE
	return
}

// 1NNN - jump to NNN.
func opJp(cpu *Cpu, code Code) (err error) {
	cpu.State.PC = code.NNN()
	return
}

// 2NNN - push the address of this call, jump to NNN.
func opCall(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	if !st.Stack.Push(st.PC) {
		err = machine.ErrStackOverflow
		return
	}
	st.PC = code.NNN()
	return
}

// 3XNN - skip if VX == NN.
func opSeByte(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	skip(st, st.V[code.X()] == code.NN())
	return
}

// 4XNN - skip if VX != NN.
func opSneByte(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	skip(st, st.V[code.X()] != code.NN())
	return
}

// 5XY0 - skip if VX == VY.
func opSeReg(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	skip(st, st.V[code.X()] == st.V[code.Y()])
	return
}

// 6XNN - VX = NN.
func opLdByte(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.V[code.X()] = code.NN()
	st.PC += CODE_SIZE
	return
}

// 7XNN - VX += NN, no flag.
func opAddByte(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.V[code.X()] += code.NN()
	st.PC += CODE_SIZE
	return
}

// 8XY0 - VX = VY.
func opLdReg(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.V[code.X()] = st.V[code.Y()]
	st.PC += CODE_SIZE
	return
}

// 8XY1 - VX |= VY.
func opOr(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.V[code.X()] |= st.V[code.Y()]
	st.PC += CODE_SIZE
	return
}

// 8XY2 - VX &= VY.
func opAnd(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.V[code.X()] &= st.V[code.Y()]
	st.PC += CODE_SIZE
	return
}

// 8XY3 - VX ^= VY.
func opXor(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.V[code.X()] ^= st.V[code.Y()]
	st.PC += CODE_SIZE
	return
}

// setFlag writes VF after the result, so VF as a destination holds the flag.
func setFlag(st *machine.State, set bool) {
	if set {
		st.V[machine.REGISTER_FLAG] = 1
	} else {
		st.V[machine.REGISTER_FLAG] = 0
	}
}

// 8XY4 - VX += VY, VF = carry.
func opAddReg(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	sum := uint16(st.V[code.X()]) + uint16(st.V[code.Y()])
	st.V[code.X()] = uint8(sum)
	setFlag(st, sum > 0xff)
	st.PC += CODE_SIZE
	return
}

// 8XY5 - VX -= VY, VF = not borrow.
func opSub(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	vx, vy := st.V[code.X()], st.V[code.Y()]
	st.V[code.X()] = vx - vy
	setFlag(st, vy <= vx)
	st.PC += CODE_SIZE
	return
}

// 8XY6 - VX = VY >> 1, VF = bit shifted out.
func opShr(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	vy := st.V[code.Y()]
	st.V[code.X()] = vy >> 1
	setFlag(st, vy&0x01 != 0)
	st.PC += CODE_SIZE
	return
}

// 8XY7 - VX = VY - VX, VF = not borrow.
func opSubn(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	vx, vy := st.V[code.X()], st.V[code.Y()]
	st.V[code.X()] = vy - vx
	setFlag(st, vx <= vy)
	st.PC += CODE_SIZE
	return
}

// 8XYE - VX = VY << 1, VF = bit shifted out.
func opShl(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	vy := st.V[code.Y()]
	st.V[code.X()] = vy << 1
	setFlag(st, vy&0x80 != 0)
	st.PC += CODE_SIZE
	return
}

// 9XY0 - skip if VX != VY.
func opSneReg(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	skip(st, st.V[code.X()] != st.V[code.Y()])
	return
}

// ANNN - I = NNN.
func opLdI(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.I = code.NNN()
	st.PC += CODE_SIZE
	return
}

// BNNN - jump to NNN + V0.
func opJpV0(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.PC = code.NNN() + uint16(st.V[0])
	return
}

// CXNN - VX = random & NN.
func opRnd(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.V[code.X()] = uint8(cpu.Random.Uint32()) & code.NN()
	st.PC += CODE_SIZE
	return
}

// DXYN - XOR an 8xN sprite from [I] onto the display at (VX, VY), wrapping
// at the edges. VF = 1 if any set pixel was erased.
func opDrw(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	rows := int(code.N())

	err = st.Span(st.I, rows)
	if err != nil {
		return
	}

	x0 := int(st.V[code.X()])
	y0 := int(st.V[code.Y()])

	var erased bool
	for row := range rows {
		sprite := st.Memory[int(st.I)+row]
		for col := range 8 {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			if st.Display.Flip(x0+col, y0+row) {
				erased = true
			}
		}
	}

	setFlag(st, erased)
	st.PC += CODE_SIZE
	return
}

// EX9E - skip if key VX is pressed.
func opSkp(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	skip(st, st.Keys[st.V[code.X()]&0xf])
	return
}

// EXA1 - skip if key VX is released.
func opSknp(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	skip(st, !st.Keys[st.V[code.X()]&0xf])
	return
}

// FX07 - VX = delay timer.
func opLdVxDt(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.V[code.X()] = st.DelayTimer
	st.PC += CODE_SIZE
	return
}

// FX0A - wait for a key. With any key down, VX = the highest pressed key
// and execution continues; otherwise PC stays put and the instruction
// repeats on the next cycle.
func opLdVxK(cpu *Cpu, code Code) (err error) {
	st := cpu.State

	pressed := false
	for key, down := range st.Keys {
		if down {
			st.V[code.X()] = uint8(key)
			pressed = true
		}
	}

	if pressed {
		st.PC += CODE_SIZE
	}
	return
}

// FX15 - delay timer = VX.
func opLdDtVx(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.DelayTimer = st.V[code.X()]
	st.PC += CODE_SIZE
	return
}

// FX18 - sound timer = VX.
func opLdStVx(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.SoundTimer = st.V[code.X()]
	st.PC += CODE_SIZE
	return
}

// FX1E - I = (I + VX) mod 4096.
func opAddI(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.I = (st.I + uint16(st.V[code.X()])) & 0xfff
	st.PC += CODE_SIZE
	return
}

// FX29 - I = address of the font glyph for the low nibble of VX.
func opLdF(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	st.I = machine.Glyph(st.V[code.X()])
	st.PC += CODE_SIZE
	return
}

// FX33 - store the decimal digits of VX at [I], [I+1], [I+2].
func opLdB(cpu *Cpu, code Code) (err error) {
	st := cpu.State

	err = st.Span(st.I, 3)
	if err != nil {
		return
	}

	value := st.V[code.X()]
	st.Memory[st.I+0] = value / 100
	st.Memory[st.I+1] = (value / 10) % 10
	st.Memory[st.I+2] = value % 10
	st.PC += CODE_SIZE
	return
}

// FX55 - store V0..VX at [I]..[I+X], then I += X + 1.
func opLdMemVx(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	count := code.X() + 1

	err = st.Span(st.I, count)
	if err != nil {
		return
	}

	copy(st.Memory[st.I:int(st.I)+count], st.V[:count])
	st.I += uint16(count)
	st.PC += CODE_SIZE
	return
}

// FX65 - load V0..VX from [I]..[I+X], then I += X + 1.
func opLdVxMem(cpu *Cpu, code Code) (err error) {
	st := cpu.State
	count := code.X() + 1

	err = st.Span(st.I, count)
	if err != nil {
		return
	}

	copy(st.V[:count], st.Memory[st.I:int(st.I)+count])
	st.I += uint16(count)
	st.PC += CODE_SIZE
	return
}
