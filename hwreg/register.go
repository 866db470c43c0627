// Package hwreg provides access to 32-bit control registers and a simulated
// register bank that stands in for SoC memory-mapped hardware.
package hwreg

// Register is a 32-bit hardware register.
type Register interface {
	// Get returns the current value of the register.
	Get() uint32

	// Set writes a value to the register.
	Set(value uint32)
}

// SetBits sets the bits in mask.
func SetBits(r Register, mask uint32) {
	r.Set(r.Get() | mask)
}

// ClearBits clears the bits in mask.
func ClearBits(r Register, mask uint32) {
	r.Set(r.Get() &^ mask)
}

// HasBits returns true if all the bits in mask are set.
func HasBits(r Register, mask uint32) bool {
	return r.Get()&mask == mask
}

// ReplaceBits replaces the bits selected by mask, shifted by pos, with value.
func ReplaceBits(r Register, value, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | (value&mask)<<pos)
}

// Field is a bit field of a register.
type Field struct {
	Reg   Register
	Shift uint8
	Width uint8
}

// Mask returns the unshifted mask of the field.
func (f Field) Mask() uint32 {
	if f.Width >= 32 {
		return 0xffffffff
	}

	return 1<<f.Width - 1
}

// Max returns the largest value the field can hold.
func (f Field) Max() uint32 {
	return f.Mask()
}

// Get returns the value of the field.
func (f Field) Get() uint32 {
	return f.Reg.Get() >> f.Shift & f.Mask()
}

// Set writes value into the field, leaving the other bits untouched.
func (f Field) Set(value uint32) {
	ReplaceBits(f.Reg, value, f.Mask(), f.Shift)
}
