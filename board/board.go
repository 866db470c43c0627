// Package board describes the clock trees of reference boards in YAML and
// builds them into a clock registry.
package board

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/clocktree/clock"
	"github.com/sarchlab/clocktree/epld"
)

//go:embed boards/*.yaml
var builtin embed.FS

// Clock types.
const (
	TypeFixed      = "fixed"
	TypeOscillator = "oscillator"
	TypeFactor     = "factor"
	TypeGate       = "gate"
	TypeDivider    = "divider"
	TypeMux        = "mux"
	TypePLL        = "pll"
)

// Board is the description of the clock tree of one board.
type Board struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Registers   int     `yaml:"registers"`
	Reset       []Reset `yaml:"reset"`
	Clocks      []Clock `yaml:"clocks"`
	Aliases     []Alias `yaml:"aliases"`
	EPLD        *EPLD   `yaml:"epld"`
}

// EPLD places the interrupt EPLD in the register bank. Without a line table,
// the HARP layout starting at Base is used.
type EPLD struct {
	Mask   [epld.NumBanks]int `yaml:"mask"`
	Status [epld.NumBanks]int `yaml:"status"`
	Base   int                `yaml:"base"`
	Lines  []epld.Line        `yaml:"lines"`
}

// Reset is the value a register holds when the board powers up.
type Reset struct {
	Reg   int    `yaml:"reg"`
	Value uint32 `yaml:"value"`
}

// Alias gives a clock a second name.
type Alias struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
}

// Rate is a frequency written either as a Hz count or with a unit, like
// "27MHz".
type Rate clock.Freq

// UnmarshalYAML parses the frequency.
func (r *Rate) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: rate must be a scalar", value.Line)
	}

	f, err := clock.ParseFreq(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*r = Rate(f)

	return nil
}

// Field points at a bit field of a register of the bank.
type Field struct {
	Reg   int   `yaml:"reg"`
	Shift uint8 `yaml:"shift"`
	Width uint8 `yaml:"width"`
}

// Clock describes one clock. Only the block matching Type is used, except for
// Gate, Observe and Measure, which any type may carry.
type Clock struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Parent  string   `yaml:"parent"`
	Rate    Rate     `yaml:"rate"`
	Nominal Rate     `yaml:"nominal"`
	Flags   []string `yaml:"flags"`

	Min Rate `yaml:"min"`
	Max Rate `yaml:"max"`

	Mult uint64 `yaml:"mult"`
	Div  uint64 `yaml:"div"`

	Gate    *Gate    `yaml:"gate"`
	Divider *Divider `yaml:"divider"`
	Mux     *Mux     `yaml:"mux"`
	PLL     *PLL     `yaml:"pll"`
	Observe *Observe `yaml:"observe"`
	Measure *Measure `yaml:"measure"`
}

// Gate is an enable bit.
type Gate struct {
	Reg       int   `yaml:"reg"`
	Bit       uint8 `yaml:"bit"`
	ActiveLow bool  `yaml:"active_low"`
}

// Divider is a divisor field. Kind is one of linear, pow2 and table.
type Divider struct {
	Field `yaml:",inline"`
	Kind  string   `yaml:"kind"`
	Table []uint32 `yaml:"table"`
}

// Mux is a parent selector field.
type Mux struct {
	Field   `yaml:",inline"`
	Parents []string `yaml:"parents"`
}

// PLL is a clock generator PLL. A nil Status means the PLL has no lock bit.
type PLL struct {
	M         Field `yaml:"m"`
	N         Field `yaml:"n"`
	P         Field `yaml:"p"`
	Ctrl      int   `yaml:"ctrl"`
	EnableBit uint8 `yaml:"enable_bit"`
	Status    *int  `yaml:"status"`
	LockBit   uint8 `yaml:"lock_bit"`
	Doubled   bool  `yaml:"doubled"`
	Min       Rate  `yaml:"min"`
	Max       Rate  `yaml:"max"`
}

// Observe routes the clock to the observation pin.
type Observe struct {
	Reg     int    `yaml:"reg"`
	Index   uint32 `yaml:"index"`
	Divisor uint32 `yaml:"divisor"`
}

// Measure counts the clock against a reference.
type Measure struct {
	Ctrl   int    `yaml:"ctrl"`
	Count  int    `yaml:"count"`
	Index  uint32 `yaml:"index"`
	Ref    Rate   `yaml:"ref"`
	Window uint32 `yaml:"window"`
}

// Parse decodes a board description.
func Parse(data []byte) (*Board, error) {
	b := &Board{}

	if err := yaml.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("parsing board: %w", err)
	}

	if err := b.check(); err != nil {
		return nil, err
	}

	return b, nil
}

// Load reads a board description from a file.
func Load(filename string) (*Board, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return b, nil
}

// Builtin returns one of the boards that ship with the package.
func Builtin(name string) (*Board, error) {
	data, err := builtin.ReadFile(path.Join("boards", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown board %q, available: %s",
			name, strings.Join(BuiltinNames(), ", "))
	}

	return Parse(data)
}

// BuiltinNames lists the builtin boards.
func BuiltinNames() []string {
	entries, err := builtin.ReadDir("boards")
	if err != nil {
		panic(err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}

	sort.Strings(names)

	return names
}

func (b *Board) check() error {
	if b.Name == "" {
		return fmt.Errorf("board without name")
	}

	if b.Registers < 0 {
		return fmt.Errorf("board %s: negative register count", b.Name)
	}

	for _, r := range b.Reset {
		if r.Reg < 0 || r.Reg >= b.Registers {
			return fmt.Errorf("board %s: reset of register %d out of range",
				b.Name, r.Reg)
		}
	}

	return nil
}
