package console

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/sarchlab/clocktree/clock"
)

var commandLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Sep", Pattern: `[;\n]+`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Number", Pattern: `[0-9]+(?:\.[0-9]+)?(?:[ \t]*(?i:[kmg]?hz)\b)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.\-]*`},
})

// Script is a list of commands separated by newlines or semicolons.
type Script struct {
	Commands []*Command `Sep* @@*`
}

// Command is one console command. Exactly one field is set. A command ends at
// a separator or at the end of the input.
type Command struct {
	Pos lexer.Position

	Show    *Show   `( @@`
	Tree    bool    `| @"tree"`
	Enable  string  `| "enable" @Ident`
	Disable string  `| "disable" @Ident`
	Rate    *Rate   `| @@`
	Round   *Round  `| @@`
	Parent  *Parent `| @@`
	Measure string  `| "measure" @Ident`
	Observe string  `| "observe" @Ident`
	Alias   *Alias  `| @@`
	Suspend bool    `| @"suspend"`
	Resume  bool    `| @"resume"`
	IRQ     *IRQ    `| @@`
	Help    bool    `| @"help" ) ( Sep+ | EOF )`
}

// Show prints one clock, or all of them without a name.
type Show struct {
	Clock string `"show" @Ident?`
}

// Rate sets the rate of a clock.
type Rate struct {
	Clock  string `"rate" @Ident`
	Target Freq   `@Number`
}

// Round prints the rate a clock would get.
type Round struct {
	Clock  string `"round" @Ident`
	Target Freq   `@Number`
}

// Parent moves a clock to another parent.
type Parent struct {
	Clock  string `"parent" @Ident`
	Parent string `@Ident`
}

// Alias adds a second name to a clock.
type Alias struct {
	Name   string `"alias" @Ident`
	Target string `@Ident`
}

// IRQ lists the interrupt lines, or masks, unmasks or acknowledges one.
type IRQ struct {
	Op   string `"irq" ( @( "mask" | "unmask" | "ack" )`
	Line int    `@Number )?`
}

// Freq is a frequency literal such as 27MHz or "1.5 GHz".
type Freq clock.Freq

// Capture parses the literal.
func (f *Freq) Capture(values []string) error {
	v, err := clock.ParseFreq(values[0])
	if err != nil {
		return err
	}

	*f = Freq(v)

	return nil
}

var parser = participle.MustBuild[Script](
	participle.Lexer(commandLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
)

// Parse parses console input.
func Parse(input string) (*Script, error) {
	script, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return script, nil
}
