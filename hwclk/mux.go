package hwclk

import (
	"fmt"

	"github.com/sarchlab/clocktree/hwreg"
)

// Mux selects the parent of a clock with a register field. The field value is
// the index of the parent in Parents.
type Mux struct {
	PassThrough

	Field   hwreg.Field
	Parents []string
}

// SetParent programs the selector of the named parent.
func (m *Mux) SetParent(parent string) error {
	for i, name := range m.Parents {
		if name == parent {
			m.Field.Set(uint32(i))
			return nil
		}
	}

	return fmt.Errorf("mux cannot select %s", parent)
}

// Selected returns the name of the selected parent.
func (m *Mux) Selected() (string, error) {
	i := int(m.Field.Get())
	if i >= len(m.Parents) {
		return "", fmt.Errorf("mux selector %d out of range", i)
	}

	return m.Parents[i], nil
}
