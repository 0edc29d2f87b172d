package fourier

import (
	"fmt"

	"github.com/notargets/asymfourier/basis"
	"github.com/notargets/asymfourier/sizes"
)

// Field is one of the three spectral unknowns
type Field uint8

const (
	FieldR Field = iota
	FieldZ
	FieldL
	numFields
)

func (f Field) String() string {
	return [...]string{"r", "z", "l"}[f]
}

// family is one coefficient array: a field and the trig pair (poloidal,
// toroidal) it multiplies, e.g. rmnsc = {FieldR, Sin, Cos}.
type family struct {
	field    Field
	pol, tor basis.Trig
}

// families lists every coefficient family in a fixed order; all loops over
// families go through it so results do not depend on map iteration.
var families = func() (out []family) {
	for f := FieldR; f < numFields; f++ {
		for _, p := range TrigPairs {
			out = append(out, family{field: f, pol: p[0], tor: p[1]})
		}
	}
	return
}()

func trigLetter(t basis.Trig) byte {
	if t == basis.Cos {
		return 'c'
	}
	return 's'
}

// symmetric reports whether the family survives stellarator symmetry. R is
// even under (theta, zeta) -> (-theta, -zeta), Z and lambda are odd.
func (fm family) symmetric() bool {
	if fm.field == FieldR {
		return fm.pol == fm.tor
	}
	return fm.pol != fm.tor
}

func (fm family) coefficientName() string {
	return fmt.Sprintf("%smn%c%c", fm.field, trigLetter(fm.pol), trigLetter(fm.tor))
}

func (fm family) forceName() string {
	return fmt.Sprintf("f%s%c%c", fm.field, trigLetter(fm.pol), trigLetter(fm.tor))
}

// unusedFamily reports families that do not exist at all for this run
func (fm family) unusedFamily(lasym bool) bool {
	return !lasym && !fm.symmetric()
}

// unused reports entries that are identically zero by construction
func (fm family) unused(lthreed, lasym bool, m, n int) bool {
	switch {
	case fm.pol == basis.Sin && m == 0:
		return true
	case fm.tor == basis.Sin && n == 0:
		return true
	case !lthreed && n > 0:
		return true
	}
	return fm.unusedFamily(lasym)
}

// TrigPairs are the (poloidal, toroidal) pairs of the four families of a field
var TrigPairs = [4][2]basis.Trig{
	{basis.Cos, basis.Cos}, {basis.Sin, basis.Sin},
	{basis.Sin, basis.Cos}, {basis.Cos, basis.Sin},
}

// Live reports whether mode (m, n) of the family is carried by the transform
// at resolution s. Entries that are not live must stay zero.
func Live(s *sizes.Sizes, field Field, pol, tor basis.Trig, m, n int) bool {
	if m < 0 || m >= s.Mpol || n < 0 || n > s.Ntor {
		return false
	}
	return !family{field, pol, tor}.unused(s.LThreeD, s.LAsym, m, n)
}

// Symmetric reports whether the family survives stellarator symmetry
func Symmetric(field Field, pol, tor basis.Trig) bool {
	return family{field, pol, tor}.symmetric()
}
