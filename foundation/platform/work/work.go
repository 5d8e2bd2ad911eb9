// Package work defines the mathematical work types the platform can mine
// and the synthetic computation that produces their results. None of the
// formulas claim real mathematical meaning, they exist to produce a
// deterministic, plausible shaped payload for each work type.
package work

import "fmt"

// Type identifies a mathematical domain supported by the platform.
type Type string

// Set of supported work types.
const (
	TypeRiemannZero         Type = "riemann_zero"
	TypePrimePattern        Type = "prime_pattern"
	TypeYangMills           Type = "yang_mills"
	TypeGoldbach            Type = "goldbach_verification"
	TypeNavierStokes        Type = "navier_stokes"
	TypePoincare            Type = "poincare_conjecture"
	TypeBirchSwinnertonDyer Type = "birch_swinnerton_dyer"
	TypeEllipticCurveCrypto Type = "elliptic_curve_crypto"
)

// Types returns the full set of supported work types.
func Types() []Type {
	return []Type{
		TypeRiemannZero,
		TypePrimePattern,
		TypeYangMills,
		TypeGoldbach,
		TypeNavierStokes,
		TypePoincare,
		TypeBirchSwinnertonDyer,
		TypeEllipticCurveCrypto,
	}
}

// Parse converts a string to a work Type, returning an error for values
// outside the supported set.
func Parse(value string) (Type, error) {
	typ := Type(value)
	for _, t := range Types() {
		if t == typ {
			return typ, nil
		}
	}

	return "", fmt.Errorf("unknown work type %q", value)
}
