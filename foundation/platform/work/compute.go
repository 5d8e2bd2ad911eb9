package work

import (
	"fmt"
	"math"
)

// Outcome is the full product of a completed mining operation.
type Outcome struct {
	Result            Result  `json:"result"`
	ScientificValue   float64 `json:"scientificValue"`
	EnergyEfficiency  float64 `json:"energyEfficiency"`
	ComputationalCost float64 `json:"computationalCost"`
}

// firstZetaZeroIm is the imaginary part of the first non-trivial zeta zero,
// used as the anchor for the synthesized Riemann payloads.
const firstZetaZeroIm = 14.134725141734695

// Compute produces the result and derived valuation for a completed
// operation. The function is pure, the same work type and difficulty always
// produce the same outcome. The valuation is an arithmetic fabrication, the
// platform makes no claim the numbers mean anything.
func Compute(typ Type, difficulty uint, baseValues map[Type]float64) (Outcome, error) {
	if difficulty == 0 {
		return Outcome{}, fmt.Errorf("difficulty must be greater than zero")
	}

	if _, err := Parse(string(typ)); err != nil {
		return Outcome{}, err
	}

	base, exists := baseValues[typ]
	if !exists || base <= 0 {
		base = 1000
	}

	d := float64(difficulty)

	outcome := Outcome{
		Result:            synthesize(typ, difficulty),
		ScientificValue:   base * (1 + d/25) * (1 + math.Log2(1+d)/10),
		EnergyEfficiency:  100 / (1 + d/50),
		ComputationalCost: 1000 * math.Pow(d, 1.5),
	}

	return outcome, nil
}

// synthesize fabricates a payload of the right shape for the work type.
func synthesize(typ Type, difficulty uint) Result {
	d := float64(difficulty)
	r := Result{WorkType: typ}

	switch typ {
	case TypeRiemannZero:
		r.RiemannZero = &RiemannZero{
			ZeroValueRe: 0.5,
			ZeroValueIm: firstZetaZeroIm + d*2.7,
			Precision:   1 / math.Pow(10, 6+d/20),
			ZeroIndex:   difficulty,
		}

	case TypePrimePattern:
		r.PrimePattern = &PrimePattern{
			PatternType:  "twin",
			PrimesFound:  difficulty * 34,
			LargestPrime: 1_000_003 + uint64(difficulty)*7919,
			SearchRange:  uint64(difficulty) * 1_000_000,
		}

	case TypeYangMills:
		r.YangMills = &YangMills{
			MassGap:       0.217 + d/1000,
			FieldStrength: d * 0.83,
			Confidence:    1 - 1/(2+d),
		}

	case TypeGoldbach:
		r.Goldbach = &Goldbach{
			VerifiedUpTo: uint64(difficulty) * 4_000_000,
			PairsChecked: uint64(difficulty) * 123_456,
		}

	case TypeNavierStokes:
		r.NavierStokes = &NavierStokes{
			ReynoldsNumber:  2300 + d*55,
			SmoothnessBound: 1 / (1 + d/10),
			Iterations:      difficulty * 500,
		}

	case TypePoincare:
		r.Poincare = &Poincare{
			ManifoldDim:    3,
			RicciFlowSteps: difficulty * 250,
			Convergence:    1 - 1/(1+d),
		}

	case TypeBirchSwinnertonDyer:
		r.BirchSwinnertonDyer = &BirchSwinnertonDyer{
			CurveRank:     difficulty % 5,
			LFunctionZero: d / 100,
			Conductor:     11 + uint64(difficulty)*37,
		}

	case TypeEllipticCurveCrypto:
		r.EllipticCurveCrypto = &EllipticCurveCrypto{
			KeySize:       256 + (difficulty/50)*128,
			SecurityLevel: 128 + (difficulty/50)*64,
			CurveName:     "secp256k1",
		}
	}

	return r
}
