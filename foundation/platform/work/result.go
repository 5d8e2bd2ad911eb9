package work

import (
	"encoding/json"
	"fmt"
)

// RiemannZero carries a synthesized non-trivial zero of the zeta function.
type RiemannZero struct {
	ZeroValueRe float64 `json:"zeroValueRe"`
	ZeroValueIm float64 `json:"zeroValueIm"`
	Precision   float64 `json:"precision"`
	ZeroIndex   uint    `json:"zeroIndex"`
}

// PrimePattern carries synthesized prime constellation counts.
type PrimePattern struct {
	PatternType  string `json:"patternType"`
	PrimesFound  uint   `json:"primesFound"`
	LargestPrime uint64 `json:"largestPrime"`
	SearchRange  uint64 `json:"searchRange"`
}

// YangMills carries a synthesized mass gap validation.
type YangMills struct {
	MassGap       float64 `json:"massGap"`
	FieldStrength float64 `json:"fieldStrength"`
	Confidence    float64 `json:"confidence"`
}

// Goldbach carries synthesized even-number decomposition checks.
type Goldbach struct {
	VerifiedUpTo uint64 `json:"verifiedUpTo"`
	PairsChecked uint64 `json:"pairsChecked"`
}

// NavierStokes carries a synthesized smoothness bound.
type NavierStokes struct {
	ReynoldsNumber  float64 `json:"reynoldsNumber"`
	SmoothnessBound float64 `json:"smoothnessBound"`
	Iterations      uint    `json:"iterations"`
}

// Poincare carries synthesized Ricci flow convergence data.
type Poincare struct {
	ManifoldDim    uint    `json:"manifoldDim"`
	RicciFlowSteps uint    `json:"ricciFlowSteps"`
	Convergence    float64 `json:"convergence"`
}

// BirchSwinnertonDyer carries a synthesized elliptic curve rank check.
type BirchSwinnertonDyer struct {
	CurveRank     uint    `json:"curveRank"`
	LFunctionZero float64 `json:"lFunctionZero"`
	Conductor     uint64  `json:"conductor"`
}

// EllipticCurveCrypto carries synthesized key strength data.
type EllipticCurveCrypto struct {
	KeySize       uint   `json:"keySize"`
	SecurityLevel uint   `json:"securityLevel"`
	CurveName     string `json:"curveName"`
}

// =============================================================================

// Result is a tagged union of the per-domain payloads. The WorkType tag
// selects which payload pointer is set, exactly one must be non-nil.
type Result struct {
	WorkType Type `json:"workType"`

	RiemannZero         *RiemannZero         `json:"riemann_zero,omitempty"`
	PrimePattern        *PrimePattern        `json:"prime_pattern,omitempty"`
	YangMills           *YangMills           `json:"yang_mills,omitempty"`
	Goldbach            *Goldbach            `json:"goldbach_verification,omitempty"`
	NavierStokes        *NavierStokes        `json:"navier_stokes,omitempty"`
	Poincare            *Poincare            `json:"poincare_conjecture,omitempty"`
	BirchSwinnertonDyer *BirchSwinnertonDyer `json:"birch_swinnerton_dyer,omitempty"`
	EllipticCurveCrypto *EllipticCurveCrypto `json:"elliptic_curve_crypto,omitempty"`
}

// Validate checks the tag is a known work type and that exactly the payload
// named by the tag is present.
func (r Result) Validate() error {
	if _, err := Parse(string(r.WorkType)); err != nil {
		return err
	}

	payloads := map[Type]bool{
		TypeRiemannZero:         r.RiemannZero != nil,
		TypePrimePattern:        r.PrimePattern != nil,
		TypeYangMills:           r.YangMills != nil,
		TypeGoldbach:            r.Goldbach != nil,
		TypeNavierStokes:        r.NavierStokes != nil,
		TypePoincare:            r.Poincare != nil,
		TypeBirchSwinnertonDyer: r.BirchSwinnertonDyer != nil,
		TypeEllipticCurveCrypto: r.EllipticCurveCrypto != nil,
	}

	for typ, present := range payloads {
		switch {
		case typ == r.WorkType && !present:
			return fmt.Errorf("result tagged %q is missing its payload", r.WorkType)
		case typ != r.WorkType && present:
			return fmt.Errorf("result tagged %q carries a %q payload", r.WorkType, typ)
		}
	}

	return nil
}

// UnmarshalJSON implements the unmarshal interface so results read off the
// wire are always tag-consistent.
func (r *Result) UnmarshalJSON(data []byte) error {
	type resultAlias Result

	var alias resultAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	result := Result(alias)
	if err := result.Validate(); err != nil {
		return err
	}

	*r = result
	return nil
}
