package milp

import (
	"math/rand"

	"github.com/pkg/errors"
)

const (
	DefaultBlockHeight = 2
	DefaultBridgeSize  = 1

	// coefficients of a generated row are drawn from [1, 1+coefRange)
	coefRange = 4.0
	// the row bound is the row's coefficient sum divided by this factor
	boundDivisor = 2.3
)

// GeneratorConfig describes a quasi-block binary program: a chain of Blocks
// groups of BlockHeight rows, each group touching BlockWidth private-or-right
// columns, neighbouring groups sharing BridgeSize columns.
type GeneratorConfig struct {
	Blocks      int
	BlockWidth  int
	BlockHeight int
	BridgeSize  int
	Seed        int64
}

// Generate builds a maximization problem with a quasi-block constraint structure.
// Each row is "sum(a_j x_j) <= sum(a_j)/2.3" over the block's left, middle and right columns.
func Generate(cfg GeneratorConfig) (*Problem, error) {
	if cfg.BlockHeight == 0 {
		cfg.BlockHeight = DefaultBlockHeight
	}
	if cfg.BridgeSize == 0 {
		cfg.BridgeSize = DefaultBridgeSize
	}
	if cfg.Blocks < 1 || cfg.BlockHeight < 1 || cfg.BridgeSize < 0 {
		return nil, errors.Wrapf(ErrInvalidGenerator, "%+v", cfg)
	}
	if cfg.Blocks > 1 && cfg.BlockWidth <= cfg.BridgeSize {
		return nil, errors.Wrapf(ErrInvalidGenerator, "block width %d leaves no middle columns next to a bridge of %d", cfg.BlockWidth, cfg.BridgeSize)
	}
	if cfg.BlockWidth < 1 {
		return nil, errors.Wrapf(ErrInvalidGenerator, "block width %d", cfg.BlockWidth)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	p := NewProblem(Maximize)

	var left []int
	for b := 0; b < cfg.Blocks; b++ {
		nRight := cfg.BridgeSize
		if b == cfg.Blocks-1 {
			nRight = 0
		}

		var middle, right []int
		for k := 0; k < cfg.BlockWidth-nRight; k++ {
			middle = append(middle, p.AddBinaryVariable(0))
		}
		for k := 0; k < nRight; k++ {
			right = append(right, p.AddBinaryVariable(0))
		}

		cols := make([]int, 0, len(left)+len(middle)+len(right))
		cols = append(cols, left...)
		cols = append(cols, middle...)
		cols = append(cols, right...)

		for r := 0; r < cfg.BlockHeight; r++ {
			terms := make([]Term, 0, len(cols))
			var sum float64
			for _, j := range cols {
				coef := 1.0 + coefRange*rng.Float64()
				sum += coef
				terms = append(terms, Term{Col: j, Coef: coef})
			}
			if _, err := p.AddConstraint(LessEqual, sum/boundDivisor, terms...); err != nil {
				return nil, err
			}
		}

		left = right
	}

	// objective coefficients in [1, numCols]
	n := p.NumCols()
	for j := 0; j < n; j++ {
		p.SetObjCoef(j, 1+float64(rng.Intn(n)))
	}

	return p, nil
}
