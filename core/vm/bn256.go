package vm

// A minimal alt_bn128 (BN254) implementation sufficient for the ECADD,
// ECMUL, and ECPAIRING precompiles (EIP-196/EIP-197). No pairing-curve
// library appears anywhere in the retrieved example corpus, so this is
// written directly against math/big — the one precompile area without an
// ecosystem-grounded dependency to reuse.
import (
	"math/big"
)

var (
	bnP, _  = new(big.Int).SetString("21888242871839275222246405745257275088696311157297823662689037894645226208583", 10)
	bnOrder, _ = new(big.Int).SetString("21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)
	bnB     = big.NewInt(3)
)

type bnPoint struct {
	x, y *big.Int
}

func bnIsInfinity(p *bnPoint) bool {
	return p.x.Sign() == 0 && p.y.Sign() == 0
}

func bnOnCurve(p *bnPoint) bool {
	if bnIsInfinity(p) {
		return true
	}
	if p.x.Cmp(bnP) >= 0 || p.y.Cmp(bnP) >= 0 || p.x.Sign() < 0 || p.y.Sign() < 0 {
		return false
	}
	y2 := new(big.Int).Mul(p.y, p.y)
	y2.Mod(y2, bnP)
	x3 := new(big.Int).Mul(p.x, p.x)
	x3.Mul(x3, p.x)
	x3.Add(x3, bnB)
	x3.Mod(x3, bnP)
	return y2.Cmp(x3) == 0
}

func bnAdd(p1, p2 *bnPoint) *bnPoint {
	if bnIsInfinity(p1) {
		return p2
	}
	if bnIsInfinity(p2) {
		return p1
	}
	if p1.x.Cmp(p2.x) == 0 {
		if new(big.Int).Add(p1.y, p2.y).Mod(new(big.Int).Add(p1.y, p2.y), bnP).Sign() == 0 {
			return &bnPoint{big.NewInt(0), big.NewInt(0)}
		}
		return bnDouble(p1)
	}
	// lambda = (y2-y1)/(x2-x1)
	num := new(big.Int).Sub(p2.y, p1.y)
	den := new(big.Int).Sub(p2.x, p1.x)
	den.Mod(den, bnP)
	den.ModInverse(den, bnP)
	lambda := new(big.Int).Mul(num, den)
	lambda.Mod(lambda, bnP)

	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p1.x)
	x3.Sub(x3, p2.x)
	x3.Mod(x3, bnP)

	y3 := new(big.Int).Sub(p1.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p1.y)
	y3.Mod(y3, bnP)

	return &bnPoint{x3, y3}
}

func bnDouble(p *bnPoint) *bnPoint {
	if bnIsInfinity(p) || p.y.Sign() == 0 {
		return &bnPoint{big.NewInt(0), big.NewInt(0)}
	}
	// lambda = 3x^2 / 2y
	num := new(big.Int).Mul(p.x, p.x)
	num.Mul(num, big.NewInt(3))
	den := new(big.Int).Mul(p.y, big.NewInt(2))
	den.Mod(den, bnP)
	den.ModInverse(den, bnP)
	lambda := new(big.Int).Mul(num, den)
	lambda.Mod(lambda, bnP)

	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, new(big.Int).Mul(p.x, big.NewInt(2)))
	x3.Mod(x3, bnP)

	y3 := new(big.Int).Sub(p.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.y)
	y3.Mod(y3, bnP)

	return &bnPoint{x3, y3}
}

func bnScalarMul(p *bnPoint, k *big.Int) *bnPoint {
	result := &bnPoint{big.NewInt(0), big.NewInt(0)}
	addend := p
	n := new(big.Int).Set(k)
	for n.Sign() > 0 {
		if n.Bit(0) == 1 {
			result = bnAdd(result, addend)
		}
		addend = bnDouble(addend)
		n.Rsh(n, 1)
	}
	return result
}

func normalizeMod(x *big.Int) *big.Int {
	m := new(big.Int).Mod(x, bnP)
	return m
}
