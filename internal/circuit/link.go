// Package circuit turns solved inductances into coupling coefficients
// and delivered output voltage for a four-coil resonant transfer chain:
// transmitter (1), two inserted lilypad relays (2, 3), receiver (4).
// The chain is symmetric, so m43 = m21 and s33 = s22.
package circuit

import (
	"fmt"
	"math"
)

const (
	// DefaultFrequency is the drive frequency in Hz.
	DefaultFrequency = 10.0e6

	// DefaultLoad is the receiver load in ohms.
	DefaultLoad = 50.0

	// DefaultTxSelf is the self-inductance of the reference 0.2 m
	// transmitter/receiver loop in henries, solved once at dL=0.1.
	DefaultTxSelf = 1.3738219953677048e-06
)

// CouplingCoefficient returns k = M / sqrt(L1*L2). Values above 1 are
// reported as-is; they flag a bad numeric run rather than physics.
func CouplingCoefficient(m, l1, l2 float64) (float64, error) {
	if l1 <= 0 || l2 <= 0 {
		return 0, fmt.Errorf("circuit: self-inductances must be positive, got %g and %g", l1, l2)
	}
	return m / math.Sqrt(l1*l2), nil
}

// Link is the electrical model of the transfer chain.
type Link struct {
	Frequency float64 // Hz
	Load      float64 // ohms
	TxSelf    float64 // henries, s11 = s44
}

func NewLink() *Link {
	return &Link{
		Frequency: DefaultFrequency,
		Load:      DefaultLoad,
		TxSelf:    DefaultTxSelf,
	}
}

// Coupling holds the derived quantities for one coil arrangement.
type Coupling struct {
	K21   float64 // Tx to first lilypad (equals K43 by symmetry)
	K32   float64 // lilypad to lilypad
	Vout  float64 // volts across the load
	Power float64 // watts into the load
}

// Valid reports whether the coefficients are physical: finite and in [0, 1].
func (c Coupling) Valid() bool {
	for _, k := range [2]float64{c.K21, c.K32} {
		if math.IsNaN(k) || math.IsInf(k, 0) || k < 0 || k > 1 {
			return false
		}
	}
	return !math.IsNaN(c.Vout) && !math.IsInf(c.Vout, 0)
}

// Evaluate derives coupling coefficients and delivered voltage from the
// three independent inductances of the symmetric chain: Tx-lilypad
// mutual m21, lilypad-lilypad mutual m32, lilypad self s22.
func (l *Link) Evaluate(m21, m32, s22 float64) (Coupling, error) {
	if l.Frequency <= 0 {
		return Coupling{}, fmt.Errorf("circuit: frequency must be positive, got %g", l.Frequency)
	}
	if l.Load <= 0 {
		return Coupling{}, fmt.Errorf("circuit: load must be positive, got %g", l.Load)
	}

	k21, err := CouplingCoefficient(m21, l.TxSelf, s22)
	if err != nil {
		return Coupling{}, err
	}
	k32, err := CouplingCoefficient(m32, s22, s22)
	if err != nil {
		return Coupling{}, err
	}

	w := 2 * math.Pi * l.Frequency
	num := l.Load * w * m21 * m21 * m32
	den := m21*m21*m21*m21*w*w + l.Load*l.Load*m32*m32

	var vout float64
	if den != 0 {
		vout = 2 * num / den
	}

	return Coupling{
		K21:   k21,
		K32:   k32,
		Vout:  vout,
		Power: vout * vout / l.Load,
	}, nil
}
