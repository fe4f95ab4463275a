package circuit_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bgoddard/lilypad/internal/circuit"
)

var _ = Describe("CouplingCoefficient", func() {
	It("normalizes the mutual inductance", func() {
		k, err := circuit.CouplingCoefficient(2e-7, 1e-6, 4e-6)
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(BeNumerically("~", 0.1, 1e-12))
	})

	It("rejects non-positive self-inductances", func() {
		_, err := circuit.CouplingCoefficient(1e-7, 0, 1e-6)
		Expect(err).To(HaveOccurred())

		_, err = circuit.CouplingCoefficient(1e-7, 1e-6, -2e-6)
		Expect(err).To(HaveOccurred())
	})

	It("reports unphysical values above one as-is", func() {
		k, err := circuit.CouplingCoefficient(5e-6, 1e-6, 1e-6)
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(BeNumerically(">", 1))
	})
})

var _ = Describe("Link", func() {
	var link *circuit.Link

	BeforeEach(func() {
		link = circuit.NewLink()
	})

	It("uses the reference defaults", func() {
		Expect(link.Frequency).To(Equal(10.0e6))
		Expect(link.Load).To(Equal(50.0))
		Expect(link.TxSelf).To(BeNumerically("~", 1.3738e-6, 1e-10))
	})

	It("derives symmetric coupling coefficients", func() {
		c, err := link.Evaluate(2e-7, 3e-7, 2e-6)
		Expect(err).NotTo(HaveOccurred())

		k21 := 2e-7 / math.Sqrt(link.TxSelf*2e-6)
		k32 := 3e-7 / 2e-6
		Expect(c.K21).To(BeNumerically("~", k21, 1e-12))
		Expect(c.K32).To(BeNumerically("~", k32, 1e-12))
	})

	It("never delivers more than one volt at matched drive", func() {
		// vout = 2*R*w*m21^2*m32 / (m21^4*w^2 + R^2*m32^2) peaks at 1
		// when w*m21^2 = R*m32, by AM-GM on the denominator.
		w := 2 * math.Pi * link.Frequency
		m21 := 2e-7
		matched := w * m21 * m21 / link.Load

		c, err := link.Evaluate(m21, matched, 2e-6)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Vout).To(BeNumerically("~", 1.0, 1e-9))

		for _, m32 := range []float64{matched / 10, matched / 2, matched * 2, matched * 10} {
			c, err := link.Evaluate(m21, m32, 2e-6)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Vout).To(BeNumerically("<", 1.0))
		}
	})

	It("computes power into the load from the output voltage", func() {
		c, err := link.Evaluate(2e-7, 3e-7, 2e-6)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Power).To(BeNumerically("~", c.Vout*c.Vout/link.Load, 1e-15))
	})

	It("handles the zero-coupling corner without dividing by zero", func() {
		c, err := link.Evaluate(0, 0, 2e-6)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Vout).To(BeZero())
		Expect(c.Power).To(BeZero())
		Expect(c.Valid()).To(BeTrue())
	})

	It("rejects bad electrical parameters", func() {
		link.Frequency = 0
		_, err := link.Evaluate(2e-7, 3e-7, 2e-6)
		Expect(err).To(HaveOccurred())

		link.Frequency = 10e6
		link.Load = -50
		_, err = link.Evaluate(2e-7, 3e-7, 2e-6)
		Expect(err).To(HaveOccurred())
	})

	Describe("Coupling.Valid", func() {
		It("accepts physical coefficients", func() {
			Expect(circuit.Coupling{K21: 0.1, K32: 0.5, Vout: 0.3}.Valid()).To(BeTrue())
		})

		It("flags coefficients outside [0, 1]", func() {
			Expect(circuit.Coupling{K21: 1.2, K32: 0.5}.Valid()).To(BeFalse())
			Expect(circuit.Coupling{K21: -0.1, K32: 0.5}.Valid()).To(BeFalse())
			Expect(circuit.Coupling{K21: 0.1, K32: math.NaN()}.Valid()).To(BeFalse())
		})
	})
})
