package cnfio

import (
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/irifrance/gini/z"
)

const sample = `c a comment
p cnf 3 2
c ind 1 2 0
1 -2 0
2 3 0
`

func TestParseClausesAndIndependentSet(t *testing.T) {
	g := NewWithT(t)

	f, err := Parse(strings.NewReader(sample))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(f.MaxVar).To(Equal(3))
	g.Expect(f.Clauses).To(HaveLen(2))
	g.Expect(f.Clauses[0]).To(Equal([]z.Lit{z.Dimacs2Lit(1), z.Dimacs2Lit(-2)}))
	g.Expect(f.Independent).To(Equal([]z.Var{1, 2}))
}

func TestParseWithoutIndependentSetLine(t *testing.T) {
	g := NewWithT(t)

	f, err := Parse(strings.NewReader("p cnf 2 1\n1 2 0\n"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(f.Independent).To(BeNil())
}

func TestParseRejectsGarbage(t *testing.T) {
	g := NewWithT(t)

	_, err := Parse(strings.NewReader("p cnf 1 1\nnotanumber 0\n"))
	g.Expect(err).To(HaveOccurred())
}
