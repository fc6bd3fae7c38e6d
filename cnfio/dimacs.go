package cnfio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/irifrance/gini/z"
	"github.com/pkg/errors"
)

// Formula is a parsed DIMACS CNF instance plus an optional declared
// independent variable set.
type Formula struct {
	MaxVar      int
	Clauses     [][]z.Lit
	Independent []z.Var // nil if no "c ind" line was present
}

// Parse reads a DIMACS CNF stream from r. Lines starting with "c ind"
// declare the independent (sampling/projection) set, terminated like a
// clause by a trailing 0; every other comment line ("c ...") is ignored,
// as is the "p cnf nvars nclauses" header: MaxVar is the largest
// variable that appears in a clause, whatever the header declares.
func Parse(r io.Reader) (*Formula, error) {
	f := &Formula{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var cur []z.Lit
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "c ind") {
			vars, err := parseIntTerms(line[len("c ind"):])
			if err != nil {
				return nil, errors.Wrap(err, "cnfio: parsing independent set line")
			}
			for _, n := range vars {
				if n == 0 {
					continue
				}
				f.Independent = append(f.Independent, z.Var(n))
			}
			continue
		}
		if strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "p") {
			continue
		}

		terms, err := parseIntTerms(line)
		if err != nil {
			return nil, errors.Wrap(err, "cnfio: parsing clause line")
		}
		for _, n := range terms {
			if n == 0 {
				f.Clauses = append(f.Clauses, cur)
				cur = nil
				continue
			}
			cur = append(cur, z.Dimacs2Lit(n))
			v := n
			if v < 0 {
				v = -v
			}
			if v > f.MaxVar {
				f.MaxVar = v
			}
		}
	}
	if len(cur) > 0 {
		f.Clauses = append(f.Clauses, cur)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cnfio: reading input")
	}
	return f, nil
}

func parseIntTerms(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, 0, len(fields))
	for _, tok := range fields {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, errors.Wrapf(err, "not an integer: %q", tok)
		}
		out = append(out, n)
	}
	return out, nil
}
