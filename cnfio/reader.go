// Package cnfio reads DIMACS CNF formulas, optionally gzip-compressed,
// recognizing the "c ind v1 v2 ... 0" independent-support-set convention
// used by projected model counters and samplers. Path handling (stdin,
// .gz, symlinks) follows cmd/gini's path2Reader.
package cnfio

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Open resolves path to a readable stream: "-" means stdin, a ".gz"
// suffix means gzip-decompress, anything else is opened directly after
// resolving symlinks.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, errors.Wrapf(err, "cnfio: opening %s", path)
	}

	if strings.HasSuffix(resolved, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "cnfio: gzip header in %s", path)
		}
		return &gzipReadCloser{gz: gz, f: f}, nil
	}

	return f, nil
}

type gzipReadCloser struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }
func (g *gzipReadCloser) Close() error {
	err := g.gz.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}
