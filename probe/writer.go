package probe

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MaxRestarts bounds the restart suffix of an output file name
const MaxRestarts = 2048

// Writer writes line of sight samples to a text file. The first write emits
// the header, every write appends one row per point.
type Writer struct {
	Name    string
	Path    string
	Counter int // number of completed writes
	file    *os.File
	w       *bufio.Writer
}

// NewWriter creates dir/name.txt, or the first free dir/name-rst-N.txt
// when earlier runs left their output behind
func NewWriter(dir, name string) (wr *Writer, err error) {
	var path string
	if path, err = freeName(dir, name); err != nil {
		return
	}
	var f *os.File
	if f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644); err != nil {
		return nil, fmt.Errorf("unable to create probe output: %w", err)
	}
	wr = &Writer{
		Name: name,
		Path: path,
		file: f,
		w:    bufio.NewWriter(f),
	}
	return
}

func freeName(dir, name string) (string, error) {
	path := filepath.Join(dir, name+".txt")
	for n := 1; ; n++ {
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", err
		}
		if n > MaxRestarts {
			return "", fmt.Errorf("%s: every restart file name up to %d is taken", name, MaxRestarts)
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-rst-%d.txt", name, n))
	}
}

// Write appends the samples values [pt][nComp] at points [pt][dim] for
// time t. Missing coordinates and components are written as zero.
func (wr *Writer) Write(t float64, dim int, points []float64, nComp int, values []float64) (err error) {
	if wr.Counter == 0 {
		if _, err = fmt.Fprintln(wr.w, "t,x,y,z,u,v,w"); err != nil {
			return
		}
	}
	npts := len(points) / dim
	for p := 0; p < npts; p++ {
		var row [7]float64
		row[0] = t
		copy(row[1:1+dim], points[p*dim:(p+1)*dim])
		copy(row[4:4+min(nComp, 3)], values[p*nComp:p*nComp+min(nComp, 3)])
		for i, v := range row {
			sep := ","
			if i == len(row)-1 {
				sep = "\n"
			}
			if _, err = fmt.Fprintf(wr.w, "%.15e%s", v, sep); err != nil {
				return
			}
		}
	}
	if err = wr.w.Flush(); err != nil {
		return
	}
	wr.Counter++
	return
}

func (wr *Writer) Close() error {
	if err := wr.w.Flush(); err != nil {
		wr.file.Close()
		return err
	}
	return wr.file.Close()
}
