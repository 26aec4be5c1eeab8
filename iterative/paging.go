// Package iterative implements the external-memory driver: splitting two
// large CSV files into pages, aligning every page pair, and keeping a
// best-distance cache across pairs so memory stays bounded by page size
// rather than by the full datasets.
package iterative

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// splitPages splits path into sequential page files of at most pageSize
// lines each under dir, returning the page file paths in order. A header
// line is not special-cased: it is copied into the first page like any
// other line.
func splitPages(path string, pageSize int, dir string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	pageIndex := 0
	var out *os.File
	lineInPage := 0

	closeCurrent := func() error {
		if out == nil {
			return nil
		}
		return out.Close()
	}

	openNext := func() error {
		if err := closeCurrent(); err != nil {
			return err
		}
		name := filepath.Join(dir, fmt.Sprintf("page-%05d.csv", pageIndex))
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		out = f
		pages = append(pages, name)
		pageIndex++
		lineInPage = 0
		return nil
	}

	if err := openNext(); err != nil {
		return nil, err
	}
	for scanner.Scan() {
		if lineInPage == pageSize {
			if err := openNext(); err != nil {
				return nil, err
			}
		}
		if _, err := fmt.Fprintln(out, scanner.Text()); err != nil {
			return nil, err
		}
		lineInPage++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := closeCurrent(); err != nil {
		return nil, err
	}
	return pages, nil
}
