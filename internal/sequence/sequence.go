package sequence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Placeholder is the token in a URL template that gets replaced with the
// page number, e.g. "https://site.com/p.{n}/index.html".
const Placeholder = "{n}"

var (
	ErrNoPlaceholder = errors.New("url template has no {n} placeholder")
	ErrBadRange      = errors.New("start page is greater than end page")
)

// Target is one page to retrieve. Index is the 1-based position in the run,
// which drives the output filename; Page is the number substituted into the
// template and may start anywhere.
type Target struct {
	Index int
	Page  int
	URL   string
}

// Build expands the template over [start, end] into an ordered target list.
func Build(template string, start, end int) ([]Target, error) {
	if !strings.Contains(template, Placeholder) {
		return nil, ErrNoPlaceholder
	}
	if start > end {
		return nil, fmt.Errorf("%w (%d > %d)", ErrBadRange, start, end)
	}

	targets := make([]Target, 0, end-start+1)
	for n := start; n <= end; n++ {
		targets = append(targets, Target{
			Index: len(targets) + 1,
			Page:  n,
			URL:   strings.ReplaceAll(template, Placeholder, strconv.Itoa(n)),
		})
	}

	return targets, nil
}

// Width is the filename digit width for a run of total targets. Minimum 4,
// so names sort lexicographically regardless of the range size.
func Width(total int) int {
	w := len(strconv.Itoa(total))
	if w < 4 {
		w = 4
	}

	return w
}

// FileName formats the page file name for a sequence index:
// 1 of 50 -> 0001.html
func FileName(index, total int) string {
	return fmt.Sprintf("%0*d.html", Width(total), index)
}
