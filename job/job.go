/*package job splits catalogs into contiguous index ranges so that pair
counting can be run as independent batch jobs.*/
package job

import (
	"errors"
	"fmt"
)

// ErrConfig is wrapped by every error caused by an invalid job count or job
// index.
var ErrConfig = errors.New("invalid job partition")

// Partition identifies job Current out of Total.
type Partition struct {
	Total, Current int
}

// New returns a Partition over total jobs which starts at job 0.
func New(total int) (Partition, error) {
	if total <= 0 {
		return Partition{}, fmt.Errorf("%w: the number of jobs is %d, but "+
			"it must be at least 1.", ErrConfig, total)
	}
	return Partition{Total: total}, nil
}

// At returns job i out of total.
func At(i, total int) (Partition, error) {
	p, err := New(total)
	if err != nil { return Partition{}, err }
	if err = p.SetCurrent(i); err != nil { return Partition{}, err }
	return p, nil
}

// Validate returns an error if p couldn't have been created by At.
func (p Partition) Validate() error {
	_, err := At(p.Current, p.Total)
	return err
}

// SetCurrent sets the current job index.
func (p *Partition) SetCurrent(i int) error {
	if i < 0 || i >= p.Total {
		return fmt.Errorf("%w: the job index is %d, but it must be in the "+
			"range [0, %d).", ErrConfig, i, p.Total)
	}
	p.Current = i
	return nil
}

// Increment moves to the next job. It returns false and leaves p unchanged if
// p is already the last job.
func (p *Partition) Increment() bool {
	if p.Current >= p.Total-1 { return false }
	p.Current++
	return true
}

// IndexRange returns the half-open range [start, end) of a catalog with size
// elements which belongs to the current job. Boundaries are
// floor(k * size / Total), so the ranges of all jobs tile [0, size).
func (p Partition) IndexRange(size int) (start, end int) {
	return boundary(p.Current, size, p.Total),
		boundary(p.Current+1, size, p.Total)
}

// Ranges returns the index ranges of every job.
func (p Partition) Ranges(size int) [][2]int {
	out := make([][2]int, p.Total)
	for i := range out {
		out[i] = [2]int{boundary(i, size, p.Total),
			boundary(i+1, size, p.Total)}
	}
	return out
}

func boundary(k, size, total int) int {
	return int(int64(k) * int64(size) / int64(total))
}

func (p Partition) String() string {
	return fmt.Sprintf("job %d/%d", p.Current+1, p.Total)
}
