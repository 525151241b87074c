/*package store saves and loads the snapshots passed between tpcf's modes.
Each snapshot is a gob stream holding the version of the source which wrote
it followed by its contents:

	{prefix}_preprocess.gob          catalogs, binning scheme, models
	{prefix}_divide_{i}-{n}.gob      pair counts for job i of n
	{prefix}_output.gob              correlation functions
*/
package store

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/phil-mansfield/tpcf/bins"
	"github.com/phil-mansfield/tpcf/catalog"
	"github.com/phil-mansfield/tpcf/correlation"
	"github.com/phil-mansfield/tpcf/cosmo"
	"github.com/phil-mansfield/tpcf/paircount"
	"github.com/phil-mansfield/tpcf/version"
)

// Preprocessed is everything the divide mode needs to count pairs.
type Preprocessed struct {
	Scheme bins.Scheme
	Models []cosmo.Model

	Data1, Data2 *catalog.DataCatalog
	Rand1, Rand2 *catalog.RandomCatalog

	// Config is the text of the config file which produced the snapshot.
	Config string
}

// Input returns the pair counting input described by p.
func (p *Preprocessed) Input(direct bool) paircount.Input {
	return paircount.Input{
		Scheme: &p.Scheme, Models: p.Models,
		Data1: p.Data1, Data2: p.Data2,
		Rand1: p.Rand1, Rand2: p.Rand2,
		Direct: direct,
	}
}

func PreprocessName(prefix string) string {
	return prefix + "_preprocess.gob"
}

func PartitionName(prefix string, job, total int) string {
	return fmt.Sprintf("%s_divide_%03d-%03d.gob", prefix, job, total)
}

func OutputName(prefix string) string {
	return prefix + "_output.gob"
}

// Save writes the version of the source followed by x to fname.
func Save(fname string, x interface{}) error {
	f, err := os.Create(fname)
	if err != nil { return err }

	enc := gob.NewEncoder(f)
	if err = enc.Encode(version.SourceVersion); err == nil {
		err = enc.Encode(x)
	}
	if cerr := f.Close(); err == nil { err = cerr }
	if err != nil {
		return fmt.Errorf("Could not write the snapshot %s: %w", fname, err)
	}
	return nil
}

// Load reads a snapshot written by Save into the pointer x. An error is
// returned if the snapshot was written by an incompatible version.
func Load(fname string, x interface{}) error {
	f, err := os.Open(fname)
	if err != nil { return err }
	defer f.Close()

	dec := gob.NewDecoder(f)
	var v string
	if err = dec.Decode(&v); err != nil {
		return fmt.Errorf("Could not read the snapshot %s: %w", fname, err)
	}
	if err = version.Compatible(v); err != nil {
		return fmt.Errorf("Could not read the snapshot %s: %w", fname, err)
	}
	if err = dec.Decode(x); err != nil {
		return fmt.Errorf("Could not read the snapshot %s: %w", fname, err)
	}
	return nil
}

func SavePreprocessed(prefix string, p *Preprocessed) error {
	return Save(PreprocessName(prefix), p)
}

func LoadPreprocessed(prefix string) (*Preprocessed, error) {
	p := &Preprocessed{}
	if err := Load(PreprocessName(prefix), p); err != nil { return nil, err }
	return p, nil
}

// SavePartition writes acc under the name of its single job.
func SavePartition(prefix string, acc *paircount.Accumulator) error {
	if len(acc.Jobs) != 1 {
		return fmt.Errorf("A partition snapshot must hold exactly one job, "+
			"but the accumulator holds jobs %v.", acc.Jobs)
	}
	return Save(PartitionName(prefix, acc.Jobs[0], acc.JobTotal), acc)
}

func LoadPartition(fname string) (*paircount.Accumulator, error) {
	acc := &paircount.Accumulator{}
	if err := Load(fname, acc); err != nil { return nil, err }
	return acc, nil
}

func SaveOutput(fname string, results []correlation.Result) error {
	return Save(fname, results)
}

func LoadOutput(fname string) ([]correlation.Result, error) {
	results := []correlation.Result{}
	if err := Load(fname, &results); err != nil { return nil, err }
	return results, nil
}

// PartitionFile is a partition snapshot found on disk.
type PartitionFile struct {
	Name       string
	Job, Total int
}

var partitionPattern = regexp.MustCompile(`_divide_(\d+)-(\d+)\.gob$`)

// Partitions returns every partition snapshot written with prefix, sorted
// by job index. An error is returned if the snapshots disagree on the
// number of jobs.
func Partitions(prefix string) ([]PartitionFile, error) {
	names, err := filepath.Glob(escapeGlob(prefix) + "_divide_*-*.gob")
	if err != nil { return nil, err }

	out := []PartitionFile{}
	for _, name := range names {
		m := partitionPattern.FindStringSubmatch(name)
		if m == nil || name[:len(name)-len(m[0])] != prefix { continue }
		job, _ := strconv.Atoi(m[1])
		total, _ := strconv.Atoi(m[2])
		out = append(out, PartitionFile{name, job, total})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Job < out[j].Job })

	for i := range out {
		if out[i].Total != out[0].Total {
			return nil, fmt.Errorf("The snapshots %s and %s were split "+
				"into different numbers of jobs.", out[0].Name, out[i].Name)
		}
	}
	return out, nil
}

// MissingJobs returns the job indices in [0, total) which have no snapshot.
func MissingJobs(files []PartitionFile, total int) []int {
	found := make([]bool, total)
	for _, f := range files {
		if f.Job >= 0 && f.Job < total { found[f.Job] = true }
	}
	out := []int{}
	for i := range found {
		if !found[i] { out = append(out, i) }
	}
	return out
}

func escapeGlob(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		switch c {
		case '*', '?', '[', '\\':
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
