/*package catalog reads and writes the whitespace-separated text tables that
galaxy catalogs come in and that tpcf writes its results to.

A table may name its columns in a header comment, either as a list of names,

	# ra dec z weight

or in the form written by CommentString,

	# Column contents: s(0) xi(1) xi_err(2)
*/
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const contentsPrefix = "Column contents:"

// CommentString returns a header line naming the given columns. sizes gives
// the number of columns spanned by each name and may be nil.
func CommentString(names []string, sizes []int) string {
	tokens := []string{"# " + contentsPrefix}

	n := 0
	for i, name := range names {
		size := 1
		if sizes != nil { size = sizes[i] }
		if size == 1 {
			tokens = append(tokens, fmt.Sprintf("%s(%d)", name, n))
		} else {
			tokens = append(tokens, fmt.Sprintf("%s(%d-%d)",
				name, n, n+size-1))
		}
		n += size
	}

	return strings.Join(tokens, " ")
}

// FormatCols formats the columns into aligned lines. All columns must be the
// same height.
func FormatCols(cols [][]float64) []string {
	if len(cols) == 0 || len(cols[0]) == 0 { return []string{} }

	height := len(cols[0])
	formatted := make([][]string, len(cols))
	for i := range cols {
		if len(cols[i]) != height {
			panic("Columns of unequal height.")
		}
		formatted[i] = formatFloatCol(cols[i])
	}

	lines := make([]string, height)
	tokens := make([]string, len(cols))
	for i := 0; i < height; i++ {
		for j := range formatted {
			tokens[j] = formatted[j][i]
		}
		lines[i] = strings.Join(tokens, " ")
	}

	return lines
}

func formatFloatCol(col []float64) []string {
	width := 0
	for i := range col {
		n := len(fmt.Sprintf("%.6g", col[i]))
		if n > width { width = n }
	}

	out := make([]string, len(col))
	for i := range col {
		out[i] = fmt.Sprintf("%*.6g", width, col[i])
	}

	return out
}

// WriteTable writes a header naming the columns followed by the formatted
// columns themselves.
func WriteTable(w io.Writer, names []string, cols [][]float64) error {
	if len(names) != len(cols) {
		return fmt.Errorf("%d column names were given for %d columns.",
			len(names), len(cols))
	}
	for i := range cols {
		if len(cols[i]) != len(cols[0]) {
			return fmt.Errorf("Column '%s' has %d rows, but column '%s' "+
				"has %d.", names[i], len(cols[i]), names[0], len(cols[0]))
		}
	}

	if _, err := fmt.Fprintln(w, CommentString(names, nil)); err != nil {
		return err
	}
	for _, line := range FormatCols(cols) {
		if _, err := fmt.Fprintln(w, line); err != nil { return err }
	}
	return nil
}

// Header returns the column names given in the first comment line of a
// table, or nil if there is no such line. A name spanning several columns,
// like "x(3-5)", is returned once for each column as "x_0", "x_1", ....
func Header(data []byte) []string {
	lines, _ := split(data, '\n', '#')
	for _, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 { continue }
		if line[0] != '#' { return nil }
		return parseHeader(string(bytes.TrimSpace(line[1:])))
	}
	return nil
}

func parseHeader(s string) []string {
	if !strings.HasPrefix(s, contentsPrefix) {
		return strings.FieldsFunc(s, isSep)
	}

	out := []string{}
	for _, tok := range strings.Fields(s[len(contentsPrefix):]) {
		open := strings.Index(tok, "(")
		if open == -1 || tok[len(tok)-1] != ')' {
			out = append(out, tok)
			continue
		}

		name, span := tok[:open], tok[open+1:len(tok)-1]
		lo, hi := span, span
		if dash := strings.Index(span, "-"); dash != -1 {
			lo, hi = span[:dash], span[dash+1:]
		}
		ilo, err1 := strconv.Atoi(lo)
		ihi, err2 := strconv.Atoi(hi)
		if err1 != nil || err2 != nil || ihi < ilo {
			out = append(out, tok)
			continue
		}

		if ilo == ihi {
			out = append(out, name)
			continue
		}
		for i := 0; i <= ihi-ilo; i++ {
			out = append(out, fmt.Sprintf("%s_%d", name, i))
		}
	}
	return out
}

// ReadNamed reads the named columns of a text table. A name is either a
// name listed in the table's header or a zero-indexed column number. Names
// which match neither are left out of the returned map.
func ReadNamed(fname string, names []string) (map[string][]float64, error) {
	data, err := os.ReadFile(fname)
	if err != nil { return nil, err }
	cols, err := ParseNamed(data, names)
	if err != nil {
		return nil, fmt.Errorf("Could not read the table %s: %w", fname, err)
	}
	return cols, nil
}

// ParseNamed is ReadNamed for a table which has already been read.
func ParseNamed(data []byte, names []string) (map[string][]float64, error) {
	header := Header(data)

	found, idxs := []string{}, []int{}
	for _, name := range names {
		idx := columnIndex(header, name)
		if idx == -1 { continue }
		found, idxs = append(found, name), append(idxs, idx)
	}

	cols, err := Parse(data, idxs)
	if err != nil { return nil, err }

	out := map[string][]float64{}
	for i := range found { out[found[i]] = cols[i] }
	return out, nil
}

func columnIndex(header []string, name string) int {
	for i := range header {
		if strings.EqualFold(header[i], name) { return i }
	}
	if i, err := strconv.Atoi(name); err == nil && i >= 0 { return i }
	return -1
}

// Parse parses the specified columns in a byte block.
func Parse(data []byte, colIdxs []int) ([][]float64, error) {
	lines, nComm := split(data, '\n', '#')
	lines = uncomment(lines, '#', nComm)
	lines = trim(lines)
	return parse(lines, colIdxs)
}

// ReadFile reads the specified columns of a text file.
func ReadFile(fname string, colIdxs []int) ([][]float64, error) {
	data, err := os.ReadFile(fname)
	if err != nil { return nil, err }
	return Parse(data, colIdxs)
}

func isSep(c rune) bool { return c == ' ' || c == '\t' || c == ',' || c == '\r' }

// split splits a byte splice at each separating flag. Faster than
// bytes.Split() because slicing is used instead of allocations and because
// only one separator is used.
//
// Some of the calculations associated with uncommenting are done here for a
// slight performance boost.
func split(data []byte, sep, comm byte) (lines [][]byte, nComm int) {
	n := 0
	for _, c := range data {
		if c == sep { n++ }
		if c == comm { nComm++ }
	}

	tokens := make([][]byte, n+1)

	idx := 0
	for j := 0; j < n; j++ {
		data = data[idx:]
		idx = bytes.IndexByte(data, sep)
		tokens[j] = data[:idx]
		idx++
	}
	tokens[n] = data[idx:]

	return tokens, nComm
}

// uncomment removes file comments in the form of "data # comment". Optimized
// for the common case where comments are rare and at the start of the file.
func uncomment(lines [][]byte, comm byte, nComm int) [][]byte {
	if nComm == 0 { return lines }

	for i, line := range lines {
		commentStart := bytes.IndexByte(line, comm)
		if commentStart == -1 { continue }

		lines[i] = line[:commentStart]

		n := 1
		for _, c := range line[commentStart+1:] {
			if c == comm { n++ }
		}

		nComm -= n
		if nComm == 0 { return lines }
	}

	return lines
}

// trim removes blank lines.
func trim(lines [][]byte) [][]byte {
	j := 0

LineLoop:
	for i, line := range lines {
		for _, c := range line {
			if !isSep(rune(c)) {
				lines[j] = lines[i]
				j++
				continue LineLoop
			}
		}
	}

	return lines[:j]
}

func parse(lines [][]byte, colIdxs []int) ([][]float64, error) {
	cols := make([][]float64, len(colIdxs))
	for i := range cols { cols[i] = make([]float64, len(lines)) }
	if len(lines) == 0 { return cols, nil }

	width := len(fields(lines[0], nil))
	for _, idx := range colIdxs {
		if idx >= width {
			return nil, fmt.Errorf("Column %d was requested, but the "+
				"table only has %d columns.", idx, width)
		}
	}

	buf := make([][]byte, width)
	var err error
	for i, line := range lines {
		words := fields(line, buf)
		if len(words) != width {
			return nil, fmt.Errorf(
				"Data (not file) line %d has %d columns, not %d.",
				i+1, len(words), width,
			)
		}

		for j, idx := range colIdxs {
			cols[j][i], err = strconv.ParseFloat(string(words[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("Data (not file) line %d: %w", i+1, err)
			}
		}
	}

	return cols, nil
}

// fields is a buffered analog to bytes.FieldsFunc(data, isSep). With a nil
// buf it allocates.
func fields(data []byte, buf [][]byte) [][]byte {
	buf = buf[:0]
	fieldStart := -1
	for i, c := range data {
		sep := isSep(rune(c))
		if fieldStart < 0 && !sep {
			fieldStart = i
		} else if fieldStart >= 0 && sep {
			buf = append(buf, data[fieldStart:i])
			fieldStart = -1
		}
	}
	if fieldStart >= 0 { buf = append(buf, data[fieldStart:]) }
	return buf
}
