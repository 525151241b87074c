/*package parse reads sectioned config files. A file is a sequence of
sections, each starting with a [Header] line and followed by
"Name = value" assignments. Everything after a '#' is a comment, names and
headers are case-insensitive, and list values are comma-separated.

	[Cosmology]
	Hubble0 = 70, 67.7 # km/s/Mpc
	OmegaM0 = 0.3, 0.31
*/
package parse

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

/////////////////////
// Conversion Code //
/////////////////////

type varType int
const (
	intVar varType = iota
	intsVar
	floatVar
	floatsVar
	stringVar
	stringsVar
	boolVar
	boolsVar
)

func (v varType) String() string {
	switch v {
	case intVar: return "int"
	case intsVar: return "int list"
	case floatVar: return "float"
	case floatsVar: return "float list"
	case stringVar: return "string"
	case stringsVar: return "string list"
	case boolVar: return "bool"
	case boolsVar: return "bool list"
	}
	panic("Impossible")
}

type conversionFunc func(string) bool

// ConfigVars binds the variables of one config section to Go variables.
type ConfigVars struct {
	name string
	optional, found bool
	varNames []string
	varTypes []varType
	conversionFuncs []conversionFunc
}

func intConv(ptr *int64) conversionFunc {
	return func(s string) bool {
		i, err := strconv.Atoi(s)
		if err != nil { return false }
		*ptr = int64(i)
		return true
	}
}

func floatConv(ptr *float64) conversionFunc {
	return func(s string) bool {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil { return false }
		*ptr = f
		return true
	}
}

func stringConv(ptr *string) conversionFunc {
	return func(s string) bool {
		*ptr = strings.Trim(s, " \t")
		return true
	}
}

func boolConv(ptr *bool) conversionFunc {
	return func(s string) bool {
		b, err := strconv.ParseBool(s)
		if err != nil { return false }
		*ptr = b
		return true
	}
}

func strToList(a string) []string {
	if strings.Trim(a, " \t") == "" { return nil }
	strs := strings.Split(a, ",")
	for i := range strs {
		strs[i] = strings.Trim(strs[i], " \t")
	}
	return strs
}

// List conversions replace the default value rather than appending to it.

func intsConv(ptr *[]int64) conversionFunc {
	return func(s string) bool {
		toks := strToList(s)
		out := make([]int64, 0, len(toks))
		for j := range toks {
			i, err := strconv.Atoi(toks[j])
			if err != nil { return false }
			out = append(out, int64(i))
		}
		*ptr = out
		return true
	}
}

func floatsConv(ptr *[]float64) conversionFunc {
	return func(s string) bool {
		toks := strToList(s)
		out := make([]float64, 0, len(toks))
		for j := range toks {
			f, err := strconv.ParseFloat(toks[j], 64)
			if err != nil { return false }
			out = append(out, f)
		}
		*ptr = out
		return true
	}
}

func stringsConv(ptr *[]string) conversionFunc {
	return func(s string) bool {
		*ptr = append([]string{}, strToList(s)...)
		return true
	}
}

func boolsConv(ptr *[]bool) conversionFunc {
	return func(s string) bool {
		toks := strToList(s)
		out := make([]bool, 0, len(toks))
		for j := range toks {
			b, err := strconv.ParseBool(toks[j])
			if err != nil { return false }
			out = append(out, b)
		}
		*ptr = out
		return true
	}
}

// NewConfigVars creates the variable set for the section [name].
func NewConfigVars(name string) *ConfigVars {
	return &ConfigVars{name: strings.ToLower(name)}
}

// Optional marks the section as one which doesn't need to appear in the
// file. It returns vars so it can be chained onto NewConfigVars.
func (vars *ConfigVars) Optional() *ConfigVars {
	vars.optional = true
	return vars
}

// Found returns true if the section appeared in the last file read.
func (vars *ConfigVars) Found() bool { return vars.found }

// Name returns the section's header without brackets.
func (vars *ConfigVars) Name() string { return vars.name }

func (vars *ConfigVars) add(name string, t varType, f conversionFunc) {
	vars.varNames = append(vars.varNames, strings.ToLower(name))
	vars.conversionFuncs = append(vars.conversionFuncs, f)
	vars.varTypes = append(vars.varTypes, t)
}

func (vars *ConfigVars) Int(ptr *int64, name string, value int64) {
	*ptr = value
	vars.add(name, intVar, intConv(ptr))
}

func (vars *ConfigVars) Float(ptr *float64, name string, value float64) {
	*ptr = value
	vars.add(name, floatVar, floatConv(ptr))
}

func (vars *ConfigVars) String(ptr *string, name string, value string) {
	*ptr = value
	vars.add(name, stringVar, stringConv(ptr))
}

func (vars *ConfigVars) Bool(ptr *bool, name string, value bool) {
	*ptr = value
	vars.add(name, boolVar, boolConv(ptr))
}

func (vars *ConfigVars) Ints(ptr *[]int64, name string, value []int64) {
	*ptr = value
	vars.add(name, intsVar, intsConv(ptr))
}

func (vars *ConfigVars) Floats(ptr *[]float64, name string, value []float64) {
	*ptr = value
	vars.add(name, floatsVar, floatsConv(ptr))
}

func (vars *ConfigVars) Strings(ptr *[]string, name string, value []string) {
	*ptr = value
	vars.add(name, stringsVar, stringsConv(ptr))
}

func (vars *ConfigVars) Bools(ptr *[]bool, name string, value []bool) {
	*ptr = value
	vars.add(name, boolsVar, boolsConv(ptr))
}

func (vars *ConfigVars) index(name string) int {
	for j := range vars.varNames {
		if vars.varNames[j] == name { return j }
	}
	return -1
}

//////////////////
// Parsing Code //
//////////////////

// ReadConfig reads a file which contains the single section vars.
func ReadConfig(fname string, vars *ConfigVars) error {
	return ReadSections(fname, vars)
}

// ReadSections reads the config file fname into every given section.
// Sections may appear in any order, but each at most once. A section which
// isn't marked Optional must appear.
func ReadSections(fname string, sections ...*ConfigVars) error {
	bs, err := os.ReadFile(fname)
	if err != nil { return err }
	return ParseSections(string(bs), fname, sections...)
}

// ParseSections is ReadSections for text which has already been read. fname
// is only used in error messages.
func ParseSections(text, fname string, sections ...*ConfigVars) error {
	lines, lineNums := removeComments(strings.Split(text, "\n"))
	for i := range lineNums { lineNums[i]++ }
	for _, vars := range sections { vars.found = false }

	if len(lines) > 0 && header(lines[0]) == "" {
		return fmt.Errorf(
			"I expected line %d of the config file %s to be a section " +
			"header, but it was '%s'.", lineNums[0], fname, lines[0],
		)
	}

	for start := 0; start < len(lines); {
		name := header(lines[start])
		end := start + 1
		for end < len(lines) && header(lines[end]) == "" { end++ }

		vars := findSection(sections, name)
		if vars == nil {
			return fmt.Errorf(
				"Line %d of the config file %s starts the section [%s], " +
				"but config files of this type don't have that section.",
				lineNums[start], fname, name,
			)
		} else if vars.found {
			return fmt.Errorf(
				"Line %d of the config file %s starts a second [%s] " +
				"section.", lineNums[start], fname, name,
			)
		}
		vars.found = true

		err := parseSection(lines[start+1:end], lineNums[start+1:end],
			fname, vars)
		if err != nil { return err }
		start = end
	}

	for _, vars := range sections {
		if !vars.found && !vars.optional {
			return fmt.Errorf(
				"The config file %s doesn't have the required section [%s].",
				fname, vars.name,
			)
		}
	}

	return nil
}

func header(line string) string {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return ""
	}
	return strings.ToLower(strings.Trim(line[1:len(line)-1], " \t"))
}

func findSection(sections []*ConfigVars, name string) *ConfigVars {
	for _, vars := range sections {
		if vars.name == name { return vars }
	}
	return nil
}

func parseSection(
	lines []string, lineNums []int, fname string, vars *ConfigVars,
) error {
	names, vals, errLine := associationList(lines)
	if errLine !=  -1 {
		return fmt.Errorf(
			"I could not parse line %d of the config file %s because it " +
			"did not take the form of a variable assignment.",
			lineNums[errLine], fname,
		)
	}

	if errLine = checkValidNames(names, vars); errLine != -1 {
		return fmt.Errorf(
			"Line %d of the config file %s assigns a value to the " +
			"variable '%s', but the section [%s] doesn't have that " +
			"variable.", lineNums[errLine], fname, names[errLine], vars.name,
		)
	}

	if errLine1, errLine2 := checkDuplicateNames(names); errLine1 != -1 {
		return fmt.Errorf(
			"Lines %d and %d of the config file %s both assign a value to " +
			"the variable '%s'.", lineNums[errLine1], lineNums[errLine2],
			fname, names[errLine1],
		)
	}

	if errLine = convertAssoc(names, vals, vars); errLine != -1 {
		j := vars.index(names[errLine])
		typeName := vars.varTypes[j].String()
		a := "a"
		if typeName[0] == 'i' { a = "an" }
		return fmt.Errorf(
			"I could not parse line %d of the config file %s because '%s' " +
			"expects values of type %s and '%s' cannot be converted to " +
			"%s %s.", lineNums[errLine], fname, vars.varNames[j], typeName,
			vals[errLine], a, typeName,
		)
	}

	return nil
}

func removeComments(lines []string) ([]string, []int) {
	out, lineNums := []string{}, []int{}
	for i, line := range lines {
		if comment := strings.Index(line, "#"); comment != -1 {
			line = line[:comment]
		}
		line = strings.Trim(line, " \t\r")
		if len(line) == 0 { continue }
		out = append(out, line)
		lineNums = append(lineNums, i)
	}

	return out, lineNums
}

func associationList(lines []string) ([]string, []string, int) {
	names, vals := []string{}, []string{}
	for i := range lines {
		eq := strings.Index(lines[i], "=")
		if eq == -1 { return nil, nil, i }
		name := strings.ToLower(strings.Trim(lines[i][:eq], " \t"))
		if len(name) == 0 { return nil, nil, i }
		names = append(names, name)
		vals = append(vals, strings.Trim(lines[i][eq+1:], " \t"))
	}
	return names, vals, -1
}

func checkValidNames(names []string, vars *ConfigVars) int {
	for i := range names {
		if vars.index(names[i]) == -1 { return i }
	}
	return -1
}

func checkDuplicateNames(names []string) (int, int) {
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			if names[i] == names[j] { return i, j }
		}
	}
	return -1, -1
}

func convertAssoc(names, vals []string, vars *ConfigVars) int {
	for i := range names {
		j := vars.index(names[i])
		if ok := vars.conversionFuncs[j](vals[i]); !ok { return i }
	}
	return -1
}
