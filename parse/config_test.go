package parse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversions(t *testing.T) {
	var (
		i int64
		f float64
		s string
		b bool
	)

	tests := []struct {
		conv conversionFunc
		in   string
		ok   bool
	}{
		{intConv(&i), "7", true},
		{intConv(&i), "7.5", false},
		{floatConv(&f), "-1.2e4", true},
		{floatConv(&f), "meow", false},
		{stringConv(&s), "  meow ", true},
		{boolConv(&b), "true", true},
		{boolConv(&b), "yes", false},
	}

	for j, test := range tests {
		assert.Equal(t, test.ok, test.conv(test.in), "%d) '%s'", j, test.in)
	}
	assert.Equal(t, int64(7), i)
	assert.Equal(t, -1.2e4, f)
	assert.Equal(t, "meow", s)
	assert.True(t, b)
}

func TestListConversions(t *testing.T) {
	def := []float64{1, 2, 3}
	fs := def
	require.True(t, floatsConv(&fs)("4, 5"))
	assert.Equal(t, []float64{4, 5}, fs)
	assert.Equal(t, []float64{1, 2, 3}, def)

	require.True(t, floatsConv(&fs)(""))
	assert.Empty(t, fs)
	assert.False(t, floatsConv(&fs)("1, cat"))

	var is []int64
	require.True(t, intsConv(&is)("1,1, 2,3 ,5"))
	assert.Equal(t, []int64{1, 1, 2, 3, 5}, is)
	assert.False(t, intsConv(&is)("1, 2.5"))

	var bs []bool
	require.True(t, boolsConv(&bs)("true, false"))
	assert.Equal(t, []bool{true, false}, bs)

	var ss []string
	require.True(t, stringsConv(&ss)("dorothy, maddy ,sahil"))
	assert.Equal(t, []string{"dorothy", "maddy", "sahil"}, ss)
}

func TestRemoveComments(t *testing.T) {
	tests := []struct {
		in, out  []string
		lineNums []int
	}{
		{[]string{}, []string{}, []int{}},
		{[]string{"meow"}, []string{"meow"}, []int{0}},
		{[]string{"#meow"}, []string{}, []int{}},
		{[]string{"meow", " # comment", "", "   mew \r"},
			[]string{"meow", "mew"}, []int{0, 3}},
	}

	for _, test := range tests {
		out, lineNums := removeComments(test.in)
		assert.Equal(t, test.out, out, "%v", test.in)
		assert.Equal(t, test.lineNums, lineNums, "%v", test.in)
	}
}

func TestAssociationList(t *testing.T) {
	tests := []struct {
		lines       []string
		names, vals []string
		errLine     int
	}{
		{[]string{"a=b"}, []string{"a"}, []string{"b"}, -1},
		{[]string{"a"}, nil, nil, 0},
		{[]string{"=b"}, nil, nil, 0},
		{[]string{"A=b", "c=", " a = "},
			[]string{"a", "c", "a"}, []string{"b", "", ""}, -1},
	}

	for _, test := range tests {
		names, vals, errLine := associationList(test.lines)
		assert.Equal(t, test.errLine, errLine, "%v", test.lines)
		if errLine != -1 { continue }
		assert.Equal(t, test.names, names)
		assert.Equal(t, test.vals, vals)
	}
}

func TestCheckNames(t *testing.T) {
	i, j := checkDuplicateNames([]string{"a", "b", "c"})
	assert.Equal(t, [2]int{-1, -1}, [2]int{i, j})
	i, j = checkDuplicateNames([]string{"a", "b", "b", "c", "c"})
	assert.Equal(t, [2]int{1, 2}, [2]int{i, j})

	vars := &ConfigVars{varNames: []string{"a", "b", "d"}}
	assert.Equal(t, -1, checkValidNames([]string{"a", "a", "d"}, vars))
	assert.Equal(t, 2, checkValidNames([]string{"a", "b", "c"}, vars))
}

type testConfig struct {
	h0     []float64
	nbins  int64
	auto   bool
	fname  string
	cols   []string
	weight float64
}

func makeTestSections() (*testConfig, []*ConfigVars) {
	config := &testConfig{}

	cosmo := NewConfigVars("Cosmology")
	cosmo.Floats(&config.h0, "Hubble0", []float64{70})

	nbins := NewConfigVars("NBins")
	nbins.Int(&config.nbins, "S", 10)
	nbins.Bool(&config.auto, "Auto", false)

	galaxy := NewConfigVars("Galaxy_2").Optional()
	galaxy.String(&config.fname, "File", "")
	galaxy.Strings(&config.cols, "Columns", nil)
	galaxy.Float(&config.weight, "Weight", 1)

	return config, []*ConfigVars{cosmo, nbins, galaxy}
}

const validText = `# tpcf config
[cosmology]
Hubble0 = 70, 67.7 # km/s/Mpc

[NBins]
s = 25
auto=true

[ Galaxy_2 ]
File = data/galaxies.txt
Columns = ra, dec, z
`

func TestParseSections(t *testing.T) {
	config, sections := makeTestSections()
	require.NoError(t, ParseSections(validText, "valid.config", sections...))

	assert.Equal(t, []float64{70, 67.7}, config.h0)
	assert.Equal(t, int64(25), config.nbins)
	assert.True(t, config.auto)
	assert.Equal(t, "data/galaxies.txt", config.fname)
	assert.Equal(t, []string{"ra", "dec", "z"}, config.cols)
	assert.Equal(t, 1.0, config.weight)
	for _, vars := range sections {
		assert.True(t, vars.Found(), vars.Name())
	}
}

func TestParseSectionsOptional(t *testing.T) {
	config, sections := makeTestSections()
	text := "[NBins]\nS = 3\n[Cosmology]\n"
	require.NoError(t, ParseSections(text, "optional.config", sections...))

	assert.Equal(t, int64(3), config.nbins)
	assert.Equal(t, []float64{70}, config.h0)
	assert.True(t, sections[0].Found())
	assert.False(t, sections[2].Found())
}

func TestParseSectionsErrors(t *testing.T) {
	texts := []string{
		"S = 3\n[NBins]\n[Cosmology]\n",
		"[NBins]\n[Cosmology]\n[Halo]\n",
		"[NBins]\n[Cosmology]\n[NBins]\n",
		"[NBins]\n",
		"[NBins]\nS 3\n[Cosmology]\n",
		"[NBins]\nTheta = 3\n[Cosmology]\n",
		"[NBins]\nS = 3\nS = 4\n[Cosmology]\n",
		"[NBins]\nS = three\n[Cosmology]\n",
		"[NBins]\n[Cosmology]\nHubble0 = 70, h\n",
	}

	for _, text := range texts {
		_, sections := makeTestSections()
		err := ParseSections(text, "invalid.config", sections...)
		assert.Error(t, err, text)
	}
}

func TestReadSections(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "tpcf.config")
	require.NoError(t, os.WriteFile(fname, []byte(validText), 0644))

	config, sections := makeTestSections()
	require.NoError(t, ReadSections(fname, sections...))
	assert.Equal(t, int64(25), config.nbins)

	nbins := &testConfig{}
	vars := NewConfigVars("NBins")
	vars.Int(&nbins.nbins, "S", 0)
	vars.Bool(&nbins.auto, "Auto", false)
	text := "[NBins]\nS = 4\n"
	fname = filepath.Join(t.TempDir(), "nbins.config")
	require.NoError(t, os.WriteFile(fname, []byte(text), 0644))
	require.NoError(t, ReadConfig(fname, vars))
	assert.Equal(t, int64(4), nbins.nbins)

	assert.Error(t, ReadConfig(filepath.Join(t.TempDir(), "none"), vars))
}
