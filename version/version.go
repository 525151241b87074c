/*package version tracks the version of tpcf that wrote a config file or a
snapshot.*/
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceVersion is the semantic version number of the source code. It is
// stamped onto every snapshot written to disk.
const SourceVersion = "0.4.0"

// Parse parses a semantic version number string and returns an error if
// the string is invalid.
func Parse(s string) (major, minor, patch int, err error) {
	toks := strings.Split(s, ".")
	errMsg := fmt.Errorf("The version string '%s' does not take the form "+
		"of three period-separated non-negative numbers.", s)

	if len(toks) != 3 {
		return -1, -1, -1, errMsg
	}

	out := [3]int{}
	for i := range toks {
		out[i], err = strconv.Atoi(toks[i])
		if err != nil || out[i] < 0 {
			return -1, -1, -1, errMsg
		}
	}

	return out[0], out[1], out[2], nil
}

// Later returns true if s1 represents a later version of the source than
// s2. An error is returned if either is invalid.
func Later(s1, s2 string) (bool, error) {
	major1, minor1, patch1, err := Parse(s1)
	if err != nil {
		return false, err
	}
	major2, minor2, patch2, err := Parse(s2)
	if err != nil {
		return false, err
	}

	switch {
	case major1 != major2:
		return major1 > major2, nil
	case minor1 != minor2:
		return minor1 > minor2, nil
	default:
		return patch1 > patch2, nil
	}
}

// Compatible returns an error if files written by version s can't be read by
// this source. Snapshots are compatible when their major and minor versions
// match SourceVersion.
func Compatible(s string) error {
	major, minor, _, err := Parse(s)
	if err != nil {
		return err
	}
	smajor, sminor, _, _ := Parse(SourceVersion)
	if major != smajor || minor != sminor {
		return fmt.Errorf("The file was written by version %s, but the "+
			"version of the source is %s.", s, SourceVersion)
	}
	return nil
}
