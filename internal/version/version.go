// Package version provides the build version of the binary.
//
// The Build variable is injected at build time:
//
//	go build -ldflags "-X github.com/effective-security/xdigest/internal/version.Build=0.5.0-a1b2c3d"
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Build is set via ldflags, in MAJOR.MINOR.PATCH form with an
// optional -SUFFIX after the patch number.
var Build = "0.1.0-dev"

// Version describes a parsed build version.
type Version struct {
	Major  uint32
	Minor  uint32
	Patch  uint32
	Suffix string
}

// Current returns the version the binary was built with.
func Current() Version {
	return parse(Build)
}

// String returns the version in SemVer form.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Suffix != "" {
		s += "-" + v.Suffix
	}
	return s
}

func parse(b string) Version {
	var v Version
	if i := strings.IndexRune(b, '-'); i >= 0 {
		v.Suffix = b[i+1:]
		b = b[:i]
	}
	nums := []*uint32{&v.Major, &v.Minor, &v.Patch}
	for i, p := range strings.SplitN(b, ".", 3) {
		if i >= len(nums) {
			break
		}
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			break
		}
		*nums[i] = uint32(n)
	}
	return v
}
