package stacktrace

import (
	"reflect"
	"runtime"
	"strings"

	"crashwatch/src/model"
)

// Policy decides which file paths count as first-party code.
// A path is first-party when it contains any FirstPartyMarkers entry and no
// VendorMarkers entry.
type Policy struct {
	FirstPartyMarkers []string `yaml:"first_party_markers"`
	VendorMarkers     []string `yaml:"vendor_markers"`
}

// DefaultPolicy treats /src/ and /app/ trees as first-party and bundled,
// vendored, module-cache and Go standard library sources as vendor code.
func DefaultPolicy() Policy {
	return Policy{
		FirstPartyMarkers: []string{"/src/", "/app/"},
		VendorMarkers:     withGoSource([]string{"node_modules", "/vendor/", "/pkg/mod/"}),
	}
}

// GoSourceRoot returns "<GOROOT>/src/" as recorded in this binary's own
// runtime frames, or "" when the binary was built with -trimpath.
func GoSourceRoot() string {
	fn := runtime.FuncForPC(reflect.ValueOf(runtime.Gosched).Pointer())
	if fn == nil {
		return ""
	}
	file, _ := fn.FileLine(fn.Entry())
	i := strings.LastIndex(file, "/src/runtime/")
	if i < 0 {
		return ""
	}
	return file[:i+len("/src/")]
}

func withGoSource(markers []string) []string {
	out := append([]string{}, markers...)
	if root := GoSourceRoot(); root != "" {
		out = append(out, root)
	}
	return out
}

func (p Policy) IsFirstParty(fileName string) bool {
	if fileName == "" {
		return false
	}
	for _, v := range p.VendorMarkers {
		if v != "" && strings.Contains(fileName, v) {
			return false
		}
	}
	for _, m := range p.FirstPartyMarkers {
		if m != "" && strings.Contains(fileName, m) {
			return true
		}
	}
	return false
}

// SelectCulprit picks the first first-party frame, else the first frame,
// else reports that there was no stack. It never fails.
func SelectCulprit(frames []model.StackFrame, policy Policy) model.Culprit {
	for i := range frames {
		if policy.IsFirstParty(frames[i].FileName) {
			frame := frames[i]
			return model.Culprit{Frame: &frame, Reason: model.CulpritAppFrame}
		}
	}
	if len(frames) > 0 {
		frame := frames[0]
		return model.Culprit{Frame: &frame, Reason: model.CulpritFirstFrame}
	}
	return model.Culprit{Reason: model.CulpritNoStack}
}
