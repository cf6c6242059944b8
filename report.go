package tzcheck

import (
	"github.com/coregx/tzcheck/version"
)

// Report is the outcome of verifying one image.
type Report struct {
	// Image is the path of the verified image, empty for raw buffers.
	Image string `json:"image,omitempty"`

	// Current is the version string extracted from the image.
	Current string `json:"current"`

	Mode      version.Mode `json:"mode"`
	Satisfied bool         `json:"satisfied"`

	// Comparisons holds every comparison made, in order. When Satisfied is
	// true the last entry is the one that matched.
	Comparisons []version.Comparison `json:"comparisons"`

	err error
}

// Err returns the first comparison failure of an unsatisfied report, such as
// a malformed version in MinVersion mode. It is nil for satisfied reports.
func (r *Report) Err() error {
	return r.err
}

// Matched returns the required version that was satisfied, or "" if none.
func (r *Report) Matched() string {
	if !r.Satisfied || len(r.Comparisons) == 0 {
		return ""
	}
	return r.Comparisons[len(r.Comparisons)-1].Required
}
