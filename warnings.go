package fibra

import (
	"fmt"
	"strings"

	"github.com/tsawler/fibra/model"
)

// Warning codes. Code identifies the condition for programmatic
// handling; Message carries the human-readable detail.
const (
	// WarnCountMismatch means the file's header declared a streamline
	// count that differs from what was actually decoded, usually a
	// sign of truncation or a sloppy producer.
	WarnCountMismatch = "count-mismatch"

	// WarnSkippedMembers means a TRX archive contained members whose
	// compression method is unsupported; they were left undecoded.
	WarnSkippedMembers = "skipped-members"

	// WarnEmptyTractogram means the decode succeeded but yielded no
	// streamlines.
	WarnEmptyTractogram = "empty-tractogram"
)

// Warning describes a non-fatal issue encountered while decoding.
// Warnings accompany a usable result; fatal problems are returned as
// errors instead.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Message
}

// FormatWarnings renders warnings as a single string, one per line.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.Message
	}
	return strings.Join(lines, "\n")
}

// collectWarnings derives the loader's warnings from a decoded
// tractogram. The decoders themselves never warn; everything here is
// computed from the returned model.
func collectWarnings(t *model.Tractogram) []Warning {
	var warnings []Warning

	if declared, ok := t.Header.Metadata[model.MetaDeclaredCount].(int); ok {
		if declared > 0 && declared != len(t.Streamlines) {
			warnings = append(warnings, Warning{
				Code: WarnCountMismatch,
				Message: fmt.Sprintf("header declares %d streamlines, decoded %d",
					declared, len(t.Streamlines)),
			})
		}
	}

	if skipped, ok := t.Header.Metadata[model.MetaSkippedMembers].([]string); ok && len(skipped) > 0 {
		warnings = append(warnings, Warning{
			Code: WarnSkippedMembers,
			Message: fmt.Sprintf("%d archive member(s) skipped (unsupported compression): %s",
				len(skipped), strings.Join(skipped, ", ")),
		})
	}

	if t.IsEmpty() {
		warnings = append(warnings, Warning{
			Code:    WarnEmptyTractogram,
			Message: "file decoded cleanly but contains no streamlines",
		})
	}

	return warnings
}
