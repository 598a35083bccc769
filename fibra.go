// Package fibra provides a fluent API for decoding tractography files
// (TrackVis TRK, MRtrix TCK, and TRX archives) into one unified
// in-memory model.
//
// Basic usage:
//
//	tract, warnings, err := fibra.Open("whole_brain.trk").Tractogram()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", fibra.FormatWarnings(warnings))
//	}
//
// With options:
//
//	result, _, err := fibra.Open("whole_brain.trx").
//	    MaxFileSize(512 << 20).
//	    SampleLimit(1000).
//	    Sampled()
//
// For direct control over a single format, the lower-level trk, tck,
// and trx packages are also available.
package fibra

// Open prepares a Loader that reads from the named file when a
// terminal operation runs. The format is detected from the content,
// falling back to the filename extension.
//
// Example:
//
//	tract, warnings, err := fibra.Open("bundle.tck").Tractogram()
func Open(filename string) *Loader {
	return &Loader{
		filename: filename,
		options:  DefaultOptions(),
	}
}

// FromBytes prepares a Loader over an in-memory file image. The data
// is not copied; the caller must not mutate it while the Loader is in
// use.
//
// Example:
//
//	data, _ := os.ReadFile("bundle.trx")
//	tract, _, err := fibra.FromBytes(data).Tractogram()
func FromBytes(data []byte) *Loader {
	return &Loader{
		data:     data,
		haveData: true,
		options:  DefaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	header := fibra.Must(fibra.Open("bundle.trk").Header())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTractogram is a helper that wraps a call to Tractogram(),
// Sampled(), or Bounds() and panics if the error is non-nil. It
// discards warnings and returns just the value. It is intended for use
// in scripts or tests where error handling would be cumbersome.
//
// Example:
//
//	tract := fibra.MustTractogram(fibra.Open("bundle.trk").Tractogram())
func MustTractogram[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
