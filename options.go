package fibra

import (
	"github.com/tsawler/fibra/decode"
	"github.com/tsawler/fibra/format"
)

// Default sampling parameters. Files at or below the threshold are
// displayed in full; larger files are strided down to the limit.
const (
	DefaultSampleLimit     = 10000
	DefaultSampleThreshold = 10000
)

// Options holds the configuration a Loader threads into every decode:
// the format hint, the decode safety caps, and the display sampling
// parameters. The zero value of any field means "use the default", so
// a partially filled Options (for example one read from a YAML file
// that sets only maxFileSize) behaves like DefaultOptions with that
// one field changed.
type Options struct {
	// Format forces the decoder choice. Unknown means detect from
	// content, then filename, then fall back to TRK.
	Format format.Format `yaml:"format"`

	// MaxFileSize is the largest input accepted, in bytes.
	MaxFileSize int64 `yaml:"maxFileSize"`

	// MaxStreamlinePoints caps a single streamline's point count.
	MaxStreamlinePoints int `yaml:"maxStreamlinePoints"`

	// SampleLimit is the most streamlines Sampled will return.
	SampleLimit int `yaml:"sampleLimit"`

	// SampleThreshold is the streamline count above which stride
	// sampling activates.
	SampleThreshold int `yaml:"sampleThreshold"`
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		Format:              format.Unknown,
		MaxFileSize:         decode.DefaultMaxFileSize,
		MaxStreamlinePoints: decode.DefaultMaxStreamlinePoints,
		SampleLimit:         DefaultSampleLimit,
		SampleThreshold:     DefaultSampleThreshold,
	}
}

// withDefaults fills zero fields with their defaults.
func (o Options) withDefaults() Options {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = decode.DefaultMaxFileSize
	}
	if o.MaxStreamlinePoints <= 0 {
		o.MaxStreamlinePoints = decode.DefaultMaxStreamlinePoints
	}
	if o.SampleLimit <= 0 {
		o.SampleLimit = DefaultSampleLimit
	}
	if o.SampleThreshold <= 0 {
		o.SampleThreshold = DefaultSampleThreshold
	}
	return o
}

// limits converts the options into the decoder-level caps.
func (o Options) limits() decode.Limits {
	o = o.withDefaults()
	return decode.Limits{
		MaxFileSize:         o.MaxFileSize,
		MaxStreamlinePoints: o.MaxStreamlinePoints,
	}
}
