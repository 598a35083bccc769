package format

import (
	"strings"
	"testing"
)

// ============================================================================
// Extension detection
// ============================================================================

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"bundle.trk", TRK},
		{"bundle.TRK", TRK},
		{"bundle.tck", TCK},
		{"bundle.Tck", TCK},
		{"bundle.trx", TRX},
		{"bundle.TRX", TRX},
		{"/path/to/whole_brain.trk", TRK},
		{"bundle.nii", Unknown},
		{"bundle", Unknown},
		{"", Unknown},
		{"trk", Unknown}, // no dot, no extension
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

// ============================================================================
// Magic probes
// ============================================================================

func TestDetectFromMagic(t *testing.T) {
	trkHeader := make([]byte, 16)
	copy(trkHeader, "TRACK\x00")

	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"trk magic", trkHeader, TRK},
		{"trk magic exactly six bytes", []byte("TRACK\x00"), TRK},
		{"tck first line", []byte("mrtrix tracks\ndatatype: Float32LE\n"), TCK},
		{"tck mixed case", []byte("MRtrix Tracks\n"), TCK},
		{"trx zip signature", []byte{'P', 'K', 0x03, 0x04, 0x00, 0x00}, TRX},
		{"empty", nil, Unknown},
		{"trk magic cut short", []byte("TRACK"), Unknown},
		{"zip central directory first", []byte{'P', 'K', 0x01, 0x02}, Unknown},
		{"random bytes", []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}, Unknown},
		{"plain text", []byte("Hello, World!"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProbesAreMutuallyExclusive(t *testing.T) {
	trkHeader := make([]byte, 16)
	copy(trkHeader, "TRACK\x00")

	samples := []struct {
		name          string
		data          []byte
		trk, tck, trx bool
	}{
		{"trk header", trkHeader, true, false, false},
		{"tck header", []byte("mrtrix tracks\ndatatype: Float32LE\nEND\n"), false, true, false},
		{"trx archive", []byte{'P', 'K', 0x03, 0x04, 0x14, 0x00}, false, false, true},
	}

	for _, s := range samples {
		t.Run(s.name, func(t *testing.T) {
			if got := IsTRK(s.data); got != s.trk {
				t.Errorf("IsTRK = %v, want %v", got, s.trk)
			}
			if got := IsTCK(s.data); got != s.tck {
				t.Errorf("IsTCK = %v, want %v", got, s.tck)
			}
			if got := IsTRX(s.data); got != s.trx {
				t.Errorf("IsTRX = %v, want %v", got, s.trx)
			}
		})
	}
}

func TestIsTCKScanWindow(t *testing.T) {
	// The probe inspects at most the first 100 bytes.
	early := []byte(strings.Repeat("#", 80) + "mrtrix tracks")
	if !IsTCK(early) {
		t.Error("Expected magic inside the window to be found")
	}
	late := []byte(strings.Repeat("#", 101) + "mrtrix tracks")
	if IsTCK(late) {
		t.Error("Expected magic past the window to be ignored")
	}
}

func TestIsTRKShortInput(t *testing.T) {
	for _, data := range [][]byte{nil, {}, []byte("TR"), []byte("TRACK")} {
		if IsTRK(data) {
			t.Errorf("IsTRK(%q) = true for input shorter than the magic field", data)
		}
	}
}

// ============================================================================
// String forms
// ============================================================================

func TestFormatString(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{TRK, "TRK"},
		{TCK, "TCK"},
		{TRX, "TRX"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormatExtension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{TRK, ".trk"},
		{TCK, ".tck"},
		{TRX, ".trx"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"trk", TRK, false},
		{"TCK", TCK, false},
		{" trx ", TRX, false},
		{"auto", Unknown, false},
		{"", Unknown, false},
		{"nii", Unknown, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatTextRoundTrip(t *testing.T) {
	for _, f := range []Format{Unknown, TRK, TCK, TRX} {
		text, err := f.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText failed: %v", err)
		}
		var back Format
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) failed: %v", text, err)
		}
		if back != f {
			t.Errorf("Round trip changed %v into %v", f, back)
		}
	}

	var f Format
	if err := f.UnmarshalText([]byte("vtk")); err == nil {
		t.Error("Expected error for an unsupported format name")
	}
}
