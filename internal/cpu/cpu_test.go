package cpu

import (
	"runtime"
	"testing"
)

func TestDetectFeaturesArchitecture(t *testing.T) {
	ResetDetection()
	defer ResetDetection()

	f := DetectFeatures()
	if f.Architecture != runtime.GOARCH {
		t.Fatalf("Architecture=%q, want %q", f.Architecture, runtime.GOARCH)
	}
	if runtime.GOARCH == "amd64" && !f.HasSSE2 {
		t.Fatal("amd64 must report SSE2")
	}
}

func TestForcedFeatures(t *testing.T) {
	defer ResetDetection()

	SetForcedFeatures(Features{HasAVX2: true, HasSSE2: true, Architecture: "amd64"})
	if !DetectFeatures().HasAVX2 {
		t.Fatal("forced AVX2 not reported")
	}

	ResetDetection()
	if DetectFeatures().Architecture != runtime.GOARCH {
		t.Fatal("reset did not restore host detection")
	}
}

func TestSupports(t *testing.T) {
	tests := []struct {
		name  string
		f     Features
		level SIMDLevel
		want  bool
	}{
		{"none always", Features{}, SIMDNone, true},
		{"sse2 present", Features{HasSSE2: true}, SIMDSSE2, true},
		{"avx2 missing", Features{HasSSE2: true}, SIMDAVX2, false},
		{"neon present", Features{HasNEON: true}, SIMDNEON, true},
		{"force generic", Features{HasSSE2: true, ForceGeneric: true}, SIMDSSE2, false},
		{"force generic none", Features{ForceGeneric: true}, SIMDNone, true},
		{"unknown", Features{HasSSE2: true}, SIMDLevel(42), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Supports(tc.f, tc.level); got != tc.want {
				t.Fatalf("Supports=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestBest(t *testing.T) {
	if got := (Features{HasSSE2: true, HasAVX2: true}).Best(); got != SIMDAVX2 {
		t.Fatalf("Best=%v, want AVX2", got)
	}
	if got := (Features{HasNEON: true}).Best(); got != SIMDNEON {
		t.Fatalf("Best=%v, want NEON", got)
	}
	if got := (Features{HasSSE2: true, ForceGeneric: true}).Best(); got != SIMDNone {
		t.Fatalf("Best=%v, want None", got)
	}
	if SIMDSSE2.String() != "SSE2" || SIMDLevel(9).String() != "Unknown" {
		t.Fatal("unexpected level names")
	}
}
