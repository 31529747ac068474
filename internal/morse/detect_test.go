package morse

import (
	"testing"
	"time"

	"github.com/runevoice/rune/internal/audio"
	"github.com/runevoice/rune/internal/dsp"
)

// The full signal path as the orchestrator runs it: synthesize keyed
// tones, segment the envelope, score tone purity, detect and decode.
func TestDecode_SynthesizedAudio(t *testing.T) {
	tone := audio.ToneConfig{
		Frequency:  1000,
		WPM:        12,
		SampleRate: 16000,
		Amplitude:  0.8,
	}
	buf, err := audio.SynthesizeMorse(TextToMorse("SOS SOS"), tone)
	if err != nil {
		t.Fatalf("SynthesizeMorse: %v", err)
	}

	segmenter, err := dsp.NewSegmenter(dsp.SegmenterConfig{
		Threshold:       0.3,
		SmoothingWindow: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}
	segments := segmenter.Segment(buf)

	goertzel, err := dsp.NewGoertzel(tone.Frequency, float64(tone.SampleRate), 512)
	if err != nil {
		t.Fatalf("NewGoertzel: %v", err)
	}
	purity := goertzel.Purity(buf.Samples)

	lik := DetectMorse(segments, purity, DetectConfig{})
	if !lik.IsMorse {
		t.Fatalf("synthesized keying not detected as Morse: %+v", lik)
	}

	text, err := DecodeSegments(segments, DefaultBoundaries(), '?')
	if err != nil {
		t.Fatalf("DecodeSegments: %v", err)
	}
	if text != "SOS SOS" {
		t.Errorf("decoded %q, want %q", text, "SOS SOS")
	}
}

func TestDetect_SpeechLikeAudio(t *testing.T) {
	// Broadband noise-ish input: sum of unrelated sines. The envelope
	// never forms clean keying and the spectrum is not tone-dominated.
	buf, err := audio.SynthesizeMorse("-", audio.ToneConfig{
		Frequency:  700,
		WPM:        12,
		SampleRate: 16000,
		Amplitude:  0.4,
	})
	if err != nil {
		t.Fatalf("SynthesizeMorse: %v", err)
	}
	overlay, err := audio.SynthesizeMorse("-", audio.ToneConfig{
		Frequency:  2300,
		WPM:        12,
		SampleRate: 16000,
		Amplitude:  0.4,
	})
	if err != nil {
		t.Fatalf("SynthesizeMorse: %v", err)
	}
	for i := range buf.Samples {
		buf.Samples[i] += overlay.Samples[i]
	}

	segmenter, err := dsp.NewSegmenter(dsp.SegmenterConfig{
		Threshold:       0.3,
		SmoothingWindow: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}
	goertzel, err := dsp.NewGoertzel(1000, 16000, 512)
	if err != nil {
		t.Fatalf("NewGoertzel: %v", err)
	}

	lik := DetectMorse(segmenter.Segment(buf), goertzel.Purity(buf.Samples), DetectConfig{})
	if lik.IsMorse {
		t.Errorf("two-tone mix misdetected as Morse: %+v", lik)
	}
}
