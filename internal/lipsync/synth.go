package lipsync

import (
	"encoding/json"
	"math"
)

// frameRate is the synthesized viseme sampling rate in frames per second.
const frameRate = 30.0

// minWindow keeps energy windows wide enough to carry a measurable deviation.
const minWindow = 16

// Frame is one viseme weight sample.
type Frame struct {
	Time   float64 `json:"t"`
	Weight float64 `json:"w"`
}

// Track is a synthesized lip animation.
type Track struct {
	Version  int     `json:"version"`
	Duration float64 `json:"duration"`
	Silent   bool    `json:"silent,omitempty"`
	Frames   []Frame `json:"frames"`
}

// Encode renders the track in its on-disk form.
func (t Track) Encode() []byte {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		// Track contains only finite floats and plain fields.
		panic(err)
	}
	return append(data, '\n')
}

// Synthesize derives a viseme track from a clip payload. The mapping is pure:
// the same payload bytes and duration always produce the same track. Weights
// come from windowed byte energy, the mean absolute deviation within each
// window scaled to [0, 1] and quantized so encoding is stable.
func Synthesize(payload []byte, duration float64) Track {
	track := Track{Version: 1, Duration: duration}
	if len(payload) == 0 || duration <= 0 {
		track.Silent = true
		return track
	}

	frames := int(duration * frameRate)
	if max := len(payload) / minWindow; frames > max {
		frames = max
	}
	if frames < 1 {
		frames = 1
	}

	window := len(payload) / frames
	track.Frames = make([]Frame, 0, frames)
	maxWeight := 0.0
	for i := 0; i < frames; i++ {
		start := i * window
		end := start + window
		if i == frames-1 {
			end = len(payload)
		}
		weight := quantize(windowEnergy(payload[start:end]))
		if weight > maxWeight {
			maxWeight = weight
		}
		track.Frames = append(track.Frames, Frame{
			Time:   quantize(float64(i) * duration / float64(frames)),
			Weight: weight,
		})
	}

	track.Silent = maxWeight == 0
	return track
}

func windowEnergy(window []byte) float64 {
	if len(window) == 0 {
		return 0
	}
	mean := 0.0
	for _, b := range window {
		mean += float64(b)
	}
	mean /= float64(len(window))

	deviation := 0.0
	for _, b := range window {
		deviation += math.Abs(float64(b) - mean)
	}
	deviation /= float64(len(window))

	return math.Min(deviation/128.0, 1.0)
}

func quantize(v float64) float64 {
	return math.Round(v*1000) / 1000
}
