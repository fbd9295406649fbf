package simcommon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-approx"
	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// Sonify turns an acceleration series into audio samples at the given
// rate. The record is sped up so its full duration fits the audible
// band, normalized to the target peak and soft-clipped.
func Sonify(ac []float64, dt float64, sampleRate int, speedup float64) ([]float32, error) {
	if len(ac) == 0 {
		return nil, fmt.Errorf("empty record")
	}
	if dt <= 0 {
		return nil, fmt.Errorf("dt must be positive, got %g", dt)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if speedup <= 0 {
		return nil, fmt.Errorf("speedup must be positive, got %g", speedup)
	}

	fromRate := speedup / dt
	src := ac
	if diff := fromRate - float64(sampleRate); diff > 1e-9 || diff < -1e-9 {
		r, err := dspresample.NewForRates(
			fromRate,
			float64(sampleRate),
			dspresample.WithQuality(dspresample.QualityBest),
		)
		if err != nil {
			return nil, err
		}
		src = r.Process(append([]float64(nil), ac...))
	}

	peak := 0.0
	for _, v := range src {
		if v > peak {
			peak = v
		} else if -v > peak {
			peak = -v
		}
	}
	if peak <= 1e-12 {
		return make([]float32, len(src)), nil
	}

	const targetPeak = 0.89
	gain := float32(targetPeak / peak)
	out := make([]float32, len(src))
	for i, v := range src {
		out[i] = softClip(float32(v) * gain)
	}
	return out, nil
}

// softClip is tanh computed with the fast exponential.
func softClip(x float32) float32 {
	e := approx.FastExp(2 * x)
	return (e - 1) / (e + 1)
}

func WriteMonoWAV(path string, data []float32, sampleRate int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	defer enc.Close()

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 1,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	return enc.Write(buf)
}
