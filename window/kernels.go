package window

// Figures follow Harris, "On the use of windows for harmonic analysis with
// the discrete Fourier transform" (1978).
var kernels = map[Type]Kernel{
	Uniform: {
		Type:                Uniform,
		Name:                "uniform",
		CoherentGain:        1,
		NoisePowerBandwidth: 1,
		MaxAmplitudeError:   3.92,
		MaxSideLobeLevel:    -13,
		RolloffRate:         20,
		Width3dB:            0.89,
		Width6dB:            1.21,
		terms:               []float64{1},
	},
	Hann: {
		Type:                Hann,
		Name:                "hann",
		CoherentGain:        0.5,
		NoisePowerBandwidth: 1.5,
		MaxAmplitudeError:   1.42,
		MaxSideLobeLevel:    -31,
		RolloffRate:         60,
		Width3dB:            1.44,
		Width6dB:            2,
		terms:               []float64{0.5, 0.5},
	},
	Hamming: {
		Type:                Hamming,
		Name:                "hamming",
		CoherentGain:        0.54,
		NoisePowerBandwidth: 1.36,
		MaxAmplitudeError:   1.75,
		MaxSideLobeLevel:    -43,
		RolloffRate:         20,
		Width3dB:            1.30,
		Width6dB:            1.82,
		terms:               []float64{0.54, 0.46},
	},
	ExactBlackman: {
		Type:                ExactBlackman,
		Name:                "exact blackman",
		CoherentGain:        0.43,
		NoisePowerBandwidth: 1.69,
		MaxAmplitudeError:   1.15,
		MaxSideLobeLevel:    -68,
		RolloffRate:         20,
		Width3dB:            1.61,
		Width6dB:            2.25,
		terms:               []float64{7938.0 / 18608, 9240.0 / 18608, 1430.0 / 18608},
	},
	BlackmanHarris: {
		Type:                BlackmanHarris,
		Name:                "blackman-harris",
		CoherentGain:        0.36,
		NoisePowerBandwidth: 2.00,
		MaxAmplitudeError:   0.83,
		MaxSideLobeLevel:    -92,
		RolloffRate:         20,
		Width3dB:            1.90,
		Width6dB:            2.72,
		terms:               []float64{0.35875, 0.48829, 0.14128, 0.01168},
	},
	FlatTop: {
		Type:                FlatTop,
		Name:                "flat top",
		CoherentGain:        0.22,
		NoisePowerBandwidth: 3.77,
		MaxAmplitudeError:   0.01,
		MaxSideLobeLevel:    -93,
		RolloffRate:         20,
		Width3dB:            3.72,
		Width6dB:            4.58,
		terms:               []float64{0.21557895, 0.41663158, 0.277263158, 0.083578947, 0.006947368},
	},
}
