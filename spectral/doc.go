// Package spectral implements short-time Fourier analysis and overlap-add
// resynthesis of mono integer waveforms.
//
// Analysis slices a wave.Buffer into frames of Config.FrameSize samples that
// overlap by Config.Overlap samples, windows each frame with a window.Kernel,
// corrects for the kernel's coherent gain and transforms it. Each resulting
// Frame keeps only the non-negative frequency half of the spectrum:
//   - Amplitude: |X[k]| / N, doubled for every bin except DC
//   - Phase: arg(X[k]), optional
//   - RMS: Amplitude * sqrt(2) except DC
//   - Power: RMS squared
//
// Frames are analysed concurrently and assembled in frame order into a
// Spectrogram. Resynthesize mirrors each half spectrum back into a conjugate
// symmetric full spectrum, inverts it and overlap-adds the frames, normalised
// by the summed synthesis window.
//
// Phase is required for faithful resynthesis. When it is missing the caller
// picks the fallback explicitly through PhasePolicy: fail, assume zero phase,
// or estimate it with Griffin-Lim iterations.
package spectral
