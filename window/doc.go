// Package window provides the apodization kernels used before spectral analysis.
//
// The kernel set is closed and identified by a Type tag:
//   - Uniform (constant scale, no tapering)
//   - Hann and Hamming (2-term cosine sums)
//   - ExactBlackman (3-term cosine sum)
//   - BlackmanHarris (4-term cosine sum)
//   - FlatTop (5-term cosine sum)
//
// Every Kernel carries its documented spectral figures (coherent gain, noise
// power bandwidth, worst-case amplitude error, side lobe level and roll-off,
// main lobe widths) and produces scaling factors for a given length. Factors
// are a pure function of the kernel and the length; a Cache may be supplied to
// memoize them across frames.
package window
