// Command wininfo prints the documented figures of the window kernels next to
// values measured from generated factors.
//
// Usage:
//
//	wininfo [flags] [window-name ...]
//
// Without arguments it prints every kernel.
//
// Examples:
//
//	wininfo
//	wininfo --size 4096 hann flat-top
package main
