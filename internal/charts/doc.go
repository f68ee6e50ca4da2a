// Package charts draws spending series as PNG images with gonum/plot and
// returns them base64 encoded for inline embedding.
//
// Every render builds a fresh renderContext holding its plot, canvas and
// output buffer. Nothing is shared between calls, so a Renderer is safe for
// concurrent use.
package charts
