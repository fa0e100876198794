// Package fractal is the demo workload for jobswarm: it shades a square
// window of the Mandelbrot set, either on one goroutine or as a swarm of
// tile jobs, and writes the result as a grayscale GIF.
package fractal
