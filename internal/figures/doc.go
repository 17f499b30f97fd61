// Package figures renders the four report charts as PNG files with
// gonum.org/v1/plot: box plots of points by rider class and by stage class,
// the rider by stage interaction plot, and the points histogram with a
// kernel density overlay.
package figures
