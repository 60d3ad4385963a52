// Package pipeline runs batch deconvolution over a tree of acquisition
// directories.
//
// A dataset is any directory holding a settings file (by default
// "*Settings.txt"). Its frames are the TIFF files named
// "<prefix>..._ch<N>....tif", where prefix is the settings file name up to
// the first underscore and N selects the channel's point-spread function.
// Results are written to a subdirectory of the dataset and every processed
// dataset is recorded in a processed.json ledger at the root, so later runs
// skip it.
package pipeline
