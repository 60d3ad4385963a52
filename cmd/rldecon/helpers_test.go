package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-decon/dsp/ndimage"
	"github.com/cwbudde/algo-decon/internal/testutil"
	"github.com/cwbudde/algo-decon/internal/tiffio"
)

// execute runs rootCmd with args after restoring every flag to its default.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	for _, c := range rootCmd.Commands() {
		resetFlags(c)
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()

	return buf.String(), err
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// writeTree creates a data root with one dataset and a channel 0 PSF.
func writeTree(t *testing.T) (root, dataset string) {
	t.Helper()
	root = t.TempDir()
	dataset = filepath.Join(root, "cells")

	require.NoError(t, os.MkdirAll(filepath.Join(root, "psf"), 0o755))
	require.NoError(t, os.MkdirAll(dataset, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataset, "cells_Settings.txt"), []byte("settings"), 0o644))

	psf, err := ndimage.FromData(ndimage.Shape{3, 3}, []float64{0, 1, 0, 1, 4, 1, 0, 1, 0})
	require.NoError(t, err)
	require.NoError(t, tiffio.Write(filepath.Join(root, "psf", "psf_ch0.tif"), psf))

	img := testutil.ConstantImage(ndimage.Shape{6, 7}, 200)
	require.NoError(t, tiffio.Write(filepath.Join(dataset, "cells_ch0_t0.tif"), img))
	require.NoError(t, tiffio.Write(filepath.Join(dataset, "cells_ch0_t1.tif"), img))

	return root, dataset
}
