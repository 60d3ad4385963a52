package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-decon/dsp/ndimage"
	"github.com/cwbudde/algo-decon/dsp/psf"
	"github.com/cwbudde/algo-decon/internal/pipeline"
	"github.com/cwbudde/algo-decon/internal/tiffio"
)

var fileCmd = &cobra.Command{
	Use:   "file <input>",
	Short: "Deconvolve a single TIFF file or the matching files of a directory",
	Long: `Deconvolves one image with the given PSF and writes the result to
<subdir>/<name><tag>.tif next to the input. When the input is a
directory, every TIFF whose name contains --pattern is processed in
name order.`,
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

func init() {
	defaults := pipeline.DefaultDeconConfig()

	fileCmd.Flags().String("psf", "", "path to the point-spread function TIFF")
	fileCmd.Flags().Float64("sigma", 0, "use a synthetic Gaussian PSF with this standard deviation in pixels")
	fileCmd.Flags().IntP("iterations", "n", defaults.Iterations, "number of Richardson-Lucy iterations")
	fileCmd.Flags().StringP("method", "m", defaults.Method, "richardson-lucy, wiener, regularized or naive")
	fileCmd.Flags().String("engine", defaults.Engine, "convolution engine: auto, direct or fft")
	fileCmd.Flags().String("boundary", defaults.Boundary, "boundary policy")
	fileCmd.Flags().Int("workers", 0, "goroutines per convolution (0 = GOMAXPROCS)")
	fileCmd.Flags().Float64("epsilon", 0, "ratio guard or regularization strength (0 = default)")
	fileCmd.Flags().String("subdir", defaults.Subdir, "output subdirectory")
	fileCmd.Flags().String("tag", defaults.Tag, "suffix inserted before the file extension")
	fileCmd.Flags().String("pattern", "", "substring filter when the input is a directory")
	fileCmd.Flags().BoolP("verbose", "v", false, "log per-iteration progress")
	fileCmd.MarkFlagsMutuallyExclusive("psf", "sigma")
	fileCmd.MarkFlagsOneRequired("psf", "sigma")

	rootCmd.AddCommand(fileCmd)
}

func runFile(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	cfg := pipeline.DefaultDeconConfig()
	cfg.Iterations, _ = flags.GetInt("iterations")
	cfg.Method, _ = flags.GetString("method")
	cfg.Engine, _ = flags.GetString("engine")
	cfg.Boundary, _ = flags.GetString("boundary")
	cfg.Workers, _ = flags.GetInt("workers")
	cfg.Epsilon, _ = flags.GetFloat64("epsilon")
	cfg.Subdir, _ = flags.GetString("subdir")
	cfg.Tag, _ = flags.GetString("tag")
	pattern, _ := flags.GetString("pattern")
	psfPath, _ := flags.GetString("psf")
	sigma, _ := flags.GetFloat64("sigma")
	verbose, _ := flags.GetBool("verbose")

	logCfg := LogConfig{Level: "info", Format: "text"}
	if verbose {
		logCfg.Level = "debug"
	}
	logger := SetupLogger(logCfg, cmd.ErrOrStderr())

	deconvolver, err := pipeline.NewDeconvolver(cfg)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(args[0], pattern)
	if err != nil {
		return err
	}

	kernel, err := loadKernel(psfPath, sigma)
	if err != nil {
		return err
	}

	for _, input := range inputs {
		layout, err := pipeline.DataDirFromFile(input)
		if err != nil {
			return err
		}

		if _, err := layout.ResultsDir(cfg.Subdir); err != nil {
			return err
		}

		img, err := tiffio.Read(input)
		if err != nil {
			return err
		}

		result, err := deconvolver.Run(cmd.Context(), img, kernel, logger.With("file", input))
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}

		out := layout.OutputPath(input, cfg.Subdir, cfg.Tag)
		if err := tiffio.Write(out, result); err != nil {
			return err
		}

		cmd.Printf("wrote %s\n", out)
	}

	return nil
}

// loadKernel reads the PSF at path, or builds a 2-D Gaussian when path is
// empty.
func loadKernel(path string, sigma float64) (*ndimage.Image, error) {
	if path == "" {
		k, err := psf.Gaussian(2, sigma)
		if err != nil {
			return nil, fmt.Errorf("failed to build psf: %w", err)
		}
		return k, nil
	}

	k, err := tiffio.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load psf: %w", err)
	}

	return k, nil
}

func collectInputs(input, pattern string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{input}, nil
	}

	files, err := pipeline.MatchFiles(input, pattern)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no TIFF files matching %q in %s", pattern, input)
	}

	return files, nil
}
