// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command sfxtool is a one-shot CLI around a sfx.Tree: extract runs a
// configured feature pipeline over one PCM frame read from a wav file and
// prints per-feature summaries; dump writes the tree's structure as a
// Graphviz dot graph without executing it. Non-goal carried from the
// transform-tree design: this is not a streaming audio pipeline runner.
package main

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zikichombo.org/sfx"
	"zikichombo.org/sfx/catalog"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/internal/slog"
	"zikichombo.org/sfx/transform"
	"zikichombo.org/sound/freq"
)

// stepConfig is one link of a feature's transform chain as read from YAML.
// Params follows spec's "key=value(\s+key=value)*" grammar (transform.ParseParams),
// one string per step (e.g. "length=512 step=256") rather than a nested
// YAML map per step.
type stepConfig struct {
	Transform string `mapstructure:"transform"`
	Params    string `mapstructure:"params"`
	Inverse   bool   `mapstructure:"inverse"`
}

// pipelineConfig is the whole pipeline.yaml shape: the root frame's sample
// rate and length, an optional SIMD hint, and a set of named features.
type pipelineConfig struct {
	SampleRate  int                     `mapstructure:"sample_rate"`
	FrameLength int                     `mapstructure:"frame_length"`
	SIMD        bool                    `mapstructure:"simd"`
	Features    map[string][]stepConfig `mapstructure:"features"`
}

func loadConfig(path string) (*pipelineConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("sfxtool: reading config %s: %w", path, err)
	}
	var cfg pipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("sfxtool: parsing config %s: %w", path, err)
	}
	if cfg.SampleRate <= 0 || cfg.FrameLength <= 0 {
		return nil, fmt.Errorf("sfxtool: config %s needs positive sample_rate and frame_length", path)
	}
	return &cfg, nil
}

func buildTree(cfg *pipelineConfig, log sfx.Logger) (*sfx.Tree, error) {
	catalog.RegisterAll()
	rootFormat := format.NewRaw(freq.T(cfg.SampleRate)*freq.Hertz, cfg.FrameLength)
	t := sfx.New(rootFormat, catalog.Default, sfx.WithLogger(log), sfx.WithSIMD(cfg.SIMD))
	for name, steps := range cfg.Features {
		chain := make([]sfx.Step, len(steps))
		for i, s := range steps {
			params, err := transform.ParseParams(s.Params)
			if err != nil {
				return nil, fmt.Errorf("sfxtool: feature %q step %d: %w", name, i, err)
			}
			chain[i] = sfx.Step{Transform: s.Transform, Params: params, Inverse: s.Inverse}
		}
		if err := t.AddFeature(name, chain); err != nil {
			return nil, fmt.Errorf("sfxtool: feature %q: %w", name, err)
		}
	}
	return t, nil
}

// readFrame decodes a PCM wav file into an int16 frame of n samples. It
// validates the decoded buffer's sample rate against wantRate itself,
// rather than trusting the tree's root format was built from the same
// file, since extract's --config and --wav are independent CLI flags a
// caller can mismatch.
func readFrame(path string, n, wantRate int) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sfxtool: opening %s: %w", path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	var buf *audio.IntBuffer
	buf, err = d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("sfxtool: decoding %s: %w", path, err)
	}
	if buf.Format == nil {
		return nil, fmt.Errorf("sfxtool: %s: missing PCM format header", path)
	}
	if buf.Format.SampleRate != wantRate {
		return nil, fmt.Errorf("sfxtool: %s sample rate %d does not match configured sample_rate %d", path, buf.Format.SampleRate, wantRate)
	}
	samples, err := downmixToMono(buf, n)
	if err != nil {
		return nil, fmt.Errorf("sfxtool: %s: %w", path, err)
	}
	return samples, nil
}

// downmixToMono flattens an audio.IntBuffer's (possibly interleaved
// multi-channel) samples into a single int16 channel of n samples,
// averaging channels the way catalog.MixStereo does for a 2-channel
// stream, so a stereo file can feed a pipeline whose root format
// expects one sample per frame index without an explicit Mix step.
func downmixToMono(buf *audio.IntBuffer, n int) ([]int16, error) {
	ch := buf.Format.NumChannels
	if ch <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", ch)
	}
	frames := len(buf.Data) / ch
	if frames < n {
		return nil, fmt.Errorf("has %d frames, need at least %d", frames, n)
	}
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		sum := 0
		for c := 0; c < ch; c++ {
			sum += buf.Data[i*ch+c]
		}
		samples[i] = int16(sum / ch)
	}
	return samples, nil
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "sfxtool",
		Short: "Build and run audio feature-extraction transform trees",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a pipeline config (YAML)")
	root.MarkPersistentFlagRequired("config")

	var wavPath string
	var validateEach, dumpEach, showTimes bool
	extract := &cobra.Command{
		Use:   "extract",
		Short: "Run a configured feature pipeline over one PCM frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			log := slog.NewDevelopment()
			defer log.Sync()
			t, err := buildTree(cfg, log)
			if err != nil {
				return err
			}
			t.SetValidateAfterEachTransform(validateEach)
			t.SetDumpBuffersAfterEachTransform(dumpEach)
			if err := t.PrepareForExecution(); err != nil {
				return fmt.Errorf("sfxtool: prepare: %w", err)
			}
			frame, err := readFrame(wavPath, t.RootFormat().ElementCount(), cfg.SampleRate)
			if err != nil {
				return err
			}
			results, err := t.Execute(frame)
			if err != nil {
				return fmt.Errorf("sfxtool: execute: %w", err)
			}
			for name, b := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, b.ToString())
			}
			if showTimes {
				for name, d := range t.ExecutionTimeReport() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", name, d)
				}
			}
			return nil
		},
	}
	extract.Flags().StringVar(&wavPath, "wav", "", "path to a PCM wav file to read a frame from")
	extract.MarkFlagRequired("wav")
	extract.Flags().BoolVar(&validateEach, "validate", false, "validate every node's buffers after it runs")
	extract.Flags().BoolVar(&dumpEach, "dump-buffers", false, "log every node's buffers after it runs")
	extract.Flags().BoolVar(&showTimes, "times", false, "print the per-transform execution time report")

	var dotPath string
	dump := &cobra.Command{
		Use:   "dump",
		Short: "Build a feature pipeline and write its structure as a dot graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			t, err := buildTree(cfg, slog.New())
			if err != nil {
				return err
			}
			out := os.Stdout
			if dotPath != "" {
				f, err := os.Create(dotPath)
				if err != nil {
					return fmt.Errorf("sfxtool: creating %s: %w", dotPath, err)
				}
				defer f.Close()
				return t.Dump(f)
			}
			return t.Dump(out)
		},
	}
	dump.Flags().StringVar(&dotPath, "out", "", "path to write the dot graph to (default stdout)")

	root.AddCommand(extract, dump)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
