package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cadence/internal/analysis"
	"cadence/internal/config"
	"cadence/internal/registry"
	"cadence/internal/store"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Analyze media clips",
		Long: "Analyze runs the audio pipeline (tempo, beats, energy segments) or the\n" +
			"video pipeline (frame heuristics, object detection) on each clip, " +
			"depending on its extension.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRegistry(func(cfg *config.Config, st *store.Store, reg *registry.Registry) error {
				type clipResult struct {
					path    string
					outcome *registry.Outcome
					err     error
				}

				results := make([]clipResult, len(args))
				var wg sync.WaitGroup
				for i, arg := range args {
					wg.Add(1)
					go func(i int, path string) {
						defer wg.Done()
						analyze := reg.Analyze
						if force {
							analyze = reg.Reanalyze
						}
						outcome, err := analyze(cmd.Context(), path)
						results[i] = clipResult{path: path, outcome: outcome, err: err}
					}(i, arg)
				}
				wg.Wait()

				out := cmd.OutOrStdout()
				var failed int
				for _, res := range results {
					if res.err != nil {
						failed++
						fmt.Fprintf(out, "%s: %v\n", filepath.Base(res.path), res.err)
						continue
					}
					if jsonOutput {
						payload, err := json.MarshalIndent(res.outcome.Result, "", "  ")
						if err != nil {
							return fmt.Errorf("encode result: %w", err)
						}
						fmt.Fprintln(out, string(payload))
						continue
					}
					fmt.Fprint(out, renderOutcome(res.path, res.outcome))
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d clips failed", failed, len(args))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit raw JSON results")
	cmd.Flags().BoolVar(&force, "force", false, "Re-analyze even when a stored result exists")
	return cmd
}

func renderOutcome(path string, outcome *registry.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", filepath.Base(path), outcome.Kind)

	switch outcome.Kind {
	case analysis.KindAudio:
		audio := outcome.Result.Audio
		fmt.Fprintf(&b, "  bpm:      %d\n", audio.BPM)
		fmt.Fprintf(&b, "  beats:    %d\n", len(audio.Beats))
		fmt.Fprintf(&b, "  duration: %.2fs\n", audio.Duration)
		fmt.Fprintf(&b, "  segments:\n")
		for _, seg := range audio.Segments {
			fmt.Fprintf(&b, "    %7.2fs - %7.2fs  %s\n", seg.StartTime, seg.EndTime, seg.Intensity)
		}
	case analysis.KindVideo:
		video := outcome.Result.Video
		fmt.Fprintf(&b, "  brightness: %.3f\n", video.Metrics.AvgBrightness)
		fmt.Fprintf(&b, "  complexity: %.3f\n", video.Metrics.VisualComplexity)
		fmt.Fprintf(&b, "  motion:     %s\n", video.Metrics.MotionLevel)
		fmt.Fprintf(&b, "  frames:     %d over %.2fs\n", video.SampledFrames, video.Duration)
		fmt.Fprintf(&b, "  faces:      %s\n", yesNo(video.HasFaces))
		if len(video.DetectedObjects) > 0 {
			fmt.Fprintf(&b, "  objects:    %s\n", strings.Join(video.DetectedObjects, ", "))
		}
	}
	return b.String()
}
