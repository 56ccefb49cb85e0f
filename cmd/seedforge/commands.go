package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/seedforge/seedforge/internal/chunker"
	"github.com/seedforge/seedforge/internal/config"
	"github.com/seedforge/seedforge/internal/manifest"
	"github.com/seedforge/seedforge/internal/pipeline"
)

var version = "dev"

func newRootCmd(log *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "seedforge",
		Short:         "Turn document contributions into a seed dataset",
		Long:          "seedforge converts source documents into structured JSON, chunks them, authors reviewable Q&A seed examples against a generation endpoint, and assembles everything into a seed dataset for downstream synthetic data generation.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("manifest", "m", "manifest.yaml", "path to the run manifest")

	root.AddCommand(
		newRunCmd(log),
		newStageCmd(log, "ingest", "Copy manifest documents into each contribution's source_documents directory",
			func(r *pipeline.Runner, rc *pipeline.RunContext, _ *cobra.Command) error {
				r.Ingest(rc)
				return nil
			}),
		newStageCmd(log, "convert", "Convert ingested documents to structured JSON and write quality summaries",
			func(r *pipeline.Runner, rc *pipeline.RunContext, _ *cobra.Command) error {
				r.Convert(rc)
				return nil
			}),
		newStageCmd(log, "chunk", "Chunk converted documents into per-contribution chunks.jsonl files",
			func(r *pipeline.Runner, rc *pipeline.RunContext, _ *cobra.Command) error {
				r.Chunk(rc)
				return nil
			}),
		newStageCmd(log, "author", "Generate each contribution's qna.yaml through the generation endpoint",
			func(r *pipeline.Runner, rc *pipeline.RunContext, cmd *cobra.Command) error {
				return r.Author(cmd.Context(), rc)
			}),
		newStageCmd(log, "review", "Validate each qna.yaml against the structural thresholds",
			func(r *pipeline.Runner, rc *pipeline.RunContext, _ *cobra.Command) error {
				r.Review(rc)
				return nil
			}),
		newStageCmd(log, "assemble", "Join chunks with seed examples and write the seed dataset files",
			func(r *pipeline.Runner, rc *pipeline.RunContext, _ *cobra.Command) error {
				return r.Assemble(rc)
			}),
		newChunksCmd(log),
	)
	return root
}

func newRunCmd(log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: ingest, convert, chunk, author, review, assemble",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := loadRunner(cmd, log)
			if err != nil {
				return err
			}
			rc, err := runner.Run(cmd.Context())
			if rc != nil {
				reportErrors(rc)
			}
			if err != nil {
				return err
			}
			if len(rc.Errors) > 0 {
				return fmt.Errorf("run completed with %d error(s)", len(rc.Errors))
			}
			return nil
		},
	}
}

// newStageCmd wires one pipeline stage as a standalone command operating on
// the existing workspace state.
func newStageCmd(log *slog.Logger, name, short string, stage func(*pipeline.Runner, *pipeline.RunContext, *cobra.Command) error) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := loadRunner(cmd, log)
			if err != nil {
				return err
			}
			rc := pipeline.NewRunContext()
			if err := stage(runner, rc, cmd); err != nil {
				return err
			}
			reportErrors(rc)
			if len(rc.Errors) > 0 {
				return fmt.Errorf("%s completed with %d error(s)", name, len(rc.Errors))
			}
			return nil
		},
	}
}

func newChunksCmd(log *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunks",
		Short: "Page through a contribution's stored chunk records",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := loadRunner(cmd, log)
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("contribution")
			count, _ := cmd.Flags().GetInt("count")
			if runner.Registry().Get(name) == nil {
				return fmt.Errorf("unknown contribution: %s", name)
			}

			cursor, err := chunker.OpenCursor(runner.Layout().ChunkFile(name))
			if err != nil {
				return err
			}
			defer cursor.Close()

			shown := 0
			for shown < count {
				rec, ok, err := cursor.Next()
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				fmt.Fprintf(os.Stdout, "--- chunk %d (%s) ---\n%s\n\n", shown+1, rec.File, rec.Chunk)
				shown++
			}
			if shown == 0 {
				fmt.Fprintln(os.Stdout, "no chunks")
			}
			return nil
		},
	}
	cmd.Flags().String("contribution", "", "contribution name (required)")
	cmd.Flags().Int("count", 5, "number of chunks to show")
	cmd.MarkFlagRequired("contribution")
	return cmd
}

// loadRunner builds a pipeline runner from the env config and the manifest
// named on the command line.
func loadRunner(cmd *cobra.Command, log *slog.Logger) (*pipeline.Runner, error) {
	path, _ := cmd.Flags().GetString("manifest")
	man, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(config.Load(), man, log)
}

func reportErrors(rc *pipeline.RunContext) {
	for _, e := range rc.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", e.Error())
	}
}
