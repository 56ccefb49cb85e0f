package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/seedforge/seedforge/internal/author"
	"github.com/seedforge/seedforge/internal/chunker"
	"github.com/seedforge/seedforge/internal/config"
	"github.com/seedforge/seedforge/internal/convert"
	"github.com/seedforge/seedforge/internal/manifest"
	"github.com/seedforge/seedforge/internal/seed"
	"github.com/seedforge/seedforge/internal/workspace"
)

// ItemError records one item's failure with enough context to diagnose it.
type ItemError struct {
	Contribution string
	Stage        string
	File         string // empty for contribution-level failures
	Err          error
}

func (e ItemError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s: %v", e.Stage, e.Contribution, e.File, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Contribution, e.Err)
}

// RunContext owns the state of one pipeline run: the run ID, the chunk
// records accumulated per contribution, and the failures seen so far. It is
// passed explicitly through the stages; no stage keeps global state.
type RunContext struct {
	ID     string
	Chunks map[string][]chunker.Record // contribution name -> records, in write order
	Errors []ItemError

	failed map[string]bool // contributions excluded from later stages
}

// NewRunContext returns an empty run context with a fresh run ID.
func NewRunContext() *RunContext {
	return &RunContext{
		ID:     uuid.NewString(),
		Chunks: make(map[string][]chunker.Record),
		failed: make(map[string]bool),
	}
}

func (rc *RunContext) addError(contrib, stage, file string, err error) {
	rc.Errors = append(rc.Errors, ItemError{Contribution: contrib, Stage: stage, File: file, Err: err})
}

// fail records a contribution-level failure and excludes the contribution
// from later stages.
func (rc *RunContext) fail(contrib, stage string, err error) {
	rc.addError(contrib, stage, "", err)
	rc.failed[contrib] = true
}

// Failed reports whether a contribution has been excluded.
func (rc *RunContext) Failed(contrib string) bool {
	return rc.failed[contrib]
}

// Runner executes the pipeline stages strictly sequentially: each stage
// runs to completion over the whole contribution list before the next
// begins. Failures are loud and local — one item's failure never aborts
// unrelated items.
type Runner struct {
	cfg      config.Config
	man      *manifest.Manifest
	layout   workspace.Layout
	registry *workspace.Registry
	conv     *convert.Converter
	log      *slog.Logger
}

// NewRunner builds the workspace layout from the manifest and registers
// every contribution, creating its directory tree.
func NewRunner(cfg config.Config, man *manifest.Manifest, log *slog.Logger) (*Runner, error) {
	layout, err := workspace.NewLayout(cfg.Root, man.Workspace)
	if err != nil {
		return nil, err
	}
	registry := workspace.NewRegistry(layout)
	for _, c := range man.Contributions {
		if _, err := registry.Register(workspace.Contribution{
			Name:    c.Name,
			Domain:  c.Domain,
			Summary: c.Summary,
		}); err != nil {
			return nil, err
		}
	}
	return &Runner{
		cfg:      cfg,
		man:      man,
		layout:   layout,
		registry: registry,
		conv:     convert.NewConverter(man.ConvertOptions(), log),
		log:      log,
	}, nil
}

// Layout returns the workspace layout.
func (r *Runner) Layout() workspace.Layout { return r.layout }

// Registry returns the contribution registry.
func (r *Runner) Registry() *workspace.Registry { return r.registry }

// Run executes every stage. It returns the run context and an error only
// when no contribution made it through or final concatenation failed;
// partial failures are reported through the context.
func (r *Runner) Run(ctx context.Context) (*RunContext, error) {
	rc := NewRunContext()
	log := r.log.With("run_id", rc.ID, "workspace", r.man.Workspace)
	log.Info("starting pipeline run", "contributions", len(r.registry.All()))

	r.Ingest(rc)
	r.Convert(rc)
	r.Chunk(rc)
	if err := r.Author(ctx, rc); err != nil {
		return rc, err
	}
	r.Review(rc)
	if err := r.Assemble(rc); err != nil {
		return rc, err
	}

	log.Info("pipeline run complete", "errors", len(rc.Errors))
	return rc, nil
}

// Ingest copies every manifest document into its contribution's
// source_documents directory. A missing source fails that file only.
func (r *Runner) Ingest(rc *RunContext) {
	for _, mc := range r.man.Contributions {
		for _, doc := range mc.Documents {
			if _, err := r.layout.Ingest(mc.Name, doc); err != nil {
				r.log.Error("ingest failed", "contribution", mc.Name, "file", doc, "error", err)
				rc.addError(mc.Name, "ingest", doc, err)
			}
		}
	}
}

// Convert parses every ingested source file and persists its structured
// JSON plus the readable summary. Each file's success or failure is
// independent; a contribution with no converted documents is excluded from
// later stages.
func (r *Runner) Convert(rc *RunContext) {
	for _, c := range r.registry.All() {
		files, err := r.layout.SourceDocuments(c.Name)
		if err != nil {
			rc.fail(c.Name, "convert", err)
			continue
		}
		converted := 0
		for _, f := range files {
			if !convert.IsSupportedExtension(f) {
				continue
			}
			if _, err := r.conv.ConvertFile(f, r.layout.ConversionDir(c.Name)); err != nil {
				r.log.Error("conversion failed", "contribution", c.Name, "file", filepath.Base(f), "error", err)
				rc.addError(c.Name, "convert", filepath.Base(f), err)
				continue
			}
			converted++
		}
		if converted == 0 {
			rc.fail(c.Name, "convert", fmt.Errorf("no documents converted"))
		}
	}
}

// Chunk re-parses each converted document and appends its chunk records to
// the contribution's chunks.jsonl, per file then per chunk within file. The
// records also accumulate on the run context for later stages. Re-running
// replaces the chunk file rather than appending to a stale one.
func (r *Runner) Chunk(rc *RunContext) {
	cfg := r.man.ChunkerConfig()
	for _, c := range r.registry.All() {
		if rc.Failed(c.Name) {
			continue
		}
		chunkFile := r.layout.ChunkFile(c.Name)
		if err := os.RemoveAll(chunkFile); err != nil {
			rc.fail(c.Name, "chunk", err)
			continue
		}

		trees, err := conversionFiles(r.layout.ConversionDir(c.Name))
		if err != nil {
			rc.fail(c.Name, "chunk", err)
			continue
		}
		total := 0
		for _, jsonPath := range trees {
			tree, err := convert.ReadTree(jsonPath)
			if err != nil {
				rc.addError(c.Name, "chunk", filepath.Base(jsonPath), err)
				continue
			}
			chunks := chunker.ChunkTree(tree, cfg)
			records := make([]chunker.Record, 0, len(chunks))
			for _, ch := range chunks {
				records = append(records, chunker.NewRecord(tree.Title, tree.Source, ch))
			}
			if err := chunker.AppendRecords(chunkFile, records); err != nil {
				rc.addError(c.Name, "chunk", filepath.Base(jsonPath), err)
				continue
			}
			rc.Chunks[c.Name] = append(rc.Chunks[c.Name], records...)
			total += len(records)
		}
		if total == 0 {
			rc.fail(c.Name, "chunk", fmt.Errorf("no chunks produced"))
			continue
		}
		r.log.Info("chunked contribution", "contribution", c.Name, "chunks", total)
	}
}

// Author generates each contribution's qna.yaml through the external
// service, with a per-call timeout and one bounded retry. Endpoint
// configuration is validated up front; a service failure is fatal for that
// contribution only.
func (r *Runner) Author(ctx context.Context, rc *RunContext) error {
	if err := r.cfg.Validate(); err != nil {
		return fmt.Errorf("authoring configuration: %w", err)
	}
	client := author.NewClient(r.cfg.EndpointURL, r.cfg.EndpointAPIKey, r.cfg.Model, r.cfg.GenerationTimeout)
	defer client.Close()
	gen := author.NewGenerator(client, r.log)

	numExamples, pairs, _, maxContexts := r.authoringThresholds()
	for _, c := range r.registry.All() {
		if rc.Failed(c.Name) {
			continue
		}
		in := author.GenerateInput{
			Contribution:    c.Name,
			Domain:          c.Domain,
			Summary:         c.Summary,
			ChunkFile:       r.layout.ChunkFile(c.Name),
			OutDir:          r.layout.AuthoringDir(c.Name),
			NumExamples:     numExamples,
			PairsPerExample: pairs,
			MaxContexts:     maxContexts,
		}
		err := withRetry(ctx, r.log, r.cfg.GenerationTimeout, "author "+c.Name, func(ctx context.Context) error {
			_, err := gen.Generate(ctx, in)
			return err
		})
		if err != nil {
			r.log.Error("authoring failed", "contribution", c.Name, "error", err)
			rc.fail(c.Name, "author", err)
		}
	}
	return nil
}

// Review validates each authoring file against the structural thresholds.
// A failing contribution is reported and blocked from assembly; the file is
// never repaired.
func (r *Runner) Review(rc *RunContext) {
	_, pairs, minExamples, _ := r.authoringThresholds()
	for _, c := range r.registry.All() {
		if rc.Failed(c.Name) {
			continue
		}
		if _, err := author.Review(r.layout.QNAFile(c.Name), minExamples, pairs); err != nil {
			r.log.Error("review failed", "contribution", c.Name, "error", err)
			rc.fail(c.Name, "review", err)
		}
	}
}

// Assemble joins chunks with seed examples per contribution, writes each
// seed_data-<name>.jsonl, then concatenates every surviving record set, in
// registration order, into the workspace-level seed_data.jsonl.
func (r *Runner) Assemble(rc *RunContext) error {
	var sets []seed.ContribSet
	for _, c := range r.registry.All() {
		if rc.Failed(c.Name) {
			continue
		}
		records, err := seed.Assemble(seed.AssembleInput{
			Contribution: c.Name,
			ChunkFile:    r.layout.ChunkFile(c.Name),
			QNAFile:      r.layout.QNAFile(c.Name),
		})
		if err != nil {
			r.log.Error("assembly failed", "contribution", c.Name, "error", err)
			rc.fail(c.Name, "assemble", err)
			continue
		}
		if err := seed.WriteRecords(r.layout.SeedFile(c.Name), records); err != nil {
			rc.fail(c.Name, "assemble", err)
			continue
		}
		sets = append(sets, seed.ContribSet{Name: c.Name, Records: records})
	}

	if len(sets) == 0 {
		return fmt.Errorf("assemble: no contribution produced records (%d errors)", len(rc.Errors))
	}

	dataset, err := seed.Concat(sets)
	if err != nil {
		return err
	}
	if err := seed.WriteRecords(r.layout.DatasetFile(), dataset); err != nil {
		return err
	}
	r.log.Info("seed dataset written", "path", r.layout.DatasetFile(), "records", len(dataset))
	return nil
}

func (r *Runner) authoringThresholds() (numExamples, pairs, minExamples, maxContexts int) {
	numExamples = r.cfg.NumExamples
	pairs = r.cfg.PairsPerExample
	minExamples = r.cfg.MinExamples
	maxContexts = r.cfg.MaxContexts
	if a := r.man.Authoring; a != nil {
		if a.NumExamples > 0 {
			numExamples = a.NumExamples
		}
		if a.PairsPerExample > 0 {
			pairs = a.PairsPerExample
		}
		if a.MinExamples > 0 {
			minExamples = a.MinExamples
		}
		if a.MaxContexts > 0 {
			maxContexts = a.MaxContexts
		}
	}
	return numExamples, pairs, minExamples, maxContexts
}

// conversionFiles lists the persisted document trees in a conversion
// directory, sorted by name for deterministic processing order.
func conversionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
