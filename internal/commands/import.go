package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/autoshop/internal/api"
	"github.com/cleared-dev/autoshop/internal/auth"
	"github.com/cleared-dev/autoshop/internal/customers"
	"github.com/cleared-dev/autoshop/internal/gitops"
	"github.com/cleared-dev/autoshop/internal/importer"
	"github.com/cleared-dev/autoshop/internal/metrics"
	"github.com/cleared-dev/autoshop/internal/pipeline"
	"github.com/cleared-dev/autoshop/internal/reconcile"
	"github.com/cleared-dev/autoshop/internal/runlog"
)

// maxRejectionsShown bounds how many invalid rows are listed per file.
const maxRejectionsShown = 5

type importOptions struct {
	repoDir string
	token   string
	apiURL  string
	verbose *bool
}

func newImportCommand(verbose *bool) *cobra.Command {
	opts := importOptions{verbose: verbose}

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import transaction files (default: everything in import/)",
		Long: `Import CSV or XLSX transaction exports into the backend.

With no arguments every file in <repo>/import/ is imported in name order and
moved to import/processed/ when none of its customer groups failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.repoDir, "repo", ".", "shop directory")
	cmd.Flags().StringVar(&opts.token, "token", "", "API bearer token (default: $AUTOSHOP_TOKEN or api.token)")
	cmd.Flags().StringVar(&opts.apiURL, "api-url", "", "override api.base_url")

	return cmd
}

// importFile is one file queued for import. scanned files live in import/.
type importFile struct {
	name    string
	path    string
	scanned bool
}

func runImport(ctx context.Context, out, stderr io.Writer, opts importOptions, args []string) error {
	s, err := openShop(opts.repoDir, stderr, *opts.verbose)
	if err != nil {
		return err
	}
	defer s.Close()

	registry := importer.DefaultRegistry()
	files, err := importFiles(registry, s.dir, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No files to import.")
		return nil
	}

	baseURL := s.cfg.API.BaseURL
	if opts.apiURL != "" {
		baseURL = opts.apiURL
	}
	client, err := api.NewClient(baseURL, api.Options{
		Timeout:   s.cfg.API.Timeout,
		RateLimit: s.cfg.API.RateLimit,
		Burst:     s.cfg.API.Burst,
		Logger:    s.log,
	})
	if err != nil {
		return err
	}
	cred := auth.New(s.cfg.ResolveToken(opts.token, os.Getenv))

	reg := metrics.NewRegistry()
	submitter := pipeline.NewSubmitter(
		customers.NewResolver(client, s.log),
		reconcile.New(client, s.log),
		client,
		s.log,
	)
	orch := pipeline.NewOrchestrator(submitter, s.cache, pipeline.Options{
		Registry: registry,
		Metrics:  reg,
		Logger:   s.log,
	})

	var (
		failed    int
		saved     int
		processed []string
	)
	for _, f := range files {
		sum, err := importOne(ctx, orch, cred, f)
		switch {
		case errors.Is(err, auth.ErrUnauthenticated):
			return fmt.Errorf("%s: %w (set --token or $%s)", f.name, err, tokenEnv(s))
		case errors.Is(err, pipeline.ErrNothingToImport):
			fmt.Fprintf(out, "%s: nothing to import\n", f.name)
			if f.scanned {
				processed = append(processed, f.name)
			}
			continue
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// Partial run: record it and keep the file for next time.
			report(out, f.name, sum)
			logRun(s, f.name, sum)
			return err
		case err != nil:
			failed++
			fmt.Fprintf(out, "%s: %v\n", f.name, err)
			continue
		}

		report(out, f.name, sum)
		logRun(s, f.name, sum)
		saved += sum.Saved
		if sum.FailedGroups > 0 {
			failed++
			continue
		}
		if f.scanned {
			processed = append(processed, f.name)
		}
	}

	for _, name := range processed {
		if err := importer.MarkProcessed(s.dir, name); err != nil {
			return err
		}
	}

	if path := s.cfg.Metrics.Textfile; path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		if err := reg.WriteTextfile(path); err != nil {
			s.log.Warn("could not write metrics", "err", err)
		}
	}

	if s.cfg.Git.AutoCommit && gitops.IsRepo(s.dir) {
		msg := fmt.Sprintf("import: %d files, %d saved", len(files), saved)
		if hash, err := gitops.CommitAll(s.dir, msg, gitAuthor(s.cfg)); err != nil {
			s.log.Warn("could not commit import", "err", err)
		} else if hash != "" {
			s.log.Info("committed import", "commit", hash)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files had failures", failed, len(files))
	}
	return nil
}

func importFiles(registry *importer.Registry, dir string, args []string) ([]importFile, error) {
	if len(args) > 0 {
		files := make([]importFile, 0, len(args))
		for _, a := range args {
			files = append(files, importFile{name: filepath.Base(a), path: a})
		}
		return files, nil
	}

	scanned, err := registry.Scan(dir)
	if err != nil {
		return nil, err
	}
	files := make([]importFile, 0, len(scanned))
	for _, fi := range scanned {
		files = append(files, importFile{name: fi.Name, path: fi.Path, scanned: true})
	}
	return files, nil
}

func importOne(ctx context.Context, orch *pipeline.Orchestrator, cred *auth.Credential, f importFile) (pipeline.Summary, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return pipeline.Summary{}, fmt.Errorf("opening %s: %w", f.name, err)
	}
	defer fh.Close()
	return orch.Run(ctx, cred, f.name, fh)
}

func report(out io.Writer, name string, sum pipeline.Summary) {
	fmt.Fprintf(out, "%s: %s\n", name, sum.Message())
	for i, rej := range sum.Rejections {
		if i == maxRejectionsShown {
			fmt.Fprintf(out, "  ... and %d more invalid rows\n", len(sum.Rejections)-maxRejectionsShown)
			break
		}
		fmt.Fprintf(out, "  skipped %v\n", rej)
	}
	for _, f := range sum.Failures {
		fmt.Fprintf(out, "  failed %s (%s): %d records: %v\n", f.Customer.Name, f.Customer.Vehicle, f.Records, f.Err)
	}
}

func logRun(s *shop, name string, sum pipeline.Summary) {
	err := runlog.Append(s.dir, runlog.Entry{
		Timestamp:              time.Now(),
		RunID:                  sum.RunID,
		File:                   name,
		Saved:                  sum.Saved,
		SkippedInvalid:         sum.SkippedInvalid,
		SkippedDuplicateLocal:  sum.SkippedDuplicateLocal,
		SkippedDuplicateServer: sum.SkippedDuplicateServer,
		FailedGroups:           sum.FailedGroups,
	})
	if err != nil {
		s.log.Warn("could not write import log", "err", err)
	}
}

func tokenEnv(s *shop) string {
	if s.cfg.API.TokenEnv != "" {
		return s.cfg.API.TokenEnv
	}
	return "AUTOSHOP_TOKEN"
}
