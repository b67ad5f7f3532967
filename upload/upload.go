package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/stellasorawiki/wikigen/wiki"
)

// Wiki - the wiki operations the upload pipeline needs; *wiki.Client has them
type Wiki interface {
	Exists(ctx context.Context, titles []string) (map[string]bool, error)
	Upload(ctx context.Context, r wiki.UploadRequest) error
	Redirect(ctx context.Context, title, target, summary string) error
	Move(ctx context.Context, from, to, reason string) error
}

// DuplicatePolicy - what to do when the content is already on the wiki under
// another name
type DuplicatePolicy int

const (
	// DuplicateMove renames the existing file to the requested name.
	DuplicateMove DuplicatePolicy = iota
	// DuplicateRedirect keeps the existing file and redirects the new name to it.
	DuplicateRedirect
	// DuplicateSkip leaves both alone.
	DuplicateSkip
	// DuplicateFail reports the duplicate as an error.
	DuplicateFail
)

const defaultSummary = "batch upload file"

// Request - one local file to publish
type Request struct {
	Source  string // local path
	Target  string // file name, with or without the File: prefix
	Text    string
	Summary string
}

// Options - pipeline settings
type Options struct {
	Duplicates DuplicatePolicy
	MaxEdge    int // downscale images larger than this; 0 keeps the original size
	Workers    int // concurrent file preparation
}

// Result counts what happened to the requests.
type Result struct {
	Uploaded   int
	Existing   int
	Duplicates int
	Missing    int
}

type prepared struct {
	req  Request
	data []byte
}

// Process uploads every request whose target does not exist yet. Existence is
// checked for all targets at once before any file is read.
func Process(ctx context.Context, w Wiki, reqs []Request, opts Options) (Result, error) {
	var res Result
	if len(reqs) == 0 {
		return res, nil
	}
	reqs = slices.Clone(reqs)
	titles := make([]string, len(reqs))
	for i := range reqs {
		reqs[i].Target = wiki.FileTitle(reqs[i].Target)
		if reqs[i].Summary == "" {
			reqs[i].Summary = defaultSummary
		}
		titles[i] = reqs[i].Target
	}
	existing, err := w.Exists(ctx, titles)
	if err != nil {
		return res, fmt.Errorf("check existing files: %w", err)
	}

	var todo []Request
	seen := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		if existing[r.Target] || seen[r.Target] {
			res.Existing++
			continue
		}
		seen[r.Target] = true
		todo = append(todo, r)
	}
	log.Info().Int("requested", len(reqs)).Int("new", len(todo)).Msg("[Upload] files to upload")

	files, err := prepare(ctx, todo, opts)
	if err != nil {
		return res, err
	}
	for _, f := range files {
		if f.data == nil {
			res.Missing++
			continue
		}
		err := w.Upload(ctx, wiki.UploadRequest{
			Filename: f.req.Target,
			Content:  bytes.NewReader(f.data),
			Text:     f.req.Text,
			Comment:  f.req.Summary,
		})
		switch {
		case err == nil:
			res.Uploaded++
		case errors.Is(err, wiki.ErrFileExists):
			res.Existing++
		case errors.Is(err, wiki.ErrFileDeleted):
			log.Info().Str("file", f.req.Target).Msg("[Upload] file was deleted, not uploading again")
		default:
			var dup *wiki.DuplicateError
			if !errors.As(err, &dup) {
				return res, err
			}
			res.Duplicates++
			if err := resolveDuplicate(ctx, w, f.req.Target, dup.Existing, opts.Duplicates); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

func resolveDuplicate(ctx context.Context, w Wiki, target, existing string, policy DuplicatePolicy) error {
	log.Info().Str("file", target).Str("existing", existing).Msg("[Upload] duplicate content")
	switch policy {
	case DuplicateSkip:
		return nil
	case DuplicateRedirect:
		return w.Redirect(ctx, target, existing, "redirect to existing file")
	case DuplicateMove:
		return w.Move(ctx, existing, target, "rename file")
	default:
		return fmt.Errorf("%s already exists and so %s is a duplicate", existing, target)
	}
}

// prepare reads (and shrinks) the files concurrently, keeping request order.
// A missing source leaves data nil.
func prepare(ctx context.Context, reqs []Request, opts Options) ([]prepared, error) {
	out := make([]prepared, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	g.SetLimit(workers)
	for i, r := range reqs {
		out[i].req = r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(r.Source)
			if errors.Is(err, os.ErrNotExist) {
				log.Warn().Str("source", r.Source).Str("file", r.Target).Msg("[Upload] source missing, skipped")
				return nil
			}
			if err != nil {
				return err
			}
			if opts.MaxEdge > 0 {
				data, err = Shrink(data, opts.MaxEdge)
				if err != nil {
					return fmt.Errorf("%s: %w", r.Source, err)
				}
			}
			out[i].data = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
