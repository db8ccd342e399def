package engine

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/Lattice-Works/Portland-PD/internal/record"
)

// Stream maps records lazily and yields graphs in input order. It stops at
// the first source or mapping error, which is yielded last, and checks ctx
// between records. With more than one worker, records are mapped in
// parallel windows of bounded size.
func (m *Mapper) Stream(ctx context.Context, records iter.Seq2[record.Record, error]) iter.Seq2[*Graph, error] {
	if m.workers <= 1 {
		return m.sequential(ctx, records)
	}

	return m.parallel(ctx, records)
}

func (m *Mapper) sequential(ctx context.Context, records iter.Seq2[record.Record, error]) iter.Seq2[*Graph, error] {
	return func(yield func(*Graph, error) bool) {
		for rec, err := range records {
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield(nil, ctxErr)
				return
			}

			if err != nil {
				yield(nil, err)
				return
			}

			g, err := m.Map(rec)
			if err != nil {
				yield(nil, err)
				return
			}

			if !yield(g, nil) {
				return
			}
		}
	}
}

type mapped struct {
	graph *Graph
	err   error
}

func (m *Mapper) parallel(ctx context.Context, records iter.Seq2[record.Record, error]) iter.Seq2[*Graph, error] {
	return func(yield func(*Graph, error) bool) {
		window := make([]record.Record, 0, m.window)

		// flush maps the window and yields its graphs in order. It returns
		// false once the stream has ended.
		flush := func() bool {
			if len(window) == 0 {
				return true
			}

			results := make([]mapped, len(window))

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(m.workers)

			for i, rec := range window {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}

					graph, err := m.Map(rec)
					results[i] = mapped{graph: graph, err: err}

					return nil
				})
			}

			if err := g.Wait(); err != nil {
				yield(nil, err)
				return false
			}

			window = window[:0]

			for _, r := range results {
				if r.err != nil {
					yield(nil, r.err)
					return false
				}

				if !yield(r.graph, nil) {
					return false
				}
			}

			return true
		}

		for rec, err := range records {
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield(nil, ctxErr)
				return
			}

			if err != nil {
				if flush() {
					yield(nil, err)
				}

				return
			}

			window = append(window, rec)

			if len(window) == m.window && !flush() {
				return
			}
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			yield(nil, ctxErr)
			return
		}

		flush()
	}
}
