package tvdb

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// showOutcome is the result of one unit of batch work
type showOutcome struct {
	show    *Show
	skipped bool
	err     error
}

// GetDetailsForAllShows returns details for every name that is neither ignored nor
// failing, in input order. Failures are logged and never abort the batch.
func (c *Client) GetDetailsForAllShows(ctx context.Context, names []string) []Show {
	return c.CollectShowDetails(ctx, names).Shows
}

// CollectShowDetails runs the batch walk of GetDetailsForAllShows and also reports
// which names were skipped and which failed.
func (c *Client) CollectShowDetails(ctx context.Context, names []string) *BatchResult {
	result := &BatchResult{
		Requested: len(names),
		Shows:     make([]Show, 0, len(names)),
	}

	if len(names) == 0 {
		return result
	}

	// Outcomes are slotted by input index so ordering does not depend on concurrency
	outcomes := make([]showOutcome, len(names))

	if c.concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.concurrency)

		for i, name := range names {
			g.Go(func() error {
				outcomes[i] = c.detailsFor(gctx, name, names)
				// Don't stop on individual errors
				return nil
			})
		}

		_ = g.Wait()
	} else {
		for i, name := range names {
			outcomes[i] = c.detailsFor(ctx, name, names)
		}
	}

	for i, outcome := range outcomes {
		switch {
		case outcome.skipped:
			result.Skipped = append(result.Skipped, names[i])
		case outcome.err != nil:
			result.Failed = append(result.Failed, &ShowError{ShowName: names[i], Err: outcome.err})
		default:
			result.Shows = append(result.Shows, *outcome.show)
		}
	}

	c.logger.Debug().
		Int("requested", result.Requested).
		Int("added", len(result.Shows)).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failed)).
		Msg("Finished TVDB batch")

	return result
}

// detailsFor handles a single batch name, including the ignore check
func (c *Client) detailsFor(ctx context.Context, name string, batch []string) showOutcome {
	if c.IsIgnored(name) {
		c.logger.Debug().Str("show", name).Msg("Ignoring show")
		return showOutcome{skipped: true}
	}

	c.logger.Debug().Str("show", name).Msg("Getting TVDB info")

	show, err := c.GetShowDetails(ctx, name)
	if err != nil {
		c.logger.Error().Err(err).Str("show", name).Msg("TVDB error")
		return showOutcome{err: err}
	}

	show.ShowName = name
	if c.batchNameEcho {
		show.BatchNames = slices.Clone(batch)
	}

	c.logger.Debug().Str("show", name).Msg("TVDB info added")
	return showOutcome{show: show}
}
