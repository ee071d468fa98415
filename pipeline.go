package kconv

import (
	"golang.org/x/sync/errgroup"
)

// runPipelined splits the output rows into partitions. Each partition copies
// its padded band into a private buffer, computes it with the tiled math and
// copies its rows back. Partitions do not wait for each other; the call
// returns once every partition has finished.
func (e *Engine) runPipelined(j *convJob, stats *Stats) error {
	parts := min(e.cfg.Partitions, j.out.height)
	if parts < e.cfg.Partitions {
		e.log.Warn("kconv: fewer rows than partitions", "partitions", parts, "requested", e.cfg.Partitions)
	}
	rowsPer := (j.out.height + parts - 1) / parts
	parts = (j.out.height + rowsPer - 1) / rowsPer

	partStats := make([]Stats, parts)
	var g errgroup.Group

	for k := range parts {
		y0 := k * rowsPer
		y1 := min(y0+rowsPer, j.out.height)

		g.Go(func() error {
			// Transfer in: output rows [y0, y1) read padded rows [y0, y1+kh-1).
			band, err := j.padded.subRows(y0, y1-y0+j.kh-1)
			if err != nil {
				return err
			}
			bandOut, err := NewRaster(j.out.width, y1-y0, j.out.channels, j.out.layout)
			if err != nil {
				return err
			}

			e.runShared(&convJob{
				padded:  band,
				out:     bandOut,
				weights: j.weights,
				kw:      j.kw,
				kh:      j.kh,
			}, &partStats[k])

			// Transfer out.
			j.out.putRows(y0, bandOut)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, ps := range partStats {
		stats.Tiles += ps.Tiles
		stats.StagedElements += ps.StagedElements
	}
	stats.Partitions = len(partStats)

	e.log.Debug("kconv: partitions joined", "partitions", len(partStats), "rows_per_partition", rowsPer)
	return nil
}
