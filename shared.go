package kconv

import (
	"sync/atomic"

	"github.com/gogpu/kconv/internal/parallel"
)

// runShared computes j.out tile by tile. Tiles are independent and run on the
// worker pool; the goroutines inside one tile cooperate through a barrier.
func (e *Engine) runShared(j *convJob, stats *Stats) {
	grid := parallel.NewTileGrid(j.out.width, j.out.height, e.cfg.TileSize)

	var staged atomic.Int64
	work := make([]func(), 0, grid.TileCount())
	grid.ForEach(func(t parallel.Tile) {
		work = append(work, func() {
			staged.Add(e.processTile(j, t))
		})
	})
	e.pool.ExecuteAll(work)

	stats.Tiles += grid.TileCount()
	stats.StagedElements += staged.Load()

	e.log.Debug("kconv: tiles done",
		"tiles", grid.TileCount(), "tile_size", grid.TileSize(), "staged", staged.Load())
}

// processTile computes one tile and returns the number of staged elements.
//
// For each channel the team first copies the tile's input window, halo
// included, into a shared staging buffer, then waits on the barrier, then
// computes its share of the outputs from the staging buffer only, and waits
// again before the buffer is overwritten with the next channel.
func (e *Engine) processTile(j *convJob, t parallel.Tile) int64 {
	sw, sh := t.Halo(j.kw/2, j.kh/2)
	stage := e.stages.Get(sw * sh)
	defer e.stages.Put(stage)

	team := min(e.cfg.TeamSize, t.Pixels())
	counts := make([]int64, team)
	padded := j.padded

	parallel.RunTeam(team, func(rank int, b *parallel.Barrier) {
		for c := 0; c < j.out.channels; c++ {
			base, colStep, rowStep := padded.steps(c)

			for i := rank; i < len(stage); i += team {
				sx := t.OriginX + i%sw
				sy := t.OriginY + i/sw
				if sx < padded.width && sy < padded.height {
					stage[i] = padded.data[base+sy*rowStep+sx*colStep]
				} else {
					stage[i] = 0
				}
				counts[rank]++
			}

			b.Wait()

			for i := rank; i < t.Pixels(); i += team {
				ox := i % t.Width
				oy := i / t.Width
				v := weightedSum(stage, oy*sw+ox, 1, sw, j.weights, j.kw, j.kh)
				j.out.data[j.out.offset(t.OriginX+ox, t.OriginY+oy, c)] = saturate(v)
			}

			b.Wait()
		}
	})

	var total int64
	for _, n := range counts {
		total += n
	}
	return total
}
