package rl

import (
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotRewards saves a total-reward-per-episode curve to path.
func PlotRewards(path, name string, results []EpisodeResult) error {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Total reward"

	points := make(plotter.XYs, len(results))
	for i, r := range results {
		points[i] = plotter.XY{
			X: float64(r.Episode),
			Y: r.TotalReward,
		}
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	p.Legend.Add(name, line)

	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}

// Summary reports mean and standard deviation of total rewards, and the
// fraction of episodes that terminated on their own.
func Summary(results []EpisodeResult) (mean, stddev, terminated float64) {
	if len(results) == 0 {
		return 0, 0, 0
	}
	rewards := make([]float64, len(results))
	done := 0
	for i, r := range results {
		rewards[i] = r.TotalReward
		if r.Terminated {
			done++
		}
	}
	mean = stat.Mean(rewards, nil)
	stddev = stat.StdDev(rewards, nil)
	terminated = float64(done) / float64(len(results))
	return mean, stddev, terminated
}
