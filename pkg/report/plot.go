package report

import (
	"errors"
	"sync"

	"github.com/limaJavier/genetic-timetabling/pkg/genetic"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrNothingRecorded = errors.New("no generation was recorded")

// FitnessRecorder is a listener keeping the fitness curve of a run.
type FitnessRecorder struct {
	mu          sync.Mutex
	generations []float64
	best        []float64
	mean        []float64
}

func (recorder *FitnessRecorder) OnProgress(progress genetic.Progress) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()

	// A new run restarts the curve
	if progress.Generation == 1 {
		recorder.generations, recorder.best, recorder.mean = nil, nil, nil
	}
	recorder.generations = append(recorder.generations, float64(progress.Generation))
	recorder.best = append(recorder.best, progress.BestFitness)
	recorder.mean = append(recorder.mean, progress.MeanFitness)
}

func (recorder *FitnessRecorder) Len() int {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return len(recorder.generations)
}

// Points returns the best and mean fitness curves, generation on X.
func (recorder *FitnessRecorder) Points() (best, mean plotter.XYs) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()

	best = make(plotter.XYs, len(recorder.generations))
	mean = make(plotter.XYs, len(recorder.generations))
	for i, generation := range recorder.generations {
		best[i].X, best[i].Y = generation, recorder.best[i]
		mean[i].X, mean[i].Y = generation, recorder.mean[i]
	}
	return best, mean
}

// SavePlot draws both curves into path; the image format follows its extension.
func (recorder *FitnessRecorder) SavePlot(path, title string) error {
	best, mean := recorder.Points()
	if len(best) == 0 {
		return ErrNothingRecorded
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"
	p.Y.Min, p.Y.Max = 0, 1

	bestLine, err := plotter.NewLine(best)
	if err != nil {
		return err
	}
	meanLine, err := plotter.NewLine(mean)
	if err != nil {
		return err
	}
	meanLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(bestLine, meanLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Add("mean", meanLine)
	p.Legend.Top = true
	p.Legend.Left = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
