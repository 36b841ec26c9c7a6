package report

import (
	"github.com/limaJavier/genetic-timetabling/pkg/genetic"
	"go.uber.org/zap"
)

type logListener struct {
	logger *zap.Logger
	every  int
}

// NewLogListener logs the progress of every generation multiple of every, and
// of the last one. Values of every below 1 log the last generation only.
func NewLogListener(logger *zap.Logger, every int) genetic.Listener {
	return &logListener{logger: logger, every: every}
}

func (listener *logListener) OnProgress(progress genetic.Progress) {
	if !progress.Done && (listener.every < 1 || progress.Generation%listener.every != 0) {
		return
	}

	listener.logger.Info("generation",
		zap.String("run", progress.RunId),
		zap.Int("generation", progress.Generation),
		zap.Float64("bestFitness", progress.BestFitness),
		zap.Int("bestPenalty", progress.BestPenalty),
		zap.Float64("generationBestFitness", progress.GenerationBestFitness),
		zap.Float64("meanFitness", progress.MeanFitness),
		zap.Bool("done", progress.Done),
	)
}
