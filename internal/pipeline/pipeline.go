// Package pipeline runs a full prediction: replay the game log, train and
// cross-validate the classifier, predict every pairing of the season's field
// and play the bracket out.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pable/mmbracket/internal/bracket"
	"github.com/pable/mmbracket/internal/classifier"
	"github.com/pable/mmbracket/internal/features"
	"github.com/pable/mmbracket/internal/metrics"
	"github.com/pable/mmbracket/internal/model"
	"github.com/pable/mmbracket/internal/output"
	"github.com/pable/mmbracket/internal/predictor"
	"github.com/pable/mmbracket/internal/rating"
	"github.com/pable/mmbracket/internal/stats"
)

// FieldSize is the number of teams in a full tournament field.
const FieldSize = 68

// MetricsFile is written next to the CSV outputs.
const MetricsFile = "metrics.prom"

var (
	ErrNoExamples = errors.New("pipeline: no training examples")
	ErrNoField    = errors.New("pipeline: no seeds for season")
)

// Source supplies the run's inputs: a CSV directory or the SQLite store.
type Source interface {
	Load(ctx context.Context) (*model.Inputs, error)
}

// RunStore persists a finished run.
type RunStore interface {
	InsertRun(run model.RunSummary, preds []model.Prediction, results []model.SlotResult, ratings []model.TeamRating) error
}

// Options tune a run.
type Options struct {
	Season        int
	OutDir        string
	Seed          uint64 // 0 picks one from the clock
	RatingBase    int
	HomeAdvantage int
	Window        int
	CVFolds       int
	Model         classifier.Options
}

// Result is everything a run produced.
type Result struct {
	Run         model.RunSummary
	CV          classifier.CVResult
	Predictions []model.Prediction
	Bracket     []model.SlotResult
	Ratings     []model.TeamRating
	Names       output.Names
}

// Pipeline wires a source, an optional store and a logger.
type Pipeline struct {
	src   Source
	store RunStore
	opts  Options
	log   logrus.FieldLogger
	now   func() time.Time
}

// New returns a Pipeline. store may be nil.
func New(src Source, store RunStore, opts Options, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{src: src, store: store, opts: opts, log: log, now: time.Now}
}

// Run executes every stage in order. The output directory is checked before
// anything is loaded.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	season := p.opts.Season
	log := p.log.WithField("season", season)
	m := metrics.NewRun(season)

	if err := output.CheckWritable(p.opts.OutDir); err != nil {
		return nil, err
	}

	stage := time.Now()
	in, err := p.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inputs: %w", err)
	}
	m.ObserveStage("load", stage)
	log.WithFields(logrus.Fields{
		"teams": len(in.Teams),
		"games": len(in.Games),
		"seeds": len(in.Seeds),
		"slots": len(in.Slots),
	}).Info("loaded inputs")

	seed := p.opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.WithField("rng_seed", seed).Debug("seeded coin flip")

	stage = time.Now()
	builder := features.NewBuilder(
		rating.NewEngine(p.opts.RatingBase, p.opts.HomeAdvantage),
		stats.NewTracker(p.opts.Window),
		rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		log,
	)
	ds := builder.Build(in.Games)
	m.RecordDataset(ds.Games, ds.Emitted, ds.Skipped, ds.StatUpdatesSkipped)
	m.ObserveStage("features", stage)
	if ds.Len() == 0 {
		return nil, ErrNoExamples
	}

	stage = time.Now()
	newModel := func() classifier.Classifier { return classifier.NewLogistic(p.opts.Model) }
	var cv classifier.CVResult
	if ds.Len() >= p.opts.CVFolds {
		cv, err = classifier.CrossValidate(ctx, ds.X, ds.Y, p.opts.CVFolds, newModel)
		if err != nil {
			return nil, fmt.Errorf("cross-validate: %w", err)
		}
		m.SetCVAccuracy(cv.Mean)
		log.WithFields(logrus.Fields{"folds": p.opts.CVFolds, "accuracy": cv.Mean}).Info("cross-validated")
	} else {
		log.WithField("examples", ds.Len()).Warn("too few examples to cross-validate")
	}
	m.ObserveStage("cross_validate", stage)

	stage = time.Now()
	clf := newModel()
	if err := clf.Fit(ds.X, ds.Y); err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	m.ObserveStage("fit", stage)

	seeds := in.SeasonSeeds(season)
	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w %d", ErrNoField, season)
	}
	field := make([]int, 0, len(seeds))
	for _, s := range seeds {
		field = append(field, s.TeamID)
	}
	if len(seeds) != FieldSize {
		log.WithFields(logrus.Fields{"teams": len(seeds), "expected": FieldSize}).Warn("unexpected field size")
	}

	stage = time.Now()
	preds := predictor.New(builder, clf).Pairwise(season, field)
	m.AddPredictions(len(preds))
	m.ObserveStage("predict", stage)

	resolver := bracket.NewResolver(seeds, bracket.NewTable(preds), log)
	names := output.Names{Teams: in.TeamNames(), SeedOf: resolver.SeedOf}
	out := output.Writer{Dir: p.opts.OutDir}
	if err := out.Predictions(preds, names); err != nil {
		return nil, err
	}

	stage = time.Now()
	results, err := resolver.Resolve(in.SeasonSlots(season))
	if err != nil {
		return nil, fmt.Errorf("resolve bracket: %w", err)
	}
	m.AddSlots(len(results))
	m.ObserveStage("bracket", stage)
	if err := out.Bracket(results, names); err != nil {
		return nil, err
	}

	champion, _ := resolver.Champion()
	res := &Result{
		Run: model.RunSummary{
			ID:         uuid.NewString(),
			Season:     season,
			CreatedAt:  p.now().UTC().Format(time.RFC3339),
			Samples:    ds.Emitted,
			Skipped:    ds.Skipped,
			CVAccuracy: cv.Mean,
			Champion:   champion,
		},
		CV:          cv,
		Predictions: preds,
		Bracket:     results,
		Ratings:     builder.Ratings.Snapshot(season),
		Names:       names,
	}

	if p.store != nil {
		if err := p.store.InsertRun(res.Run, res.Predictions, res.Bracket, res.Ratings); err != nil {
			return nil, fmt.Errorf("store run: %w", err)
		}
	}

	m.ObserveStage("total", start)
	if err := m.WriteTextfile(filepath.Join(p.opts.OutDir, MetricsFile)); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"run":      res.Run.ID,
		"champion": names.Team(champion),
		"pairs":    len(preds),
		"slots":    len(results),
	}).Info("run complete")
	return res, nil
}

// ReplayRatings runs the rating engine over the whole game log and returns
// the season's table, highest first.
func ReplayRatings(in *model.Inputs, base, homeAdvantage, season int) []model.TeamRating {
	e := rating.NewEngine(base, homeAdvantage)
	for _, g := range in.Games {
		e.Update(g.Season, g.WTeamID, g.LTeamID)
	}
	return e.Snapshot(season)
}
