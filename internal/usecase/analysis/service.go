package analysis

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/callscribe-team/callscribe/errors"
	"github.com/callscribe-team/callscribe/internal/domain/entities"
	"github.com/callscribe-team/callscribe/pkg/pipelinectx"
)

// Result bundles the output of all analysis passes over one meeting
type Result struct {
	ExtractedFields   map[string]string
	Summary           string
	KeyPoints         []string
	ActionItems       []string
	Highlights        []entities.Highlight
	TopicDistribution map[string]float64
}

// Service fans the independent analysis passes out concurrently and collects
// the combined result
type Service struct {
	analyzer    Analyzer
	concurrency int
	logger      *zap.Logger
}

// NewService constructs an analysis service. concurrency bounds how many LLM
// calls run at once; values below 1 are treated as 1.
func NewService(analyzer Analyzer, concurrency int, logger *zap.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		analyzer:    analyzer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Analyze runs all six analysis passes over the transcript. If any pass
// fails, the remaining passes are cancelled and the first error is returned;
// partial results are never surfaced.
func (s *Service) Analyze(ctx context.Context, segments []entities.Segment, headers []string, instructions string) (*Result, error) {
	result := &Result{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	g.Go(func() error {
		fields, err := s.analyzer.ExtractFields(gctx, segments, headers, instructions)
		if err != nil {
			return err
		}
		result.ExtractedFields = fields
		return nil
	})

	g.Go(func() error {
		summary, err := s.analyzer.Summarize(gctx, segments)
		if err != nil {
			return err
		}
		result.Summary = summary
		return nil
	})

	g.Go(func() error {
		points, err := s.analyzer.KeyPoints(gctx, segments)
		if err != nil {
			return err
		}
		result.KeyPoints = points
		return nil
	})

	g.Go(func() error {
		items, err := s.analyzer.ActionItems(gctx, segments)
		if err != nil {
			return err
		}
		result.ActionItems = items
		return nil
	})

	g.Go(func() error {
		highlights, err := s.analyzer.Highlights(gctx, segments)
		if err != nil {
			return err
		}
		result.Highlights = highlights
		return nil
	})

	g.Go(func() error {
		topics, err := s.analyzer.TopicDistribution(gctx, segments)
		if err != nil {
			return err
		}
		result.TopicDistribution = topics
		return nil
	})

	if err := g.Wait(); err != nil {
		if s.logger != nil {
			fields := []zap.Field{zap.Error(err)}
			if botID, ok := pipelinectx.GetBotID(ctx); ok {
				fields = append(fields, zap.String("bot_id", botID))
			}
			s.logger.Error("❌ Analysis failed", fields...)
		}
		return nil, apperrors.ErrAnalysisFailed(err)
	}

	return result, nil
}
