package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/pjbl-tracker-api/internal/models"
)

// rawScaleMax is the top of the 1-4 rating scale questions are answered on.
const rawScaleMax = 4.0

type dimensionAccumulator struct {
	name     string
	sum      float64
	answered int
}

// AggregateDimensions groups an instrument's questions by dimension and
// normalizes the raw 1-4 answers into 0-100 scores.
//
// Questions and answers are aligned positionally: questions must arrive in
// created-at ascending order and answers[i] rates questions[i]. A length
// mismatch is tolerated: the overlap is processed and the discrepancy is
// logged as a warning. Nil answer entries are unanswered questions and
// count toward neither numerator nor denominator. Questions without a
// dimension fall into the synthetic default dimension under the supplied
// display name.
//
// Dimensions are returned in first-encounter order of the question list.
// A dimension whose questions are all unanswered is still reported, with
// AverageScore 0 and TotalSubmissions 0.
func AggregateDimensions(questions []models.Question, answers []*float64, defaultName string, logger *zap.Logger) []models.DimensionScore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(answers) != len(questions) {
		logger.Warn("answer count does not match question catalog",
			zap.Int("questions", len(questions)),
			zap.Int("answers", len(answers)),
		)
	}

	aligned := len(questions)
	if len(answers) < aligned {
		aligned = len(answers)
	}

	order := make([]string, 0, len(questions))
	groups := make(map[string]*dimensionAccumulator)
	for i, question := range questions {
		id := models.DefaultDimensionID
		name := defaultName
		if question.DimensionID != nil && *question.DimensionID != "" {
			id = *question.DimensionID
			if question.DimensionName != nil && *question.DimensionName != "" {
				name = *question.DimensionName
			} else {
				name = *question.DimensionID
			}
		}

		group, ok := groups[id]
		if !ok {
			group = &dimensionAccumulator{name: name}
			groups[id] = group
			order = append(order, id)
		}

		if i < aligned && answers[i] != nil {
			group.sum += *answers[i]
			group.answered++
		}
	}

	scores := make([]models.DimensionScore, 0, len(order))
	for _, id := range order {
		group := groups[id]
		score := models.DimensionScore{
			DimensionID:      id,
			DimensionName:    group.name,
			TotalSubmissions: group.answered,
			MaxScore:         models.MaxDimensionScore,
		}
		if group.answered > 0 {
			score.AverageScore = group.sum / (float64(group.answered) * rawScaleMax) * models.MaxDimensionScore
		}
		scores = append(scores, score)
	}
	return scores
}
