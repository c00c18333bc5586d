package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	programModels "madrasa/models/program"
)

func question(id uint, marks int) programModels.ExamQuestion {
	return programModels.ExamQuestion{Model: gorm.Model{ID: id}, Marks: marks}
}

func option(id uint, correct bool) programModels.ExamOption {
	return programModels.ExamOption{Model: gorm.Model{ID: id}, IsCorrect: correct}
}

func TestScoreExamExactMatchEarnsMarks(t *testing.T) {
	questions := []programModels.ExamQuestion{question(1, 5)}
	options := map[uint][]programModels.ExamOption{
		1: {option(10, true), option(11, false), option(12, false)},
	}

	obtained, total := scoreExam(questions, options, map[uint][]uint{1: {10}})
	assert.Equal(t, 5, obtained)
	assert.Equal(t, 5, total)
}

func TestScoreExamWrongOptionEarnsNothing(t *testing.T) {
	questions := []programModels.ExamQuestion{question(1, 5)}
	options := map[uint][]programModels.ExamOption{
		1: {option(10, true), option(11, false)},
	}

	obtained, total := scoreExam(questions, options, map[uint][]uint{1: {11}})
	assert.Equal(t, 0, obtained)
	assert.Equal(t, 5, total)
}

func TestScoreExamMultiSelectNeedsExactSet(t *testing.T) {
	questions := []programModels.ExamQuestion{question(1, 4)}
	options := map[uint][]programModels.ExamOption{
		1: {option(10, true), option(11, true), option(12, false)},
	}

	// both correct options, nothing extra
	obtained, _ := scoreExam(questions, options, map[uint][]uint{1: {10, 11}})
	assert.Equal(t, 4, obtained)

	// one correct option alone is not enough
	obtained, _ = scoreExam(questions, options, map[uint][]uint{1: {10}})
	assert.Equal(t, 0, obtained)

	// correct answers plus a wrong one scores zero
	obtained, _ = scoreExam(questions, options, map[uint][]uint{1: {10, 11, 12}})
	assert.Equal(t, 0, obtained)
}

func TestScoreExamSkippedQuestionStillCountsInTotal(t *testing.T) {
	questions := []programModels.ExamQuestion{question(1, 3), question(2, 7)}
	options := map[uint][]programModels.ExamOption{
		1: {option(10, true), option(11, false)},
		2: {option(20, true), option(21, false)},
	}

	obtained, total := scoreExam(questions, options, map[uint][]uint{1: {10}})
	assert.Equal(t, 3, obtained)
	assert.Equal(t, 10, total)
}

func TestScoreExamQuestionWithoutCorrectOptionEarnsNothing(t *testing.T) {
	// misconfigured question: no option marked correct
	questions := []programModels.ExamQuestion{question(1, 5)}
	options := map[uint][]programModels.ExamOption{
		1: {option(10, false), option(11, false)},
	}

	obtained, total := scoreExam(questions, options, map[uint][]uint{1: {10}})
	assert.Equal(t, 0, obtained)
	assert.Equal(t, 5, total)
}
