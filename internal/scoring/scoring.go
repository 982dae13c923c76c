// Package scoring computes DSPT assessment scores. It is pure: no
// database handles, no I/O, no retries. Callers load the taxonomy and
// the recorded responses, call ComputeScores, and persist the result.
package scoring

import (
	"fmt"
	"math"
	"strings"
)

// PassThresholdPercent is the overall score required for a PASS verdict.
// Policy constant, single definition for every call site.
const PassThresholdPercent = 80.0

type PassStatus string

const (
	Pass PassStatus = "PASS"
	Fail PassStatus = "FAIL"
)

// Question is one taxonomy entry. Weight is carried through from the
// schema but does not participate in any score formula.
type Question struct {
	ID        uint
	SectionID uint
	Weight    int
}

type Section struct {
	ID        uint
	Title     string
	Questions []Question
}

// Taxonomy is the full, ordered question catalogue. Immutable reference
// data for the lifetime of an assessment.
type Taxonomy struct {
	Sections []Section
}

func (t Taxonomy) TotalQuestions() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Questions)
	}
	return n
}

// QuestionResponse is one recorded answer. Responses arrive as a slice
// rather than a map so that duplicate question IDs are observable and
// can be rejected instead of last-write-wins.
type QuestionResponse struct {
	QuestionID uint
	Answer     string
	Evidence   string
}

// ValidationError reports malformed input to ComputeScores. The call is
// rejected whole; nothing is partially computed.
type ValidationError struct {
	QuestionID uint
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid scoring input: question %d: %s", e.QuestionID, e.Reason)
}

// IsCompliant is the single place compliance is derived from a raw
// answer. No other code path may decide compliance independently; a
// stored compliance flag is a cache of this function's output.
func IsCompliant(answer string) bool {
	return strings.ToLower(strings.TrimSpace(answer)) == "yes"
}

type SectionScore struct {
	SectionID         uint    `json:"sectionId"`
	SectionTitle      string  `json:"sectionTitle"`
	TotalQuestions    int     `json:"totalQuestions"`
	AnsweredQuestions int     `json:"answeredQuestions"`
	PassedQuestions   int     `json:"passedQuestions"`
	Score             float64 `json:"sectionScore"`
}

// Result is a full scoring snapshot. Percentages are full precision;
// call Rounded before handing the result to a display surface.
type Result struct {
	TotalQuestions    int            `json:"totalQuestions"`
	AnsweredQuestions int            `json:"answeredQuestions"`
	PassedQuestions   int            `json:"passedQuestions"`
	OverallScore      float64        `json:"overallScore"`
	PassStatus        PassStatus     `json:"passStatus"`
	SectionScores     []SectionScore `json:"sectionScores"`
}

// ComputeScores derives per-section and overall compliance scores for
// one assessment. Deterministic: identical input yields identical
// output. An empty taxonomy or empty response set is a valid state and
// produces an all-zero FAIL result, not an error.
//
// The denominator for every percentage is the *total* question count of
// its scope, not the answered count: an unanswered question counts
// against the score (silence = non-compliance).
func ComputeScores(tax Taxonomy, responses []QuestionResponse) (*Result, error) {
	known := make(map[uint]uint, tax.TotalQuestions())
	for _, s := range tax.Sections {
		for _, q := range s.Questions {
			known[q.ID] = s.ID
		}
	}

	byQuestion := make(map[uint]QuestionResponse, len(responses))
	for _, r := range responses {
		if _, ok := known[r.QuestionID]; !ok {
			return nil, &ValidationError{QuestionID: r.QuestionID, Reason: "not in taxonomy"}
		}
		if _, dup := byQuestion[r.QuestionID]; dup {
			return nil, &ValidationError{QuestionID: r.QuestionID, Reason: "duplicate response"}
		}
		byQuestion[r.QuestionID] = r
	}

	result := &Result{
		TotalQuestions:    len(known),
		AnsweredQuestions: len(byQuestion),
		SectionScores:     make([]SectionScore, 0, len(tax.Sections)),
	}

	for _, s := range tax.Sections {
		ss := SectionScore{
			SectionID:      s.ID,
			SectionTitle:   s.Title,
			TotalQuestions: len(s.Questions),
		}
		for _, q := range s.Questions {
			r, answered := byQuestion[q.ID]
			if !answered {
				continue
			}
			ss.AnsweredQuestions++
			if IsCompliant(r.Answer) {
				ss.PassedQuestions++
			}
		}
		if ss.TotalQuestions > 0 {
			ss.Score = float64(ss.PassedQuestions) / float64(ss.TotalQuestions) * 100
		}
		result.PassedQuestions += ss.PassedQuestions
		result.SectionScores = append(result.SectionScores, ss)
	}

	if result.TotalQuestions > 0 {
		result.OverallScore = float64(result.PassedQuestions) / float64(result.TotalQuestions) * 100
	}

	result.PassStatus = Fail
	if result.OverallScore >= PassThresholdPercent {
		result.PassStatus = Pass
	}

	return result, nil
}

// RoundScore rounds a percentage to one decimal place for display.
func RoundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

// Rounded returns a copy of the result with all percentages rounded to
// one decimal place. The receiver keeps full precision so repeated
// recomputation never compounds rounding error.
func (r *Result) Rounded() *Result {
	out := *r
	out.OverallScore = RoundScore(r.OverallScore)
	out.SectionScores = make([]SectionScore, len(r.SectionScores))
	for i, ss := range r.SectionScores {
		ss.Score = RoundScore(ss.Score)
		out.SectionScores[i] = ss
	}
	return &out
}
