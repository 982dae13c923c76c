package scoring

import (
	"errors"
	"reflect"
	"testing"
)

func twoSectionTaxonomy() Taxonomy {
	return Taxonomy{Sections: []Section{
		{ID: 1, Title: "Personal Confidential Data", Questions: []Question{
			{ID: 1, SectionID: 1, Weight: 1},
			{ID: 2, SectionID: 1, Weight: 1},
		}},
		{ID: 2, Title: "Staff Responsibilities", Questions: []Question{
			{ID: 3, SectionID: 2, Weight: 1},
			{ID: 4, SectionID: 2, Weight: 1},
		}},
	}}
}

func TestComputeScoresEndToEnd(t *testing.T) {
	tax := twoSectionTaxonomy()
	responses := []QuestionResponse{
		{QuestionID: 1, Answer: "yes"},
		{QuestionID: 2, Answer: "no"},
		{QuestionID: 3, Answer: "yes"},
		// question 4 unanswered
	}

	result, err := ComputeScores(tax, responses)
	if err != nil {
		t.Fatalf("ComputeScores: %v", err)
	}

	if result.TotalQuestions != 4 || result.AnsweredQuestions != 3 || result.PassedQuestions != 2 {
		t.Fatalf("counts = %d/%d/%d, want 4/3/2",
			result.TotalQuestions, result.AnsweredQuestions, result.PassedQuestions)
	}
	if result.OverallScore != 50.0 {
		t.Errorf("overall = %v, want 50.0", result.OverallScore)
	}
	if result.PassStatus != Fail {
		t.Errorf("passStatus = %s, want FAIL", result.PassStatus)
	}

	if len(result.SectionScores) != 2 {
		t.Fatalf("section scores = %d, want 2", len(result.SectionScores))
	}
	s1, s2 := result.SectionScores[0], result.SectionScores[1]
	if s1.Score != 50.0 || s1.AnsweredQuestions != 2 || s1.PassedQuestions != 1 {
		t.Errorf("section 1 = %+v, want score 50.0, 2 answered, 1 passed", s1)
	}
	if s2.Score != 50.0 || s2.AnsweredQuestions != 1 || s2.PassedQuestions != 1 {
		t.Errorf("section 2 = %+v, want score 50.0, 1 answered, 1 passed", s2)
	}
}

func TestComputeScoresDeterminism(t *testing.T) {
	tax := twoSectionTaxonomy()
	responses := []QuestionResponse{
		{QuestionID: 1, Answer: "YES"},
		{QuestionID: 3, Answer: " no "},
	}

	first, err := ComputeScores(tax, responses)
	if err != nil {
		t.Fatalf("ComputeScores: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := ComputeScores(tax, responses)
		if err != nil {
			t.Fatalf("ComputeScores run %d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestComputeScoresEmptyTaxonomy(t *testing.T) {
	result, err := ComputeScores(Taxonomy{}, nil)
	if err != nil {
		t.Fatalf("ComputeScores: %v", err)
	}
	if result.TotalQuestions != 0 || result.OverallScore != 0 {
		t.Errorf("expected all-zero result, got %+v", result)
	}
	if result.PassStatus != Fail {
		t.Errorf("passStatus = %s, want FAIL", result.PassStatus)
	}
}

func TestComputeScoresNoResponses(t *testing.T) {
	result, err := ComputeScores(twoSectionTaxonomy(), nil)
	if err != nil {
		t.Fatalf("ComputeScores: %v", err)
	}
	if result.AnsweredQuestions != 0 || result.PassedQuestions != 0 || result.OverallScore != 0 {
		t.Errorf("expected zero scores, got %+v", result)
	}
	if result.PassStatus != Fail {
		t.Errorf("passStatus = %s, want FAIL", result.PassStatus)
	}
}

func TestPassThresholdBoundary(t *testing.T) {
	// 10 questions, 8 compliant = exactly 80.0 -> PASS
	questions := make([]Question, 10)
	for i := range questions {
		questions[i] = Question{ID: uint(i + 1), SectionID: 1, Weight: 1}
	}
	tax := Taxonomy{Sections: []Section{{ID: 1, Title: "Access Control", Questions: questions}}}

	var responses []QuestionResponse
	for i := 1; i <= 8; i++ {
		responses = append(responses, QuestionResponse{QuestionID: uint(i), Answer: "yes"})
	}

	result, err := ComputeScores(tax, responses)
	if err != nil {
		t.Fatalf("ComputeScores: %v", err)
	}
	if result.OverallScore != 80.0 || result.PassStatus != Pass {
		t.Errorf("80.0%% must PASS, got %v %s", result.OverallScore, result.PassStatus)
	}

	// 7 of 10 -> 70.0 -> FAIL
	result, err = ComputeScores(tax, responses[:7])
	if err != nil {
		t.Fatalf("ComputeScores: %v", err)
	}
	if result.PassStatus != Fail {
		t.Errorf("70.0%% must FAIL, got %v %s", result.OverallScore, result.PassStatus)
	}
}

func TestJustBelowThresholdFails(t *testing.T) {
	// 799 of 1000 compliant = 79.9. The verdict must come from the full
	// precision score; any rounding toward 80 before the comparison
	// would flip this to PASS.
	questions := make([]Question, 1000)
	var responses []QuestionResponse
	for i := range questions {
		questions[i] = Question{ID: uint(i + 1), SectionID: 1, Weight: 1}
		if i < 799 {
			responses = append(responses, QuestionResponse{QuestionID: uint(i + 1), Answer: "yes"})
		}
	}
	tax := Taxonomy{Sections: []Section{{ID: 1, Title: "Managing Data Access", Questions: questions}}}

	result, err := ComputeScores(tax, responses)
	if err != nil {
		t.Fatalf("ComputeScores: %v", err)
	}
	if result.PassStatus != Fail {
		t.Errorf("79.9%% must FAIL, got %v %s", result.OverallScore, result.PassStatus)
	}
	if got := RoundScore(result.OverallScore); got != 79.9 {
		t.Errorf("display score = %v, want 79.9", got)
	}
	if display := result.Rounded(); display.PassStatus != Fail {
		t.Errorf("rounding for display flipped the verdict to %s", display.PassStatus)
	}
}

func TestUnansweredCountsAgainstSection(t *testing.T) {
	tax := Taxonomy{Sections: []Section{{ID: 1, Title: "Training", Questions: []Question{
		{ID: 1, SectionID: 1}, {ID: 2, SectionID: 1}, {ID: 3, SectionID: 1}, {ID: 4, SectionID: 1},
	}}}}
	responses := []QuestionResponse{
		{QuestionID: 1, Answer: "yes"},
		{QuestionID: 2, Answer: "yes"},
		{QuestionID: 3, Answer: "yes"},
	}

	result, err := ComputeScores(tax, responses)
	if err != nil {
		t.Fatalf("ComputeScores: %v", err)
	}
	if got := result.SectionScores[0].Score; got != 75.0 {
		t.Errorf("3 of 4 compliant with 1 unanswered = %v, want 75.0", got)
	}
}

func TestIsCompliantNormalization(t *testing.T) {
	compliant := []string{"yes", "YES", " Yes ", "yEs"}
	for _, answer := range compliant {
		if !IsCompliant(answer) {
			t.Errorf("IsCompliant(%q) = false, want true", answer)
		}
	}
	nonCompliant := []string{"no", "No", "NO", "", "  ", "y", "yes!", "maybe"}
	for _, answer := range nonCompliant {
		if IsCompliant(answer) {
			t.Errorf("IsCompliant(%q) = true, want false", answer)
		}
	}
}

func TestComputeScoresRejectsUnknownQuestion(t *testing.T) {
	_, err := ComputeScores(twoSectionTaxonomy(), []QuestionResponse{
		{QuestionID: 99, Answer: "yes"},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.QuestionID != 99 {
		t.Errorf("QuestionID = %d, want 99", verr.QuestionID)
	}
}

func TestComputeScoresRejectsDuplicateResponse(t *testing.T) {
	_, err := ComputeScores(twoSectionTaxonomy(), []QuestionResponse{
		{QuestionID: 1, Answer: "yes"},
		{QuestionID: 1, Answer: "no"},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestWeightIsIgnored(t *testing.T) {
	tax := Taxonomy{Sections: []Section{{ID: 1, Title: "IT Protection", Questions: []Question{
		{ID: 1, SectionID: 1, Weight: 10},
		{ID: 2, SectionID: 1, Weight: 1},
	}}}}
	result, err := ComputeScores(tax, []QuestionResponse{{QuestionID: 2, Answer: "yes"}})
	if err != nil {
		t.Fatalf("ComputeScores: %v", err)
	}
	if result.OverallScore != 50.0 {
		t.Errorf("overall = %v, want 50.0 (every question weight-1)", result.OverallScore)
	}
}

func TestRounded(t *testing.T) {
	// 1 of 3 compliant = 33.333... -> 33.3 for display
	tax := Taxonomy{Sections: []Section{{ID: 1, Title: "Secure Systems", Questions: []Question{
		{ID: 1, SectionID: 1}, {ID: 2, SectionID: 1}, {ID: 3, SectionID: 1},
	}}}}
	result, err := ComputeScores(tax, []QuestionResponse{{QuestionID: 1, Answer: "yes"}})
	if err != nil {
		t.Fatalf("ComputeScores: %v", err)
	}

	display := result.Rounded()
	if display.OverallScore != 33.3 {
		t.Errorf("rounded overall = %v, want 33.3", display.OverallScore)
	}
	if display.SectionScores[0].Score != 33.3 {
		t.Errorf("rounded section = %v, want 33.3", display.SectionScores[0].Score)
	}
	// the original keeps full precision
	if result.OverallScore == 33.3 {
		t.Errorf("full-precision result mutated by Rounded")
	}
}
