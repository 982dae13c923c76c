package service

import (
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"dspt_pro_backend/internal/model"
	"dspt_pro_backend/internal/scoring"
	"dspt_pro_backend/internal/util"
	"dspt_pro_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// fakeAssessmentStore is an in-memory AssessmentStore.
type fakeAssessmentStore struct {
	assessments   map[uint]*model.Assessment
	responses     map[uint]map[uint]*model.Response // assessmentID -> questionID
	sectionScores map[uint][]model.SectionScore
	nextID        uint
	snapshots     int
}

func newFakeAssessmentStore() *fakeAssessmentStore {
	return &fakeAssessmentStore{
		assessments:   make(map[uint]*model.Assessment),
		responses:     make(map[uint]map[uint]*model.Response),
		sectionScores: make(map[uint][]model.SectionScore),
		nextID:        1,
	}
}

func (f *fakeAssessmentStore) Create(a *model.Assessment) error {
	a.ID = f.nextID
	f.nextID++
	copied := *a
	f.assessments[a.ID] = &copied
	return nil
}

func (f *fakeAssessmentStore) FindByID(id uint) (*model.Assessment, error) {
	a, ok := f.assessments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAssessmentStore) ListByPractice(practiceID uint, page, limit int) ([]model.Assessment, int64, error) {
	var out []model.Assessment
	for _, a := range f.assessments {
		if a.PracticeID == practiceID {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAssessmentStore) UpdateStatus(id uint, status model.AssessmentStatus) error {
	a, ok := f.assessments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeAssessmentStore) ListResponses(assessmentID uint) ([]model.Response, error) {
	var out []model.Response
	for _, r := range f.responses[assessmentID] {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeAssessmentStore) FindResponse(assessmentID, questionID uint) (*model.Response, error) {
	r, ok := f.responses[assessmentID][questionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeAssessmentStore) UpsertResponse(resp *model.Response) error {
	resp.IsCompliant = scoring.IsCompliant(resp.Answer)
	if f.responses[resp.AssessmentID] == nil {
		f.responses[resp.AssessmentID] = make(map[uint]*model.Response)
	}
	copied := *resp
	f.responses[resp.AssessmentID][resp.QuestionID] = &copied
	return nil
}

func (f *fakeAssessmentStore) UpdateResponseEvidenceFile(assessmentID, questionID uint, objectKey string) error {
	r, ok := f.responses[assessmentID][questionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.EvidenceFile = objectKey
	return nil
}

func (f *fakeAssessmentStore) ListSectionScores(assessmentID uint) ([]model.SectionScore, error) {
	return append([]model.SectionScore(nil), f.sectionScores[assessmentID]...), nil
}

func (f *fakeAssessmentStore) CompleteWithSnapshot(assessmentID uint, from model.AssessmentStatus, completedAt time.Time, result *scoring.Result) error {
	a, ok := f.assessments[assessmentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// mirror the status re-check the repository does under its row lock
	if a.Status != from {
		switch a.Status {
		case model.AssessmentCompleted:
			return util.ErrAssessmentCompleted
		case model.AssessmentDraft:
			return util.ErrAssessmentNotStarted
		default:
			return util.ErrAssessmentNotCompleted
		}
	}
	f.snapshots++

	a.Status = model.AssessmentCompleted
	a.TotalQuestions = result.TotalQuestions
	a.AnsweredQuestions = result.AnsweredQuestions
	a.PassedQuestions = result.PassedQuestions
	a.OverallScore = result.OverallScore
	a.PassStatus = string(result.PassStatus)
	a.CompletedAt = &completedAt

	// full replacement, mirroring the delete-all-then-insert transaction
	rows := make([]model.SectionScore, 0, len(result.SectionScores))
	for _, ss := range result.SectionScores {
		rows = append(rows, model.SectionScore{
			AssessmentID:      assessmentID,
			SectionID:         ss.SectionID,
			SectionTitle:      ss.SectionTitle,
			TotalQuestions:    ss.TotalQuestions,
			AnsweredQuestions: ss.AnsweredQuestions,
			PassedQuestions:   ss.PassedQuestions,
			Score:             ss.Score,
		})
	}
	f.sectionScores[assessmentID] = rows
	return nil
}

// fakeTaxonomy serves a fixed two-section catalogue.
type fakeTaxonomy struct{}

func (fakeTaxonomy) ScoringTaxonomy() (scoring.Taxonomy, error) {
	return scoring.Taxonomy{Sections: []scoring.Section{
		{ID: 1, Title: "Personal Confidential Data", Questions: []scoring.Question{
			{ID: 1, SectionID: 1, Weight: 1}, {ID: 2, SectionID: 1, Weight: 1},
		}},
		{ID: 2, Title: "Staff Responsibilities", Questions: []scoring.Question{
			{ID: 3, SectionID: 2, Weight: 1}, {ID: 4, SectionID: 2, Weight: 1},
		}},
	}}, nil
}

func newTestService() (*AssessmentService, *fakeAssessmentStore) {
	store := newFakeAssessmentStore()
	return NewAssessmentService(store, fakeTaxonomy{}), store
}

func TestSaveResponseMovesDraftToInProgress(t *testing.T) {
	svc, _ := newTestService()

	a, err := svc.Start(1, 1, StartAssessmentRequest{Title: "2026/27 DSPT"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if a.Status != model.AssessmentDraft {
		t.Fatalf("new assessment status = %s, want DRAFT", a.Status)
	}

	if _, err := svc.SaveResponse(a.ID, 1, false, SaveResponseRequest{QuestionID: 1, Answer: "yes"}); err != nil {
		t.Fatalf("SaveResponse: %v", err)
	}

	got, err := svc.Get(a.ID, 1, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != model.AssessmentInProgress {
		t.Errorf("status after first response = %s, want IN_PROGRESS", got.Status)
	}
}

func TestSaveResponseRejectsUnknownQuestion(t *testing.T) {
	svc, _ := newTestService()
	a, _ := svc.Start(1, 1, StartAssessmentRequest{Title: "t"})

	_, err := svc.SaveResponse(a.ID, 1, false, SaveResponseRequest{QuestionID: 99, Answer: "yes"})
	if !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestSaveResponseDerivesCompliance(t *testing.T) {
	svc, store := newTestService()
	a, _ := svc.Start(1, 1, StartAssessmentRequest{Title: "t"})

	if _, err := svc.SaveResponse(a.ID, 1, false, SaveResponseRequest{QuestionID: 1, Answer: " Yes "}); err != nil {
		t.Fatalf("SaveResponse: %v", err)
	}
	r, err := store.FindResponse(a.ID, 1)
	if err != nil {
		t.Fatalf("FindResponse: %v", err)
	}
	if !r.IsCompliant {
		t.Errorf("IsCompliant not derived from answer %q", r.Answer)
	}
}

func TestTenantScoping(t *testing.T) {
	svc, _ := newTestService()
	a, _ := svc.Start(1, 1, StartAssessmentRequest{Title: "t"})

	if _, err := svc.Get(a.ID, 2, false); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("cross-practice Get err = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.Get(a.ID, 2, true); err != nil {
		t.Errorf("admin Get err = %v, want nil", err)
	}
}

func TestCompleteRequiresInProgress(t *testing.T) {
	svc, _ := newTestService()
	a, _ := svc.Start(1, 1, StartAssessmentRequest{Title: "t"})

	if _, err := svc.Complete(a.ID, 1, false); !errors.Is(err, util.ErrAssessmentNotStarted) {
		t.Errorf("Complete on DRAFT err = %v, want ErrAssessmentNotStarted", err)
	}
}

func completeFixture(t *testing.T) (*AssessmentService, *fakeAssessmentStore, uint) {
	t.Helper()
	svc, store := newTestService()
	a, _ := svc.Start(1, 1, StartAssessmentRequest{Title: "t"})
	answers := []SaveResponseRequest{
		{QuestionID: 1, Answer: "yes"},
		{QuestionID: 2, Answer: "no"},
		{QuestionID: 3, Answer: "yes"},
	}
	for _, req := range answers {
		if _, err := svc.SaveResponse(a.ID, 1, false, req); err != nil {
			t.Fatalf("SaveResponse: %v", err)
		}
	}
	return svc, store, a.ID
}

func TestCompleteFreezesSnapshot(t *testing.T) {
	svc, store, id := completeFixture(t)

	result, err := svc.Complete(id, 1, false)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if result.OverallScore != 50.0 || result.PassStatus != scoring.Fail {
		t.Errorf("result = %v %s, want 50.0 FAIL", result.OverallScore, result.PassStatus)
	}

	a, _ := store.FindByID(id)
	if a.Status != model.AssessmentCompleted || a.PassStatus != "FAIL" {
		t.Errorf("stored snapshot = %s/%s, want COMPLETED/FAIL", a.Status, a.PassStatus)
	}
	if a.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}

	// frozen: further writes rejected
	if _, err := svc.SaveResponse(id, 1, false, SaveResponseRequest{QuestionID: 4, Answer: "yes"}); !errors.Is(err, util.ErrAssessmentCompleted) {
		t.Errorf("SaveResponse after completion err = %v, want ErrAssessmentCompleted", err)
	}
	if _, err := svc.Complete(id, 1, false); !errors.Is(err, util.ErrAssessmentCompleted) {
		t.Errorf("double Complete err = %v, want ErrAssessmentCompleted", err)
	}
}

func TestRecalculateIsIdempotent(t *testing.T) {
	svc, store, id := completeFixture(t)

	first, err := svc.Complete(id, 1, false)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	rowsAfterComplete := len(store.sectionScores[id])
	completedAt := *store.assessments[id].CompletedAt

	for i := 0; i < 3; i++ {
		again, err := svc.Recalculate(id, 1, false)
		if err != nil {
			t.Fatalf("Recalculate run %d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("recalculation drifted: %+v vs %+v", first, again)
		}
	}

	if got := len(store.sectionScores[id]); got != rowsAfterComplete {
		t.Errorf("section rows grew to %d, want %d (replaced, not appended)", got, rowsAfterComplete)
	}
	if !store.assessments[id].CompletedAt.Equal(completedAt) {
		t.Error("recalculation moved the original completion time")
	}
	if store.snapshots != 4 {
		t.Errorf("snapshot writes = %d, want 4", store.snapshots)
	}
}

func TestCompleteSnapshotRechecksStatusUnderWrite(t *testing.T) {
	svc, store, id := completeFixture(t)

	first, err := svc.Complete(id, 1, false)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	completedAt := *store.assessments[id].CompletedAt

	// A racing complete that observed IN_PROGRESS before the first
	// write landed must be rejected at the write, not applied twice.
	err = store.CompleteWithSnapshot(id, model.AssessmentInProgress, time.Now().Add(time.Hour), first)
	if !errors.Is(err, util.ErrAssessmentCompleted) {
		t.Errorf("stale-status write err = %v, want ErrAssessmentCompleted", err)
	}
	if !store.assessments[id].CompletedAt.Equal(completedAt) {
		t.Error("stale-status write moved the completion time")
	}
}

func TestRecalculateRequiresCompleted(t *testing.T) {
	svc, _, id := completeFixture(t)

	if _, err := svc.Recalculate(id, 1, false); !errors.Is(err, util.ErrAssessmentNotCompleted) {
		t.Errorf("Recalculate on IN_PROGRESS err = %v, want ErrAssessmentNotCompleted", err)
	}
}

func TestResultsReadsStoredSnapshot(t *testing.T) {
	svc, store, id := completeFixture(t)
	if _, err := svc.Complete(id, 1, false); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	snapshotsBefore := store.snapshots

	results, err := svc.Results(id, 1, false)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if store.snapshots != snapshotsBefore {
		t.Error("Results recomputed a snapshot; read path must not write")
	}
	if results.Result.OverallScore != 50.0 {
		t.Errorf("overall = %v, want 50.0", results.Result.OverallScore)
	}
	if len(results.Result.SectionScores) != 2 {
		t.Errorf("section scores = %d, want 2", len(results.Result.SectionScores))
	}
}

func TestResultsRejectedBeforeCompletion(t *testing.T) {
	svc, _, id := completeFixture(t)

	if _, err := svc.Results(id, 1, false); !errors.Is(err, util.ErrAssessmentNotCompleted) {
		t.Errorf("Results before completion err = %v, want ErrAssessmentNotCompleted", err)
	}
}

func TestSetEvidenceFile(t *testing.T) {
	svc, store, id := completeFixture(t)

	if err := svc.SetEvidenceFile(id, 1, 1, false, "evidence/1/1/key.pdf"); err != nil {
		t.Fatalf("SetEvidenceFile: %v", err)
	}
	r, _ := store.FindResponse(id, 1)
	if r.EvidenceFile != "evidence/1/1/key.pdf" {
		t.Errorf("EvidenceFile = %q", r.EvidenceFile)
	}

	if err := svc.SetEvidenceFile(id, 4, 1, false, "x"); !errors.Is(err, util.ErrResponseNotFound) {
		t.Errorf("missing response err = %v, want ErrResponseNotFound", err)
	}

	if _, err := svc.Complete(id, 1, false); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := svc.SetEvidenceFile(id, 1, 1, false, "y"); !errors.Is(err, util.ErrAssessmentCompleted) {
		t.Errorf("evidence after completion err = %v, want ErrAssessmentCompleted", err)
	}
}
