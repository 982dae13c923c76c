package service

import (
	"testing"

	"dspt_pro_backend/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

type fakeTaxonomyStore struct {
	sections []model.Section
	loads    int
}

func (f *fakeTaxonomyStore) ListSections() ([]model.Section, error) {
	f.loads++
	return f.sections, nil
}

func (f *fakeTaxonomyStore) FindQuestionByID(id uint) (*model.Question, error) { return nil, nil }

func (f *fakeTaxonomyStore) UpsertSection(s *model.Section) error {
	f.sections = append(f.sections, *s)
	return nil
}

func (f *fakeTaxonomyStore) UpsertQuestion(q *model.Question) error { return nil }
func (f *fakeTaxonomyStore) DeleteQuestion(id uint) error           { return nil }

func testTaxonomyService(t *testing.T) (*TaxonomyService, *fakeTaxonomyStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := &fakeTaxonomyStore{sections: []model.Section{
		{Number: 1, Title: "Personal Confidential Data", Questions: []model.Question{
			{SectionID: 1, Code: "1.1.1", Text: "Is there a record of processing activities?", Weight: 1},
		}},
	}}
	store.sections[0].ID = 1
	store.sections[0].Questions[0].ID = 1

	return NewTaxonomyService(store, rdb), store
}

func TestListSectionsCachesInRedis(t *testing.T) {
	svc, store := testTaxonomyService(t)

	for i := 0; i < 3; i++ {
		sections, err := svc.ListSections()
		if err != nil {
			t.Fatalf("ListSections run %d: %v", i, err)
		}
		if len(sections) != 1 || sections[0].Title != "Personal Confidential Data" {
			t.Fatalf("unexpected sections: %+v", sections)
		}
	}

	if store.loads != 1 {
		t.Errorf("store loads = %d, want 1 (later reads served from cache)", store.loads)
	}
}

func TestUpsertSectionInvalidatesCache(t *testing.T) {
	svc, store := testTaxonomyService(t)

	if _, err := svc.ListSections(); err != nil {
		t.Fatalf("ListSections: %v", err)
	}

	if _, err := svc.UpsertSection(SectionRequest{Number: 2, Title: "Staff Responsibilities"}); err != nil {
		t.Fatalf("UpsertSection: %v", err)
	}

	sections, err := svc.ListSections()
	if err != nil {
		t.Fatalf("ListSections: %v", err)
	}
	if len(sections) != 2 {
		t.Errorf("sections after upsert = %d, want 2 (cache invalidated)", len(sections))
	}
	if store.loads != 2 {
		t.Errorf("store loads = %d, want 2", store.loads)
	}
}

func TestScoringTaxonomyConversion(t *testing.T) {
	svc, _ := testTaxonomyService(t)

	tax, err := svc.ScoringTaxonomy()
	if err != nil {
		t.Fatalf("ScoringTaxonomy: %v", err)
	}
	if tax.TotalQuestions() != 1 {
		t.Fatalf("total questions = %d, want 1", tax.TotalQuestions())
	}
	if tax.Sections[0].Questions[0].ID != 1 || tax.Sections[0].Questions[0].SectionID != 1 {
		t.Errorf("conversion lost ids: %+v", tax.Sections[0].Questions[0])
	}
}
