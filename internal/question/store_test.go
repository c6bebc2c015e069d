package question

import "testing"

func objQ(id string, et ExamType, subject string) Question {
	return Question{
		ID: id, Subject: subject, ExamType: et, Kind: KindObjective,
		Text: "text for " + id, Options: &Options{A: "a", B: "b", C: "c", D: "d"},
		CorrectAnswer: "a",
	}
}

func TestMemoryStorePutQuery(t *testing.T) {
	s := NewMemoryStore()
	for _, q := range []Question{
		objQ("1", ExamJAMB, "Physics"),
		objQ("2", ExamJAMB, "Chemistry"),
		objQ("3", ExamWAEC, "Physics"),
	} {
		if err := s.Put(q); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	got, err := s.Query(ExamJAMB, "physics")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("case-insensitive subject query got %v", got)
	}

	all, _ := s.Query(ExamJAMB, "")
	if len(all) != 2 {
		t.Fatalf("exam-wide query got %d, want 2", len(all))
	}
}

func TestMemoryStorePutOverwritesByID(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Put(objQ("1", ExamJAMB, "Physics"))
	updated := objQ("1", ExamJAMB, "Physics")
	updated.Text = "rewritten"
	_ = s.Put(updated)

	got, _ := s.Query(ExamJAMB, "Physics")
	if len(got) != 1 || got[0].Text != "rewritten" {
		t.Fatalf("got %v, want single rewritten question", got)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Put(objQ("1", ExamJAMB, "Physics"))

	if ok, _ := s.DeleteByID("1"); !ok {
		t.Fatal("delete existing returned false")
	}
	if ok, _ := s.DeleteByID("1"); ok {
		t.Fatal("delete twice returned true")
	}
	if got, _ := s.Query(ExamJAMB, "Physics"); len(got) != 0 {
		t.Fatalf("question survived delete: %v", got)
	}
}

func TestMemoryStoreReplaceForSubject(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Put(objQ("old-1", ExamWAEC, "Biology"))
	_ = s.Put(objQ("keep", ExamWAEC, "Physics"))

	err := s.ReplaceForSubject(ExamWAEC, "biology", []Question{
		objQ("new-1", ExamWAEC, "Biology"),
		objQ("new-2", ExamWAEC, "Biology"),
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	bio, _ := s.Query(ExamWAEC, "Biology")
	if len(bio) != 2 {
		t.Fatalf("biology pool = %d, want 2", len(bio))
	}
	for _, q := range bio {
		if q.ID == "old-1" {
			t.Fatal("old question survived replace")
		}
	}
	if phys, _ := s.Query(ExamWAEC, "Physics"); len(phys) != 1 {
		t.Fatal("replace touched another subject")
	}
}

func TestMemoryStoreClearForExamType(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Put(objQ("1", ExamJAMB, "Physics"))
	_ = s.Put(objQ("2", ExamWAEC, "Physics"))

	if err := s.ClearForExamType(ExamJAMB); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got, _ := s.Query(ExamJAMB, ""); len(got) != 0 {
		t.Fatal("jamb pool survived clear")
	}
	if got, _ := s.Query(ExamWAEC, ""); len(got) != 1 {
		t.Fatal("clear touched another exam type")
	}
}
