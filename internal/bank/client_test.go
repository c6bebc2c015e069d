package bank

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

const bankBody = `{"data": [
	{"id": 1, "question": "What is velocity?", "subject": "Physics",
	 "option": {"a": "speed", "b": "speed with direction", "c": "mass", "d": "force"},
	 "answer": "b", "examyear": 2020}
]}`

// recordingSleeper swaps the client's sleep seam so tests observe waits
// instead of serving them.
func recordingSleeper(waits *[]time.Duration) func(context.Context, time.Duration) bool {
	return func(_ context.Context, d time.Duration) bool {
		*waits = append(*waits, d)
		return true
	}
}

func newTestClient(url string) *Client {
	return NewClient(Config{BaseURL: url, APIKey: "token", Retries: 3}, NewCache(false, 0))
}

func TestFetchNormalizesFirstVariant(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("AccessToken")
		w.Write([]byte(bankBody))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	qs := c.Fetch(context.Background(), question.ExamJAMB, "Physics", 0, 40, 1)
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	if qs[0].CorrectAnswer != "b" {
		t.Errorf("answer = %q", qs[0].CorrectAnswer)
	}
	if gotPath != "/q" {
		t.Errorf("path = %q, want /q for limit<=40", gotPath)
	}
	if gotToken != "token" {
		t.Errorf("AccessToken header = %q", gotToken)
	}
}

func TestFetchBulkEndpointForLargePages(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(bankBody))
	}))
	defer srv.Close()

	newTestClient(srv.URL).Fetch(context.Background(), question.ExamJAMB, "Physics", 0, 1000, 1)
	if gotPath != "/m/1000" {
		t.Errorf("path = %q, want /m/1000 for limit>40", gotPath)
	}
}

func TestFetchRateLimitHonorsRetryAfter(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(bankBody))
	}))
	defer srv.Close()

	var waits []time.Duration
	c := newTestClient(srv.URL)
	c.sleep = recordingSleeper(&waits)

	qs := c.Fetch(context.Background(), question.ExamJAMB, "Physics", 0, 40, 1)
	if len(qs) != 1 {
		t.Fatalf("got %d questions after retry, want 1", len(qs))
	}
	if len(waits) != 1 || waits[0] < 2*time.Second {
		t.Fatalf("waits = %v, want a single wait of at least 2s", waits)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(bankBody))
	}))
	defer srv.Close()

	var waits []time.Duration
	c := newTestClient(srv.URL)
	c.sleep = recordingSleeper(&waits)

	qs := c.Fetch(context.Background(), question.ExamJAMB, "Physics", 0, 40, 1)
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1 after retries", len(qs))
	}
	// linear backoff: attempt*1s
	if len(waits) != 2 || waits[0] != time.Second || waits[1] != 2*time.Second {
		t.Fatalf("waits = %v", waits)
	}
}

func TestFetchFallsThroughSubjectVariants(t *testing.T) {
	var subjects []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := r.URL.Query().Get("subject")
		subjects = append(subjects, subject)
		if subject != "english" {
			http.Error(w, "unknown subject", http.StatusNotFound)
			return
		}
		w.Write([]byte(bankBody))
	}))
	defer srv.Close()

	qs := newTestClient(srv.URL).Fetch(context.Background(), question.ExamJAMB, "English Language", 0, 40, 1)
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1 from the accepted variant", len(qs))
	}
	// a 404 abandons the variant without retrying it
	if len(subjects) != 5 {
		t.Fatalf("tried variants %v, want each once", subjects)
	}
}

func TestFetchMalformedBodyAbandonsVariant(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if qs := c.Fetch(context.Background(), question.ExamJAMB, "Physics", 0, 40, 1); qs != nil {
		t.Fatalf("got %d questions from garbage, want none", len(qs))
	}
	if hits != 1 {
		t.Fatalf("hits = %d, malformed body must not be retried", hits)
	}
}

func TestFetchUsesCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(bankBody))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Retries: 3}, NewCache(true, time.Hour))
	for i := 0; i < 3; i++ {
		if qs := c.Fetch(context.Background(), question.ExamJAMB, "Physics", 0, 40, 1); len(qs) != 1 {
			t.Fatalf("fetch %d got %d questions", i, len(qs))
		}
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1 with a warm cache", hits)
	}
}

func TestFetchPagesStopsOnEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(bankBody))
			return
		}
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.sleep = func(context.Context, time.Duration) bool { return true }
	qs := c.FetchPages(context.Background(), question.ExamJAMB, "Physics", 0, 5000, 1000)
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want the single first-page question", len(qs))
	}
}

func TestFetchPagesTruncatesToTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": "a", "question": "q1", "subject": "Physics"},
			{"id": "b", "question": "q2", "subject": "Physics"},
			{"id": "c", "question": "q3", "subject": "Physics"}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	qs := c.FetchPages(context.Background(), question.ExamJAMB, "Physics", 0, 2, 3)
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want truncation to 2", len(qs))
	}
}

func TestFetchWithoutBaseURL(t *testing.T) {
	c := NewClient(Config{}, NewCache(false, 0))
	if qs := c.Fetch(context.Background(), question.ExamJAMB, "Physics", 0, 40, 1); qs != nil {
		t.Fatal("unconfigured client returned questions")
	}
}
