package bank

import (
	"testing"
	"time"

	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

var cacheQs = []question.Question{{ID: "1", Text: "q", ExamType: question.ExamJAMB}}

func TestCacheHitAndExpiry(t *testing.T) {
	clock := time.Now()
	c := NewCache(true, time.Hour)
	c.now = func() time.Time { return clock }

	key := CacheKey{ExamType: question.ExamJAMB, Subject: "Physics", Page: 1}
	c.Put(key, cacheQs)

	if got, ok := c.Get(key); !ok || len(got) != 1 {
		t.Fatal("fresh entry missed")
	}

	clock = clock.Add(time.Hour + time.Second)
	if _, ok := c.Get(key); ok {
		t.Fatal("expired entry answered")
	}
	// lazy expiry drops the entry
	if n := c.Len(); n != 0 {
		t.Fatalf("Len = %d after expiry, want 0", n)
	}
}

func TestCacheDisabled(t *testing.T) {
	c := NewCache(false, time.Hour)
	key := CacheKey{ExamType: question.ExamWAEC, Subject: "Biology", Page: 1}
	c.Put(key, cacheQs)
	if _, ok := c.Get(key); ok {
		t.Fatal("disabled cache answered")
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache(true, time.Hour)
	jamb := CacheKey{ExamType: question.ExamJAMB, Subject: "Physics", Page: 1}
	waec := CacheKey{ExamType: question.ExamWAEC, Subject: "Physics", Page: 1}
	c.Put(jamb, cacheQs)
	c.Put(waec, cacheQs)

	c.Clear(question.ExamJAMB)
	if _, ok := c.Get(jamb); ok {
		t.Fatal("cleared exam type answered")
	}
	if _, ok := c.Get(waec); !ok {
		t.Fatal("clear removed the other exam type")
	}

	c.Clear("")
	if c.Len() != 0 {
		t.Fatal("full clear left entries")
	}
}

func TestCacheKeyIsolation(t *testing.T) {
	c := NewCache(true, time.Hour)
	c.Put(CacheKey{ExamType: question.ExamJAMB, Subject: "Physics", Page: 1}, cacheQs)
	if _, ok := c.Get(CacheKey{ExamType: question.ExamJAMB, Subject: "Physics", Page: 2}); ok {
		t.Fatal("page 2 served page 1's entry")
	}
	if _, ok := c.Get(CacheKey{ExamType: question.ExamJAMB, Subject: "Physics", Year: 2020, Page: 1}); ok {
		t.Fatal("year-scoped key served the all-years entry")
	}
}
