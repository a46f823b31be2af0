package category

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
)

func newTestSet(t *testing.T) *KeywordSet {
	t.Helper()
	ks, err := NewKeywordSet(
		[]string{"economy", "technology", "law"},
		[][]string{
			{"金融", "市场", "投资"},
			{"互联网", "科技", "投资"},
			{"法院", "法律"},
		},
	)
	if err != nil {
		t.Fatalf("NewKeywordSet() error = %v", err)
	}
	return ks
}

func TestMatcher_Score(t *testing.T) {
	m := NewMatcher(newTestSet(t))

	tests := []struct {
		name  string
		words []string
		want  Vector
	}{
		{name: "no words", words: nil, want: Vector{0, 0, 0}},
		{name: "no matches", words: []string{"天气", "晴朗"}, want: Vector{0, 0, 0}},
		{name: "single category", words: []string{"金融", "市场", "天气"}, want: Vector{2, 0, 0}},
		{name: "repeated word counts each time", words: []string{"法院", "法院", "法院"}, want: Vector{0, 0, 3}},
		{name: "word in two categories", words: []string{"投资"}, want: Vector{1, 1, 0}},
		{name: "mixed", words: []string{"科技", "互联网", "法律", "投资", "其他"}, want: Vector{1, 3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Score(tt.words)
			if !got.Equal(tt.want) {
				t.Errorf("Score(%v) = %v, want %v", tt.words, got, tt.want)
			}
		})
	}
}

func TestMatcher_Deterministic(t *testing.T) {
	m := NewMatcher(newTestSet(t))
	words := []string{"金融", "科技", "投资", "法律"}
	first := m.Score(words)

	var wg sync.WaitGroup
	errs := make(chan Vector, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := m.Score(words); !got.Equal(first) {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent Score() = %v, want %v", got, first)
	}
}

func TestNewKeywordSet_Errors(t *testing.T) {
	if _, err := NewKeywordSet(nil, nil); !errors.Is(err, ErrNoCategories) {
		t.Errorf("empty labels error = %v, want ErrNoCategories", err)
	}
	if _, err := NewKeywordSet([]string{"a", "b"}, [][]string{{"x"}}); !errors.Is(err, ErrCategoryCount) {
		t.Errorf("mismatched lists error = %v, want ErrCategoryCount", err)
	}
	if _, err := NewKeywordSet([]string{" "}, [][]string{{"x"}}); !errors.Is(err, ErrEmptyCategory) {
		t.Errorf("blank label error = %v, want ErrEmptyCategory", err)
	}
}

func TestKeywordSet_DuplicateKeywordCountsOnce(t *testing.T) {
	ks, err := NewKeywordSet([]string{"a"}, [][]string{{"x", "x", ""}})
	if err != nil {
		t.Fatalf("NewKeywordSet() error = %v", err)
	}
	if got := NewMatcher(ks).Score([]string{"x"}); !got.Equal(Vector{1}) {
		t.Errorf("Score() = %v, want [1]", got)
	}
	if !ks.Contains(0, "x") || ks.Contains(0, "y") || ks.Contains(3, "x") {
		t.Error("Contains() returned unexpected membership")
	}
}

func TestVector_Add(t *testing.T) {
	v := Vector{1, 2}
	if err := v.Add(Vector{3, 4}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !v.Equal(Vector{4, 6}) {
		t.Errorf("Add() = %v, want [4 6]", v)
	}
	if err := v.Add(Vector{1}); !errors.Is(err, ErrVectorLength) {
		t.Errorf("Add() short vector error = %v, want ErrVectorLength", err)
	}
	if v.Sum() != 10 {
		t.Errorf("Sum() = %d, want 10", v.Sum())
	}
	if !NewVector(3).IsZero() || v.IsZero() {
		t.Error("IsZero() returned unexpected result")
	}
}

func TestLoadSeedCSV(t *testing.T) {
	input := "金融,科技,法律\n市场,,法院\n投资,互联网,\n"
	seeds, err := LoadSeedCSV(strings.NewReader(input), 3)
	if err != nil {
		t.Fatalf("LoadSeedCSV() error = %v", err)
	}
	want := [][]string{{"金融", "市场", "投资"}, {"科技", "互联网"}, {"法律", "法院"}}
	for i := range want {
		if strings.Join(seeds[i], ",") != strings.Join(want[i], ",") {
			t.Errorf("category %d = %v, want %v", i, seeds[i], want[i])
		}
	}

	if _, err := LoadSeedCSV(strings.NewReader("a,b,c\n"), 2); !errors.Is(err, ErrCategoryCount) {
		t.Errorf("extra column error = %v, want ErrCategoryCount", err)
	}
}

func TestExpandedCSV_WriteThenLoad(t *testing.T) {
	keywords := [][]string{{"金融", "财经"}, {"科技"}, {"法律"}}
	var buf bytes.Buffer
	if err := WriteExpandedCSV(&buf, keywords); err != nil {
		t.Fatalf("WriteExpandedCSV() error = %v", err)
	}
	rows, err := LoadExpandedCSV(&buf)
	if err != nil {
		t.Fatalf("LoadExpandedCSV() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if len(rows[1]) != 1 || rows[1][0] != "科技" {
		t.Errorf("category 1 loaded as %v", rows[1])
	}

	ks, err := NewKeywordSet([]string{"e", "t", "x"}, rows)
	if err != nil {
		t.Fatalf("NewKeywordSet() error = %v", err)
	}
	got := ks.Keywords(0)
	sort.Strings(got)
	if strings.Join(got, ",") != "财经,金融" {
		t.Errorf("Keywords(0) = %v", got)
	}
}

func TestExpandedCSV_EmptyCategoryKeepsPosition(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExpandedCSV(&buf, [][]string{{"金融"}, nil, {"法律"}}); err != nil {
		t.Fatalf("WriteExpandedCSV() error = %v", err)
	}
	rows, err := LoadExpandedCSV(&buf)
	if err != nil {
		t.Fatalf("LoadExpandedCSV() error = %v", err)
	}
	if len(rows) != 3 || len(rows[1]) != 0 || rows[2][0] != "法律" {
		t.Errorf("rows = %q, want empty middle category", rows)
	}
}
