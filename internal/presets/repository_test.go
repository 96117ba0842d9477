package presets

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

var refNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(filepath.Join(t.TempDir(), "data", "test.db"))
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := newTestRepo(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	p := &models.SavedFilter{
		Name:   "january",
		Filter: models.DefaultFilter(refNow).WithDateRange(start, end).WithMagnitude(4.5, 5.9),
	}

	if err := repo.Save(p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if p.ID == 0 {
		t.Error("Save() did not set ID")
	}

	got, err := repo.Get("january")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Filter.Equal(p.Filter) {
		t.Errorf("Get() filter = %+v, want %+v", got.Filter, p.Filter)
	}
	if got.ID != p.ID {
		t.Errorf("Get() ID = %d, want %d", got.ID, p.ID)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Get() CreatedAt is zero")
	}
}

func TestRepository_SaveUpsertsByName(t *testing.T) {
	repo := newTestRepo(t)

	first := &models.SavedFilter{Name: "big", Filter: models.DefaultFilter(refNow).WithMagnitude(6, 10)}
	if err := repo.Save(first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second := &models.SavedFilter{Name: "big", Filter: models.DefaultFilter(refNow).WithFeed(models.FeedModeratePlusDay)}
	if err := repo.Save(second); err != nil {
		t.Fatalf("Save() second error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert changed ID from %d to %d", first.ID, second.ID)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List() returned %d presets, want 1", len(list))
	}
	if list[0].Filter.FeedType != models.FeedModeratePlusDay {
		t.Errorf("FeedType = %v, want 4.5_day", list[0].Filter.FeedType)
	}
}

func TestRepository_ListOrderedByName(t *testing.T) {
	repo := newTestRepo(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := repo.Save(&models.SavedFilter{Name: name, Filter: models.DefaultFilter(refNow)}); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, p := range list {
		if p.Name != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, p.Name, want[i])
		}
	}
}

func TestRepository_RelativeWindow(t *testing.T) {
	repo := newTestRepo(t)

	p := &models.SavedFilter{Name: "last week", Filter: models.WindowPresets[1].Apply(models.DefaultFilter(refNow), refNow), WindowDays: 7}
	if err := repo.Save(p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Get("last week")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	later := refNow.AddDate(0, 1, 0)
	f := got.Resolve(later)
	if !f.EndDate.Equal(later) || !f.StartDate.Equal(later.AddDate(0, 0, -7)) {
		t.Errorf("Resolve() = %v..%v, want the week before %v", f.StartDate, f.EndDate, later)
	}
}

func TestRepository_PresetFeedHasNoDates(t *testing.T) {
	repo := newTestRepo(t)

	p := &models.SavedFilter{Name: "sig", Filter: models.Filter{FeedType: models.FeedSignificantDay, MaxMagnitude: 10}}
	if err := repo.Save(p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Get("sig")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Filter.StartDate.IsZero() || !got.Filter.EndDate.IsZero() {
		t.Errorf("dates = %v..%v, want zero", got.Filter.StartDate, got.Filter.EndDate)
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.Save(&models.SavedFilter{Name: "gone", Filter: models.DefaultFilter(refNow)}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := repo.Delete("gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestRepository_SaveRequiresName(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Save(&models.SavedFilter{Name: "   "}); err == nil {
		t.Error("Save() with blank name should fail")
	}
}

func TestRepository_EmptyList(t *testing.T) {
	list, err := newTestRepo(t).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %d presets, want 0", len(list))
	}
}
