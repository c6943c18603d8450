package repository

import "testing"

func TestNewPaginationClamps(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative", -3, -1, 1, 20},
		{"over limit", 2, 500, 2, 100},
		{"normal", 3, 25, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.pageSize)
			if p.Page != tt.wantPage || p.PageSize != tt.wantPageSize {
				t.Fatalf("got (%d,%d), want (%d,%d)", p.Page, p.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	p := NewPagination(3, 20)
	if p.Offset() != 40 {
		t.Fatalf("Offset = %d, want 40", p.Offset())
	}
	if p.Limit() != 20 {
		t.Fatalf("Limit = %d, want 20", p.Limit())
	}
}

func TestNewPagedResultTotalPages(t *testing.T) {
	items := []string{"a", "b"}

	r := NewPagedResult(items, 41, NewPagination(1, 20))
	if r.TotalPages != 3 {
		t.Fatalf("TotalPages = %d, want 3", r.TotalPages)
	}

	r = NewPagedResult(items, 40, NewPagination(1, 20))
	if r.TotalPages != 2 {
		t.Fatalf("TotalPages = %d, want 2", r.TotalPages)
	}

	r = NewPagedResult([]string{}, 0, NewPagination(1, 20))
	if r.TotalPages != 0 {
		t.Fatalf("TotalPages = %d, want 0", r.TotalPages)
	}
}
