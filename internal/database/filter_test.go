// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package database

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilterBSON_FacetSemantics(t *testing.T) {
	f := Filter{
		Genres:     []string{"drama", "thriller"},
		Countries:  []string{"jp", "kr"},
		Years:      []string{"2025"},
		Formats:    []string{"tv"},
		PublicOnly: true,
	}

	q := f.bson()

	// Genres refine: containment of the full requested set.
	if got := q["genres.id"]; !reflect.DeepEqual(got, bson.M{"$all": []string{"drama", "thriller"}}) {
		t.Errorf("genres predicate = %#v, want $all containment", got)
	}

	// Countries broaden: membership in the requested set.
	if got := q["countries.id"]; !reflect.DeepEqual(got, bson.M{"$in": []string{"jp", "kr"}}) {
		t.Errorf("countries predicate = %#v, want $in membership", got)
	}
	if got := q["years.id"]; !reflect.DeepEqual(got, bson.M{"$in": []string{"2025"}}) {
		t.Errorf("years predicate = %#v, want $in membership", got)
	}
	if got := q["formats.id"]; !reflect.DeepEqual(got, bson.M{"$in": []string{"tv"}}) {
		t.Errorf("formats predicate = %#v, want $in membership", got)
	}

	if got := q["public"]; got != true {
		t.Errorf("public guard = %#v, want true", got)
	}
}

func TestFilterBSON_ExcludeSlugs(t *testing.T) {
	f := Filter{ExcludeSlugs: []string{"s1", "s2"}}

	q := f.bson()

	if got := q["slug"]; !reflect.DeepEqual(got, bson.M{"$nin": []string{"s1", "s2"}}) {
		t.Errorf("slug predicate = %#v, want $nin exclusion", got)
	}
}

func TestFilterBSON_SearchEscapesRegexMeta(t *testing.T) {
	f := Filter{Search: "a.b(c"}

	q := f.bson()

	or, ok := q["$or"].(bson.A)
	if !ok {
		t.Fatalf("$or clause missing, got %#v", q)
	}
	if len(or) != 5 {
		t.Fatalf("$or spans %d fields, want 5 (name, orig_name, description, director, cast)", len(or))
	}

	first, ok := or[0].(bson.M)
	if !ok {
		t.Fatalf("$or entry has unexpected shape: %#v", or[0])
	}
	re, ok := first["name"].(primitive.Regex)
	if !ok {
		t.Fatalf("name predicate is not a regex: %#v", first["name"])
	}
	if re.Pattern != `a\.b\(c` {
		t.Errorf("regex pattern = %q, metacharacters not escaped", re.Pattern)
	}
	if re.Options != "i" {
		t.Errorf("regex options = %q, want case-insensitive", re.Options)
	}
}

func TestFilterBSON_ZeroFilter(t *testing.T) {
	q := Filter{}.bson()
	if len(q) != 0 {
		t.Errorf("zero filter renders %#v, want empty document", q)
	}
	if !(Filter{}).Empty() {
		t.Error("zero filter should report Empty")
	}
	if (Filter{Genres: []string{"drama"}}).Empty() {
		t.Error("genre filter should not report Empty")
	}
	// Exclusion alone does not make a filter non-empty.
	if !(Filter{ExcludeSlugs: []string{"x"}}).Empty() {
		t.Error("exclusion-only filter should report Empty")
	}
}

func TestSortBSON(t *testing.T) {
	tests := []struct {
		sort  Sort
		first string
	}{
		{SortLatest, "modified"},
		{SortViews, "views"},
		{SortRating, "rating"},
		{SortYearLatest, "years.id"},
	}

	for _, tt := range tests {
		t.Run(tt.sort.String(), func(t *testing.T) {
			d := tt.sort.bson()
			if len(d) == 0 || d[0].Key != tt.first {
				t.Errorf("sort %v leads with %q, want %q", tt.sort, d[0].Key, tt.first)
			}
			if d[0].Value != -1 {
				t.Errorf("sort %v direction = %v, want descending", tt.sort, d[0].Value)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		key  string
		want Sort
	}{
		{"views", SortViews},
		{"rating", SortRating},
		{"latest", SortLatest},
		{"", SortLatest},
		{"bogus", SortLatest},
	}

	for _, tt := range tests {
		if got := ParseSort(tt.key); got != tt.want {
			t.Errorf("ParseSort(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
