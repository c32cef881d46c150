package services

import (
	"testing"
	"time"

	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func clausesOf(t *testing.T, filter bson.M) []bson.M {
	t.Helper()
	clauses, ok := filter["$and"].([]bson.M)
	if !ok {
		t.Fatalf("filter has no $and clause list: %#v", filter)
	}
	return clauses
}

func findClause(clauses []bson.M, field string) (interface{}, bool) {
	for _, c := range clauses {
		if v, ok := c[field]; ok {
			return v, true
		}
	}
	return nil, false
}

func TestBuildFilterAlwaysExcludesDeleted(t *testing.T) {
	filter, err := BuildFilter(models.FilterRequest{}, time.UTC)
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	clauses := clausesOf(t, filter)
	if len(clauses) != 1 {
		t.Fatalf("empty request produced %d clauses", len(clauses))
	}
	if _, ok := findClause(clauses, "isDeleted"); !ok {
		t.Fatal("missing isDeleted clause")
	}
}

func TestBuildFilterRentPairReplacesPriceBounds(t *testing.T) {
	req := models.FilterRequest{PriceMin: 1, PriceMax: 2, MinRent: 10000, MaxRent: 20000}
	filter, err := BuildFilter(req, time.UTC)
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	v, ok := findClause(clausesOf(t, filter), "rentValue")
	if !ok {
		t.Fatal("missing rentValue clause")
	}
	rng := v.(bson.M)
	if rng["$gte"] != 10000.0 || rng["$lte"] != 20000.0 {
		t.Errorf("rentValue range = %v", rng)
	}
}

func TestBuildFilterSingleBound(t *testing.T) {
	filter, _ := BuildFilter(models.FilterRequest{PriceMax: 5000}, time.UTC)
	v, _ := findClause(clausesOf(t, filter), "rentValue")
	rng := v.(bson.M)
	if _, ok := rng["$gte"]; ok {
		t.Error("unset lower bound must not appear")
	}
	if rng["$lte"] != 5000.0 {
		t.Errorf("rentValue range = %v", rng)
	}
}

func TestBuildFilterEscapesUserText(t *testing.T) {
	req := models.FilterRequest{Search: "a.b (c", Location: "Sector 5*"}
	filter, err := BuildFilter(req, time.UTC)
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	clauses := clausesOf(t, filter)

	v, ok := findClause(clauses, "$or")
	if !ok {
		t.Fatal("search produced no $or clause")
	}
	var titles []string
	for _, c := range v.([]bson.M) {
		if re, ok := c["title"].(primitive.Regex); ok {
			titles = append(titles, re.Pattern)
		}
	}
	if len(titles) != 2 || titles[0] != `a\.b` || titles[1] != `\(c` {
		t.Errorf("title patterns = %q", titles)
	}
	v, _ = findClause(clauses, "address")
	if re := v.(primitive.Regex); re.Pattern != `Sector 5\*` || re.Options != "i" {
		t.Errorf("address regex = %+v", re)
	}
}

func TestBuildFilterSetsAndAmenities(t *testing.T) {
	req := models.FilterRequest{
		BHKs:      []string{"2BHK", " "},
		SubType:   []string{"Flat"},
		Amenities: []string{"Lift", "Gym"},
		Status:    "active",
	}
	filter, _ := BuildFilter(req, time.UTC)
	clauses := clausesOf(t, filter)

	v, _ := findClause(clauses, "bhk")
	if in := v.(bson.M)["$in"].([]string); len(in) != 1 || in[0] != "2BHK" {
		t.Errorf("bhk $in = %v", in)
	}
	if _, ok := findClause(clauses, "unitType"); !ok {
		t.Error("subType should filter unitType")
	}
	amenities := 0
	for _, c := range clauses {
		if _, ok := c["amenities"]; ok {
			amenities++
		}
	}
	if amenities != 2 {
		t.Errorf("amenity clauses = %d, want 2", amenities)
	}
	v, _ = findClause(clauses, "propertyCurrentStatus")
	if re := v.(primitive.Regex); re.Pattern != "^active$" || re.Options != "i" {
		t.Errorf("status regex = %+v", re)
	}
}

func TestBuildFilterListedOn(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	filter, err := BuildFilter(models.FilterRequest{ListedOn: "05/03/2024"}, loc)
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	v, _ := findClause(clausesOf(t, filter), "listedDate")
	rng := v.(bson.M)
	start := rng["$gte"].(time.Time)
	end := rng["$lt"].(time.Time)
	if want := time.Date(2024, 3, 5, 0, 0, 0, 0, loc); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if end.Sub(start) != 24*time.Hour {
		t.Errorf("window = %v", end.Sub(start))
	}

	_, err = BuildFilter(models.FilterRequest{ListedOn: "2024-03-05"}, loc)
	wantKind(t, err, utils.KindValidation)
}

func TestExcludeIDsAppendsClause(t *testing.T) {
	base, _ := BuildFilter(models.FilterRequest{}, time.UTC)
	id := primitive.NewObjectID()
	filter := excludeIDs(base, []string{id.Hex(), "bad"})
	clauses := clausesOf(t, filter)
	v, ok := findClause(clauses, "_id")
	if !ok {
		t.Fatal("missing _id clause")
	}
	nin := v.(bson.M)["$nin"].([]primitive.ObjectID)
	if len(nin) != 1 || nin[0] != id {
		t.Errorf("$nin = %v", nin)
	}
	if len(clausesOf(t, base)) != 1 {
		t.Error("excludeIDs must not mutate its input")
	}
	if got := excludeIDs(base, nil); len(clausesOf(t, got)) != 1 {
		t.Error("no ids should leave the filter unchanged")
	}
}
