package services

import (
	"testing"

	"github.com/citynect/property-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnrich(t *testing.T) {
	plain := models.Property{ID: primitive.NewObjectID(), Name: "Owner A", Number: "9876543210"}
	contacted := models.Property{ID: primitive.NewObjectID(), Name: "Owner B", Number: "9000000001"}
	hidden := models.Property{ID: primitive.NewObjectID()}

	v := Viewer{
		Saved:     map[string]bool{plain.ID.Hex(): true},
		Contacted: map[string]bool{contacted.ID.Hex(): true},
		Statuses:  map[string]string{hidden.ID.Hex(): models.StatusBroker, contacted.ID.Hex(): models.StatusActive},
		Remarks:   map[string]string{contacted.ID.Hex(): "call after 6"},
		Excluded:  DefaultPolicy().excludedSet(),
	}

	views := Enrich([]models.Property{plain, contacted, hidden}, v)
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2 (excluded one dropped)", len(views))
	}

	first := views[0]
	if first.Status != models.StatusActive || first.Remark != nil || first.IsSaved != 1 {
		t.Errorf("plain view = %+v", first)
	}
	if first.Name != "0" || first.Number != "0" {
		t.Errorf("uncontacted contact not masked: %q/%q", first.Name, first.Number)
	}

	second := views[1]
	if second.Name != "Owner B" || second.Number != "9000000001" {
		t.Errorf("contacted contact not revealed: %q/%q", second.Name, second.Number)
	}
	if second.Remark == nil || *second.Remark != "call after 6" || second.IsSaved != 0 {
		t.Errorf("contacted view = %+v", second)
	}
}

func TestEnrichPrivilegedViewerGetsSynthesizedNumber(t *testing.T) {
	p := models.Property{ID: primitive.NewObjectID(), Name: "Owner", Number: "9876543210"}
	v := Viewer{
		Contacted:    map[string]bool{p.ID.Hex(): true},
		Privileged:   true,
		RandomNumber: func() string { return "9111111111" },
	}
	views := Enrich([]models.Property{p}, v)
	if views[0].Number != "9111111111" || views[0].Name != "Owner" {
		t.Errorf("privileged view = %q/%q", views[0].Name, views[0].Number)
	}

	v.Contacted = nil
	views = Enrich([]models.Property{p}, v)
	if views[0].Number != "0" {
		t.Errorf("uncontacted privileged view number = %q, want 0", views[0].Number)
	}
}

func TestEnrichEmptyInput(t *testing.T) {
	views := Enrich(nil, Viewer{})
	if views == nil || len(views) != 0 {
		t.Fatalf("views = %#v", views)
	}
}
