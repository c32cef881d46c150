package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/repository"
	"github.com/citynect/property-backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const listedOnLayout = "02/01/2006"

// BuildFilter turns a search request into one MongoDB predicate. All user
// text is escaped, so search terms match literally.
func BuildFilter(req models.FilterRequest, loc *time.Location) (bson.M, error) {
	clauses := []bson.M{notDeleted()}

	if t := strings.TrimSpace(req.Type); t != "" {
		clauses = append(clauses, bson.M{"type": t})
	}
	if l := strings.TrimSpace(req.Location); l != "" {
		clauses = append(clauses, bson.M{"address": contains(l)})
	}

	minRent, maxRent := req.PriceMin, req.PriceMax
	if req.MinRent.IsSet() || req.MaxRent.IsSet() {
		minRent, maxRent = req.MinRent, req.MaxRent
	}
	if rng := between(minRent, maxRent); rng != nil {
		clauses = append(clauses, bson.M{"rentValue": rng})
	}
	if rng := between(req.MinSqFt, req.MaxSqFt); rng != nil {
		clauses = append(clauses, bson.M{"sqFt": rng})
	}

	sets := []struct {
		field  string
		values []string
	}{
		{"area", req.Areas},
		{"bhk", req.BHKs},
		{"furnishedType", req.FurnishedTypes},
		{"unitType", req.SubType},
	}
	for _, set := range sets {
		if in := nonEmpty(set.values); len(in) > 0 {
			clauses = append(clauses, bson.M{set.field: bson.M{"$in": in}})
		}
	}

	// Any search word may match the title.
	if words := strings.Fields(req.Search); len(words) > 0 {
		anyWord := make([]bson.M, len(words))
		for i, word := range words {
			anyWord[i] = bson.M{"title": contains(word)}
		}
		clauses = append(clauses, bson.M{"$or": anyWord})
	}
	for _, amenity := range nonEmpty(req.Amenities) {
		clauses = append(clauses, bson.M{"amenities": primitive.Regex{
			Pattern: `\b` + regexp.QuoteMeta(amenity) + `\b`,
			Options: "i",
		}})
	}

	if s := strings.TrimSpace(req.Status); s != "" {
		clauses = append(clauses, bson.M{"propertyCurrentStatus": primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(s) + "$",
			Options: "i",
		}})
	}

	if d := strings.TrimSpace(req.ListedOn); d != "" {
		day, err := time.ParseInLocation(listedOnLayout, d, loc)
		if err != nil {
			return nil, utils.Validation("listedOn must be DD/MM/YYYY")
		}
		clauses = append(clauses, bson.M{"listedDate": bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)}})
	}

	return bson.M{"$and": clauses}, nil
}

// excludeIDs narrows filter so the given property ids never match.
func excludeIDs(filter bson.M, ids []string) bson.M {
	oids := repository.ObjectIDs(ids)
	if len(oids) == 0 {
		return filter
	}
	clauses, _ := filter["$and"].([]bson.M)
	out := make([]bson.M, 0, len(clauses)+1)
	out = append(out, clauses...)
	out = append(out, bson.M{"_id": bson.M{"$nin": oids}})
	return bson.M{"$and": out}
}

func notDeleted() bson.M {
	return bson.M{"isDeleted": bson.M{"$ne": 1}}
}

func contains(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func between(min, max models.FlexFloat) bson.M {
	if !min.IsSet() && !max.IsSet() {
		return nil
	}
	rng := bson.M{}
	if min.IsSet() {
		rng["$gte"] = float64(min)
	}
	if max.IsSet() {
		rng["$lte"] = float64(max)
	}
	return rng
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
