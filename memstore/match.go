package memstore

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Match evaluates the subset of the MongoDB query language the services emit
// against a document: $and, $or, $in, $nin, $eq, $ne, $gt, $gte, $lt, $lte,
// $exists and regular expressions.
func Match(doc interface{}, filter bson.M) (bool, error) {
	fields, err := toDocument(doc)
	if err != nil {
		return false, err
	}
	return matchDocument(fields, filter)
}

func toDocument(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return out, nil
}

func matchDocument(doc bson.M, filter bson.M) (bool, error) {
	for key, cond := range filter {
		var ok bool
		var err error
		switch key {
		case "$and":
			ok, err = matchAll(doc, cond, true)
		case "$or":
			ok, err = matchAll(doc, cond, false)
		default:
			ok, err = matchField(lookup(doc, key), cond)
		}
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchAll(doc bson.M, cond interface{}, all bool) (bool, error) {
	subs, err := filterList(cond)
	if err != nil {
		return false, err
	}
	for _, sub := range subs {
		ok, err := matchDocument(doc, sub)
		if err != nil {
			return false, err
		}
		if all && !ok {
			return false, nil
		}
		if !all && ok {
			return true, nil
		}
	}
	return all, nil
}

func filterList(cond interface{}) ([]bson.M, error) {
	switch v := cond.(type) {
	case []bson.M:
		return v, nil
	case bson.A:
		return interfaceFilters(v)
	case []interface{}:
		return interfaceFilters(v)
	}
	return nil, fmt.Errorf("unsupported logical operand %T", cond)
}

func interfaceFilters(items []interface{}) ([]bson.M, error) {
	out := make([]bson.M, 0, len(items))
	for _, item := range items {
		m, ok := item.(bson.M)
		if !ok {
			return nil, fmt.Errorf("unsupported logical operand element %T", item)
		}
		out = append(out, m)
	}
	return out, nil
}

// lookup resolves dotted paths. A missing field is nil.
func lookup(doc bson.M, path string) interface{} {
	var cur interface{} = doc
	for _, part := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case bson.M:
			cur = m[part]
		case bson.D:
			cur = m.Map()[part]
		default:
			return nil
		}
	}
	return cur
}

func matchField(value interface{}, cond interface{}) (bool, error) {
	if re, ok := cond.(primitive.Regex); ok {
		return matchRegex(value, re)
	}
	ops, ok := cond.(bson.M)
	if !ok || !isOperatorDoc(ops) {
		return equalOrContains(value, cond), nil
	}

	for op, arg := range ops {
		var ok bool
		switch op {
		case "$eq":
			ok = equalOrContains(value, arg)
		case "$ne":
			ok = !equalOrContains(value, arg)
		case "$in":
			ok = inList(value, arg)
		case "$nin":
			ok = !inList(value, arg)
		case "$gt", "$gte", "$lt", "$lte":
			ok = compare(value, arg, op)
		case "$exists":
			want, _ := arg.(bool)
			ok = (value != nil) == want
		case "$regex":
			re, isRegex := arg.(primitive.Regex)
			if !isRegex {
				re = primitive.Regex{Pattern: fmt.Sprint(arg)}
			}
			m, err := matchRegex(value, re)
			if err != nil {
				return false, err
			}
			ok = m
		default:
			return false, fmt.Errorf("unsupported operator %s", op)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func isOperatorDoc(m bson.M) bool {
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return false
		}
	}
	return len(m) > 0
}

func matchRegex(value interface{}, re primitive.Regex) (bool, error) {
	pattern := re.Pattern
	if strings.Contains(re.Options, "i") {
		pattern = "(?i)" + pattern
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("compile %q: %w", re.Pattern, err)
	}
	for _, v := range elements(value) {
		if s, ok := v.(string); ok && compiled.MatchString(s) {
			return true, nil
		}
	}
	return false, nil
}

// elements returns the members of an array value, or the value itself.
func elements(value interface{}) []interface{} {
	switch v := value.(type) {
	case bson.A:
		return v
	case []interface{}:
		return v
	}
	return []interface{}{value}
}

func equalOrContains(value, want interface{}) bool {
	for _, v := range elements(value) {
		if equal(v, want) {
			return true
		}
	}
	return false
}

func inList(value, list interface{}) bool {
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if equalOrContains(value, rv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

func equal(a, b interface{}) bool {
	na, aNum := number(a)
	nb, bNum := number(b)
	if aNum && bNum {
		return na == nb
	}
	if aNum != bNum {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func compare(value, arg interface{}, op string) bool {
	a, ok := number(value)
	if !ok {
		as, aStr := value.(string)
		bs, bStr := arg.(string)
		if !aStr || !bStr {
			return false
		}
		return ordered(strings.Compare(as, bs), op)
	}
	b, ok := number(arg)
	if !ok {
		return false
	}
	switch {
	case a < b:
		return ordered(-1, op)
	case a > b:
		return ordered(1, op)
	}
	return ordered(0, op)
}

func ordered(cmp int, op string) bool {
	switch op {
	case "$gt":
		return cmp > 0
	case "$gte":
		return cmp >= 0
	case "$lt":
		return cmp < 0
	case "$lte":
		return cmp <= 0
	}
	return false
}

// number normalises numeric and date values so they compare across the
// types the driver produces after a round trip.
func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case time.Time:
		return float64(n.UnixMilli()), true
	case primitive.DateTime:
		return float64(n), true
	}
	return 0, false
}
