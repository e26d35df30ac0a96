package dsl_test

import (
	"errors"
	"reflect"
	"testing"

	fluentschema "github.com/reoring/fluentschema"
	g "github.com/reoring/fluentschema/dsl"
)

func TestObject_RequiredByDefault(t *testing.T) {
	obj := g.Object().
		Prop("name", g.String()).
		Prop("age", g.Integer().Optional())
	doc := mustSchema(t, obj)

	if got := doc["required"]; !reflect.DeepEqual(got, []string{"name"}) {
		t.Fatalf("required mismatch: %v", got)
	}
	if doc["additionalProperties"] != false {
		t.Fatalf("additionalProperties should be false: %v", doc["additionalProperties"])
	}
	age := doc["properties"].(map[string]any)["age"].(map[string]any)
	if age["type"] != "integer" {
		t.Fatalf("age type: %v", age["type"])
	}
}

func TestObject_AdditionalProperties(t *testing.T) {
	empty := g.Object()
	if doc := mustSchema(t, empty); doc["additionalProperties"] != true {
		t.Fatalf("empty object must accept anything: %v", doc["additionalProperties"])
	}
	withProp := empty.Prop("a", g.String())
	if doc := mustSchema(t, withProp); doc["additionalProperties"] != false {
		t.Fatalf("object with props must be closed: %v", doc["additionalProperties"])
	}
	open := g.Object().Prop("a", g.String()).AllowAdditional()
	if !open.AllowsAdditional() {
		t.Fatalf("AllowAdditional not recorded")
	}
	if doc := mustSchema(t, open); doc["additionalProperties"] != true {
		t.Fatalf("AllowAdditional must export true: %v", doc["additionalProperties"])
	}
}

func TestObject_DuplicateProperty(t *testing.T) {
	obj := g.Object().Prop("a", g.String())
	dup := obj.Prop("a", g.Integer())
	var de *fluentschema.DuplicatePropertyError
	if !errors.As(dup.Err(), &de) || de.Name != "a" {
		t.Fatalf("expected DuplicatePropertyError, got %v", dup.Err())
	}
	if len(obj.Fields()) != 1 || obj.Err() != nil {
		t.Fatalf("receiver changed by failed attach")
	}
}

func TestObject_PropValidation(t *testing.T) {
	var ie *fluentschema.InvalidArgumentError
	if err := g.Object().Prop("", g.String()).Err(); !errors.As(err, &ie) {
		t.Fatalf("expected InvalidArgumentError for empty name, got %v", err)
	}
	if err := g.Object().Prop("a", nil).Err(); !errors.As(err, &ie) {
		t.Fatalf("expected InvalidArgumentError for nil child, got %v", err)
	}
	var le *fluentschema.LockedSchemaError
	if err := g.Object().Lock().Prop("a", g.String()).Err(); !errors.As(err, &le) {
		t.Fatalf("expected LockedSchemaError, got %v", err)
	}
}

func TestObject_PropsSortedAndAtomic(t *testing.T) {
	obj := g.Object().Props(map[string]g.Node{
		"b": g.String(),
		"a": g.Integer(),
		"c": g.Boolean().Optional(),
	})
	if obj.Err() != nil {
		t.Fatalf("props err: %v", obj.Err())
	}
	if got := obj.Required(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("required order: %v", got)
	}
	names := []string{}
	for _, f := range obj.Fields() {
		names = append(names, f.Name)
	}
	if !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Fatalf("field order: %v", names)
	}

	base := g.Object().Prop("b", g.String())
	failed := base.Props(map[string]g.Node{"a": g.String(), "b": g.String()})
	var de *fluentschema.DuplicatePropertyError
	if !errors.As(failed.Err(), &de) {
		t.Fatalf("expected DuplicatePropertyError, got %v", failed.Err())
	}
	if len(base.Fields()) != 1 {
		t.Fatalf("failed Props must not attach earlier entries: %d fields", len(base.Fields()))
	}
}

func TestObject_PatternProps(t *testing.T) {
	obj := g.Object().PatternProps(map[string]g.Node{"[a-z]+": g.String()})
	doc := mustSchema(t, obj)
	pp := doc["patternProperties"].(map[string]any)
	if _, ok := pp["^[a-z]+$"]; !ok {
		t.Fatalf("pattern not anchored: %v", pp)
	}
	if doc["additionalProperties"] != false {
		t.Fatalf("pattern object must be closed")
	}
	if _, ok := doc["required"]; ok {
		t.Fatalf("pattern properties are never required")
	}

	dup := obj.PatternProps(map[string]g.Node{"^[a-z]+$": g.Integer()})
	var de *fluentschema.DuplicatePatternError
	if !errors.As(dup.Err(), &de) || de.Pattern != "^[a-z]+$" {
		t.Fatalf("expected DuplicatePatternError, got %v", dup.Err())
	}
	var ie *fluentschema.InvalidArgumentError
	if err := g.Object().PatternProps(map[string]g.Node{"(": g.String()}).Err(); !errors.As(err, &ie) {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}
}

func TestObject_PropertyCountBounds(t *testing.T) {
	bag := g.Object().Min(1).Max(3).Bag()
	if bag["minProperties"] != int64(1) || bag["maxProperties"] != int64(3) {
		t.Fatalf("count bounds: %v", bag)
	}
}

func TestArray_Items(t *testing.T) {
	item := g.String()
	arr := g.Array().Items(item).Min(1)
	if arr.Err() != nil {
		t.Fatalf("array err: %v", arr.Err())
	}
	if !item.IsLocked() {
		t.Fatalf("item schema must be locked")
	}
	var ie *fluentschema.ItemsAlreadySetError
	if err := arr.Items(g.Integer()).Err(); !errors.As(err, &ie) {
		t.Fatalf("expected ItemsAlreadySetError, got %v", err)
	}
	doc := mustSchema(t, arr)
	if items := doc["items"].(map[string]any); items["type"] != "string" {
		t.Fatalf("items: %v", items)
	}
	if g.Array().Item() != nil {
		t.Fatalf("item should be nil before Items")
	}
	if _, ok := mustSchema(t, g.Array())["items"]; ok {
		t.Fatalf("bare array must not export items")
	}
}

func TestContainers_RejectSelfAttach(t *testing.T) {
	var ie *fluentschema.InvalidArgumentError

	o := g.Object()
	if err := o.Prop("self", o).Err(); !errors.As(err, &ie) {
		t.Fatalf("Prop: expected InvalidArgumentError, got %v", err)
	}
	if err := o.Props(map[string]g.Node{"a": g.String(), "self": o}).Err(); !errors.As(err, &ie) {
		t.Fatalf("Props: expected InvalidArgumentError, got %v", err)
	}
	if err := o.PatternProps(map[string]g.Node{"x-.*": o}).Err(); !errors.As(err, &ie) {
		t.Fatalf("PatternProps: expected InvalidArgumentError, got %v", err)
	}
	if o.IsLocked() || len(o.Fields()) != 0 || len(o.PatternFields()) != 0 {
		t.Fatalf("receiver changed: locked=%v fields=%d patterns=%d", o.IsLocked(), len(o.Fields()), len(o.PatternFields()))
	}
	if doc := mustSchema(t, o); doc["additionalProperties"] != true {
		t.Fatalf("object still exports as empty: %v", doc)
	}

	a := g.Array()
	if err := a.Items(a).Err(); !errors.As(err, &ie) {
		t.Fatalf("Items: expected InvalidArgumentError, got %v", err)
	}
	if a.IsLocked() || a.Item() != nil {
		t.Fatalf("array changed: locked=%v", a.IsLocked())
	}
	mustSchema(t, a)

	m := g.Map()
	if err := m.Value(m).Err(); !errors.As(err, &ie) {
		t.Fatalf("Value: expected InvalidArgumentError, got %v", err)
	}
	if m.IsLocked() || m.ValueSchema() != nil {
		t.Fatalf("map changed: locked=%v", m.IsLocked())
	}
}

func TestObject_FailedBatchLeavesChildrenUnlocked(t *testing.T) {
	a := g.String()
	base := g.Object().Prop("b", g.String())
	if err := base.Props(map[string]g.Node{"a": a, "b": g.String()}).Err(); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if a.IsLocked() {
		t.Fatalf("child of a failed Props must stay unlocked")
	}

	s := g.String()
	var me *fluentschema.MissingValueSchemaError
	if err := g.Object().Props(map[string]g.Node{"a": s, "b": g.Map()}).Err(); !errors.As(err, &me) {
		t.Fatalf("expected MissingValueSchemaError, got %v", err)
	}
	if s.IsLocked() {
		t.Fatalf("child checked before a failing map must stay unlocked")
	}

	p := g.Integer()
	if err := g.Object().PatternProps(map[string]g.Node{"a": p, "^a$": g.String()}).Err(); err == nil {
		t.Fatalf("expected duplicate pattern error")
	}
	if p.IsLocked() {
		t.Fatalf("child of a failed PatternProps must stay unlocked")
	}

	ok := g.Object().Props(map[string]g.Node{"a": a})
	if ok.Err() != nil || !a.IsLocked() {
		t.Fatalf("successful Props must lock its children: err=%v locked=%v", ok.Err(), a.IsLocked())
	}
}
