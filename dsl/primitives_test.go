package dsl_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	fluentschema "github.com/reoring/fluentschema"
	g "github.com/reoring/fluentschema/dsl"
)

func TestDesc_JoinsParts(t *testing.T) {
	a := g.String().Desc("a", "b", "c").Bag()["description"]
	b := g.String().Desc("a b c").Bag()["description"]
	if a != b || a != "a b c" {
		t.Fatalf("desc mismatch: %q vs %q", a, b)
	}
	c := g.String().Desc("  first line\n\t   second line  ").Bag()["description"]
	if c != "first line second line" {
		t.Fatalf("newline collapse failed: %q", c)
	}
}

func TestExamples_JoinsStringSlices(t *testing.T) {
	got := g.String().Examples([]string{"a", "long", "example"}, "b").Bag()["examples"]
	want := []any{"a long example", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("examples mismatch\n got=%v\nwant=%v", got, want)
	}

	got = g.String().Examples([]any{"decoded", "sequence"}, []any{"n", 1}).Bag()["examples"]
	want = []any{"decoded sequence", []any{"n", int64(1)}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("[]any examples mismatch\n got=%#v\nwant=%#v", got, want)
	}
}

func TestInteger_AsInt32InstallsBounds(t *testing.T) {
	n := g.Integer().AsInt32()
	if n.Err() != nil {
		t.Fatalf("AsInt32 err: %v", n.Err())
	}
	bag := n.Bag()
	if bag["minimum"] != int64(-2147483648) || bag["maximum"] != int64(2147483647) {
		t.Fatalf("unexpected bounds: %v..%v", bag["minimum"], bag["maximum"])
	}
	if n.Bits() != 32 {
		t.Fatalf("bits: %d", n.Bits())
	}
}

func TestInteger_AsInt32RejectsOutOfRange(t *testing.T) {
	var re *fluentschema.RangeInversionError
	if err := g.Integer().AsInt32().Max(2147483648).Err(); !errors.As(err, &re) {
		t.Fatalf("expected RangeInversionError, got %v", err)
	}
	if err := g.Integer().AsInt32().Min(-2147483649).Err(); !errors.As(err, &re) {
		t.Fatalf("expected RangeInversionError, got %v", err)
	}
	if err := g.Integer().Max(1 << 40).AsInt32().Err(); !errors.As(err, &re) {
		t.Fatalf("expected RangeInversionError for existing bound, got %v", err)
	}
}

func TestInteger_TightenSafeRange(t *testing.T) {
	n := g.Integer().AsInt32().Max(100)
	if n.Err() != nil {
		t.Fatalf("tighten err: %v", n.Err())
	}
	bag := n.Bag()
	if bag["maximum"] != int64(100) || bag["minimum"] != g.MinInt32 {
		t.Fatalf("unexpected bounds: %v..%v", bag["minimum"], bag["maximum"])
	}
	// an explicit bound is set once, even after tightening
	var pe *fluentschema.PropertyAlreadySetError
	if err := n.Max(50).Err(); !errors.As(err, &pe) {
		t.Fatalf("expected PropertyAlreadySetError, got %v", err)
	}

	pre := g.Integer().Max(10).AsInt32().Bag()
	if pre["maximum"] != int64(10) || pre["minimum"] != g.MinInt32 {
		t.Fatalf("existing bound overwritten: %v", pre)
	}
	var ae *fluentschema.PropertyAlreadySetError
	if err := g.Integer().AsInt32().AsInt64().Err(); !errors.As(err, &ae) {
		t.Fatalf("second safe range should fail, got %v", err)
	}
}

func TestBounds_CrossCheck(t *testing.T) {
	var re *fluentschema.RangeInversionError
	if err := g.Integer().Min(5).Max(3).Err(); !errors.As(err, &re) || re.Reason != "max must be more than min" {
		t.Fatalf("expected max-below-min inversion, got %v", err)
	}
	if err := g.Number().Max(3).Min(5).Err(); !errors.As(err, &re) || re.Reason != "min must be less than max" {
		t.Fatalf("expected min-above-max inversion, got %v", err)
	}
	if err := g.String().Min(4).Max(4).Err(); err != nil {
		t.Fatalf("equal bounds should be accepted: %v", err)
	}
	if err := g.Array().Min(3).Max(2).Err(); !errors.As(err, &re) {
		t.Fatalf("expected array inversion, got %v", err)
	}
}

func TestBounds_InvalidValues(t *testing.T) {
	cases := map[string]g.Node{
		"negative length": g.String().Min(-1),
		"negative items":  g.Array().Max(-2),
		"nan":             g.Number().Min(math.NaN()),
		"inf":             g.Number().Max(math.Inf(1)),
	}
	for name, n := range cases {
		var ie *fluentschema.InvalidArgumentError
		if !errors.As(n.Err(), &ie) {
			t.Fatalf("%s: expected InvalidArgumentError, got %v", name, n.Err())
		}
	}
}

func TestNumber_StoresFloatBounds(t *testing.T) {
	bag := g.Number().Min(0.5).Max(10).Bag()
	if bag["minimum"] != 0.5 || bag["maximum"] != 10.0 {
		t.Fatalf("unexpected bounds: %#v", bag)
	}
	f := g.Number().AsFloat()
	if !f.IsFloat() {
		t.Fatalf("AsFloat not recorded")
	}
	if !reflect.DeepEqual(f.Bag(), map[string]any{"type": "number"}) {
		t.Fatalf("AsFloat must not touch the bag: %v", f.Bag())
	}
}

func TestNumber_EnumRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		var ie *fluentschema.InvalidArgumentError
		if err := g.Number().Enum(1.5, v).Err(); !errors.As(err, &ie) {
			t.Fatalf("enum %v: expected InvalidArgumentError, got %v", v, err)
		}
	}
	if got := g.Number().Enum(0.5, 2).Bag()["enum"]; !reflect.DeepEqual(got, []any{0.5, 2.0}) {
		t.Fatalf("enum mismatch: %#v", got)
	}
}

func TestString_PatternAndEnum(t *testing.T) {
	var ie *fluentschema.InvalidArgumentError
	if err := g.String().Pattern("[").Err(); !errors.As(err, &ie) {
		t.Fatalf("expected InvalidArgumentError for bad pattern, got %v", err)
	}
	if err := g.String().Enum("a", "a").Err(); !errors.As(err, &ie) {
		t.Fatalf("expected InvalidArgumentError for duplicate enum, got %v", err)
	}
	if err := g.Integer().Enum().Err(); !errors.As(err, &ie) {
		t.Fatalf("expected InvalidArgumentError for empty enum, got %v", err)
	}
	got := g.Integer().Enum(1, 2).Bag()["enum"]
	if !reflect.DeepEqual(got, []any{int64(1), int64(2)}) {
		t.Fatalf("enum mismatch: %#v", got)
	}
}

func TestMedia_Validation(t *testing.T) {
	var ie *fluentschema.InvalidArgumentError
	if err := g.Media().ContentEncoding("gzip").Err(); !errors.As(err, &ie) {
		t.Fatalf("expected InvalidArgumentError for encoding, got %v", err)
	}
	if err := g.Media().ContentMediaType("not a type").Err(); !errors.As(err, &ie) {
		t.Fatalf("expected InvalidArgumentError for media type, got %v", err)
	}
	m := g.Media().ContentMediaType("application/json; charset=utf-8").ContentEncoding(g.EncodingUTF8).Max(1024)
	if m.Err() != nil {
		t.Fatalf("media err: %v", m.Err())
	}
	if m.Kind() != g.KindMedia || m.Bag()["type"] != "string" {
		t.Fatalf("media must export as string: %v", m.Bag())
	}
}

func TestBoolean_HasNoBounds(t *testing.T) {
	b := g.Boolean().Default(true).ReadOnly()
	if b.Err() != nil {
		t.Fatalf("boolean err: %v", b.Err())
	}
	want := map[string]any{"type": "boolean", "default": true, "readOnly": true}
	if !reflect.DeepEqual(b.Bag(), want) {
		t.Fatalf("boolean bag mismatch\n got=%v\nwant=%v", b.Bag(), want)
	}
}

func TestCommon_AreLockedAndCopyable(t *testing.T) {
	nodes := map[string]g.Node{
		"uuid":         g.Common.UUID,
		"alnum":        g.Common.Alnum,
		"email":        g.Common.Email,
		"timestamp":    g.Common.Timestamp,
		"epochSeconds": g.Common.EpochSeconds,
		"epochMillis":  g.Common.EpochMillis,
	}
	for name, n := range nodes {
		if n.Err() != nil {
			t.Fatalf("%s err: %v", name, n.Err())
		}
		if !n.IsLocked() {
			t.Fatalf("%s must be locked", name)
		}
	}
	var le *fluentschema.LockedSchemaError
	if err := g.Common.UUID.Optional().Err(); !errors.As(err, &le) {
		t.Fatalf("expected LockedSchemaError, got %v", err)
	}
	opt := g.Common.UUID.Copy().Optional()
	if opt.Err() != nil || !opt.IsOptional() {
		t.Fatalf("copy should accept Optional: %v", opt.Err())
	}
	if g.Common.UUID.IsOptional() {
		t.Fatalf("shared instance changed")
	}
	bag := g.Common.EpochMillis.Bag()
	if bag["minimum"] != int64(0) || bag["maximum"] != g.MaxInt64 {
		t.Fatalf("epoch bounds: %v..%v", bag["minimum"], bag["maximum"])
	}
}
