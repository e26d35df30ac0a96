package shape_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	fluentschema "github.com/reoring/fluentschema"
	g "github.com/reoring/fluentschema/dsl"
	"github.com/reoring/fluentschema/shape"
)

func TestIdentifier(t *testing.T) {
	cases := map[string]string{
		"user":         "User",
		"first_name":   "FirstName",
		"x-request-id": "XRequestId",
		"userID":       "UserID",
		"2 fa":         "N2Fa",
		"  ":           "",
	}
	for in, want := range cases {
		if got := shape.Identifier(in); got != want {
			t.Fatalf("Identifier(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExport_FlatRegistry(t *testing.T) {
	user := g.Object().
		Desc("A user.").
		Prop("id", g.Common.UUID.Copy().Location(g.LocationURI)).
		Prop("age", g.Integer().Min(0).AsInt32().Optional()).
		Prop("score", g.Number().AsFloat().Optional()).
		Prop("created_at", g.Common.Timestamp).
		Prop("avatar", g.Media().ContentMediaType("image/png").Max(1024).Optional()).
		Prop("tags", g.Array().Items(g.String().Enum("a", "b")).Max(5).Optional()).
		Prop("labels", g.Map().KeyPattern("[a-z]+").Value(g.Boolean()).Optional()).
		Prop("address", g.Object().Title("Address").Prop("city", g.String().Desc("City name.")).Optional())

	reg := shape.NewRegistry()
	root, err := shape.Export(user, reg, shape.Options{Name: "user"})
	if err != nil {
		t.Fatalf("export err: %v", err)
	}
	if root != "User" {
		t.Fatalf("root name: %q", root)
	}

	want := map[string]shape.Shape{
		"User": {
			Type:          shape.TypeStructure,
			Documentation: "A user.",
			Members: map[string]shape.Member{
				"id":         {Shape: "UserId", Required: true, Location: "uri", LocationName: "id"},
				"age":        {Shape: "UserAge"},
				"score":      {Shape: "UserScore"},
				"created_at": {Shape: "UserCreatedAt", Required: true},
				"avatar":     {Shape: "UserAvatar"},
				"tags":       {Shape: "UserTags"},
				"labels":     {Shape: "UserLabels"},
				"address":    {Shape: "Address"},
			},
		},
		"UserId": {
			Type:    shape.TypeString,
			Pattern: `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`,
		},
		"UserAge":         {Type: shape.TypeInteger, Min: int64(0), Max: g.MaxInt32},
		"UserScore":       {Type: shape.TypeFloat},
		"UserCreatedAt":   {Type: shape.TypeTimestamp},
		"UserAvatar":      {Type: shape.TypeBlob, Max: int64(1024)},
		"UserTags":        {Type: shape.TypeList, Max: int64(5), Member: &shape.Ref{Shape: "UserTagsMember"}},
		"UserTagsMember":  {Type: shape.TypeString, Enum: []string{"a", "b"}},
		"UserLabels":      {Type: shape.TypeMap, Key: &shape.Ref{Shape: "UserLabelsKey"}, Value: &shape.Ref{Shape: "UserLabelsValue"}},
		"UserLabelsKey":   {Type: shape.TypeString, Pattern: "[a-z]+"},
		"UserLabelsValue": {Type: shape.TypeBoolean},
		"Address": {
			Type:    shape.TypeStructure,
			Members: map[string]shape.Member{"city": {Shape: "AddressCity", Required: true, Documentation: "City name."}},
		},
		"AddressCity": {Type: shape.TypeString, Documentation: "City name."},
	}
	if got := reg.Shapes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("registry mismatch\n got=%#v\nwant=%#v", got, want)
	}
}

func TestExport_OmitDocumentation(t *testing.T) {
	reg := shape.NewRegistry()
	obj := g.Object().Desc("doc").Prop("a", g.Boolean().Desc("member doc"))
	if _, err := shape.Export(obj, reg, shape.Options{Name: "Thing", OmitDocumentation: true}); err != nil {
		t.Fatalf("export err: %v", err)
	}
	s, _ := reg.Lookup("Thing")
	if s.Documentation != "" || s.Members["a"].Documentation != "" {
		t.Fatalf("documentation not omitted: %+v", s)
	}
}

func TestExport_PatternObjectAsMap(t *testing.T) {
	reg := shape.NewRegistry()
	obj := g.Object().PatternProps(map[string]g.Node{"[0-9]+": g.Integer()}).Max(3)
	if _, err := shape.Export(obj, reg, shape.Options{Name: "Counts"}); err != nil {
		t.Fatalf("export err: %v", err)
	}
	s, ok := reg.Lookup("Counts")
	if !ok || s.Type != shape.TypeMap || s.Max != int64(3) {
		t.Fatalf("pattern object should be a map: %+v", s)
	}
	if k, _ := reg.Lookup("CountsKey"); k.Pattern != "^[0-9]+$" {
		t.Fatalf("key pattern: %+v", k)
	}
}

func TestExport_Errors(t *testing.T) {
	var me *fluentschema.MissingNameError
	if _, err := shape.Export(g.String(), shape.NewRegistry(), shape.Options{}); !errors.As(err, &me) {
		t.Fatalf("expected MissingNameError, got %v", err)
	}
	if _, err := shape.Export(g.String().Title("Named"), shape.NewRegistry(), shape.Options{}); err != nil {
		t.Fatalf("title should name the root: %v", err)
	}

	mixed := g.Object().Prop("a", g.String()).PatternProps(map[string]g.Node{"b.*": g.String()})
	if _, err := shape.Export(mixed, shape.NewRegistry(), shape.Options{Name: "M"}); !errors.Is(err, shape.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if _, err := shape.Export(g.Array(), shape.NewRegistry(), shape.Options{Name: "L"}); !errors.Is(err, shape.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for bare list, got %v", err)
	}
	var pe *fluentschema.PropertyAlreadySetError
	if _, err := shape.Export(g.String().Min(1).Min(1), shape.NewRegistry(), shape.Options{Name: "S"}); !errors.As(err, &pe) {
		t.Fatalf("expected recorded node error, got %v", err)
	}
	var ie *fluentschema.InvalidArgumentError
	if _, err := shape.Export(g.String(), nil, shape.Options{Name: "S"}); !errors.As(err, &ie) {
		t.Fatalf("expected InvalidArgumentError for nil container, got %v", err)
	}
}

func TestRegistry_Conflicts(t *testing.T) {
	reg := shape.NewRegistry()
	if err := reg.AddShape("A", shape.Shape{Type: shape.TypeString}); err != nil {
		t.Fatalf("add err: %v", err)
	}
	if err := reg.AddShape("A", shape.Shape{Type: shape.TypeString}); err != nil {
		t.Fatalf("identical re-add should be a no-op: %v", err)
	}
	if err := reg.AddShape("A", shape.Shape{Type: shape.TypeLong}); !errors.Is(err, shape.ErrShapeConflict) {
		t.Fatalf("expected ErrShapeConflict, got %v", err)
	}

	// two differently titled nodes collide on the same name
	obj := g.Object().
		Prop("a", g.String().Title("Shared")).
		Prop("b", g.Integer().Title("Shared"))
	if _, err := shape.Export(obj, shape.NewRegistry(), shape.Options{Name: "Root"}); !errors.Is(err, shape.ErrShapeConflict) {
		t.Fatalf("expected ErrShapeConflict from export, got %v", err)
	}

	if !reflect.DeepEqual(reg.Names(), []string{"A"}) {
		t.Fatalf("names: %v", reg.Names())
	}
	s := reg.Shapes()["A"]
	s.Type = "mutated"
	if got, _ := reg.Lookup("A"); got.Type != shape.TypeString {
		t.Fatalf("Shapes must return copies")
	}
}

func TestRegistry_SharedAcrossExports(t *testing.T) {
	user := g.Object().
		Title("User").
		Prop("id", g.Common.UUID).
		Prop("labels", g.Map().Value(g.String())).
		Lock()
	reg := shape.NewRegistry()
	errs := make([]error, 8)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = shape.Export(user, reg, shape.Options{})
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("export %d: %v", i, err)
		}
	}
	want := []string{"User", "UserId", "UserLabels", "UserLabelsKey", "UserLabelsValue"}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names mismatch\n got=%v\nwant=%v", got, want)
	}
}
