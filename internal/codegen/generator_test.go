package codegen

import (
	"context"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/electwix/activeenum"
	"github.com/electwix/activeenum/internal/config"
)

func categoryPlan() config.EnumPlan {
	return config.EnumPlan{
		Name:   "category",
		Type:   "Category",
		Kind:   activeenum.KindString,
		DBType: "String(Some(1))",
		Column: activeenum.MustParseColumnType("String(Some(1))"),
		Variants: []config.VariantPlan{
			{Name: "Big", Value: "B", Label: "Big things"},
			{Name: "Small", Value: "S"},
		},
	}
}

func levelPlan() config.EnumPlan {
	return config.EnumPlan{
		Name: "level",
		Type: "Level",
		Kind: activeenum.KindUint8,
		Variants: []config.VariantPlan{
			{Name: "Low", Value: uint8(0)},
			{Name: "High", Value: uint8(200)},
		},
	}
}

func fileList(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func generate(t *testing.T, opts Options, enums ...config.EnumPlan) map[string]string {
	t.Helper()
	files, err := New(opts).Generate(context.Background(), enums)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	out := make(map[string]string, len(files))
	for _, f := range files {
		if _, err := parser.ParseFile(token.NewFileSet(), f.Path, f.Content, parser.ParseComments); err != nil {
			t.Fatalf("generated %s does not parse: %v\n%s", f.Path, err, f.Content)
		}
		out[f.Path] = string(f.Content)
	}
	return out
}

func TestGeneratorProducesDeterministicOutput(t *testing.T) {
	g := New(Options{Package: "store", Capabilities: activeenum.Capabilities{Arrays: true}, Workers: 2})
	enums := []config.EnumPlan{levelPlan(), categoryPlan()}

	ctx := context.Background()
	first, err := g.Generate(ctx, enums)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := g.Generate(ctx, enums)
	if err != nil {
		t.Fatalf("generate second: %v", err)
	}

	if diff := cmp.Diff([]string{"category_enum.go", "level_enum.go"}, fileList(first)); diff != "" {
		t.Fatalf("file list mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("output not deterministic (-first +second):\n%s", diff)
	}
}

func TestGeneratorStringEnum(t *testing.T) {
	files := generate(t, Options{Package: "store", Capabilities: activeenum.Capabilities{Arrays: true}}, categoryPlan())
	src, ok := files["category_enum.go"]
	if !ok {
		t.Fatalf("category_enum.go not emitted: %v", files)
	}

	if !strings.HasPrefix(src, "// "+Header+"\n") {
		t.Errorf("missing header:\n%s", src)
	}
	for _, want := range []string{
		"package store",
		"type Category int",
		"CategoryBig Category = iota",
		"CategorySmall\n",
		"activeenum.MustNew(activeenum.Definition[Category, string]{",
		`activeenum.MustParseColumnType("String(Some(1))")`,
		`"Big things"`,
		"activeenum.Register(categoryEnum)",
		"func CategoryEnum() *activeenum.Enum[Category, string] {",
		"func Categories() []Category {",
		"func (c Category) ToValue() string {",
		"func (c Category) Value() (driver.Value, error) {",
		"func (c *Category) Scan(src any) error {",
		"func (c *Category) UnmarshalText(text []byte) error {",
		"func (c Category) EncodeMsgpack(enc *msgpack.Encoder) error {",
		"func ScanCategories(row activeenum.Row, idx activeenum.ColIdx) ([]Category, error) {",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("output missing %q:\n%s", want, src)
		}
	}
}

func TestGeneratorArraysDisabled(t *testing.T) {
	files := generate(t, Options{}, categoryPlan())
	src := files["category_enum.go"]
	if !strings.Contains(src, "package enums") {
		t.Errorf("default package not applied:\n%s", src)
	}
	if strings.Contains(src, "ScanCategories") {
		t.Errorf("array scanner emitted without array support:\n%s", src)
	}
}

func TestGeneratorUnsignedEnum(t *testing.T) {
	files := generate(t, Options{Capabilities: activeenum.Capabilities{Arrays: true}}, levelPlan())
	src := files["level_enum.go"]
	for _, want := range []string{
		"activeenum.Definition[Level, uint8]{",
		"LevelHigh",
		"func Levels() []Level {",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("output missing %q:\n%s", want, src)
		}
	}
	if strings.Contains(src, "ScanLevels") {
		t.Errorf("unsigned enums must not get an array scanner:\n%s", src)
	}
}

func TestGeneratorErrors(t *testing.T) {
	dupValue := categoryPlan()
	dupValue.Variants[1].Value = "B"

	wrongType := categoryPlan()
	wrongType.Variants[0].Value = 1

	clash := config.EnumPlan{
		Name:     "category_big",
		Type:     "CategoryBig",
		Kind:     activeenum.KindInt32,
		Variants: []config.VariantPlan{{Name: "one", Value: int32(1)}},
	}

	tests := []struct {
		name  string
		enums []config.EnumPlan
		want  string
	}{
		{name: "duplicate value", enums: []config.EnumPlan{dupValue}, want: "category"},
		{name: "value type", enums: []config.EnumPlan{wrongType}, want: "is not a string"},
		{name: "declaration collision", enums: []config.EnumPlan{categoryPlan(), clash}, want: "collides with enum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Options{}).Generate(context.Background(), tt.enums)
			if err == nil {
				t.Fatal("Generate() error = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Generate() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestGeneratorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Options{}).Generate(ctx, []config.EnumPlan{categoryPlan()}); err == nil {
		t.Fatal("Generate() on canceled context returned nil error")
	}
}

func TestValidate(t *testing.T) {
	desc, err := Validate(levelPlan())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Low", "High"}, desc.Idents()); diff != "" {
		t.Errorf("Idents() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"0", "200"}, desc.ValueStrings()); diff != "" {
		t.Errorf("ValueStrings() mismatch (-want +got):\n%s", diff)
	}
}
