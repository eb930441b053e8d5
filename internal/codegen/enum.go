package codegen

import (
	"fmt"
	"math"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/electwix/activeenum"
	"github.com/electwix/activeenum/internal/config"
	"github.com/electwix/activeenum/internal/ident"
)

const (
	runtimePkg = "github.com/electwix/activeenum"
	msgpackPkg = "github.com/vmihailenco/msgpack/v5"
	driverPkg  = "database/sql/driver"
)

// enumModel holds the names derived for one enum.
type enumModel struct {
	plan   config.EnumPlan
	idents []string

	typeName string
	varName  string
	accessor string
	plural   string
	// arrays and scanFunc are empty unless native arrays can be decoded.
	arrays   string
	scanFunc string
	path     string
}

func newEnumModel(ep config.EnumPlan, caps activeenum.Capabilities) (*enumModel, error) {
	desc, err := Validate(ep)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(ep.Type[:1]) + ep.Type[1:]
	m := &enumModel{
		plan:     ep,
		idents:   desc.Idents(),
		typeName: ep.Type,
		varName:  lower + "Enum",
		accessor: ep.Type + "Enum",
		plural:   inflect.Pluralize(ep.Type),
		path:     ident.FileName(ep.Type) + "_enum.go",
	}
	if m.plural == ep.Type {
		m.plural = ep.Type + "Values"
	}
	if caps.Arrays && !ep.Kind.IsUnsigned() {
		m.arrays = lower + "Arrays"
		m.scanFunc = "Scan" + m.plural
	}
	return m, nil
}

// declarations lists the package-level names the enum's file declares.
func (m *enumModel) declarations() []string {
	names := []string{m.typeName, m.varName, m.accessor, m.plural}
	if m.scanFunc != "" {
		names = append(names, m.arrays, m.scanFunc)
	}
	for _, id := range m.idents {
		names = append(names, m.typeName+id)
	}
	return names
}

func (m *enumModel) repr() *jen.Statement {
	return jen.Id(m.plan.Kind.String())
}

func (m *enumModel) file(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(Header)
	f.ImportName(runtimePkg, "activeenum")
	f.ImportName(msgpackPkg, "msgpack")

	t := m.typeName
	recv := ident.Receiver(t)

	f.Commentf("%s is the %q enum.", t, m.plan.Name)
	f.Type().Id(t).Int()

	consts := make([]jen.Code, len(m.idents))
	for i, id := range m.idents {
		c := jen.Id(t + id)
		if i == 0 {
			c.Id(t).Op("=").Iota()
		}
		consts[i] = c
	}
	f.Const().Defs(consts...)

	variants := make([]jen.Code, len(m.plan.Variants))
	for i, v := range m.plan.Variants {
		d := jen.Dict{
			jen.Id("Variant"): jen.Id(t + m.idents[i]),
			jen.Id("Value"):   valueLit(v.Value),
		}
		if v.Name != "" {
			d[jen.Id("Name")] = jen.Lit(v.Name)
		}
		if v.Label != "" {
			d[jen.Id("Label")] = jen.Lit(v.Label)
		}
		variants[i] = jen.Values(d)
	}
	def := jen.Dict{
		jen.Id("Name"):  jen.Lit(m.plan.Name),
		jen.Id("Ident"): jen.Lit(t),
		jen.Id("Variants"): jen.Index().Qual(runtimePkg, "Variant").Types(jen.Id(t), m.repr()).Custom(
			jen.Options{Open: "{", Close: "}", Separator: ",", Multi: true},
			variants...,
		),
	}
	if m.plan.DBType != "" {
		def[jen.Id("Column")] = jen.Qual(runtimePkg, "MustParseColumnType").Call(jen.Lit(m.plan.DBType))
	}
	f.Var().Id(m.varName).Op("=").Qual(runtimePkg, "MustNew").Call(
		jen.Qual(runtimePkg, "Definition").Types(jen.Id(t), m.repr()).Values(def),
	)

	f.Func().Id("init").Params().Block(
		jen.Qual(runtimePkg, "Register").Call(jen.Id(m.varName)),
	)

	f.Commentf("%s returns the codec of %s.", m.accessor, t)
	f.Func().Id(m.accessor).Params().Op("*").Qual(runtimePkg, "Enum").Types(jen.Id(t), m.repr()).Block(
		jen.Return(jen.Id(m.varName)),
	)

	f.Commentf("%s returns every %s in declaration order.", m.plural, t)
	f.Func().Id(m.plural).Params().Index().Id(t).Block(
		jen.Return(jen.Id(m.varName).Dot("Variants").Call()),
	)

	value := func(name string) *jen.Statement {
		return f.Func().Params(jen.Id(recv).Id(t)).Id(name)
	}
	pointer := func(name string) *jen.Statement {
		return f.Func().Params(jen.Id(recv).Op("*").Id(t)).Id(name)
	}
	call := func(method string, args ...jen.Code) *jen.Statement {
		return jen.Id(m.varName).Dot(method).Call(args...)
	}
	assign := func(method string, args ...jen.Code) []jen.Code {
		return []jen.Code{
			jen.List(jen.Id("decoded"), jen.Err()).Op(":=").Add(call(method, args...)),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
			jen.Op("*").Id(recv).Op("=").Id("decoded"),
			jen.Return(jen.Nil()),
		}
	}

	f.Comment("ToValue returns the persisted representation.")
	value("ToValue").Params().Add(m.repr()).Block(jen.Return(call("ToValue", jen.Id(recv))))

	f.Comment("String returns the display label.")
	value("String").Params().String().Block(jen.Return(call("Label", jen.Id(recv))))

	f.Commentf("AsEnum returns the representation cast to the %s database type.", m.plan.Name)
	value("AsEnum").Params().Qual(runtimePkg, "CastExpr").Block(jen.Return(call("AsEnum", jen.Id(recv))))

	f.Comment("Value implements driver.Valuer.")
	value("Value").Params().Params(jen.Qual(driverPkg, "Value"), jen.Error()).Block(
		jen.Return(call("DriverValue", jen.Id(recv))),
	)

	f.Comment("Scan implements sql.Scanner.")
	pointer("Scan").Params(jen.Id("src").Any()).Error().Block(assign("Scan", jen.Id("src"))...)

	f.Comment("MarshalText implements encoding.TextMarshaler.")
	value("MarshalText").Params().Params(jen.Index().Byte(), jen.Error()).Block(
		jen.Return(call("MarshalText", jen.Id(recv))),
	)

	f.Comment("UnmarshalText implements encoding.TextUnmarshaler.")
	pointer("UnmarshalText").Params(jen.Id("text").Index().Byte()).Error().Block(assign("UnmarshalText", jen.Id("text"))...)

	f.Comment("EncodeMsgpack implements msgpack.CustomEncoder.")
	value("EncodeMsgpack").Params(jen.Id("enc").Op("*").Qual(msgpackPkg, "Encoder")).Error().Block(
		jen.Return(call("EncodeMsgpack", jen.Id("enc"), jen.Id(recv))),
	)

	f.Comment("DecodeMsgpack implements msgpack.CustomDecoder.")
	pointer("DecodeMsgpack").Params(jen.Id("dec").Op("*").Qual(msgpackPkg, "Decoder")).Error().Block(assign("DecodeMsgpack", jen.Id("dec"))...)

	if m.scanFunc != "" {
		f.Var().Id(m.arrays).Op("=").Qual(runtimePkg, "NewArrayDecoder").Types(m.repr()).Call(
			jen.Qual(runtimePkg, "ArrayOptions").Values(jen.Dict{
				jen.Id("Capabilities"): jen.Qual(runtimePkg, "Capabilities").Values(jen.Dict{
					jen.Id("Arrays"): jen.True(),
				}),
			}),
		)
		f.Commentf("%s decodes the native array at column idx of row.", m.scanFunc)
		f.Func().Id(m.scanFunc).Params(
			jen.Id("row").Qual(runtimePkg, "Row"),
			jen.Id("idx").Qual(runtimePkg, "ColIdx"),
		).Params(jen.Index().Id(t), jen.Error()).Block(
			jen.Return(call("TryGetVec", jen.Id(m.arrays), jen.Id("row"), jen.Id("idx"))),
		)
	}
	return f
}

// valueLit renders v as an untyped constant so it converts to the enum's
// representation type.
func valueLit(v any) jen.Code {
	switch v := v.(type) {
	case string:
		return jen.Lit(v)
	case int8:
		return jen.Lit(int(v))
	case int16:
		return jen.Lit(int(v))
	case int32:
		return jen.Lit(int(v))
	case int64:
		if v >= math.MinInt && v <= math.MaxInt {
			return jen.Lit(int(v))
		}
	case uint8:
		return jen.Lit(int(v))
	case uint16:
		return jen.Lit(int(v))
	case uint32:
		if uint64(v) <= math.MaxInt {
			return jen.Lit(int(v))
		}
	case uint64:
		if v <= math.MaxInt {
			return jen.Lit(int(v))
		}
	}
	return jen.Lit(v)
}

// Validate builds the runtime codec of ep, reporting the same errors the
// generated code would raise at init time.
func Validate(ep config.EnumPlan) (activeenum.Descriptor, error) {
	switch ep.Kind {
	case activeenum.KindString:
		return build[string](ep)
	case activeenum.KindInt8:
		return build[int8](ep)
	case activeenum.KindInt16:
		return build[int16](ep)
	case activeenum.KindInt32:
		return build[int32](ep)
	case activeenum.KindInt64:
		return build[int64](ep)
	case activeenum.KindUint8:
		return build[uint8](ep)
	case activeenum.KindUint16:
		return build[uint16](ep)
	case activeenum.KindUint32:
		return build[uint32](ep)
	case activeenum.KindUint64:
		return build[uint64](ep)
	}
	return nil, fmt.Errorf("enum %q: invalid representation kind %v", ep.Name, ep.Kind)
}

func build[R activeenum.Representation](ep config.EnumPlan) (activeenum.Descriptor, error) {
	def := activeenum.Definition[int, R]{
		Name:     ep.Name,
		Ident:    ep.Type,
		Column:   ep.Column,
		Variants: make([]activeenum.Variant[int, R], 0, len(ep.Variants)),
	}
	for i, v := range ep.Variants {
		value, ok := v.Value.(R)
		if !ok {
			return nil, fmt.Errorf("enum %q: variant %d: value %v is not a %s", ep.Name, i, v.Value, ep.Kind)
		}
		def.Variants = append(def.Variants, activeenum.Variant[int, R]{
			Variant: i,
			Name:    v.Name,
			Value:   value,
			Label:   v.Label,
		})
	}
	e, err := activeenum.New(def)
	if err != nil {
		return nil, err
	}
	return e, nil
}
