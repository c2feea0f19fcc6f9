package bp

import (
	"github.com/tidwall/gjson"

	"github.com/Werneck0live/cadastro-parceiros/internal/catalog"
)

var emptyObject = gjson.Parse(`{}`)

// MapAPIToForm flattens a partner resource (raw JSON) into form values.
// Invalid or non-object input yields a blank form.
func MapAPIToForm(raw []byte) FormValues {
	v, _ := MapAPIToFormWithDiagnostics(raw)
	return v
}

// MapAPIToFormWithDiagnostics is MapAPIToForm plus the record of which
// fields were defaulted and which codes were not recognized.
func MapAPIToFormWithDiagnostics(raw []byte) (FormValues, Diagnostics) {
	if !gjson.ValidBytes(raw) {
		v, d := MapResultToFormWithDiagnostics(emptyObject)
		d.Malformed = len(raw) > 0
		return v, d
	}
	return MapResultToFormWithDiagnostics(gjson.ParseBytes(raw))
}

// MapResultToForm is MapAPIToForm for an already parsed resource.
func MapResultToForm(r gjson.Result) FormValues {
	v, _ := MapResultToFormWithDiagnostics(r)
	return v
}

func MapResultToFormWithDiagnostics(r gjson.Result) (FormValues, Diagnostics) {
	var d Diagnostics
	v := NewFormValues()

	root := r
	if !root.IsObject() {
		root = emptyObject
	}

	strs := v.stringFields()
	flags := v.flagFields()

	for _, g := range catalog.Groups() {
		switch g.Shape {
		case catalog.ShapeForm:
			continue
		case catalog.ShapeList:
			v.SalesAreaList = mapSalesAreas(lookupPath(root, g.Path), &d)
			continue
		}

		src := groupSource(root, g)
		for _, f := range catalog.InGroup(g.Name) {
			val := src.Get(f.WireKey)
			if !val.Exists() {
				d.absent(f.Name)
			}
			switch f.Kind {
			case catalog.KindString:
				*strs[f.Name] = Safe(val)
			case catalog.KindFlag:
				*flags[f.Name] = Truthy(val)
			case catalog.KindRoles:
				v.Funcao = decodeRoles(roleCodes(val), &d)
			}
		}
	}

	if v.Tipo != "" {
		if t, err := ParseTipo(v.Tipo); err == nil {
			v.Tipo = t
		} else {
			d.unknown("tipo", v.Tipo)
		}
	}

	d.sortAbsent()
	return v, d
}

// lookupPath walks nested objects; any non-object step yields a missing value.
func lookupPath(cur gjson.Result, path []string) gjson.Result {
	for _, key := range path {
		if !cur.IsObject() {
			return gjson.Result{}
		}
		cur = cur.Get(key)
	}
	return cur
}

// groupSource returns the object the fields of g are read from: the resource
// itself, a nested object, or element 0 of a first-only array.
func groupSource(root gjson.Result, g catalog.Group) gjson.Result {
	switch g.Shape {
	case catalog.ShapeRoot:
		return root
	case catalog.ShapeObject:
		if obj := lookupPath(root, g.Path); obj.IsObject() {
			return obj
		}
	case catalog.ShapeFirst:
		arr := lookupPath(root, g.Path)
		if !arr.IsArray() {
			return emptyObject
		}
		if items := arr.Array(); len(items) > 0 && items[0].IsObject() {
			return items[0]
		}
	}
	return emptyObject
}

// roleCodes reads funcao as a "/" joined string, a legacy single letter or an
// array of codes.
func roleCodes(r gjson.Result) []string {
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return nil
	case r.IsArray():
		var out []string
		for _, it := range r.Array() {
			if s := Safe(it); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return splitRoles(Safe(r))
	}
}

func mapSalesAreas(r gjson.Result, d *Diagnostics) SalesAreaList {
	list := SalesAreaList{Items: []SalesArea{}}
	if !r.IsArray() {
		d.absent("clienteVendasList")
		return list
	}
	for _, item := range r.Array() {
		list.Items = append(list.Items, MapSalesAreaItem(item))
	}
	if len(list.Items) > 0 {
		list.Selected = intPtr(0)
	}
	return list
}

// MapSalesAreaItem reads one clienteVendas entry. Non-object items read as
// blank.
func MapSalesAreaItem(item gjson.Result) SalesArea {
	src := item
	if !src.IsObject() {
		src = emptyObject
	}
	s := EmptySalesArea()
	strs := s.stringFields()
	flags := s.flagFields()
	for _, f := range catalog.SalesAreaFields() {
		val := src.Get(f.WireKey)
		switch f.Kind {
		case catalog.KindFlag:
			*flags[f.Name] = Truthy(val)
		default:
			*strs[f.Name] = Safe(val)
		}
	}
	return s
}

// MergeAPIIntoForm maps raw and overlays it on prev: only fields whose source
// key exists replace what prev holds. A missing clienteVendas keeps prev's
// list and selection.
func MergeAPIIntoForm(prev FormValues, raw []byte) (FormValues, Diagnostics) {
	next, d := MapAPIToFormWithDiagnostics(raw)
	out := prev.Clone()

	nextStrs, nextFlags := next.stringFields(), next.flagFields()
	outStrs, outFlags := out.stringFields(), out.flagFields()
	for name, p := range nextStrs {
		if !d.IsAbsent(name) {
			*outStrs[name] = *p
		}
	}
	for name, p := range nextFlags {
		if !d.IsAbsent(name) {
			*outFlags[name] = *p
		}
	}
	if !d.IsAbsent("funcao") {
		out.Funcao = next.Funcao
	}
	if !d.IsAbsent("clienteVendasList") {
		out.SalesAreaList = next.SalesAreaList
	}
	return out, d
}
