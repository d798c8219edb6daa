// Package builtin is the static registry of built-in function signatures.
// It maps every function name to its parameter types, variadic flag and
// return type, and is consumed by the inference engine and the checker.
package builtin

import "github.com/surqlx/surlint/typ"

// Param is one declared parameter of a builtin signature.
type Param struct {
	Name string
	Type typ.Type
}

// Signature describes one builtin function.
type Signature struct {
	Name     string
	Params   []Param
	MinArgs  int // number of required leading parameters
	Variadic bool
	Result   typ.Type
}

// Lookup returns the signature registered for the given function name.
func Lookup(name string) (Signature, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names returns the number of registered builtins; handy for sanity tests.
func Names() int { return len(registry) }

func p(name string, t typ.Type) Param { return Param{Name: name, Type: t} }

// sig builds a signature with all parameters required.
func sig(result typ.Type, params ...Param) Signature {
	return Signature{Params: params, MinArgs: len(params), Result: result}
}

// opt marks the trailing n parameters optional.
func opt(s Signature, n int) Signature {
	s.MinArgs = len(s.Params) - n
	return s
}

// variadic marks the signature variadic: extra arguments repeat the last
// parameter's type.
func variadic(s Signature) Signature {
	s.Variadic = true
	return s
}

var (
	anyT  = typ.Any
	boolT = typ.Bool
	intT  = typ.Int
	fltT  = typ.Float
	numT  = typ.Number
	strT  = typ.String
	dtT   = typ.Datetime
	durT  = typ.Duration
	bytT  = typ.Bytes
	uuidT = typ.Uuid
	geoT  = typ.GeometryOf("")
	recT  = typ.RecordOf()
	objT  = typ.FreeObject()

	anyArr = typ.ArrayOf(typ.Any, 0)
	numArr = typ.ArrayOf(typ.Number, 0)
	strArr = typ.ArrayOf(typ.String, 0)
	vecT   = typ.ArrayOf(typ.Number, 0)
)

var registry = map[string]Signature{
	// array
	"array::add":         sig(anyArr, p("array", anyArr), p("value", anyT)),
	"array::all":         sig(boolT, p("array", anyArr)),
	"array::any":         sig(boolT, p("array", anyArr)),
	"array::append":      sig(anyArr, p("array", anyArr), p("value", anyT)),
	"array::at":          sig(anyT, p("array", anyArr), p("index", intT)),
	"array::boolean_and": sig(anyArr, p("lh", anyArr), p("rh", anyArr)),
	"array::boolean_or":  sig(anyArr, p("lh", anyArr), p("rh", anyArr)),
	"array::boolean_xor": sig(anyArr, p("lh", anyArr), p("rh", anyArr)),
	"array::boolean_not": sig(anyArr, p("array", anyArr)),
	"array::combine":     sig(anyArr, p("lh", anyArr), p("rh", anyArr)),
	"array::complement":  sig(anyArr, p("lh", anyArr), p("rh", anyArr)),
	"array::concat":      variadic(sig(anyArr, p("arrays", anyArr))),
	"array::clump":       sig(anyArr, p("array", anyArr), p("size", intT)),
	"array::difference":  sig(anyArr, p("lh", anyArr), p("rh", anyArr)),
	"array::distinct":    sig(anyArr, p("array", anyArr)),
	"array::fill":        opt(sig(anyArr, p("array", anyArr), p("value", anyT), p("start", intT), p("end", intT)), 2),
	"array::filter":      sig(anyArr, p("array", anyArr), p("check", anyT)),
	"array::filter_index": sig(typ.ArrayOf(typ.Int, 0), p("array", anyArr), p("value", anyT)),
	"array::find":        sig(anyT, p("array", anyArr), p("check", anyT)),
	"array::find_index":  sig(typ.OptionOf(typ.Int), p("array", anyArr), p("value", anyT)),
	"array::first":       sig(anyT, p("array", anyArr)),
	"array::flatten":     sig(anyArr, p("array", anyArr)),
	"array::group":       sig(anyArr, p("array", anyArr)),
	"array::insert":      sig(anyArr, p("array", anyArr), p("value", anyT), p("index", intT)),
	"array::intersect":   sig(anyArr, p("lh", anyArr), p("rh", anyArr)),
	"array::is_empty":    sig(boolT, p("array", anyArr)),
	"array::join":        sig(strT, p("array", anyArr), p("separator", strT)),
	"array::last":        sig(anyT, p("array", anyArr)),
	"array::len":         sig(intT, p("array", anyArr)),
	"array::logical_and": sig(anyArr, p("lh", anyArr), p("rh", anyArr)),
	"array::logical_or":  sig(anyArr, p("lh", anyArr), p("rh", anyArr)),
	"array::logical_xor": sig(anyArr, p("lh", anyArr), p("rh", anyArr)),
	"array::map":         sig(anyArr, p("array", anyArr), p("function", anyT)),
	"array::max":         sig(anyT, p("array", anyArr)),
	"array::matches":     sig(typ.ArrayOf(typ.Bool, 0), p("array", anyArr), p("value", anyT)),
	"array::min":         sig(anyT, p("array", anyArr)),
	"array::pop":         sig(anyT, p("array", anyArr)),
	"array::prepend":     sig(anyArr, p("array", anyArr), p("value", anyT)),
	"array::push":        sig(anyArr, p("array", anyArr), p("value", anyT)),
	"array::remove":      sig(anyArr, p("array", anyArr), p("index", intT)),
	"array::reverse":     sig(anyArr, p("array", anyArr)),
	"array::shuffle":     sig(anyArr, p("array", anyArr)),
	"array::slice":       opt(sig(anyArr, p("array", anyArr), p("start", intT), p("len", intT)), 1),
	"array::sort":        opt(sig(anyArr, p("array", anyArr), p("order", anyT)), 1),
	"array::sort::asc":   sig(anyArr, p("array", anyArr)),
	"array::sort::desc":  sig(anyArr, p("array", anyArr)),
	"array::transpose":   sig(anyArr, p("array", anyArr)),
	"array::union":       sig(anyArr, p("lh", anyArr), p("rh", anyArr)),

	// bytes
	"bytes::len": sig(intT, p("bytes", bytT)),

	// count
	"count": opt(sig(intT, p("value", anyT)), 1),

	// crypto
	"crypto::md5":            sig(strT, p("value", anyT)),
	"crypto::sha1":           sig(strT, p("value", anyT)),
	"crypto::sha256":         sig(strT, p("value", anyT)),
	"crypto::sha512":         sig(strT, p("value", anyT)),
	"crypto::argon2::compare": sig(boolT, p("hash", strT), p("value", strT)),
	"crypto::argon2::generate": sig(strT, p("value", strT)),
	"crypto::bcrypt::compare": sig(boolT, p("hash", strT), p("value", strT)),
	"crypto::bcrypt::generate": sig(strT, p("value", strT)),
	"crypto::pbkdf2::compare": sig(boolT, p("hash", strT), p("value", strT)),
	"crypto::pbkdf2::generate": sig(strT, p("value", strT)),
	"crypto::scrypt::compare": sig(boolT, p("hash", strT), p("value", strT)),
	"crypto::scrypt::generate": sig(strT, p("value", strT)),

	// duration
	"duration::days":    sig(intT, p("duration", durT)),
	"duration::hours":   sig(intT, p("duration", durT)),
	"duration::micros":  sig(intT, p("duration", durT)),
	"duration::millis":  sig(intT, p("duration", durT)),
	"duration::mins":    sig(intT, p("duration", durT)),
	"duration::nanos":   sig(intT, p("duration", durT)),
	"duration::secs":    sig(intT, p("duration", durT)),
	"duration::weeks":   sig(intT, p("duration", durT)),
	"duration::years":   sig(intT, p("duration", durT)),
	"duration::from::days":   sig(durT, p("days", intT)),
	"duration::from::hours":  sig(durT, p("hours", intT)),
	"duration::from::micros": sig(durT, p("micros", intT)),
	"duration::from::millis": sig(durT, p("millis", intT)),
	"duration::from::mins":   sig(durT, p("mins", intT)),
	"duration::from::nanos":  sig(durT, p("nanos", intT)),
	"duration::from::secs":   sig(durT, p("secs", intT)),
	"duration::from::weeks":  sig(durT, p("weeks", intT)),

	// encoding
	"encoding::base64::decode": sig(bytT, p("value", strT)),
	"encoding::base64::encode": sig(strT, p("value", bytT)),

	// geo
	"geo::area":              sig(numT, p("geometry", geoT)),
	"geo::bearing":           sig(numT, p("point", typ.GeometryOf("point")), p("to", typ.GeometryOf("point"))),
	"geo::centroid":          sig(typ.GeometryOf("point"), p("geometry", geoT)),
	"geo::distance":          sig(numT, p("point", typ.GeometryOf("point")), p("to", typ.GeometryOf("point"))),
	"geo::hash::decode":      sig(typ.GeometryOf("point"), p("hash", strT)),
	"geo::hash::encode":      opt(sig(strT, p("point", typ.GeometryOf("point")), p("accuracy", intT)), 1),
	"geo::is::valid":         sig(boolT, p("geometry", geoT)),

	// http
	"http::head":   opt(sig(anyT, p("url", strT), p("headers", objT)), 1),
	"http::get":    opt(sig(anyT, p("url", strT), p("headers", objT)), 1),
	"http::put":    opt(sig(anyT, p("url", strT), p("body", anyT), p("headers", objT)), 2),
	"http::post":   opt(sig(anyT, p("url", strT), p("body", anyT), p("headers", objT)), 2),
	"http::patch":  opt(sig(anyT, p("url", strT), p("body", anyT), p("headers", objT)), 2),
	"http::delete": opt(sig(anyT, p("url", strT), p("headers", objT)), 1),

	// math
	"math::abs":          sig(numT, p("value", numT)),
	"math::acos":         sig(fltT, p("value", numT)),
	"math::asin":         sig(fltT, p("value", numT)),
	"math::atan":         sig(fltT, p("value", numT)),
	"math::bottom":       sig(numArr, p("array", numArr), p("count", intT)),
	"math::ceil":         sig(numT, p("value", numT)),
	"math::clamp":        sig(numT, p("value", numT), p("min", numT), p("max", numT)),
	"math::cos":          sig(fltT, p("value", numT)),
	"math::cot":          sig(fltT, p("value", numT)),
	"math::deg2rad":      sig(fltT, p("value", numT)),
	"math::fixed":        sig(numT, p("value", numT), p("places", intT)),
	"math::floor":        sig(numT, p("value", numT)),
	"math::interquartile": sig(numT, p("array", numArr)),
	"math::lerp":         sig(numT, p("from", numT), p("to", numT), p("factor", numT)),
	"math::ln":           sig(fltT, p("value", numT)),
	"math::log":          sig(fltT, p("value", numT), p("base", numT)),
	"math::log10":        sig(fltT, p("value", numT)),
	"math::log2":         sig(fltT, p("value", numT)),
	"math::max":          sig(numT, p("array", numArr)),
	"math::mean":         sig(numT, p("array", numArr)),
	"math::median":       sig(numT, p("array", numArr)),
	"math::midhinge":     sig(numT, p("array", numArr)),
	"math::min":          sig(numT, p("array", numArr)),
	"math::mode":         sig(numT, p("array", numArr)),
	"math::nearestrank":  sig(numT, p("array", numArr), p("rank", numT)),
	"math::percentile":   sig(numT, p("array", numArr), p("percentile", numT)),
	"math::pow":          sig(numT, p("base", numT), p("exponent", numT)),
	"math::product":      sig(numT, p("array", numArr)),
	"math::rad2deg":      sig(fltT, p("value", numT)),
	"math::round":        sig(numT, p("value", numT)),
	"math::sign":         sig(intT, p("value", numT)),
	"math::sin":          sig(fltT, p("value", numT)),
	"math::spread":       sig(numT, p("array", numArr)),
	"math::sqrt":         sig(fltT, p("value", numT)),
	"math::stddev":       sig(numT, p("array", numArr)),
	"math::sum":          sig(numT, p("array", numArr)),
	"math::tan":          sig(fltT, p("value", numT)),
	"math::top":          sig(numArr, p("array", numArr), p("count", intT)),
	"math::trimean":      sig(numT, p("array", numArr)),
	"math::variance":     sig(numT, p("array", numArr)),

	// meta (record introspection)
	"meta::id": sig(anyT, p("record", recT)),
	"meta::tb": sig(strT, p("record", recT)),

	// object
	"object::entries":     sig(anyArr, p("object", objT)),
	"object::from_entries": sig(objT, p("entries", anyArr)),
	"object::is_empty":    sig(boolT, p("object", objT)),
	"object::keys":        sig(strArr, p("object", objT)),
	"object::len":         sig(intT, p("object", objT)),
	"object::values":      sig(anyArr, p("object", objT)),

	// parse
	"parse::email::host":  sig(strT, p("email", strT)),
	"parse::email::user":  sig(strT, p("email", strT)),
	"parse::url::domain":  sig(strT, p("url", strT)),
	"parse::url::fragment": sig(strT, p("url", strT)),
	"parse::url::host":    sig(strT, p("url", strT)),
	"parse::url::path":    sig(strT, p("url", strT)),
	"parse::url::port":    sig(intT, p("url", strT)),
	"parse::url::query":   sig(strT, p("url", strT)),
	"parse::url::scheme":  sig(strT, p("url", strT)),

	// rand
	"rand":          sig(fltT),
	"rand::bool":    sig(boolT),
	"rand::enum":    variadic(sig(anyT, p("value", anyT))),
	"rand::float":   opt(sig(fltT, p("min", fltT), p("max", fltT)), 2),
	"rand::guid":    opt(sig(strT, p("length", intT)), 1),
	"rand::int":     opt(sig(intT, p("min", intT), p("max", intT)), 2),
	"rand::string":  opt(sig(strT, p("length", intT)), 1),
	"rand::time":    opt(sig(dtT, p("min", intT), p("max", intT)), 2),
	"rand::ulid":    sig(strT),
	"rand::uuid":    sig(uuidT),
	"rand::uuid::v4": sig(uuidT),
	"rand::uuid::v7": sig(uuidT),

	// record
	"record::exists": sig(boolT, p("record", recT)),
	"record::id":     sig(anyT, p("record", recT)),
	"record::table":  sig(strT, p("record", recT)),

	// search
	"search::analyze":   sig(strArr, p("analyzer", strT), p("value", strT)),
	"search::highlight": opt(sig(anyT, p("prefix", strT), p("suffix", strT), p("predicate", intT), p("whole", boolT)), 1),
	"search::offsets":   sig(objT, p("predicate", intT)),
	"search::score":     sig(numT, p("predicate", intT)),

	// session
	"session::ac":     sig(strT),
	"session::db":     sig(strT),
	"session::id":     sig(strT),
	"session::ip":     sig(strT),
	"session::ns":     sig(strT),
	"session::origin": sig(strT),
	"session::rd":     sig(anyT),
	"session::token":  sig(objT),

	// sleep
	"sleep": sig(typ.None, p("duration", durT)),

	// string
	"string::concat":     variadic(sig(strT, p("strings", anyT))),
	"string::contains":   sig(boolT, p("string", strT), p("value", strT)),
	"string::ends_with":  sig(boolT, p("string", strT), p("value", strT)),
	"string::join":       variadic(sig(strT, p("separator", strT), p("strings", strT))),
	"string::len":        sig(intT, p("string", strT)),
	"string::lowercase":  sig(strT, p("string", strT)),
	"string::matches":    sig(boolT, p("string", strT), p("regex", strT)),
	"string::repeat":     sig(strT, p("string", strT), p("count", intT)),
	"string::replace":    sig(strT, p("string", strT), p("search", strT), p("replace", strT)),
	"string::reverse":    sig(strT, p("string", strT)),
	"string::slice":      opt(sig(strT, p("string", strT), p("start", intT), p("len", intT)), 1),
	"string::slug":       sig(strT, p("string", strT)),
	"string::split":      sig(strArr, p("string", strT), p("separator", strT)),
	"string::starts_with": sig(boolT, p("string", strT), p("value", strT)),
	"string::trim":       sig(strT, p("string", strT)),
	"string::uppercase":  sig(strT, p("string", strT)),
	"string::words":      sig(strArr, p("string", strT)),
	"string::distance::damerau_levenshtein": sig(intT, p("lh", strT), p("rh", strT)),
	"string::distance::hamming":             sig(intT, p("lh", strT), p("rh", strT)),
	"string::distance::levenshtein":         sig(intT, p("lh", strT), p("rh", strT)),
	"string::html::encode":   sig(strT, p("string", strT)),
	"string::html::sanitize": sig(strT, p("string", strT)),
	"string::is::alphanum":   sig(boolT, p("string", strT)),
	"string::is::alpha":      sig(boolT, p("string", strT)),
	"string::is::ascii":      sig(boolT, p("string", strT)),
	"string::is::datetime":   sig(boolT, p("string", strT), p("format", strT)),
	"string::is::domain":     sig(boolT, p("string", strT)),
	"string::is::email":      sig(boolT, p("string", strT)),
	"string::is::hexadecimal": sig(boolT, p("string", strT)),
	"string::is::ip":         sig(boolT, p("string", strT)),
	"string::is::ipv4":       sig(boolT, p("string", strT)),
	"string::is::ipv6":       sig(boolT, p("string", strT)),
	"string::is::latitude":   sig(boolT, p("string", strT)),
	"string::is::longitude":  sig(boolT, p("string", strT)),
	"string::is::numeric":    sig(boolT, p("string", strT)),
	"string::is::semver":     sig(boolT, p("string", strT)),
	"string::is::url":        sig(boolT, p("string", strT)),
	"string::is::uuid":       sig(boolT, p("string", strT)),
	"string::semver::compare": sig(intT, p("lh", strT), p("rh", strT)),
	"string::semver::major":   sig(intT, p("version", strT)),
	"string::semver::minor":   sig(intT, p("version", strT)),
	"string::semver::patch":   sig(intT, p("version", strT)),
	"string::similarity::fuzzy":   sig(intT, p("lh", strT), p("rh", strT)),
	"string::similarity::jaro":    sig(numT, p("lh", strT), p("rh", strT)),
	"string::similarity::smithwaterman": sig(intT, p("lh", strT), p("rh", strT)),

	// time
	"time::ceil":     sig(dtT, p("datetime", dtT), p("duration", durT)),
	"time::day":      opt(sig(intT, p("datetime", dtT)), 1),
	"time::floor":    sig(dtT, p("datetime", dtT), p("duration", durT)),
	"time::format":   sig(strT, p("datetime", dtT), p("format", strT)),
	"time::group":    sig(dtT, p("datetime", dtT), p("group", strT)),
	"time::hour":     opt(sig(intT, p("datetime", dtT)), 1),
	"time::max":      sig(dtT, p("array", typ.ArrayOf(typ.Datetime, 0))),
	"time::micros":   opt(sig(intT, p("datetime", dtT)), 1),
	"time::millis":   opt(sig(intT, p("datetime", dtT)), 1),
	"time::min":      sig(dtT, p("array", typ.ArrayOf(typ.Datetime, 0))),
	"time::minute":   opt(sig(intT, p("datetime", dtT)), 1),
	"time::month":    opt(sig(intT, p("datetime", dtT)), 1),
	"time::nano":     opt(sig(intT, p("datetime", dtT)), 1),
	"time::now":      sig(dtT),
	"time::round":    sig(dtT, p("datetime", dtT), p("duration", durT)),
	"time::second":   opt(sig(intT, p("datetime", dtT)), 1),
	"time::timezone": sig(strT),
	"time::unix":     opt(sig(intT, p("datetime", dtT)), 1),
	"time::wday":     opt(sig(intT, p("datetime", dtT)), 1),
	"time::week":     opt(sig(intT, p("datetime", dtT)), 1),
	"time::yday":     opt(sig(intT, p("datetime", dtT)), 1),
	"time::year":     opt(sig(intT, p("datetime", dtT)), 1),
	"time::from::micros": sig(dtT, p("micros", intT)),
	"time::from::millis": sig(dtT, p("millis", intT)),
	"time::from::nanos":  sig(dtT, p("nanos", intT)),
	"time::from::secs":   sig(dtT, p("secs", intT)),
	"time::from::unix":   sig(dtT, p("secs", intT)),

	// type conversion and predicates
	"type::bool":     sig(boolT, p("value", anyT)),
	"type::bytes":    sig(bytT, p("value", anyT)),
	"type::datetime": sig(dtT, p("value", anyT)),
	"type::decimal":  sig(typ.Decimal, p("value", anyT)),
	"type::duration": sig(durT, p("value", anyT)),
	"type::field":    sig(anyT, p("field", strT)),
	"type::fields":   sig(anyArr, p("fields", strArr)),
	"type::float":    sig(fltT, p("value", anyT)),
	"type::int":      sig(intT, p("value", anyT)),
	"type::number":   sig(numT, p("value", anyT)),
	"type::point":    sig(typ.GeometryOf("point"), p("value", anyT)),
	"type::range":    sig(typ.RangeOf(typ.Any), p("value", anyT)),
	"type::record":   opt(sig(recT, p("value", anyT), p("table", strT)), 1),
	"type::string":   sig(strT, p("value", anyT)),
	"type::table":    sig(strT, p("value", anyT)),
	"type::thing":    sig(recT, p("table", anyT), p("id", anyT)),
	"type::uuid":     sig(uuidT, p("value", anyT)),
	"type::is::array":    sig(boolT, p("value", anyT)),
	"type::is::bool":     sig(boolT, p("value", anyT)),
	"type::is::bytes":    sig(boolT, p("value", anyT)),
	"type::is::collection": sig(boolT, p("value", anyT)),
	"type::is::datetime": sig(boolT, p("value", anyT)),
	"type::is::decimal":  sig(boolT, p("value", anyT)),
	"type::is::duration": sig(boolT, p("value", anyT)),
	"type::is::float":    sig(boolT, p("value", anyT)),
	"type::is::geometry": sig(boolT, p("value", anyT)),
	"type::is::int":      sig(boolT, p("value", anyT)),
	"type::is::line":     sig(boolT, p("value", anyT)),
	"type::is::none":     sig(boolT, p("value", anyT)),
	"type::is::null":     sig(boolT, p("value", anyT)),
	"type::is::multiline": sig(boolT, p("value", anyT)),
	"type::is::multipoint": sig(boolT, p("value", anyT)),
	"type::is::multipolygon": sig(boolT, p("value", anyT)),
	"type::is::number":   sig(boolT, p("value", anyT)),
	"type::is::object":   sig(boolT, p("value", anyT)),
	"type::is::point":    sig(boolT, p("value", anyT)),
	"type::is::polygon":  sig(boolT, p("value", anyT)),
	"type::is::record":   opt(sig(boolT, p("value", anyT), p("table", strT)), 1),
	"type::is::string":   sig(boolT, p("value", anyT)),
	"type::is::uuid":     sig(boolT, p("value", anyT)),

	// value
	"value::diff":  sig(anyArr, p("value", anyT), p("other", anyT)),
	"value::patch": sig(anyT, p("value", anyT), p("patch", anyArr)),

	// vector
	"vector::add":       sig(vecT, p("lh", vecT), p("rh", vecT)),
	"vector::angle":     sig(numT, p("lh", vecT), p("rh", vecT)),
	"vector::cross":     sig(vecT, p("lh", vecT), p("rh", vecT)),
	"vector::divide":    sig(vecT, p("lh", vecT), p("rh", vecT)),
	"vector::dot":       sig(numT, p("lh", vecT), p("rh", vecT)),
	"vector::magnitude": sig(numT, p("vector", vecT)),
	"vector::multiply":  sig(vecT, p("lh", vecT), p("rh", vecT)),
	"vector::normalize": sig(vecT, p("vector", vecT)),
	"vector::project":   sig(vecT, p("lh", vecT), p("rh", vecT)),
	"vector::scale":     sig(vecT, p("vector", vecT), p("factor", numT)),
	"vector::subtract":  sig(vecT, p("lh", vecT), p("rh", vecT)),
	"vector::distance::chebyshev": sig(numT, p("lh", vecT), p("rh", vecT)),
	"vector::distance::euclidean": sig(numT, p("lh", vecT), p("rh", vecT)),
	"vector::distance::hamming":   sig(numT, p("lh", vecT), p("rh", vecT)),
	"vector::distance::knn":       sig(numT),
	"vector::distance::manhattan": sig(numT, p("lh", vecT), p("rh", vecT)),
	"vector::distance::minkowski": sig(numT, p("lh", vecT), p("rh", vecT), p("order", numT)),
	"vector::similarity::cosine":  sig(numT, p("lh", vecT), p("rh", vecT)),
	"vector::similarity::jaccard": sig(numT, p("lh", vecT), p("rh", vecT)),
	"vector::similarity::pearson": sig(numT, p("lh", vecT), p("rh", vecT)),
}

func init() {
	for name, s := range registry {
		s.Name = name
		registry[name] = s
	}
}
