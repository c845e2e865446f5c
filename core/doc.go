// Package core provides the typed node tree that stage documents parse into.
//
// Stage files are binary BYML documents; tools dump them to XML where every
// element tag is a type code rather than a field name, and the field name is
// carried in an attribute:
//
//	<T193 N="Translate">
//	  <T210 N="X" V="100.5" />
//	  <T210 N="Y" V="0" />
//	  <T210 N="Z" V="-20" />
//	</T193>
//
// # Kinds
//
// [ParseKind] maps a tag to a [Kind] once, when the node is built, so lookups
// compare enum values instead of re-reading tag strings:
//
//   - T160 [KindString], T161 [KindBinary]
//   - T192 [KindArray], T193 [KindDict], T194 [KindStringTable]
//   - T208 [KindBool], T209 [KindInt], T210 [KindFloat], T211 [KindUInt]
//   - T212 [KindInt64], T213 [KindUInt64], T214 [KindDouble], T255 [KindNull]
//
// Untyped wrapper elements such as BymlRoot are [KindElement].
//
// # Lookup
//
// Children are found by the pair (kind, name):
//
//	group := obj.FindChild(core.KindDict, "Translate")
//	v, err := core.ReadVector(group)
//
// Absence is not an error: FindChild returns nil and [ReadVector] turns a nil
// group into the zero vector. A group that exists but lacks an axis is a
// [MalformedVectorError].
package core
