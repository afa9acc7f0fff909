// Package naming holds the naming and type-mapping collaborators of the model
// builder: wire identifier casing, wire type to semantic type mapping, and the
// category predicates that classify a canonical class name.
//
// The defaults follow the OpenFlow conventions used by the IR ("of_" class
// prefix, "ofp_" enum prefix). Every piece is replaceable through the model
// builder options.
package naming
