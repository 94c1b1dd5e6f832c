package models

// String methods for string-backed enums.
// toon serialization relies on fmt.Stringer.

// Visibility
func (v Visibility) String() string { return string(v) }

// StructureType
func (s StructureType) String() string { return string(s) }
