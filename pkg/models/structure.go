package models

// Visibility is the access level of a function or structure.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityInternal  Visibility = "internal"
	VisibilityUnknown   Visibility = "unknown"
)

// StructureType is the kind of a structural declaration.
type StructureType string

const (
	StructureClass     StructureType = "class"
	StructureInterface StructureType = "interface"
	StructureTrait     StructureType = "trait"
	StructureEnum      StructureType = "enum"
	StructureStruct    StructureType = "struct"
	StructureModule    StructureType = "module"
	StructureNamespace StructureType = "namespace"
)

// FunctionInfo describes one detected function or method.
type FunctionInfo struct {
	Name                 string     `json:"name" yaml:"name"`
	StartLine            int        `json:"start_line" yaml:"start_line"`
	EndLine              int        `json:"end_line" yaml:"end_line"`
	LineCount            int        `json:"line_count" yaml:"line_count"`
	CyclomaticComplexity int        `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	CognitiveComplexity  int        `json:"cognitive_complexity" yaml:"cognitive_complexity"`
	NestingDepth         int        `json:"nesting_depth" yaml:"nesting_depth"`
	ParameterCount       int        `json:"parameter_count" yaml:"parameter_count"`
	ReturnPathCount      int        `json:"return_path_count" yaml:"return_path_count"`
	LocalVariableCount   int        `json:"local_variable_count" yaml:"local_variable_count"`
	HasRecursion         bool       `json:"has_recursion" yaml:"has_recursion"`
	HasExceptionHandling bool       `json:"has_exception_handling" yaml:"has_exception_handling"`
	IsMethod             bool       `json:"is_method" yaml:"is_method"`
	ParentClass          string     `json:"parent_class,omitempty" yaml:"parent_class,omitempty"`
	Visibility           Visibility `json:"visibility" yaml:"visibility"`
}

// StructureInfo describes one detected class, interface, module, etc.
type StructureInfo struct {
	Name             string         `json:"name" yaml:"name"`
	StructureType    StructureType  `json:"structure_type" yaml:"structure_type"`
	StartLine        int            `json:"start_line" yaml:"start_line"`
	EndLine          int            `json:"end_line" yaml:"end_line"`
	Methods          []FunctionInfo `json:"methods" yaml:"methods"`
	Properties       int            `json:"properties" yaml:"properties"`
	Visibility       Visibility     `json:"visibility" yaml:"visibility"`
	InheritanceDepth int            `json:"inheritance_depth" yaml:"inheritance_depth"`
	InterfaceCount   int            `json:"interface_count" yaml:"interface_count"`
}
