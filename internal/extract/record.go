package extract

import "fmt"

// ImportEdge records one imported module reference.
// Kind distinguishes the syntactic form the edge came from.
type ImportEdge struct {
	Module string `json:"module"`
	Alias  string `json:"alias,omitempty"`
	Kind   string `json:"kind"`
	Line   int    `json:"line"`
}

// Import kinds.
const (
	ImportAbsolute = "import"   // import x.y
	ImportFrom     = "from"     // from x import y
	ImportES       = "es"       // import ... from '<path>'
	ImportCommonJS = "commonjs" // require('<path>')
)

// CallEdge records a call-site candidate. Caller is empty for calls made at
// module scope.
type CallEdge struct {
	Caller string `json:"caller"`
	Callee string `json:"callee"`
	Line   int    `json:"line"`
}

// InheritEdge records a class extending a base.
type InheritEdge struct {
	Class string `json:"class"`
	Base  string `json:"base"`
	Line  int    `json:"line"`
}

// FunctionDetail carries optional per-function metadata.
type FunctionDetail struct {
	Name    string   `json:"name"`
	Params  []string `json:"params"`
	Returns string   `json:"returns,omitempty"`
	Doc     string   `json:"doc,omitempty"`
}

// ClassDetail carries optional per-class metadata.
type ClassDetail struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`
}

// EntityRecord is the structural summary of one source file. Records are
// created once by extraction and never mutated afterwards.
type EntityRecord struct {
	File     string `json:"file"`
	Module   string `json:"module"`
	Language string `json:"language"`

	Functions []string `json:"functions"`
	Classes   []string `json:"classes"`

	Imports  []ImportEdge  `json:"imports"`
	Calls    []CallEdge    `json:"calls"`
	Inherits []InheritEdge `json:"inherits"`

	FunctionDetails []FunctionDetail `json:"functions_detail,omitempty"`
	ClassDetails    []ClassDetail    `json:"classes_detail,omitempty"`
}

// ExtractionError is emitted instead of an EntityRecord when a file cannot be
// processed. The batch always continues past it.
type ExtractionError struct {
	File  string `json:"file"`
	Cause string `json:"cause"`
}

func (e ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.File, e.Cause)
}
