package model

// StackFrame is one line of a parsed stack trace. Raw is always set; the
// structured fields are only filled when the line matched a known shape.
type StackFrame struct {
	FunctionName string `json:"functionName,omitempty"`
	FileName     string `json:"fileName,omitempty"`
	LineNumber   *int   `json:"lineNumber,omitempty"`
	ColumnNumber *int   `json:"columnNumber,omitempty"`
	Raw          string `json:"raw"`
}

// CulpritReason explains how a culprit frame was chosen.
type CulpritReason string

const (
	CulpritAppFrame   CulpritReason = "app_frame"
	CulpritFirstFrame CulpritReason = "first_frame"
	CulpritNoStack    CulpritReason = "no_stack"
)

// Culprit is the frame judged most likely responsible for a failure.
// Frame is nil only when Reason is CulpritNoStack.
type Culprit struct {
	Frame  *StackFrame   `json:"frame,omitempty"`
	Reason CulpritReason `json:"reason"`
}
