package elasticbox

import (
	"bytes"
	"encoding/json"
)

// Variable types and special values understood by the API.
const (
	VariableTypeBox = "Box"

	StateProcessing  = "processing"
	StateDone        = "done" // last operation succeeded
	StateUnavailable = "unavailable"
)

// TerminateOperations holds the instance operations after which an instance
// is considered gone.
var TerminateOperations = map[string]bool{
	"terminate":         true,
	"terminate_service": true,
}

// VariableKind discriminates how a variable takes part in box stack resolution.
type VariableKind int

const (
	// KindScalar is a plain variable owned by the box that declares it.
	KindScalar VariableKind = iota
	// KindBox references a child box by id.
	KindBox
	// KindOverride carries a value for a variable of a descendant box.
	KindOverride
)

func (k VariableKind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindOverride:
		return "override"
	default:
		return "scalar"
	}
}

// Variable is a box variable as returned by the API.
type Variable struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Scope      string `json:"scope" yaml:"scope"`
	Value      string `json:"value" yaml:"value"`
	Required   bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Visibility string `json:"visibility,omitempty" yaml:"visibility,omitempty"`
}

// Kind classifies the variable. A scope takes precedence over the type, so a
// scoped Box variable is an override rather than a child reference.
func (v Variable) Kind() VariableKind {
	if v.Scope != "" {
		return KindOverride
	}
	if v.Type == VariableTypeBox {
		return KindBox
	}
	return KindScalar
}

// Version identifies the box a versioned box was published from.
type Version struct {
	Box         string `json:"box,omitempty"`
	Description string `json:"description,omitempty"`
}

// Box is a deployable unit definition, also used for box versions and the
// boxes embedded in an instance.
type Box struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Icon      string     `json:"icon,omitempty"`
	Version   *Version   `json:"version,omitempty"`
	Variables []Variable `json:"variables"`
}

// Workspace is an ElasticBox workspace.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Profile is a deployment profile of a box.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Service identifies the service backing an instance.
type Service struct {
	ID string `json:"id"`
}

// Operation is the last operation run on an instance. The API reports it
// either as a plain string or as an object with an "event" field.
type Operation string

// UnmarshalJSON accepts both operation encodings.
func (o *Operation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = Operation(s)
		return nil
	}
	var obj struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*o = Operation(obj.Event)
	return nil
}

// Instance is a deployed box.
type Instance struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Environment string     `json:"environment"`
	Operation   Operation  `json:"operation"`
	State       string     `json:"state,omitempty"`
	Service     Service    `json:"service"`
	Boxes       []Box      `json:"boxes"`
	Variables   []Variable `json:"variables"`
}

// Terminated reports whether the instance's last operation terminated it.
func (i *Instance) Terminated() bool {
	return TerminateOperations[string(i.Operation)]
}
