package jsonrpc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Type tags used by service descriptions to declare parameter and return
// types.
const (
	TypeBit = "bit"
	TypeNum = "num"
	TypeStr = "str"
	TypeArr = "arr"
	TypeObj = "obj"
	TypeAny = "any"
	TypeNil = "nil"
)

// ServiceDescription is the server-declared catalog of callable procedures,
// keyed by name and arity. It is built once from the raw system.describe
// reply and immutable afterwards.
type ServiceDescription struct {
	Name    string
	ID      string
	Version string
	Summary string

	procs map[string]*ProcedureDescription
	raw   string
}

// ProcedureDescription is one entry in a service description.
type ProcedureDescription struct {
	Name       string
	Summary    string
	Idempotent bool
	Params     []ParameterDescription
	Return     string
}

// ParameterDescription is one declared parameter of a procedure.
type ParameterDescription struct {
	Name string
	Type string
}

// Arity returns the number of declared parameters.
func (p *ProcedureDescription) Arity() int {
	return len(p.Params)
}

// String renders the declared signature, e.g. "add(num, num) -> num".
func (p *ProcedureDescription) String() string {
	types := make([]string, 0, len(p.Params))
	for _, param := range p.Params {
		types = append(types, param.Type)
	}
	ret := p.Return
	if ret == "" {
		ret = TypeAny
	}
	return fmt.Sprintf("%s(%s) -> %s", p.Name, strings.Join(types, ", "), ret)
}

func procKey(name string, arity int) string {
	return fmt.Sprintf("%s/%d", name, arity)
}

// NewServiceDescription builds a description from the decoded value of a
// system.describe reply.
func NewServiceDescription(raw map[string]interface{}) (*ServiceDescription, error) {
	desc := &ServiceDescription{
		procs: map[string]*ProcedureDescription{},
	}
	desc.Name, _ = raw["name"].(string)
	desc.ID, _ = raw["id"].(string)
	desc.Version, _ = raw["version"].(string)
	desc.Summary, _ = raw["summary"].(string)

	procs, ok := raw["procs"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("service description missing procs list")
	}
	for _, entry := range procs {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid procedure entry: %v", entry)
		}
		proc := &ProcedureDescription{}
		proc.Name, _ = fields["name"].(string)
		if proc.Name == "" {
			return nil, fmt.Errorf("procedure entry missing name: %v", entry)
		}
		proc.Summary, _ = fields["summary"].(string)
		proc.Idempotent, _ = fields["idempotent"].(bool)
		if params, ok := fields["params"].([]interface{}); ok {
			for _, p := range params {
				paramFields, ok := p.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("invalid parameter entry in %s: %v", proc.Name, p)
				}
				param := ParameterDescription{}
				param.Name, _ = paramFields["name"].(string)
				param.Type, _ = paramFields["type"].(string)
				if param.Type == "" {
					param.Type = TypeAny
				}
				proc.Params = append(proc.Params, param)
			}
		}
		proc.Return, _ = fields["return"].(string)
		if proc.Return == "" {
			proc.Return = TypeAny
		}
		desc.procs[procKey(proc.Name, proc.Arity())] = proc
	}

	if buf, err := json.Marshal(raw); err == nil {
		desc.raw = string(buf)
	}
	return desc, nil
}

// ParseServiceDescription builds a description from the raw JSON value of a
// system.describe reply, such as one stored in a manifest cache.
func ParseServiceDescription(raw string) (*ServiceDescription, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return NewServiceDescription(fields)
}

// Procedure looks up a procedure by name and arity.
func (d *ServiceDescription) Procedure(name string, arity int) (*ProcedureDescription, error) {
	proc, ok := d.procs[procKey(name, arity)]
	if !ok {
		return nil, ProcedureNotFoundError{Method: name, Arity: arity}
	}
	return proc, nil
}

// Procedures returns every declared procedure, ordered by name then arity.
func (d *ServiceDescription) Procedures() []*ProcedureDescription {
	procs := make([]*ProcedureDescription, 0, len(d.procs))
	for _, proc := range d.procs {
		procs = append(procs, proc)
	}
	sort.Slice(procs, func(i, j int) bool {
		if procs[i].Name != procs[j].Name {
			return procs[i].Name < procs[j].Name
		}
		return procs[i].Arity() < procs[j].Arity()
	})
	return procs
}

// JSON returns the raw JSON this description was built from.
func (d *ServiceDescription) JSON() string {
	return d.raw
}
