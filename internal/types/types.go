// Package types defines every cross‑package data structure used by the sigmap CLI.
package types

import "encoding/json"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
)

// Parameter is a named, typed slot: a function parameter, an interface or
// class property, or a constructor parameter.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// FunctionSignature describes a top-level function or a class method.
type FunctionSignature struct {
	Name        string      `json:"name"`
	Parameters  []Parameter `json:"parameters"`
	ReturnType  string      `json:"returnType"`
	IsAsync     bool        `json:"isAsync"`
	Description string      `json:"description,omitempty"`
}

// InterfaceSignature describes an interface declaration.
type InterfaceSignature struct {
	Name       string      `json:"name"`
	Properties []Parameter `json:"properties"`
}

// ClassSignature describes a class declaration.
type ClassSignature struct {
	Name                  string              `json:"name"`
	Methods               []FunctionSignature `json:"methods"`
	Properties            []Parameter         `json:"properties"`
	ConstructorParameters []Parameter         `json:"constructorParameters"`
	Description           string              `json:"description,omitempty"`
}

// Signatures groups the declarations extracted from one source file.
type Signatures struct {
	Functions  []FunctionSignature  `json:"functions"`
	Interfaces []InterfaceSignature `json:"interfaces"`
	Classes    []ClassSignature     `json:"classes"`
}

// IsEmpty reports whether no declaration was collected.
func (signatures Signatures) IsEmpty() bool {
	return len(signatures.Functions) == 0 && len(signatures.Interfaces) == 0 && len(signatures.Classes) == 0
}

// TreeNode is one directory or file in the signature tree.
type TreeNode struct {
	Name        string
	Type        string
	Path        string
	Description string
	Children    []*TreeNode
	Signatures  *Signatures
}

type directoryNodeJSON struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Children []*TreeNode `json:"children"`
}

type fileNodeJSON struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	Signatures
}

// MarshalJSON emits directories with a children array (possibly empty) and
// files with their path, optional description and signature collections.
func (node *TreeNode) MarshalJSON() ([]byte, error) {
	if node.Type == NodeTypeDirectory {
		children := node.Children
		if children == nil {
			children = []*TreeNode{}
		}
		return json.Marshal(directoryNodeJSON{Name: node.Name, Type: node.Type, Children: children})
	}
	encoded := fileNodeJSON{
		Name:        node.Name,
		Type:        node.Type,
		Path:        node.Path,
		Description: node.Description,
	}
	if node.Signatures != nil {
		encoded.Signatures = *node.Signatures
	}
	encoded.Signatures = encoded.Signatures.withEmptyCollections()
	return json.Marshal(encoded)
}

func (signatures Signatures) withEmptyCollections() Signatures {
	functions := make([]FunctionSignature, 0, len(signatures.Functions))
	for _, function := range signatures.Functions {
		functions = append(functions, function.withEmptyCollections())
	}
	interfaces := make([]InterfaceSignature, 0, len(signatures.Interfaces))
	for _, declaredInterface := range signatures.Interfaces {
		declaredInterface.Properties = nonNilParameters(declaredInterface.Properties)
		interfaces = append(interfaces, declaredInterface)
	}
	classes := make([]ClassSignature, 0, len(signatures.Classes))
	for _, declaredClass := range signatures.Classes {
		methods := make([]FunctionSignature, 0, len(declaredClass.Methods))
		for _, method := range declaredClass.Methods {
			methods = append(methods, method.withEmptyCollections())
		}
		declaredClass.Methods = methods
		declaredClass.Properties = nonNilParameters(declaredClass.Properties)
		declaredClass.ConstructorParameters = nonNilParameters(declaredClass.ConstructorParameters)
		classes = append(classes, declaredClass)
	}
	return Signatures{Functions: functions, Interfaces: interfaces, Classes: classes}
}

func (function FunctionSignature) withEmptyCollections() FunctionSignature {
	function.Parameters = nonNilParameters(function.Parameters)
	return function
}

func nonNilParameters(parameters []Parameter) []Parameter {
	if parameters == nil {
		return []Parameter{}
	}
	return parameters
}
