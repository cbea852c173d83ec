// Package signature turns the declarations of one parsed source file into a normalized signature record.
package signature

import (
	"regexp"

	"github.com/temirov/sigmap/internal/types"
)

// UnspecifiedFunctionName replaces the name of anonymous functions.
const UnspecifiedFunctionName = "unspecified"

// TypePosition identifies a type-bearing position (parameter, property, return
// value) inside a parsed file. Only the SyntaxTree that issued it can resolve it.
type TypePosition uint32

// NoTypePosition marks a declaration without a resolvable type.
const NoTypePosition TypePosition = 0

// ParameterDeclaration is a named slot whose type is resolved lazily.
type ParameterDeclaration struct {
	Name string
	Type TypePosition
}

// FunctionDeclaration is a top-level function or a class method.
type FunctionDeclaration struct {
	Name       string
	Parameters []ParameterDeclaration
	ReturnType TypePosition
	IsAsync    bool
}

// InterfaceDeclaration is a top-level interface.
type InterfaceDeclaration struct {
	Name       string
	Properties []ParameterDeclaration
}

// ClassDeclaration is a top-level class. Constructors lists the parameter
// lists of every declared constructor in source order.
type ClassDeclaration struct {
	Name         string
	Methods      []FunctionDeclaration
	Properties   []ParameterDeclaration
	Constructors [][]ParameterDeclaration
}

// SyntaxTree is the capability the extractor needs from a parser: list the
// top-level declarations of each kind and resolve the display type of a position.
type SyntaxTree interface {
	Functions() []FunctionDeclaration
	Interfaces() []InterfaceDeclaration
	Classes() []ClassDeclaration
	ResolveType(position TypePosition) string
}

var modulePathPrefixPattern = regexp.MustCompile(`import\((?:"[^"]*"|'[^']*')\)\.`)

// NormalizeTypeText strips every import("<module>"). qualifier from a type string.
func NormalizeTypeText(typeText string) string {
	return modulePathPrefixPattern.ReplaceAllString(typeText, "")
}

// Extract collects the functions, interfaces and classes of tree. When
// descriptions is non-nil, functions, methods and classes receive the entry
// keyed by their name (empty when missing).
func Extract(tree SyntaxTree, descriptions map[string]string) types.Signatures {
	extraction := extraction{tree: tree, descriptions: descriptions}
	signatures := types.Signatures{
		Functions:  []types.FunctionSignature{},
		Interfaces: []types.InterfaceSignature{},
		Classes:    []types.ClassSignature{},
	}
	for _, function := range tree.Functions() {
		signatures.Functions = append(signatures.Functions, extraction.function(function))
	}
	for _, declaration := range tree.Interfaces() {
		signatures.Interfaces = append(signatures.Interfaces, types.InterfaceSignature{
			Name:       declaration.Name,
			Properties: extraction.parameters(declaration.Properties),
		})
	}
	for _, declaration := range tree.Classes() {
		signatures.Classes = append(signatures.Classes, extraction.class(declaration))
	}
	return signatures
}

type extraction struct {
	tree         SyntaxTree
	descriptions map[string]string
}

func (extraction extraction) function(declaration FunctionDeclaration) types.FunctionSignature {
	name := declaration.Name
	if name == "" {
		name = UnspecifiedFunctionName
	}
	return types.FunctionSignature{
		Name:        name,
		Parameters:  extraction.parameters(declaration.Parameters),
		ReturnType:  extraction.resolve(declaration.ReturnType),
		IsAsync:     declaration.IsAsync,
		Description: extraction.describe(declaration.Name),
	}
}

func (extraction extraction) class(declaration ClassDeclaration) types.ClassSignature {
	methods := make([]types.FunctionSignature, 0, len(declaration.Methods))
	for _, method := range declaration.Methods {
		methods = append(methods, extraction.function(method))
	}
	constructorParameters := []types.Parameter{}
	if len(declaration.Constructors) > 0 {
		constructorParameters = extraction.parameters(declaration.Constructors[0])
	}
	return types.ClassSignature{
		Name:                  declaration.Name,
		Methods:               methods,
		Properties:            extraction.parameters(declaration.Properties),
		ConstructorParameters: constructorParameters,
		Description:           extraction.describe(declaration.Name),
	}
}

func (extraction extraction) parameters(declarations []ParameterDeclaration) []types.Parameter {
	parameters := make([]types.Parameter, 0, len(declarations))
	for _, declaration := range declarations {
		parameters = append(parameters, types.Parameter{
			Name: declaration.Name,
			Type: extraction.resolve(declaration.Type),
		})
	}
	return parameters
}

func (extraction extraction) resolve(position TypePosition) string {
	return NormalizeTypeText(extraction.tree.ResolveType(position))
}

func (extraction extraction) describe(name string) string {
	if extraction.descriptions == nil || name == "" {
		return ""
	}
	return extraction.descriptions[name]
}
