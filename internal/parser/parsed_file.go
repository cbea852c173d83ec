//go:build cgo

package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/temirov/sigmap/internal/signature"
)

// ParsedFile holds the top-level declarations of one source file. Type texts
// are resolved while parsing so the tree-sitter tree can be released immediately.
type ParsedFile struct {
	Path       string
	source     []byte
	functions  []signature.FunctionDeclaration
	interfaces []signature.InterfaceDeclaration
	classes    []signature.ClassDeclaration
	typeTexts  []string
	// bodiless holds the return type positions of signatures declared
	// without a body, pending overload resolution.
	bodiless map[signature.TypePosition]struct{}
}

// Functions lists the top-level functions in source order.
func (parsedFile *ParsedFile) Functions() []signature.FunctionDeclaration {
	return parsedFile.functions
}

// Interfaces lists the top-level interfaces in source order.
func (parsedFile *ParsedFile) Interfaces() []signature.InterfaceDeclaration {
	return parsedFile.interfaces
}

// Classes lists the top-level classes in source order.
func (parsedFile *ParsedFile) Classes() []signature.ClassDeclaration {
	return parsedFile.classes
}

// ResolveType returns the display text of a type position, or an empty string
// for positions this file did not issue.
func (parsedFile *ParsedFile) ResolveType(position signature.TypePosition) string {
	if position == signature.NoTypePosition || int(position) > len(parsedFile.typeTexts) {
		return ""
	}
	return parsedFile.typeTexts[position-1]
}

func newParsedFile(path string, source []byte, rootNode *sitter.Node) *ParsedFile {
	parsedFile := &ParsedFile{Path: path, source: source}
	if rootNode == nil {
		return parsedFile
	}
	for index := 0; index < int(rootNode.NamedChildCount()); index++ {
		parsedFile.collectTopLevel(rootNode.NamedChild(index))
	}
	parsedFile.functions = parsedFile.dropOverloads(parsedFile.functions)
	parsedFile.bodiless = nil
	return parsedFile
}

func (parsedFile *ParsedFile) collectTopLevel(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Type() {
	case exportStatementNodeType:
		if declaration := node.ChildByFieldName(declarationField); declaration != nil {
			parsedFile.collectTopLevel(declaration)
			return
		}
		value := node.ChildByFieldName(valueField)
		if value == nil {
			return
		}
		switch value.Type() {
		case functionExpressionNodeType, legacyFunctionNodeType, generatorFunctionNodeType:
			parsedFile.functions = append(parsedFile.functions, parsedFile.function(value))
		case classExpressionNodeType:
			parsedFile.classes = append(parsedFile.classes, parsedFile.class(value))
		}
	case ambientDeclarationNodeType:
		for index := 0; index < int(node.NamedChildCount()); index++ {
			parsedFile.collectTopLevel(node.NamedChild(index))
		}
	case functionDeclarationNodeType, generatorFunctionDeclarationType, functionSignatureNodeType:
		parsedFile.functions = append(parsedFile.functions, parsedFile.function(node))
	case classDeclarationNodeType, abstractClassDeclarationNodeType:
		parsedFile.classes = append(parsedFile.classes, parsedFile.class(node))
	case interfaceDeclarationNodeType:
		parsedFile.interfaces = append(parsedFile.interfaces, parsedFile.interfaceDeclaration(node))
	}
}

func (parsedFile *ParsedFile) function(node *sitter.Node) signature.FunctionDeclaration {
	isAsync := hasKeyword(node, asyncKeyword)
	declaration := signature.FunctionDeclaration{
		Name:       parsedFile.fieldText(node, nameField),
		Parameters: parsedFile.parameters(node.ChildByFieldName(parametersField)),
		ReturnType: parsedFile.register(parsedFile.returnTypeText(node, isAsync)),
		IsAsync:    isAsync,
	}
	if node.ChildByFieldName(bodyField) == nil {
		if parsedFile.bodiless == nil {
			parsedFile.bodiless = make(map[signature.TypePosition]struct{})
		}
		parsedFile.bodiless[declaration.ReturnType] = struct{}{}
	}
	return declaration
}

// dropOverloads removes bodiless signatures that share their name with an
// implementation in the same scope. Ambient and declaration-file signatures
// have no implementation and are kept.
func (parsedFile *ParsedFile) dropOverloads(functions []signature.FunctionDeclaration) []signature.FunctionDeclaration {
	implemented := make(map[string]struct{}, len(functions))
	for _, function := range functions {
		if !parsedFile.isBodiless(function) {
			implemented[function.Name] = struct{}{}
		}
	}
	kept := make([]signature.FunctionDeclaration, 0, len(functions))
	for _, function := range functions {
		if _, hasImplementation := implemented[function.Name]; hasImplementation && parsedFile.isBodiless(function) {
			continue
		}
		kept = append(kept, function)
	}
	return kept
}

func (parsedFile *ParsedFile) isBodiless(function signature.FunctionDeclaration) bool {
	_, bodiless := parsedFile.bodiless[function.ReturnType]
	return bodiless
}

func (parsedFile *ParsedFile) class(node *sitter.Node) signature.ClassDeclaration {
	declaration := signature.ClassDeclaration{Name: parsedFile.fieldText(node, nameField)}
	body := node.ChildByFieldName(bodyField)
	if body == nil {
		return declaration
	}
	var constructorOverloads [][]signature.ParameterDeclaration
	for index := 0; index < int(body.NamedChildCount()); index++ {
		member := body.NamedChild(index)
		switch member.Type() {
		case methodDefinitionNodeType, methodSignatureNodeType, abstractMethodSignatureNodeType:
			if hasKeyword(member, getterKeyword) || hasKeyword(member, setterKeyword) {
				continue
			}
			if parsedFile.fieldText(member, nameField) == constructorName {
				parameters := parsedFile.parameters(member.ChildByFieldName(parametersField))
				if member.Type() == methodSignatureNodeType {
					constructorOverloads = append(constructorOverloads, parameters)
					continue
				}
				declaration.Constructors = append(declaration.Constructors, parameters)
				continue
			}
			declaration.Methods = append(declaration.Methods, parsedFile.function(member))
		case publicFieldDefinitionNodeType:
			declaration.Properties = append(declaration.Properties, parsedFile.valueSlot(member, parsedFile.fieldText(member, nameField)))
		}
	}
	if len(declaration.Constructors) == 0 {
		declaration.Constructors = constructorOverloads
	}
	declaration.Methods = parsedFile.dropOverloads(declaration.Methods)
	return declaration
}

func (parsedFile *ParsedFile) interfaceDeclaration(node *sitter.Node) signature.InterfaceDeclaration {
	declaration := signature.InterfaceDeclaration{Name: parsedFile.fieldText(node, nameField)}
	body := node.ChildByFieldName(bodyField)
	if body == nil {
		return declaration
	}
	for index := 0; index < int(body.NamedChildCount()); index++ {
		member := body.NamedChild(index)
		if member.Type() != propertySignatureNodeType {
			continue
		}
		declaration.Properties = append(declaration.Properties, parsedFile.valueSlot(member, parsedFile.fieldText(member, nameField)))
	}
	return declaration
}

func (parsedFile *ParsedFile) parameters(formalParameters *sitter.Node) []signature.ParameterDeclaration {
	parameters := []signature.ParameterDeclaration{}
	if formalParameters == nil {
		return parameters
	}
	for index := 0; index < int(formalParameters.NamedChildCount()); index++ {
		parameterNode := formalParameters.NamedChild(index)
		switch parameterNode.Type() {
		case requiredParameterNodeType, optionalParameterNodeType:
		default:
			continue
		}
		pattern := parameterNode.ChildByFieldName(patternField)
		if pattern != nil && pattern.Type() == restPatternNodeType && pattern.NamedChildCount() > 0 {
			pattern = pattern.NamedChild(0)
		}
		parameters = append(parameters, parsedFile.valueSlot(parameterNode, parsedFile.text(pattern)))
	}
	return parameters
}

// valueSlot registers the type of a parameter, field or property signature:
// the annotation when present, otherwise the type of its literal initializer.
func (parsedFile *ParsedFile) valueSlot(node *sitter.Node, name string) signature.ParameterDeclaration {
	typeText := parsedFile.annotationText(node.ChildByFieldName(typeField))
	if typeText == "" {
		typeText = parsedFile.literalType(node.ChildByFieldName(valueField))
	}
	return signature.ParameterDeclaration{Name: name, Type: parsedFile.register(typeText)}
}

func (parsedFile *ParsedFile) register(typeText string) signature.TypePosition {
	parsedFile.typeTexts = append(parsedFile.typeTexts, typeText)
	return signature.TypePosition(len(parsedFile.typeTexts))
}

func (parsedFile *ParsedFile) fieldText(node *sitter.Node, field string) string {
	return parsedFile.text(node.ChildByFieldName(field))
}

func (parsedFile *ParsedFile) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return strings.TrimSpace(string(parsedFile.source[node.StartByte():node.EndByte()]))
}

// hasKeyword reports whether an anonymous keyword token such as async or get
// precedes the declaration name (or its parameter list when unnamed).
func hasKeyword(node *sitter.Node, keyword string) bool {
	boundary := node.EndByte()
	if nameNode := node.ChildByFieldName(nameField); nameNode != nil {
		boundary = nameNode.StartByte()
	} else if parametersNode := node.ChildByFieldName(parametersField); parametersNode != nil {
		boundary = parametersNode.StartByte()
	}
	for index := 0; index < int(node.ChildCount()); index++ {
		child := node.Child(index)
		if child.StartByte() >= boundary {
			break
		}
		if !child.IsNamed() && child.Type() == keyword {
			return true
		}
	}
	return false
}
