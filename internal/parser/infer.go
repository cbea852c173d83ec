//go:build cgo

package parser

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

var nestedScopeNodeTypes = map[string]struct{}{
	functionDeclarationNodeType:      {},
	generatorFunctionDeclarationType: {},
	functionExpressionNodeType:       {},
	legacyFunctionNodeType:           {},
	generatorFunctionNodeType:        {},
	arrowFunctionNodeType:            {},
	methodDefinitionNodeType:         {},
	classDeclarationNodeType:         {},
	classExpressionNodeType:          {},
}

// annotationText returns the text of a type annotation without its leading colon.
func (parsedFile *ParsedFile) annotationText(annotation *sitter.Node) string {
	if annotation == nil {
		return ""
	}
	if annotation.NamedChildCount() == 0 {
		return parsedFile.text(annotation)
	}
	return parsedFile.text(annotation.NamedChild(0))
}

// literalType infers the type of an initializer expression. Anything that is
// not an obvious literal is reported as any.
func (parsedFile *ParsedFile) literalType(value *sitter.Node) string {
	if value == nil {
		return anyTypeText
	}
	switch value.Type() {
	case "number":
		return numberTypeText
	case "string", "template_string":
		return stringTypeText
	case "true", "false":
		return booleanTypeText
	case "array":
		return anyArrayText
	case "unary_expression":
		if argument := value.ChildByFieldName("argument"); argument != nil && argument.Type() == "number" {
			return numberTypeText
		}
	case "parenthesized_expression":
		if value.NamedChildCount() == 1 {
			return parsedFile.literalType(value.NamedChild(0))
		}
	case "new_expression":
		if constructorNode := value.ChildByFieldName(constructorField); constructorNode != nil {
			return parsedFile.text(constructorNode)
		}
	}
	return anyTypeText
}

// returnTypeText returns the declared return type, or infers one from the
// first valued return statement in the body. Async functions wrap the
// inferred type in a Promise.
func (parsedFile *ParsedFile) returnTypeText(function *sitter.Node, isAsync bool) string {
	if declared := parsedFile.annotationText(function.ChildByFieldName(returnTypeField)); declared != "" {
		return declared
	}
	body := function.ChildByFieldName(bodyField)
	if body == nil {
		return anyTypeText
	}
	inferred := voidTypeText
	if returnedValue := firstReturnedValue(body); returnedValue != nil {
		inferred = parsedFile.literalType(returnedValue)
	}
	if isAsync {
		return fmt.Sprintf(promiseFormat, inferred)
	}
	return inferred
}

func firstReturnedValue(node *sitter.Node) *sitter.Node {
	for index := 0; index < int(node.NamedChildCount()); index++ {
		child := node.NamedChild(index)
		if _, nested := nestedScopeNodeTypes[child.Type()]; nested {
			continue
		}
		if child.Type() == returnStatementNodeType {
			if child.NamedChildCount() > 0 {
				return child.NamedChild(0)
			}
			continue
		}
		if found := firstReturnedValue(child); found != nil {
			return found
		}
	}
	return nil
}
