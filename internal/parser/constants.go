// Package parser parses TypeScript source files with tree-sitter and exposes
// their top-level declarations through signature.SyntaxTree.
package parser

import "errors"

// ErrParserUnavailable indicates that the binary was built without cgo, so the tree-sitter grammars are missing.
var ErrParserUnavailable = errors.New("parser: tree-sitter requires a cgo-enabled build")

const (
	// DefaultCacheSize bounds the number of parsed files retained during a run.
	DefaultCacheSize = 4096

	tsxFileExtension = ".tsx"

	errorParseFormat       = "parsing %s: %w"
	errorCacheCreateFormat = "creating parse cache: %w"
	warningSyntaxErrors    = "source contains syntax errors"

	exportStatementNodeType          = "export_statement"
	ambientDeclarationNodeType       = "ambient_declaration"
	functionDeclarationNodeType      = "function_declaration"
	functionSignatureNodeType        = "function_signature"
	generatorFunctionDeclarationType = "generator_function_declaration"
	functionExpressionNodeType       = "function_expression"
	legacyFunctionNodeType           = "function"
	classDeclarationNodeType         = "class_declaration"
	abstractClassDeclarationNodeType = "abstract_class_declaration"
	classExpressionNodeType          = "class"
	interfaceDeclarationNodeType     = "interface_declaration"
	methodDefinitionNodeType         = "method_definition"
	methodSignatureNodeType          = "method_signature"
	abstractMethodSignatureNodeType  = "abstract_method_signature"
	publicFieldDefinitionNodeType    = "public_field_definition"
	propertySignatureNodeType        = "property_signature"
	requiredParameterNodeType        = "required_parameter"
	optionalParameterNodeType        = "optional_parameter"
	restPatternNodeType              = "rest_pattern"
	returnStatementNodeType          = "return_statement"
	arrowFunctionNodeType            = "arrow_function"
	generatorFunctionNodeType        = "generator_function"

	asyncKeyword    = "async"
	getterKeyword   = "get"
	setterKeyword   = "set"
	constructorName = "constructor"

	nameField        = "name"
	declarationField = "declaration"
	valueField       = "value"
	bodyField        = "body"
	parametersField  = "parameters"
	patternField     = "pattern"
	typeField        = "type"
	returnTypeField  = "return_type"
	constructorField = "constructor"

	anyTypeText     = "any"
	voidTypeText    = "void"
	numberTypeText  = "number"
	stringTypeText  = "string"
	booleanTypeText = "boolean"
	anyArrayText    = "any[]"
	promiseFormat   = "Promise<%s>"
)
