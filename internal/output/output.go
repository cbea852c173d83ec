package output

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/temirov/sigmap/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	directorySuffix    = "/"
	descriptionMarker  = " // "
	asyncPrefix        = "async "
	functionKeyword    = "function "
	interfaceKeyword   = "interface "
	classKeyword       = "class "
	constructorKeyword = "constructor"
	parameterSeparator = ", "
	typeSeparator      = ": "
	propertyTerminator = ";"
	interfaceBodyOpen  = " {"
	interfaceBodyClose = "}"
	parameterListOpen  = "("
	parameterListClose = ")"
	lineTerminator     = "\n"
	memberIndentLevels = 1
	classMemberIndent  = 2
)

// RenderOutline renders nodes as indented text, two spaces per level starting
// at indentLevel. Directories end with a slash; files list their functions,
// interfaces and classes one level deeper and class members two levels deeper.
func RenderOutline(nodes []*types.TreeNode, indentLevel int) string {
	var buffer bytes.Buffer
	for _, node := range nodes {
		writeOutlineNode(&buffer, node, indentLevel)
	}
	return buffer.String()
}

// RenderDocument renders the outline of root preceded by header on its own
// line. An empty header is omitted.
func RenderDocument(header string, root *types.TreeNode) string {
	var buffer bytes.Buffer
	if strings.TrimSpace(header) != "" {
		buffer.WriteString(header + lineTerminator)
	}
	if root != nil {
		buffer.WriteString(RenderOutline([]*types.TreeNode{root}, 0))
	}
	return buffer.String()
}

// RenderTreeJSON marshals root with two-space indentation.
func RenderTreeJSON(root *types.TreeNode) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(root, indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return "", jsonEncodeError
	}
	return string(encoded), nil
}

func writeOutlineNode(buffer *bytes.Buffer, node *types.TreeNode, indentLevel int) {
	if node == nil {
		return
	}
	indent := strings.Repeat(indentSpacer, indentLevel)
	isFile := node.Type == types.NodeTypeFile

	buffer.WriteString(indent + node.Name)
	if node.Type == types.NodeTypeDirectory {
		buffer.WriteString(directorySuffix)
	}
	if isFile {
		buffer.WriteString(describedSuffix(node.Description))
	}
	buffer.WriteString(lineTerminator)

	if isFile && node.Signatures != nil {
		memberIndent := strings.Repeat(indentSpacer, indentLevel+memberIndentLevels)
		for _, function := range node.Signatures.Functions {
			buffer.WriteString(memberIndent + callableLine(function, true) + lineTerminator)
		}
		for _, declaredInterface := range node.Signatures.Interfaces {
			buffer.WriteString(memberIndent + interfaceKeyword + declaredInterface.Name + interfaceBodyOpen + parameterList(declaredInterface.Properties) + interfaceBodyClose + lineTerminator)
		}
		for _, declaredClass := range node.Signatures.Classes {
			writeClass(buffer, declaredClass, indentLevel)
		}
	}

	for _, child := range node.Children {
		writeOutlineNode(buffer, child, indentLevel+1)
	}
}

func writeClass(buffer *bytes.Buffer, declaredClass types.ClassSignature, indentLevel int) {
	classIndent := strings.Repeat(indentSpacer, indentLevel+memberIndentLevels)
	memberIndent := strings.Repeat(indentSpacer, indentLevel+classMemberIndent)

	buffer.WriteString(classIndent + classKeyword + declaredClass.Name + describedSuffix(declaredClass.Description) + lineTerminator)
	if len(declaredClass.ConstructorParameters) > 0 {
		buffer.WriteString(memberIndent + constructorKeyword + parameterListOpen + parameterList(declaredClass.ConstructorParameters) + parameterListClose + lineTerminator)
	}
	for _, property := range declaredClass.Properties {
		buffer.WriteString(memberIndent + property.Name + typeSeparator + property.Type + propertyTerminator + lineTerminator)
	}
	for _, method := range declaredClass.Methods {
		buffer.WriteString(memberIndent + callableLine(method, false) + lineTerminator)
	}
}

// callableLine formats "[async ][function ]name(p: T, ...): R[ // description]".
func callableLine(function types.FunctionSignature, withKeyword bool) string {
	var builder strings.Builder
	if function.IsAsync {
		builder.WriteString(asyncPrefix)
	}
	if withKeyword {
		builder.WriteString(functionKeyword)
	}
	builder.WriteString(function.Name)
	builder.WriteString(parameterListOpen + parameterList(function.Parameters) + parameterListClose)
	builder.WriteString(typeSeparator + function.ReturnType)
	builder.WriteString(describedSuffix(function.Description))
	return builder.String()
}

func parameterList(parameters []types.Parameter) string {
	formatted := make([]string, 0, len(parameters))
	for _, parameter := range parameters {
		formatted = append(formatted, parameter.Name+typeSeparator+parameter.Type)
	}
	return strings.Join(formatted, parameterSeparator)
}

func describedSuffix(description string) string {
	if description == "" {
		return ""
	}
	return descriptionMarker + description
}
