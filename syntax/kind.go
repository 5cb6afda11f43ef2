/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package syntax

import "strconv"

// Kind classifies nodes of a parsed TypeScript file. Named grammar nodes map
// to their own kind; anonymous tokens map to a punctuation kind or
// KindKeyword.
type Kind int

const (
	KindUnknown Kind = iota

	// Tokens
	KindComma
	KindSemicolon
	KindOpenParen
	KindCloseParen
	KindOpenBrace
	KindCloseBrace
	KindOpenBracket
	KindCloseBracket
	KindLessThan
	KindGreaterThan
	KindEquals
	KindArrow
	KindColon
	KindDot
	KindKeyword
	KindPunctuation

	// Names and literals
	KindIdentifier
	KindPropertyIdentifier
	KindTypeIdentifier
	KindShorthandPropertyIdentifier
	KindShorthandPropertyIdentifierPattern
	KindString
	KindStringFragment
	KindNumber
	KindTemplateString
	KindRegex
	KindTrue
	KindFalse
	KindNull
	KindUndefined
	KindThis
	KindPredefinedType

	KindProgram
	KindComment
	KindError

	// Imports and exports
	KindImportStatement
	KindImportClause
	KindNamedImports
	KindImportSpecifier
	KindNamespaceImport
	KindImportRequireClause
	KindExportStatement
	KindExportClause
	KindExportSpecifier
	KindNamespaceExport

	// Declarations
	KindLexicalDeclaration
	KindVariableDeclaration
	KindVariableDeclarator
	KindFunctionDeclaration
	KindGeneratorFunctionDeclaration
	KindFunctionSignature
	KindClassDeclaration
	KindAbstractClassDeclaration
	KindClassBody
	KindMethodDefinition
	KindPublicFieldDefinition
	KindInterfaceDeclaration
	KindInterfaceBody
	KindObjectType
	KindPropertySignature
	KindMethodSignature
	KindTypeAliasDeclaration
	KindEnumDeclaration
	KindEnumBody
	KindAmbientDeclaration
	KindModule
	KindInternalModule

	// Signatures
	KindFormalParameters
	KindRequiredParameter
	KindOptionalParameter
	KindTypeParameters
	KindTypeParameter
	KindTypeArguments
	KindTypeAnnotation

	// Binding patterns
	KindArrayPattern
	KindObjectPattern
	KindPairPattern
	KindAssignmentPattern
	KindObjectAssignmentPattern
	KindRestPattern

	// Statements
	KindStatementBlock
	KindExpressionStatement
	KindReturnStatement
	KindIfStatement
	KindElseClause
	KindForStatement
	KindForInStatement
	KindWhileStatement
	KindDoStatement
	KindTryStatement
	KindCatchClause
	KindFinallyClause
	KindThrowStatement
	KindSwitchStatement
	KindSwitchBody
	KindSwitchCase
	KindSwitchDefault
	KindBreakStatement
	KindContinueStatement
	KindEmptyStatement
	KindLabeledStatement

	// Expressions
	KindCallExpression
	KindArguments
	KindMemberExpression
	KindSubscriptExpression
	KindBinaryExpression
	KindUnaryExpression
	KindUpdateExpression
	KindAssignmentExpression
	KindAugmentedAssignmentExpression
	KindTernaryExpression
	KindParenthesizedExpression
	KindArrowFunction
	KindFunctionExpression
	KindGeneratorFunction
	KindClass
	KindNewExpression
	KindAwaitExpression
	KindAsExpression
	KindSatisfiesExpression
	KindNonNullExpression
	KindArray
	KindObject
	KindPair
	KindSpreadElement
	KindImport

	kindCount
)

var namedKinds = map[string]Kind{
	"identifier":                            KindIdentifier,
	"property_identifier":                   KindPropertyIdentifier,
	"type_identifier":                       KindTypeIdentifier,
	"shorthand_property_identifier":         KindShorthandPropertyIdentifier,
	"shorthand_property_identifier_pattern": KindShorthandPropertyIdentifierPattern,
	"string":                                KindString,
	"string_fragment":                       KindStringFragment,
	"number":                                KindNumber,
	"template_string":                       KindTemplateString,
	"regex":                                 KindRegex,
	"true":                                  KindTrue,
	"false":                                 KindFalse,
	"null":                                  KindNull,
	"undefined":                             KindUndefined,
	"this":                                  KindThis,
	"predefined_type":                       KindPredefinedType,
	"program":                               KindProgram,
	"comment":                               KindComment,
	"ERROR":                                 KindError,
	"import_statement":                      KindImportStatement,
	"import_clause":                         KindImportClause,
	"named_imports":                         KindNamedImports,
	"import_specifier":                      KindImportSpecifier,
	"namespace_import":                      KindNamespaceImport,
	"import_require_clause":                 KindImportRequireClause,
	"export_statement":                      KindExportStatement,
	"export_clause":                         KindExportClause,
	"export_specifier":                      KindExportSpecifier,
	"namespace_export":                      KindNamespaceExport,
	"lexical_declaration":                   KindLexicalDeclaration,
	"variable_declaration":                  KindVariableDeclaration,
	"variable_declarator":                   KindVariableDeclarator,
	"function_declaration":                  KindFunctionDeclaration,
	"generator_function_declaration":        KindGeneratorFunctionDeclaration,
	"function_signature":                    KindFunctionSignature,
	"class_declaration":                     KindClassDeclaration,
	"abstract_class_declaration":            KindAbstractClassDeclaration,
	"class_body":                            KindClassBody,
	"method_definition":                     KindMethodDefinition,
	"public_field_definition":               KindPublicFieldDefinition,
	"interface_declaration":                 KindInterfaceDeclaration,
	"interface_body":                        KindInterfaceBody,
	"object_type":                           KindObjectType,
	"property_signature":                    KindPropertySignature,
	"method_signature":                      KindMethodSignature,
	"type_alias_declaration":                KindTypeAliasDeclaration,
	"enum_declaration":                      KindEnumDeclaration,
	"enum_body":                             KindEnumBody,
	"ambient_declaration":                   KindAmbientDeclaration,
	"module":                                KindModule,
	"internal_module":                       KindInternalModule,
	"formal_parameters":                     KindFormalParameters,
	"required_parameter":                    KindRequiredParameter,
	"optional_parameter":                    KindOptionalParameter,
	"type_parameters":                       KindTypeParameters,
	"type_parameter":                        KindTypeParameter,
	"type_arguments":                        KindTypeArguments,
	"type_annotation":                       KindTypeAnnotation,
	"array_pattern":                         KindArrayPattern,
	"object_pattern":                        KindObjectPattern,
	"pair_pattern":                          KindPairPattern,
	"assignment_pattern":                    KindAssignmentPattern,
	"object_assignment_pattern":             KindObjectAssignmentPattern,
	"rest_pattern":                          KindRestPattern,
	"statement_block":                       KindStatementBlock,
	"expression_statement":                  KindExpressionStatement,
	"return_statement":                      KindReturnStatement,
	"if_statement":                          KindIfStatement,
	"else_clause":                           KindElseClause,
	"for_statement":                         KindForStatement,
	"for_in_statement":                      KindForInStatement,
	"while_statement":                       KindWhileStatement,
	"do_statement":                          KindDoStatement,
	"try_statement":                         KindTryStatement,
	"catch_clause":                          KindCatchClause,
	"finally_clause":                        KindFinallyClause,
	"throw_statement":                       KindThrowStatement,
	"switch_statement":                      KindSwitchStatement,
	"switch_body":                           KindSwitchBody,
	"switch_case":                           KindSwitchCase,
	"switch_default":                        KindSwitchDefault,
	"break_statement":                       KindBreakStatement,
	"continue_statement":                    KindContinueStatement,
	"empty_statement":                       KindEmptyStatement,
	"labeled_statement":                     KindLabeledStatement,
	"call_expression":                       KindCallExpression,
	"arguments":                             KindArguments,
	"member_expression":                     KindMemberExpression,
	"subscript_expression":                  KindSubscriptExpression,
	"binary_expression":                     KindBinaryExpression,
	"unary_expression":                      KindUnaryExpression,
	"update_expression":                     KindUpdateExpression,
	"assignment_expression":                 KindAssignmentExpression,
	"augmented_assignment_expression":       KindAugmentedAssignmentExpression,
	"ternary_expression":                    KindTernaryExpression,
	"parenthesized_expression":              KindParenthesizedExpression,
	"arrow_function":                        KindArrowFunction,
	"function_expression":                   KindFunctionExpression,
	"generator_function":                    KindGeneratorFunction,
	"class":                                 KindClass,
	"new_expression":                        KindNewExpression,
	"await_expression":                      KindAwaitExpression,
	"as_expression":                         KindAsExpression,
	"satisfies_expression":                  KindSatisfiesExpression,
	"non_null_expression":                   KindNonNullExpression,
	"array":                                 KindArray,
	"object":                                KindObject,
	"pair":                                  KindPair,
	"spread_element":                        KindSpreadElement,
	"import":                                KindImport,
}

var tokenKinds = map[string]Kind{
	",":  KindComma,
	";":  KindSemicolon,
	"(":  KindOpenParen,
	")":  KindCloseParen,
	"{":  KindOpenBrace,
	"}":  KindCloseBrace,
	"[":  KindOpenBracket,
	"]":  KindCloseBracket,
	"<":  KindLessThan,
	">":  KindGreaterThan,
	"=":  KindEquals,
	"=>": KindArrow,
	":":  KindColon,
	".":  KindDot,
}

var kindNames = func() map[Kind]string {
	names := make(map[Kind]string, len(namedKinds)+len(tokenKinds))
	for s, k := range namedKinds {
		names[k] = s
	}
	for s, k := range tokenKinds {
		names[k] = s
	}
	names[KindUnknown] = "unknown"
	names[KindKeyword] = "keyword"
	names[KindPunctuation] = "punctuation"
	return names
}()

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// kindOf maps a tree-sitter node type to a Kind.
func kindOf(typ string, named bool) Kind {
	if named {
		if k, ok := namedKinds[typ]; ok {
			return k
		}
		return KindUnknown
	}
	if k, ok := tokenKinds[typ]; ok {
		return k
	}
	if isWord(typ) {
		return KindKeyword
	}
	return KindPunctuation
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_') {
			return false
		}
	}
	return true
}

// IsExpression reports whether k is an expression kind. Edits bounded by
// expressions never extend over trailing trivia.
func (k Kind) IsExpression() bool {
	switch k {
	case KindIdentifier, KindString, KindNumber, KindTemplateString, KindRegex,
		KindTrue, KindFalse, KindNull, KindUndefined, KindThis,
		KindCallExpression, KindMemberExpression, KindSubscriptExpression,
		KindBinaryExpression, KindUnaryExpression, KindUpdateExpression,
		KindAssignmentExpression, KindAugmentedAssignmentExpression,
		KindTernaryExpression, KindParenthesizedExpression, KindArrowFunction,
		KindFunctionExpression, KindGeneratorFunction, KindClass, KindNewExpression,
		KindAwaitExpression, KindAsExpression, KindSatisfiesExpression,
		KindNonNullExpression, KindArray, KindObject:
		return true
	}
	return false
}

// IsStatement reports whether k appears in statement position.
func (k Kind) IsStatement() bool {
	switch k {
	case KindImportStatement, KindExportStatement, KindLexicalDeclaration,
		KindVariableDeclaration, KindFunctionDeclaration,
		KindGeneratorFunctionDeclaration, KindFunctionSignature,
		KindClassDeclaration, KindAbstractClassDeclaration,
		KindInterfaceDeclaration, KindTypeAliasDeclaration, KindEnumDeclaration,
		KindAmbientDeclaration, KindInternalModule, KindModule,
		KindStatementBlock, KindExpressionStatement, KindReturnStatement,
		KindIfStatement, KindForStatement, KindForInStatement,
		KindWhileStatement, KindDoStatement, KindTryStatement,
		KindThrowStatement, KindSwitchStatement, KindBreakStatement,
		KindContinueStatement, KindEmptyStatement, KindLabeledStatement:
		return true
	}
	return false
}

// IsClassLike reports whether k is a class declaration or expression.
func (k Kind) IsClassLike() bool {
	return k == KindClassDeclaration || k == KindAbstractClassDeclaration || k == KindClass
}

// IsFunctionLike reports whether k owns a parameter list.
func (k Kind) IsFunctionLike() bool {
	switch k {
	case KindFunctionDeclaration, KindGeneratorFunctionDeclaration,
		KindFunctionSignature, KindFunctionExpression, KindGeneratorFunction,
		KindArrowFunction, KindMethodDefinition, KindMethodSignature:
		return true
	}
	return false
}

// IsList reports whether nodes of kind k hold a separated list of elements.
func (k Kind) IsList() bool {
	switch k {
	case KindFormalParameters, KindArguments, KindArray, KindArrayPattern,
		KindObject, KindObjectPattern, KindNamedImports, KindExportClause,
		KindTypeParameters, KindTypeArguments, KindObjectType, KindInterfaceBody,
		KindEnumBody:
		return true
	}
	return false
}

// IsPunctuation reports whether k is an anonymous, non-keyword token.
func (k Kind) IsPunctuation() bool {
	return k >= KindComma && k <= KindPunctuation && k != KindKeyword
}
