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

// Package textchanges collects declarative edits against parsed files and
// turns them into ordered, non-overlapping text replacements.
package textchanges

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"bennypowers.dev/tsincr/format"
	"bennypowers.dev/tsincr/internal/debug"
	"bennypowers.dev/tsincr/internal/metrics"
	"bennypowers.dev/tsincr/snapshot"
	"bennypowers.dev/tsincr/syntax"
	"bennypowers.dev/tsincr/synth"
)

type newFile struct {
	oldFile    *syntax.File
	fileName   string
	statements []synth.Node
}

// Tracker accumulates edits. It is used by one request and consumed by
// GetChanges.
type Tracker struct {
	settings format.Settings
	newLine  string
	factory  *synth.Factory

	changes  []Change
	newFiles []newFile
	// insertedAtStart lists class and object bodies that received members
	// at their opening brace, in first-insertion order.
	insertedAtStart []syntax.Node
	deleted         []syntax.Node
	done            bool
}

// New returns an empty tracker that formats with settings.
func New(settings format.Settings) *Tracker {
	settings = settings.WithDefaults()
	return &Tracker{settings: settings, newLine: settings.NewLineCharacter, factory: synth.NewFactory()}
}

// Factory returns a factory for building synthetic nodes.
func (t *Tracker) Factory() *synth.Factory { return t.factory }

func (t *Tracker) push(c Change) {
	debug.Assert(!t.done, "tracker already finalized")
	r := c.Range()
	debug.Assert(r.Pos <= r.End && r.End <= len(c.File().Text()), "bad range [%d, %d)", r.Pos, r.End)
	t.changes = append(t.changes, c)
}

// PushRaw records a change as is.
func (t *Tracker) PushRaw(c Change) { t.push(c) }

// DeleteRange removes r from file.
func (t *Tracker) DeleteRange(file *syntax.File, r syntax.TextRange) {
	t.push(Remove{changeBase{file, r}})
}

// Delete schedules a declaration for removal. The cleanup for its kind runs
// in GetChanges, once every deletion is known.
func (t *Tracker) Delete(node syntax.Node) {
	debug.Assert(!t.done, "tracker already finalized")
	if !slices.Contains(t.deleted, node) {
		t.deleted = append(t.deleted, node)
	}
}

// DeleteNode removes node. A zero LeadingTrivia includes all leading
// trivia on the node's line.
func (t *Tracker) DeleteNode(node syntax.Node, opts ConfigurableStartEnd) {
	if opts.LeadingTrivia == LeadingTriviaDefault {
		opts.LeadingTrivia = LeadingTriviaIncludeAll
	}
	t.DeleteRange(node.File(), nodeRange(node, opts))
}

// DeleteNodes removes each of nodes.
func (t *Tracker) DeleteNodes(nodes []syntax.Node, opts ConfigurableStartEnd) {
	for _, n := range nodes {
		t.DeleteNode(n, opts)
	}
}

// DeleteNodeRange removes everything from start to end.
func (t *Tracker) DeleteNodeRange(start, end syntax.Node, opts ConfigurableStartEnd) {
	if opts.LeadingTrivia == LeadingTriviaDefault {
		opts.LeadingTrivia = LeadingTriviaIncludeAll
	}
	t.DeleteRange(start.File(), syntax.TextRange{
		Pos: AdjustedStart(start, opts.LeadingTrivia),
		End: AdjustedEnd(end, opts.TrailingTrivia),
	})
}

// DeleteNodeRangeExcludingEnd removes from start up to where afterEnd's
// edit would begin, or to the end of the file when afterEnd is zero.
func (t *Tracker) DeleteNodeRangeExcludingEnd(start, afterEnd syntax.Node, opts ConfigurableStartEnd) {
	if opts.LeadingTrivia == LeadingTriviaDefault {
		opts.LeadingTrivia = LeadingTriviaIncludeAll
	}
	file := start.File()
	end := len(file.Text())
	if afterEnd.Valid() {
		end = AdjustedStart(afterEnd, opts.LeadingTrivia)
	}
	t.DeleteRange(file, syntax.TextRange{Pos: AdjustedStart(start, opts.LeadingTrivia), End: end})
}

// ReplaceRange replaces r with n.
func (t *Tracker) ReplaceRange(file *syntax.File, r syntax.TextRange, n synth.Node, opts InsertNodeOptions) {
	t.push(ReplaceWithSingleNode{changeBase{file, r}, n, opts})
}

// ReplaceNode replaces old with n. Zero trivia options replace exactly the
// node's tokens.
func (t *Tracker) ReplaceNode(old syntax.Node, n synth.Node, opts ChangeNodeOptions) {
	if opts.ConfigurableStartEnd == (ConfigurableStartEnd{}) {
		opts.ConfigurableStartEnd = useNonAdjustedPositions
	}
	t.ReplaceRange(old.File(), nodeRange(old, opts.ConfigurableStartEnd), n, opts.InsertNodeOptions)
}

// ReplaceNodeRange replaces everything from start to end with n.
func (t *Tracker) ReplaceNodeRange(start, end syntax.Node, n synth.Node, opts ChangeNodeOptions) {
	if opts.ConfigurableStartEnd == (ConfigurableStartEnd{}) {
		opts.ConfigurableStartEnd = useNonAdjustedPositions
	}
	r := syntax.TextRange{
		Pos: AdjustedStart(start, opts.LeadingTrivia),
		End: AdjustedEnd(end, opts.TrailingTrivia),
	}
	t.ReplaceRange(start.File(), r, n, opts.InsertNodeOptions)
}

// ReplaceRangeWithNodes replaces r with ns.
func (t *Tracker) ReplaceRangeWithNodes(file *syntax.File, r syntax.TextRange, ns []synth.Node, opts MultipleNodesOptions) {
	t.push(ReplaceWithMultipleNodes{changeBase{file, r}, ns, opts})
}

// ReplaceNodeWithNodes replaces old with ns.
func (t *Tracker) ReplaceNodeWithNodes(old syntax.Node, ns []synth.Node, opts MultipleNodesOptions) {
	t.ReplaceRangeWithNodes(old.File(), nodeRange(old, useNonAdjustedPositions), ns, opts)
}

// ReplaceNodeRangeWithNodes replaces everything from start to end with ns.
func (t *Tracker) ReplaceNodeRangeWithNodes(start, end syntax.Node, ns []synth.Node, opts MultipleNodesOptions) {
	r := syntax.TextRange{Pos: start.Pos(), End: end.End()}
	t.ReplaceRangeWithNodes(start.File(), r, ns, opts)
}

// ReplaceNodeWithText replaces old's tokens with text.
func (t *Tracker) ReplaceNodeWithText(old syntax.Node, text string) {
	t.ReplaceRangeWithText(old.File(), nodeRange(old, useNonAdjustedPositions), text)
}

// ReplaceRangeWithText replaces r with text.
func (t *Tracker) ReplaceRangeWithText(file *syntax.File, r syntax.TextRange, text string) {
	t.push(ReplaceWithText{changeBase{file, r}, text})
}

// InsertText inserts text at pos.
func (t *Tracker) InsertText(file *syntax.File, pos int, text string) {
	t.ReplaceRangeWithText(file, syntax.TextRange{Pos: pos, End: pos}, text)
}

// InsertNodeAt inserts n at pos.
func (t *Tracker) InsertNodeAt(file *syntax.File, pos int, n synth.Node, opts InsertNodeOptions) {
	t.ReplaceRange(file, syntax.TextRange{Pos: pos, End: pos}, n, opts)
}

// InsertNodesAt inserts ns at pos.
func (t *Tracker) InsertNodesAt(file *syntax.File, pos int, ns []synth.Node, opts MultipleNodesOptions) {
	t.ReplaceRangeWithNodes(file, syntax.TextRange{Pos: pos, End: pos}, ns, opts)
}

// InsertNodeAtTopOfFile inserts n after any shebang, prologue directives,
// triple-slash directives and header comments.
func (t *Tracker) InsertNodeAtTopOfFile(file *syntax.File, n synth.Node, blankLineBetween bool) {
	pos := insertionPositionAtTop(file)
	text := file.Text()
	opts := InsertNodeOptions{}
	if pos != 0 {
		opts.Prefix = t.newLine
	}
	if pos >= len(text) || !syntax.IsLineBreak(text[pos]) {
		opts.Suffix = t.newLine
	}
	if blankLineBetween {
		opts.Suffix += t.newLine
	}
	t.InsertNodeAt(file, pos, n, opts)
}

func isPrologue(n syntax.Node) bool {
	if n.Kind() != syntax.KindExpressionStatement {
		return false
	}
	expr := n.NamedChildren()
	return len(expr) == 1 && expr[0].Kind() == syntax.KindString
}

func insertionPositionAtTop(file *syntax.File) int {
	text := file.Text()
	stmts := file.Statements()
	advance := func(pos int) int {
		if pos < len(text) && syntax.IsLineBreak(text[pos]) {
			if text[pos] == '\r' && pos+1 < len(text) && text[pos+1] == '\n' {
				pos++
			}
			pos++
		}
		return pos
	}

	var lastPrologue syntax.Node
	for _, s := range stmts {
		if !isPrologue(s) {
			break
		}
		lastPrologue = s
	}
	if lastPrologue.Valid() {
		return advance(lastPrologue.End())
	}

	pos := 0
	if strings.HasPrefix(text, "#!") {
		pos = advance(file.LineEndOf(0))
	}
	firstStmt := len(text)
	for _, s := range stmts {
		if s.Pos() >= pos && s.Kind() != syntax.KindUnknown {
			firstStmt = s.Pos()
			break
		}
	}

	var last syntax.TextRange
	found, pinned := false, false
	for _, c := range file.Comments() {
		if c.Pos < pos || c.Pos >= firstStmt {
			continue
		}
		body := text[c.Pos:c.End]
		if strings.HasPrefix(body, "/*!") || strings.HasPrefix(body, "///") && strings.Contains(body, "<") {
			last, found, pinned = c, true, true
			continue
		}
		if found {
			if pinned {
				break
			}
			if file.LineOf(c.Pos) >= file.LineOf(last.End)+2 {
				break
			}
		}
		if firstStmt < len(text) && file.LineOf(firstStmt) < file.LineOf(c.End)+2 {
			break
		}
		last, found = c, true
	}
	if found {
		pos = advance(last.End)
	}
	return pos
}

// InsertNodeBefore inserts n before before, on its own line for
// statements and class members.
func (t *Tracker) InsertNodeBefore(before syntax.Node, n synth.Node, blankLineBetween bool) {
	pos := AdjustedStart(before, LeadingTriviaDefault)
	t.InsertNodeAt(before.File(), pos, n, t.insertBeforeOptions(before, n, blankLineBetween))
}

func isClassOrTypeElement(k syntax.Kind) bool {
	switch k {
	case syntax.KindMethodDefinition, syntax.KindPublicFieldDefinition,
		syntax.KindPropertySignature, syntax.KindMethodSignature:
		return true
	}
	return false
}

func isParameter(k syntax.Kind) bool {
	return k == syntax.KindRequiredParameter || k == syntax.KindOptionalParameter
}

func (t *Tracker) insertBeforeOptions(before syntax.Node, inserted synth.Node, blankLineBetween bool) InsertNodeOptions {
	k := before.Kind()
	switch {
	case k.IsStatement() || isClassOrTypeElement(k):
		if blankLineBetween {
			return InsertNodeOptions{Suffix: t.newLine + t.newLine}
		}
		return InsertNodeOptions{Suffix: t.newLine}
	case k == syntax.KindVariableDeclarator:
		return InsertNodeOptions{Suffix: ", "}
	case isParameter(k):
		if isParameter(inserted.Kind()) {
			return InsertNodeOptions{Suffix: ", "}
		}
		return InsertNodeOptions{}
	case k == syntax.KindString && before.Parent().Kind() == syntax.KindImportStatement,
		k == syntax.KindNamedImports:
		return InsertNodeOptions{Suffix: ", "}
	case k == syntax.KindImportSpecifier:
		if blankLineBetween {
			return InsertNodeOptions{Suffix: "," + t.newLine}
		}
		return InsertNodeOptions{Suffix: ", "}
	}
	debug.Fail("cannot insert before %s", k)
	return InsertNodeOptions{}
}

// InsertNodeAfter inserts n after after.
func (t *Tracker) InsertNodeAfter(after syntax.Node, n synth.Node) {
	pos := t.insertAfterPosition(after, n)
	t.InsertNodeAt(after.File(), pos, n, t.insertAfterOptions(after))
}

// InsertNodesAfter inserts ns after after.
func (t *Tracker) InsertNodesAfter(after syntax.Node, ns []synth.Node) {
	debug.Assert(len(ns) > 0, "no nodes to insert")
	pos := t.insertAfterPosition(after, ns[0])
	t.InsertNodesAt(after.File(), pos, ns, MultipleNodesOptions{InsertNodeOptions: t.insertAfterOptions(after)})
}

func isStatementButNotDeclaration(k syntax.Kind) bool {
	switch k {
	case syntax.KindExpressionStatement, syntax.KindReturnStatement,
		syntax.KindIfStatement, syntax.KindForStatement, syntax.KindForInStatement,
		syntax.KindWhileStatement, syntax.KindDoStatement, syntax.KindThrowStatement,
		syntax.KindBreakStatement, syntax.KindContinueStatement, syntax.KindEmptyStatement:
		return true
	}
	return false
}

func (t *Tracker) insertAfterPosition(after syntax.Node, n synth.Node) int {
	file := after.File()
	if isStatementButNotDeclaration(after.Kind()) && isStatementButNotDeclaration(n.Kind()) {
		if text := file.Text(); text[after.End()-1] != ';' {
			t.ReplaceRange(file, syntax.TextRange{Pos: after.End(), End: after.End()}, t.factory.Token(";"), InsertNodeOptions{})
		}
	}
	return AdjustedEnd(after, TrailingTriviaDefault)
}

func (t *Tracker) insertAfterOptions(after syntax.Node) InsertNodeOptions {
	opts := t.insertAfterOptionsFor(after)
	if after.End() == len(after.File().Text()) && after.Kind().IsStatement() {
		opts.Prefix = t.newLine + opts.Prefix
	}
	return opts
}

func (t *Tracker) insertAfterOptionsFor(after syntax.Node) InsertNodeOptions {
	switch k := after.Kind(); {
	case k == syntax.KindClassDeclaration, k == syntax.KindAbstractClassDeclaration,
		k == syntax.KindInternalModule, k == syntax.KindModule:
		return InsertNodeOptions{Prefix: t.newLine, Suffix: t.newLine}
	case k == syntax.KindVariableDeclarator, k == syntax.KindString, k == syntax.KindIdentifier:
		return InsertNodeOptions{Prefix: ", "}
	case k == syntax.KindPair:
		return InsertNodeOptions{Suffix: "," + t.newLine}
	case k == syntax.KindKeyword && after.Text() == "export":
		return InsertNodeOptions{Prefix: " "}
	case isParameter(k):
		return InsertNodeOptions{}
	default:
		debug.Assert(k.IsStatement() || isClassOrTypeElement(k), "cannot insert after %s", k)
		return InsertNodeOptions{Suffix: t.newLine}
	}
}

// membersContainer returns the braced body of a class, interface or object.
func membersContainer(node syntax.Node) syntax.Node {
	switch node.Kind() {
	case syntax.KindClassBody, syntax.KindObject, syntax.KindInterfaceBody, syntax.KindObjectType:
		return node
	}
	if body := node.ChildByField("body"); body.Valid() {
		return body
	}
	debug.Fail("%s has no member list", node.Kind())
	return syntax.Node{}
}

func members(body syntax.Node) []syntax.Node { return body.NamedChildren() }

// InsertNodeAtClassStart inserts n as the first member of a class or
// interface.
func (t *Tracker) InsertNodeAtClassStart(cls syntax.Node, n synth.Node) {
	t.insertNodeAtStart(membersContainer(cls), n)
}

// InsertNodeAtObjectStart inserts n as the first property of an object
// literal.
func (t *Tracker) InsertNodeAtObjectStart(obj syntax.Node, n synth.Node) {
	t.insertNodeAtStart(membersContainer(obj), n)
}

func (t *Tracker) insertNodeAtStart(body syntax.Node, n synth.Node) {
	file := body.File()
	indentation, ok := t.guessIndentationFromMembers(body)
	if !ok {
		indentation = file.Indentation(body.Parent().Pos(), t.settings.TabSize) + t.settings.IndentSize
	}
	open := body.FirstChild()
	debug.Assert(open.Kind() == syntax.KindOpenBrace, "%s does not start with a brace", body.Kind())

	isEmpty := len(members(body)) == 0
	if !slices.Contains(t.insertedAtStart, body) {
		t.insertedAtStart = append(t.insertedAtStart, body)
	}
	opts := InsertNodeOptions{Indentation: Indent(indentation), Prefix: t.newLine}
	switch {
	case body.Kind() == syntax.KindObject:
		opts.Suffix = ","
	case body.Kind() == syntax.KindInterfaceBody && isEmpty:
		opts.Suffix = ";"
	}
	t.InsertNodeAt(file, open.End(), n, opts)
}

// guessIndentationFromMembers returns the shared indentation of existing
// members when each starts on its own line.
func (t *Tracker) guessIndentationFromMembers(body syntax.Node) (int, bool) {
	file := body.File()
	indentation := -1
	lastStart := body.Pos()
	for _, m := range members(body) {
		if onSameLine(file, lastStart, m.Pos()) {
			return 0, false
		}
		col := file.Indentation(m.Pos(), t.settings.TabSize)
		if indentation == -1 {
			indentation = col
		} else if col != indentation {
			return 0, false
		}
		lastStart = m.Pos()
	}
	return indentation, indentation >= 0
}

// finishInsertionsAtStart puts the closing brace of single-line bodies that
// received members on its own line.
func (t *Tracker) finishInsertionsAtStart() {
	for _, body := range t.insertedAtStart {
		file := body.File()
		openEnd := body.FirstChild().End()
		closeEnd := body.LastChild().End()
		isEmpty := len(members(body)) == 0
		singleLine := onSameLine(file, openEnd, closeEnd)
		if isEmpty && singleLine && openEnd != closeEnd-1 {
			t.DeleteRange(file, syntax.TextRange{Pos: openEnd, End: closeEnd - 1})
		}
		if singleLine {
			t.InsertText(file, closeEnd-1, t.newLine)
		}
	}
}

// InsertNodeInListAfter inserts n into after's list, directly after it.
func (t *Tracker) InsertNodeInListAfter(after syntax.Node, n synth.Node) {
	file := after.File()
	text := file.Text()
	list := after.ContainingList()
	debug.Assert(list.Valid(), "%s is not a list element", after.Kind())
	elems := list.ListElements()
	index := slices.Index(elems, after)
	if index < 0 {
		return
	}
	end := after.End()

	if index != len(elems)-1 {
		next := file.NextToken(end)
		if next.Valid() && next.IsSeparator() {
			nextElem := elems[index+1]
			startPos := syntax.SkipWhitespace(text, nextElem.FullStart())
			suffix := next.Text() + text[next.End():startPos]
			t.InsertNodesAt(file, startPos, []synth.Node{n}, MultipleNodesOptions{InsertNodeOptions: InsertNodeOptions{Suffix: suffix}})
		}
		return
	}

	afterStart := after.Pos()
	afterLine := file.LineStartOf(afterStart)
	separator := ","
	multiline := false
	if len(elems) > 1 {
		if prev := file.PrecedingToken(afterStart); prev.Valid() && prev.IsSeparator() && prev.Parent() == list {
			separator = prev.Text()
		}
		multiline = file.LineStartOf(elems[index-1].Pos()) != afterLine
	}
	if hasCommentsBeforeLineBreak(text, end) || !onSameLine(file, elems[0].FullStart(), elems[len(elems)-1].End()) {
		multiline = true
	}
	if !multiline {
		t.InsertNodeAt(file, end, n, InsertNodeOptions{Prefix: separator + " "})
		return
	}
	t.ReplaceRange(file, syntax.TextRange{Pos: end, End: end}, t.factory.Token(separator), InsertNodeOptions{})
	indentation := file.Indentation(afterStart, t.settings.TabSize)
	insertPos := syntax.SkipTrivia(text, end, syntax.TriviaOptions{StopAfterLineBreak: true})
	for insertPos != end && syntax.IsLineBreak(text[insertPos-1]) {
		insertPos--
	}
	t.InsertNodeAt(file, insertPos, n, InsertNodeOptions{Indentation: Indent(indentation), Prefix: t.newLine})
}

// CreateNewFile records a file to be created with statements. A zero
// Node among statements produces a blank line.
func (t *Tracker) CreateNewFile(oldFile *syntax.File, fileName string, statements []synth.Node) {
	debug.Assert(!t.done, "tracker already finalized")
	t.newFiles = append(t.newFiles, newFile{oldFile, fileName, statements})
}

// GetChanges finalizes the tracker and returns the edits per file. It may
// be called once.
func (t *Tracker) GetChanges() []FileTextChanges {
	debug.Assert(!t.done, "tracker already finalized")
	t.finishDeleteDeclarations()
	t.finishInsertionsAtStart()
	t.done = true

	var (
		files  []*syntax.File
		byFile = make(map[*syntax.File][]Change)
	)
	for _, c := range t.changes {
		f := c.File()
		if _, ok := byFile[f]; !ok {
			files = append(files, f)
		}
		byFile[f] = append(byFile[f], c)
	}

	var out []FileTextChanges
	total := 0
	for _, f := range files {
		changes := byFile[f]
		slices.SortStableFunc(changes, func(a, b Change) int {
			ra, rb := a.Range(), b.Range()
			return cmp.Or(cmp.Compare(ra.Pos, rb.Pos), cmp.Compare(ra.End, rb.End))
		})
		for i := 0; i+1 < len(changes); i++ {
			a, b := changes[i].Range(), changes[i+1].Range()
			debug.Assert(a.End <= b.Pos, "changes overlap in %s: [%d, %d) and [%d, %d)", f.Path(), a.Pos, a.End, b.Pos, b.End)
		}
		var textChanges []TextChange
		for _, c := range changes {
			r := c.Range()
			newText := t.computeNewText(c)
			if r.Len() == len(newText) && f.Text()[r.Pos:r.End] == newText {
				continue
			}
			textChanges = append(textChanges, TextChange{Span: snapshot.TextSpan{Start: r.Pos, Length: r.Len()}, NewText: newText})
		}
		if len(textChanges) > 0 {
			out = append(out, FileTextChanges{FileName: f.Path(), TextChanges: textChanges})
			total += len(textChanges)
		}
	}
	for _, nf := range t.newFiles {
		text, err := GetNewFileText(nf.fileName, nf.statements, t.settings)
		if err != nil {
			debug.Fail("%v", err)
		}
		out = append(out, FileTextChanges{
			FileName:    nf.fileName,
			TextChanges: []TextChange{{NewText: text}},
			IsNewFile:   true,
		})
		total++
	}
	metrics.RecordTextChanges(total)
	return out
}

func (t *Tracker) String() string {
	return fmt.Sprintf("Tracker{%d changes, %d deletions, %d new files}", len(t.changes), len(t.deleted), len(t.newFiles))
}
