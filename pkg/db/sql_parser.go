/*
 * Copyright 2026 The Sovi Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"strings"
	"unicode"
)

// sqlSplitter walks a migration file byte by byte and cuts it on top-level
// semicolons. Quoted strings, identifiers and dollar-quoted bodies are copied
// through untouched; comments are dropped.
type sqlSplitter struct {
	src        string
	pos        int
	current    strings.Builder
	statements []string

	singleQuote  bool
	doubleQuote  bool
	lineComment  bool
	blockComment bool
	dollarTag    string
}

func splitSQLStatements(content string) []string {
	s := &sqlSplitter{src: content}

	for s.pos < len(s.src) {
		s.step()
	}

	s.flush()

	return s.statements
}

func (s *sqlSplitter) step() {
	ch := s.src[s.pos]

	switch {
	case s.lineComment:
		if ch == '\n' {
			s.lineComment = false
			s.current.WriteByte(ch)
		}

		s.pos++
	case s.blockComment:
		if s.hasPrefix("*/") {
			s.blockComment = false
			s.pos += 2

			return
		}

		s.pos++
	case s.dollarTag != "":
		if s.hasPrefix(s.dollarTag) {
			s.emit(s.dollarTag)
			s.dollarTag = ""

			return
		}

		s.emit(string(ch))
	case s.singleQuote || s.doubleQuote:
		s.quoted(ch)
	default:
		s.plain(ch)
	}
}

func (s *sqlSplitter) quoted(ch byte) {
	if s.singleQuote && ch == '\'' {
		s.singleQuote = false
	} else if s.doubleQuote && ch == '"' {
		s.doubleQuote = false
	}

	s.emit(string(ch))
}

func (s *sqlSplitter) plain(ch byte) {
	switch {
	case s.hasPrefix("--"):
		s.lineComment = true
		s.pos += 2
	case s.hasPrefix("/*"):
		s.blockComment = true
		s.pos += 2
	case ch == '$':
		if tag := dollarTagAt(s.src[s.pos:]); tag != "" {
			s.dollarTag = tag
			s.emit(tag)

			return
		}

		s.emit("$")
	case ch == '\'':
		s.singleQuote = true
		s.emit("'")
	case ch == '"':
		s.doubleQuote = true
		s.emit(`"`)
	case ch == ';':
		s.flush()
		s.pos++
	default:
		s.emit(string(ch))
	}
}

func (s *sqlSplitter) hasPrefix(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

func (s *sqlSplitter) emit(text string) {
	s.current.WriteString(text)
	s.pos += len(text)
}

func (s *sqlSplitter) flush() {
	if stmt := strings.TrimSpace(s.current.String()); stmt != "" {
		s.statements = append(s.statements, stmt)
	}

	s.current.Reset()
}

// dollarTagAt returns the $tag$ or $$ opening content, if any.
func dollarTagAt(content string) string {
	if content == "" || content[0] != '$' {
		return ""
	}

	for i := 1; i < len(content); i++ {
		ch := content[i]
		if ch == '$' {
			return content[:i+1]
		}

		if ch != '_' && !unicode.IsLetter(rune(ch)) && !unicode.IsDigit(rune(ch)) {
			return ""
		}
	}

	return ""
}

// migrationVersion returns the numeric prefix of a migration file name.
func migrationVersion(filename string) string {
	version, _, _ := strings.Cut(filename, "_")

	return version
}
